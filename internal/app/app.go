// Package app wires the crawler, normalizer and persistence layers into the
// crawl and generate runs.
package app

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"phoneprice/internal/cache"
	"phoneprice/internal/config"
	"phoneprice/internal/crawler"
	"phoneprice/internal/db"
	"phoneprice/internal/logger"
	"phoneprice/internal/model"
	"phoneprice/internal/normalize"
	"phoneprice/internal/observability"
	"phoneprice/internal/report"
	"phoneprice/internal/repository"
	"phoneprice/internal/rules"
)

// ErrNoRecords is returned when a run ends with nothing to persist.
var ErrNoRecords = errors.New("no records to save")

const (
	ModeCrawl    = "crawl"
	ModeGenerate = "generate"
)

type App struct {
	cfg   *config.Config
	log   logger.Logger
	runID uuid.UUID

	crawler    *crawler.Crawler
	normalizer *normalize.Normalizer
	jsonRepo   *repository.JSONRepository
	tableRepo  *repository.TableRepository

	// optional backends, nil when not configured
	dbConn  *sql.DB
	archive *repository.ArchiveRepository
	redis   *redis.Client
	history *cache.PriceHistory
	metrics *observability.Metrics

	Out io.Writer
	Now func() time.Time
}

// New builds an App from cfg. Optional backends that cannot be reached are
// logged and left disabled.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	r := rules.Default()
	if cfg.RulesFile != "" {
		loaded, err := rules.Load(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		r = loaded
	}

	extractor, err := crawler.NewExtractor(r, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:   cfg,
		log:   log,
		runID: uuid.New(),
		crawler: crawler.New(
			crawler.NewClient(cfg.UserAgent, cfg.FetchTimeout, cfg.PageEncoding),
			extractor,
			crawler.NewValidator(r),
			log,
		),
		normalizer: normalize.New(r),
		jsonRepo:   repository.NewJSONRepository(cfg.DataDir),
		tableRepo:  repository.NewTableRepository(cfg.DataDir),
		Out:        os.Stdout,
		Now:        time.Now,
	}
	a.log = log.With(logger.String("run_id", a.runID.String()))
	now := func() time.Time { return a.Now() }
	a.jsonRepo.Now = now
	a.tableRepo.Now = now

	if cfg.DatabaseURL != "" {
		a.connectArchive(ctx)
	}
	if cfg.RedisURL != "" {
		a.connectHistory(ctx)
	}
	if cfg.PushgatewayURL != "" {
		a.metrics = observability.NewMetrics()
	}

	return a, nil
}

func (a *App) connectArchive(ctx context.Context) {
	conn, err := db.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		a.log.Warn("Archive disabled", logger.Error(err))
		return
	}
	archive := &repository.ArchiveRepository{DB: conn}
	if err := archive.EnsureSchema(ctx); err != nil {
		a.log.Warn("Archive disabled", logger.Error(err))
		_ = conn.Close()
		return
	}
	a.dbConn = conn
	a.archive = archive
}

func (a *App) connectHistory(ctx context.Context) {
	opts := &redis.Options{Addr: a.cfg.RedisURL}
	if strings.Contains(a.cfg.RedisURL, "://") {
		parsed, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			a.log.Warn("Price history disabled", logger.Error(err))
			return
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		a.log.Warn("Price history disabled", logger.Error(err))
		_ = client.Close()
		return
	}
	a.redis = client
	a.history = &cache.PriceHistory{Client: client, TTL: cache.DefaultTTL}
}

// Close releases the optional backends.
func (a *App) Close() error {
	var errs []error
	if a.dbConn != nil {
		errs = append(errs, a.dbConn.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}

func (a *App) RunID() uuid.UUID { return a.runID }

// Crawl fetches url, stores the raw table and the normalized JSON, and
// returns the JSON path.
func (a *App) Crawl(ctx context.Context, url string) (string, error) {
	log := a.log.With(logger.String("mode", ModeCrawl))

	res, err := a.crawler.Crawl(ctx, url)
	if err != nil {
		return "", err
	}
	log.Info("Crawl finished",
		logger.Int("candidates", res.Candidates),
		logger.Int("rejected", res.Rejected),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("records", len(res.Records)),
	)
	if len(res.Records) == 0 {
		return "", ErrNoRecords
	}

	csvPath, xlsxPath, err := a.tableRepo.Save(res.Records)
	if err != nil {
		return "", err
	}
	log.Info("Raw table saved", logger.String("csv", csvPath), logger.String("xlsx", xlsxPath))

	recs, st := a.normalizer.NormalizeAll(res.Records)
	log.Info("Records normalized",
		logger.Int("accepted", st.Accepted),
		logger.Int("rejected", st.Rejected+st.Skipped),
		logger.Int("duplicates", st.Duplicates),
	)
	if len(recs) == 0 {
		return "", ErrNoRecords
	}

	path, err := a.jsonRepo.Save(recs)
	if err != nil {
		return "", err
	}
	log.Info("Records saved", logger.String("path", path), logger.Int("count", len(recs)))

	a.finish(ctx, log, ModeCrawl, url, recs, runCounts{
		candidates: res.Candidates,
		rejected:   res.Rejected + st.Rejected + st.Skipped,
		duplicates: res.Duplicates + st.Duplicates,
	})
	return path, nil
}

// Generate re-normalizes a saved raw table. An empty input selects the newest
// table in the data dir.
func (a *App) Generate(ctx context.Context, input string) (string, error) {
	log := a.log.With(logger.String("mode", ModeGenerate))

	if input == "" {
		latest, err := repository.FindLatest(a.cfg.DataDir)
		if err != nil {
			return "", err
		}
		input = latest
	}
	log.Info("Reading table", logger.String("path", input))

	rows, badRows, err := repository.ReadTable(input)
	if err != nil {
		return "", err
	}
	if badRows > 0 {
		log.Warn("Malformed rows skipped", logger.Int("count", badRows))
	}

	recs, st := a.normalizer.NormalizeAll(rows)
	log.Info("Records normalized",
		logger.Int("input", st.Input),
		logger.Int("accepted", st.Accepted),
		logger.Int("rejected", st.Rejected+st.Skipped),
		logger.Int("duplicates", st.Duplicates),
	)
	if len(recs) == 0 {
		return "", ErrNoRecords
	}

	path, err := a.jsonRepo.Save(recs)
	if err != nil {
		return "", err
	}
	log.Info("Records saved", logger.String("path", path), logger.Int("count", len(recs)))

	a.finish(ctx, log, ModeGenerate, input, recs, runCounts{
		candidates: st.Input + badRows,
		rejected:   st.Rejected + st.Skipped + badRows,
		duplicates: st.Duplicates,
	})
	return path, nil
}

type runCounts struct {
	candidates int
	rejected   int
	duplicates int
}

// finish runs the optional sinks and prints the preview. Sink failures are
// logged only.
func (a *App) finish(
	ctx context.Context,
	log logger.Logger,
	mode, source string,
	recs []model.NormalizedRecord,
	c runCounts,
) {
	if a.archive != nil {
		if err := a.archive.Save(ctx, a.runID, source, recs, a.Now()); err != nil {
			log.Error("Archive failed", logger.Error(err))
		} else {
			log.Info("Records archived", logger.Int("count", len(recs)))
		}
	}

	if a.history != nil {
		changes, err := a.history.Record(ctx, recs)
		if err != nil {
			log.Error("Price history failed", logger.Error(err))
		}
		for _, ch := range changes {
			log.Info("Price changed",
				logger.String("model", ch.Model),
				logger.String("old", ch.Old),
				logger.String("new", ch.New),
			)
		}
	}

	if a.metrics != nil {
		a.metrics.Observe(mode, c.candidates, c.rejected, c.duplicates, len(recs))
		if err := a.metrics.Push(ctx, a.cfg.PushgatewayURL); err != nil {
			log.Error("Metrics push failed", logger.Error(err))
		}
	}

	report.Print(a.Out, recs, report.DefaultPreview)
}
