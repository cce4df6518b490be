package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"phoneprice/internal/model"
)

const archiveTable = "phone_prices"

var archiveColumns = []string{"run_id", "model", "price", "source", "created_at"}

const createArchiveTable = `
CREATE TABLE IF NOT EXISTS phone_prices (
	run_id     UUID        NOT NULL,
	model      TEXT        NOT NULL,
	price      NUMERIC     NOT NULL,
	source     TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// ArchiveRepository keeps every run's normalized records in Postgres.
type ArchiveRepository struct {
	DB *sql.DB
}

func (r *ArchiveRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, createArchiveTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", archiveTable, err)
	}
	return nil
}

// Save bulk-copies recs in a single transaction.
func (r *ArchiveRepository) Save(
	ctx context.Context,
	runID uuid.UUID,
	source string,
	recs []model.NormalizedRecord,
	at time.Time,
) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(archiveTable, archiveColumns...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, rec := range recs {
		if _, err = stmt.ExecContext(ctx, runID.String(), rec.Model, rec.Price, source, at); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("failed to copy %q: %w", rec.Model, err)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("failed to close copy: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive tx: %w", err)
	}
	return nil
}
