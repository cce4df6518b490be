package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"phoneprice/internal/model"
)

const (
	filePrefix      = "phone_prices_"
	timestampLayout = "20060102_150405"
)

// JSONRepository writes normalized records to timestamped files under Dir.
type JSONRepository struct {
	Dir string
	Now func() time.Time
}

func NewJSONRepository(dir string) *JSONRepository {
	return &JSONRepository{Dir: dir, Now: time.Now}
}

// Save writes recs as an indented JSON array and returns the file path.
func (r *JSONRepository) Save(recs []model.NormalizedRecord) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir %s: %w", r.Dir, err)
	}

	path := timestampedPath(r.Dir, r.Now(), ".json")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if recs == nil {
		recs = []model.NormalizedRecord{}
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, f.Close()
}

func timestampedPath(dir string, t time.Time, ext string) string {
	return filepath.Join(dir, filePrefix+t.Format(timestampLayout)+ext)
}
