package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"phoneprice/internal/model"
)

// ErrNoInputFile is returned when the data dir holds no table to normalize.
var ErrNoInputFile = errors.New("no input table found")

const (
	extCSV  = ".csv"
	extXLSX = ".xlsx"
	bom     = "\ufeff"
	sheet   = "Sheet1"
)

// TableRepository stores raw records as CSV and XLSX tables and reads them back.
type TableRepository struct {
	Dir string
	Now func() time.Time
}

func NewTableRepository(dir string) *TableRepository {
	return &TableRepository{Dir: dir, Now: time.Now}
}

// Save writes recs to a CSV (with BOM) and an XLSX file sharing one timestamp.
func (r *TableRepository) Save(recs []model.RawRecord) (csvPath, xlsxPath string, err error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create data dir %s: %w", r.Dir, err)
	}
	now := r.Now()

	csvPath = timestampedPath(r.Dir, now, extCSV)
	if err := writeCSV(csvPath, recs); err != nil {
		return "", "", err
	}
	xlsxPath = timestampedPath(r.Dir, now, extXLSX)
	if err := writeXLSX(xlsxPath, recs); err != nil {
		return csvPath, "", err
	}
	return csvPath, xlsxPath, nil
}

func writeCSV(path string, recs []model.RawRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, bom); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(model.RawColumns); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	for _, rec := range recs {
		if err := w.Write(rec.Row()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func writeXLSX(path string, recs []model.RawRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	header := model.RawColumns
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for i, rec := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := rec.Row()
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d to %s: %w", i+2, path, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// FindLatest returns the newest CSV or XLSX table in dir, by file name.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: data dir %s does not exist", ErrNoInputFile, dir)
		}
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case extCSV, extXLSX:
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoInputFile, dir)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return filepath.Join(dir, names[0]), nil
}

// ReadTable loads raw records from a CSV or XLSX file. Columns are located by
// header name; malformed rows are skipped and counted.
func ReadTable(path string) (recs []model.RawRecord, skipped int, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case extCSV:
		return readCSV(path)
	case extXLSX:
		return readXLSX(path)
	default:
		return nil, 0, fmt.Errorf("unsupported table format: %s", path)
	}
}

func readCSV(path string) ([]model.RawRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	cols, err := newColumnIndex(header)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	var (
		recs    []model.RawRecord
		skipped int
	)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skipped++
			continue
		}
		if err != nil {
			return recs, skipped, fmt.Errorf("failed to read %s: %w", path, err)
		}
		recs = append(recs, cols.record(row))
	}
	return recs, skipped, nil
}

func readXLSX(path string) ([]model.RawRecord, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("%s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%s: empty sheet", path)
	}

	cols, err := newColumnIndex(rows[0])
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	recs := make([]model.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		recs = append(recs, cols.record(row))
	}
	return recs, 0, nil
}

type columnIndex map[string]int

func newColumnIndex(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, bom))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, required := range []string{model.ColName, model.ColPrice} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return idx, nil
}

func (c columnIndex) get(row []string, col, def string) string {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return def
	}
	return strings.TrimSpace(row[i])
}

func (c columnIndex) record(row []string) model.RawRecord {
	return model.RawRecord{
		Name:        c.get(row, model.ColName, ""),
		Price:       c.get(row, model.ColPrice, ""),
		Link:        c.get(row, model.ColLink, model.UnknownLink),
		Description: c.get(row, model.ColDescription, model.UnknownDescription),
		Rating:      c.get(row, model.ColRating, model.UnknownRating),
	}
}
