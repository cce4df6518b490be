// Package report prints a short preview of normalized records.
package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"phoneprice/internal/model"
)

// DefaultPreview is how many records Print shows.
const DefaultPreview = 5

// Print renders the first limit records of recs to w, followed by the total.
func Print(w io.Writer, recs []model.NormalizedRecord, limit int) {
	if limit <= 0 || limit > len(recs) {
		limit = len(recs)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "手机型号", model.ColPrice})
	for i, rec := range recs[:limit] {
		t.AppendRow(table.Row{i + 1, rec.Model, "¥" + rec.Price})
	}
	t.AppendFooter(table.Row{"Total", len(recs), ""})
	t.Render()
}
