package normalize

import (
	"strings"

	"phoneprice/internal/model"
)

type Stats struct {
	Input      int
	Skipped    int // name or price missing
	Rejected   int // failed the acceptance gate
	Duplicates int
	Accepted   int
}

// NormalizeAll normalizes records in order, dropping unusable rows, gate
// failures and duplicate (model, price) pairs.
func (n *Normalizer) NormalizeAll(recs []model.RawRecord) ([]model.NormalizedRecord, Stats) {
	st := Stats{Input: len(recs)}
	dedup := NewDeduper()
	out := make([]model.NormalizedRecord, 0, len(recs))

	for _, r := range recs {
		name := strings.TrimSpace(r.Name)
		price := strings.TrimSpace(r.Price)
		if name == "" || name == model.UnknownName || price == model.UnknownPrice {
			st.Skipped++
			continue
		}

		rec, ok := n.Normalize(name, price)
		if !ok {
			st.Rejected++
			continue
		}
		if !dedup.Add(rec.Key()) {
			continue
		}
		out = append(out, rec)
	}

	st.Duplicates = dedup.Skipped()
	st.Accepted = len(out)
	return out, st
}
