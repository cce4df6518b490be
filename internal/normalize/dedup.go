package normalize

// Deduper remembers keys it has seen. The zero value is not usable; use NewDeduper.
type Deduper struct {
	seen    map[string]struct{}
	skipped int
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// Add reports whether key is new. Repeated keys are counted as skipped.
func (d *Deduper) Add(key string) bool {
	if _, ok := d.seen[key]; ok {
		d.skipped++
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

func (d *Deduper) Skipped() int { return d.skipped }
