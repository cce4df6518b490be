package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const Job = "phoneprice"

// Metrics holds the run counters, labelled by mode (crawl or generate).
type Metrics struct {
	Registry     *prometheus.Registry
	Candidates   *prometheus.CounterVec
	Rejected     *prometheus.CounterVec
	Duplicates   *prometheus.CounterVec
	RecordsSaved *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phoneprice_candidates_total",
			Help: "Candidate elements or rows examined",
		}, []string{"mode"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phoneprice_rejected_total",
			Help: "Records rejected by validation or the acceptance gate",
		}, []string{"mode"}),
		Duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phoneprice_duplicates_total",
			Help: "Duplicate records dropped",
		}, []string{"mode"}),
		RecordsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phoneprice_records_saved_total",
			Help: "Normalized records written to the JSON output",
		}, []string{"mode"}),
	}
	m.Registry.MustRegister(m.Candidates, m.Rejected, m.Duplicates, m.RecordsSaved)
	return m
}

// Observe adds one run's counts under mode.
func (m *Metrics) Observe(mode string, candidates, rejected, duplicates, saved int) {
	m.Candidates.WithLabelValues(mode).Add(float64(candidates))
	m.Rejected.WithLabelValues(mode).Add(float64(rejected))
	m.Duplicates.WithLabelValues(mode).Add(float64(duplicates))
	m.RecordsSaved.WithLabelValues(mode).Add(float64(saved))
}

// Push sends the registry to a Pushgateway under Job.
func (m *Metrics) Push(ctx context.Context, url string) error {
	if err := push.New(url, Job).Gatherer(m.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
