// Package metrics holds the Prometheus counters of a batch run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for one run.
type Metrics struct {
	registry       *prometheus.Registry
	PagesFetched   *prometheus.CounterVec
	Translations   *prometheus.CounterVec
	FilesProcessed *prometheus.CounterVec
	TablesRestored prometheus.Counter
	CacheLookups   *prometheus.CounterVec
}

// New registers the pipeline counters on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shamir_pages_fetched_total",
			Help: "Pages requested from legacy sites, by status class.",
		}, []string{"status"}),
		Translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shamir_translation_calls_total",
			Help: "Translation provider calls, by outcome.",
		}, []string{"outcome"}),
		FilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shamir_files_processed_total",
			Help: "Article files handled, by job and result.",
		}, []string{"job", "result"}), // result: written, skipped, failed
		TablesRestored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shamir_tables_restored_total",
			Help: "Tables spliced back into translated articles.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shamir_translation_cache_lookups_total",
			Help: "Translation cache lookups, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.PagesFetched, m.Translations, m.FilesProcessed, m.TablesRestored, m.CacheLookups)

	return m
}

// IncFetched records one fetch by HTTP status class ("2xx", "4xx", "error").
func (m *Metrics) IncFetched(status int) {
	if m == nil {
		return
	}

	m.PagesFetched.WithLabelValues(statusClass(status)).Inc()
}

// IncTranslation records one provider call outcome.
func (m *Metrics) IncTranslation(outcome string) {
	if m == nil {
		return
	}

	m.Translations.WithLabelValues(outcome).Inc()
}

// IncFile records one file result for a job.
func (m *Metrics) IncFile(job, result string) {
	if m == nil {
		return
	}

	m.FilesProcessed.WithLabelValues(job, result).Inc()
}

// AddTablesRestored records spliced tables.
func (m *Metrics) AddTablesRestored(n int) {
	if m == nil || n <= 0 {
		return
	}

	m.TablesRestored.Add(float64(n))
}

// IncCache records a cache hit or miss.
func (m *Metrics) IncCache(hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	m.CacheLookups.WithLabelValues(result).Inc()
}

// Registry exposes the registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in textfile-collector format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}

	return fmt.Sprintf("%dxx", status/100)
}
