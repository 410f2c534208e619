// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the cleaning pipeline.
//
// It exposes a narrow Backend interface (counters plus duration-style
// observations) behind a global, pluggable backend that defaults to a
// no-op, so metrics are always safe to call even when nothing is
// configured. Concrete systems (Prometheus Pushgateway, Datadog) live in
// subpackages; the rest of the codebase depends only on this package.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing
// backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures one cleaning step: latency plus success/failure,
// labeled by job and table.
func RecordStep(job, table string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    job,
		"table":  table,
		"status": status,
	}
	backend.IncCounter("cleanse_step_total", 1, lbls)
	backend.ObserveHistogram("cleanse_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given job and table.
//
// Typical kinds mirror the cleaning summary fields:
//   - "rows_in"
//   - "rows_out"
//   - "imputed"
//   - "duplicates_removed"
//   - "integrity_violations"
func RecordRows(job, table, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("cleanse_rows_total", float64(delta), Labels{
		"job":   job,
		"table": table,
		"kind":  kind,
	})
}
