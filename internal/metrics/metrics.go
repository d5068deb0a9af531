// Package metrics records pipeline stage timings and output row counts,
// published process-locally via expvar.
package metrics

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Recorder receives stage timings, stage results and output table sizes.
type Recorder interface {
	ObserveDuration(stage string, d time.Duration)
	IncResult(stage, status string)
	SetRows(table string, n int)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveDuration(string, time.Duration) {}
func (NoopRecorder) IncResult(string, string)              {}
func (NoopRecorder) SetRows(string, int)                   {}

var expvarSeq uint64

// ExpvarRecorder aggregates totals in milliseconds per stage plus
// success/error counters and per-table row counts, published under a single
// expvar name.
type ExpvarRecorder struct {
	name      string
	mu        sync.Mutex
	durations map[string]float64
	results   map[string]map[string]int64
	rows      map[string]int
}

// Snapshot is a read-only view of the recorded metrics.
type Snapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	Rows        map[string]int              `json:"rows"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewExpvarRecorder constructs a recorder and publishes it under the supplied
// name. When name is empty a unique identifier is generated.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		name = fmt.Sprintf("dwca_convert_metrics_%d", atomic.AddUint64(&expvarSeq, 1))
	}
	r := &ExpvarRecorder{
		name:      name,
		durations: make(map[string]float64),
		results:   make(map[string]map[string]int64),
		rows:      make(map[string]int),
	}
	expvar.Publish(name, expvar.Func(func() any { return r.Snapshot() }))
	return r
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarRecorder) Name() string { return r.name }

func (r *ExpvarRecorder) ObserveDuration(stage string, d time.Duration) {
	r.mu.Lock()
	r.durations[stage] += float64(d) / float64(time.Millisecond)
	r.mu.Unlock()
}

func (r *ExpvarRecorder) IncResult(stage, status string) {
	r.mu.Lock()
	counts, ok := r.results[stage]
	if !ok {
		counts = make(map[string]int64)
		r.results[stage] = counts
	}
	counts[status]++
	r.mu.Unlock()
}

func (r *ExpvarRecorder) SetRows(table string, n int) {
	r.mu.Lock()
	r.rows[table] = n
	r.mu.Unlock()
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarRecorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	durations := make(map[string]float64, len(r.durations))
	for stage, total := range r.durations {
		durations[stage] = total
	}
	results := make(map[string]map[string]int64, len(r.results))
	for stage, counts := range r.results {
		cpy := make(map[string]int64, len(counts))
		for status, n := range counts {
			cpy[status] = n
		}
		results[stage] = cpy
	}
	rows := make(map[string]int, len(r.rows))
	for table, n := range r.rows {
		rows[table] = n
	}
	return Snapshot{DurationsMS: durations, Results: results, Rows: rows, RecordedAt: time.Now().UTC()}
}
