// Package pipeline wires the conversion end to end: load the survey
// workbook, derive the Darwin Core tables, write them through the blob store,
// and record the run in the ledger. One pass, first error aborts.
package pipeline

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/sformel/mob-sample-data/internal/archive"
	"github.com/sformel/mob-sample-data/internal/blob"
	"github.com/sformel/mob-sample-data/internal/dwc"
	"github.com/sformel/mob-sample-data/internal/ledger"
	"github.com/sformel/mob-sample-data/internal/metrics"
	"github.com/sformel/mob-sample-data/internal/survey"
)

// Stage names used for metrics and ledger reporting.
const (
	StageLoad      = "load"
	StageTransform = "transform"
	StageWrite     = "write"
)

// Runner holds the collaborators of one conversion pipeline. Zero-value
// fields fall back to sensible defaults (noop metrics, in-memory ledger).
type Runner struct {
	Blob    blob.Store
	Ledger  ledger.Store
	Metrics metrics.Recorder

	// Prefix is prepended to every artifact key (e.g. a run id); empty keeps
	// the fixed flat output paths.
	Prefix string
	// Replace overwrites artifacts left by a previous run over the same keys.
	Replace bool

	Now   func() time.Time
	NewID func() string
}

// Summary reports a completed conversion.
type Summary struct {
	RunID     string
	RowCounts map[string]int
	Artifacts []archive.Artifact
}

// Run executes the full pass over the workbook at path. The ledger receives
// a running record up front and the final status afterwards, so failed runs
// stay inspectable.
func (r *Runner) Run(ctx context.Context, workbook string) (Summary, error) {
	if r.Blob == nil {
		return Summary{}, fmt.Errorf("blob store required")
	}
	led := r.Ledger
	if led == nil {
		led = ledger.NewMemory()
	}
	rec := r.Metrics
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	now := r.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := r.NewID
	if newID == nil {
		newID = randomID
	}

	run := ledger.Run{
		ID:        newID(),
		Workbook:  workbook,
		Status:    ledger.StatusRunning,
		StartedAt: now(),
	}
	if err := led.Record(ctx, run); err != nil {
		return Summary{}, fmt.Errorf("record run: %w", err)
	}

	summary, err := r.convert(ctx, rec, workbook)
	completed := now()
	run.CompletedAt = &completed
	if err != nil {
		run.Status = ledger.StatusFailed
		run.Error = err.Error()
		_ = led.Record(ctx, run) // best effort; the pipeline error wins
		return Summary{}, err
	}

	run.Status = ledger.StatusSucceeded
	run.RowCounts = summary.RowCounts
	for _, a := range summary.Artifacts {
		run.Artifacts = append(run.Artifacts, a.Key)
	}
	if err := led.Record(ctx, run); err != nil {
		return Summary{}, fmt.Errorf("record run: %w", err)
	}
	summary.RunID = run.ID
	return summary, nil
}

func (r *Runner) convert(ctx context.Context, rec metrics.Recorder, workbook string) (Summary, error) {
	wb, err := timed(rec, StageLoad, func() (*survey.Workbook, error) {
		return survey.LoadWorkbook(workbook)
	})
	if err != nil {
		return Summary{}, err
	}

	a, err := timed(rec, StageTransform, func() (*dwc.Archive, error) {
		return dwc.BuildArchive(wb)
	})
	if err != nil {
		return Summary{}, err
	}

	tables := archive.Tables(a)
	artifacts, err := timed(rec, StageWrite, func() ([]archive.Artifact, error) {
		return archive.Write(ctx, r.Blob, r.Prefix, tables, archive.WriteOptions{Replace: r.Replace})
	})
	if err != nil {
		return Summary{}, err
	}

	counts := make(map[string]int, len(tables))
	for _, t := range tables {
		counts[t.Name] = len(t.Rows)
		rec.SetRows(t.Name, len(t.Rows))
	}
	return Summary{RowCounts: counts, Artifacts: artifacts}, nil
}

// timed runs fn under a stage timer and success/error counter.
func timed[T any](rec metrics.Recorder, stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	rec.ObserveDuration(stage, time.Since(start))
	if err != nil {
		rec.IncResult(stage, "error")
		return v, err
	}
	rec.IncResult(stage, "success")
	return v, nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", b[:])
}
