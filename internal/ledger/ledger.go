// Package ledger records conversion runs for provenance: what workbook was
// converted, whether it succeeded, and which artifacts were produced.
package ledger

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// Status is the lifecycle stage of a conversion run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded conversion pass.
type Run struct {
	ID          string         `json:"id"`
	Workbook    string         `json:"workbook"`
	Status      Status         `json:"status"`
	Error       string         `json:"error,omitempty"`
	RowCounts   map[string]int `json:"row_counts,omitempty"` // output table -> rows
	Artifacts   []string       `json:"artifacts,omitempty"`  // blob keys
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

func (r Run) clone() Run {
	dup := r
	if r.RowCounts != nil {
		dup.RowCounts = make(map[string]int, len(r.RowCounts))
		for k, v := range r.RowCounts {
			dup.RowCounts[k] = v
		}
	}
	dup.Artifacts = append([]string(nil), r.Artifacts...)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		dup.CompletedAt = &t
	}
	return dup
}

// Store persists conversion runs. Record upserts by run id.
type Store interface {
	Record(ctx context.Context, run Run) error
	Get(ctx context.Context, id string) (Run, bool, error)
	List(ctx context.Context) ([]Run, error)
	Close() error
}

// Open selects a ledger store implementation from environment variables.
//
//	MOBDATA_LEDGER_DRIVER: memory|sqlite|postgres (default memory)
//	MOBDATA_LEDGER_SQLITE_PATH: database file when driver=sqlite
//	MOBDATA_LEDGER_POSTGRES_DSN: connection string when driver=postgres
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("MOBDATA_LEDGER_DRIVER")
	if driver == "" {
		driver = "memory"
	}
	switch driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(os.Getenv("MOBDATA_LEDGER_SQLITE_PATH"))
	case "postgres":
		return NewPostgres(ctx, os.Getenv("MOBDATA_LEDGER_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown ledger driver %s", driver)
	}
}

// Memory is an in-process ledger store, the default for one-shot runs and tests.
type Memory struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory { return &Memory{runs: make(map[string]Run)} }

func (m *Memory) Record(_ context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id required")
	}
	m.mu.Lock()
	m.runs[run.ID] = run.clone()
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (Run, bool, error) {
	m.mu.RLock()
	run, ok := m.runs[id]
	m.mu.RUnlock()
	if !ok {
		return Run{}, false, nil
	}
	return run.clone(), true, nil
}

func (m *Memory) List(_ context.Context) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Run, 0, len(m.runs))
	for _, run := range m.runs {
		out = append(out, run.clone())
	}
	sortRuns(out)
	return out, nil
}

func (m *Memory) Close() error { return nil }

func sortRuns(runs []Run) {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
}
