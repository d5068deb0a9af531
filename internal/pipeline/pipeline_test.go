package pipeline

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sformel/mob-sample-data/internal/archive"
	"github.com/sformel/mob-sample-data/internal/blob"
	"github.com/sformel/mob-sample-data/internal/ledger"
	"github.com/sformel/mob-sample-data/internal/metrics"
	"github.com/sformel/mob-sample-data/internal/survey"
)

func writeFixtureWorkbook(t *testing.T) string {
	t.Helper()
	sheets := map[string][][]any{
		survey.SheetStation: {
			{"station", "cruise_id", "type", "datetime", "lat_start", "lon_start", "lat_end", "lon_end",
				"depth", "wind_speed", "wind_dir", "wave_height", "cloud_cover_10th", "ropeless_id", "notes", "participants"},
			{"ST1", "1.0", "deployment", "2024-06-01 08:00", "41.1", "-70.2", "41.2", "-70.3", "30", "10", "NW", "1", "3", "RG7", "calm", "A. Smith"},
			{"ST2", "1.0", "deployment", "2024-06-01 09:00", "41.3", "-70.4", "41.4", "-70.5", "35", "", "", "", "", "", "", ""},
		},
		survey.SheetCPUE: {
			{"Station", "Pot_ID", "Pot_position", "Near_Far", "Species", "Catch", "Notes"},
			{"ST1", "P1", "1", "near", "Jonah crab", "4", ""},
			{"ST2", "P2", "2", "far", "black sea bass", "1", "undersized"},
		},
		survey.SheetMeasurements: {
			{"Station", "Species", "TL_mm", "Wt_g_recorded", "scale_tare_g", "Wt_g", "Retained", "Sex", "Barotrauma", "Near/Far", "Notes"},
			{"ST1", "Jonah crab", "110", "250", "5", "245", "Y", "M", "", "near", ""},
		},
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for _, name := range []string{survey.SheetStation, survey.SheetCPUE, survey.SheetMeasurements} {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet %s: %v", name, err)
		}
		for i, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("delete default sheet: %v", err)
	}
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func readBlob(t *testing.T, store blob.Store, key string) []byte {
	t.Helper()
	_, rc, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return b
}

func TestRunEndToEnd(t *testing.T) {
	workbook := writeFixtureWorkbook(t)
	store := blob.NewMemory()
	led := ledger.NewMemory()
	rec := metrics.NewExpvarRecorder("")
	started := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)

	runner := &Runner{
		Blob:    store,
		Ledger:  led,
		Metrics: rec,
		Prefix:  "outputs",
		Now:     func() time.Time { return started },
		NewID:   func() string { return "run-1" },
	}

	summary, err := runner.Run(context.Background(), workbook)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID != "run-1" {
		t.Fatalf("run id = %q", summary.RunID)
	}
	if summary.RowCounts[archive.EventFile] != 3 {
		t.Fatalf("event rows = %d, want cruise + 2 stations", summary.RowCounts[archive.EventFile])
	}
	if summary.RowCounts[archive.OccurrenceFile] != 3 {
		t.Fatalf("occurrence rows = %d", summary.RowCounts[archive.OccurrenceFile])
	}
	if len(summary.Artifacts) != 3 {
		t.Fatalf("artifact count = %d", len(summary.Artifacts))
	}

	events := string(readBlob(t, store, "outputs/"+archive.EventFile))
	if !strings.Contains(events, "1_deployment,2024-06-01 08:00,deployment cruise") {
		t.Fatalf("cruise event missing from output:\n%s", events)
	}
	if !strings.Contains(events, "LINESTRING (-70.2 41.1, -70.4 41.3, -70.3 41.2, -70.5 41.4)") {
		t.Fatalf("footprint missing from output:\n%s", events)
	}

	run, ok, err := led.Get(context.Background(), "run-1")
	if err != nil || !ok {
		t.Fatalf("ledger get = %v, %v", ok, err)
	}
	if run.Status != ledger.StatusSucceeded {
		t.Fatalf("run status = %q", run.Status)
	}
	if run.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}
	if len(run.Artifacts) != 3 {
		t.Fatalf("ledger artifacts = %v", run.Artifacts)
	}

	snap := rec.Snapshot()
	for _, stage := range []string{StageLoad, StageTransform, StageWrite} {
		if snap.Results[stage]["success"] != 1 {
			t.Fatalf("stage %s not recorded: %+v", stage, snap.Results)
		}
	}
}

func TestRunIsIdempotentWithReplace(t *testing.T) {
	workbook := writeFixtureWorkbook(t)
	store := blob.NewMemory()
	seq := 0
	runner := &Runner{
		Blob:    store,
		Replace: true,
		NewID: func() string {
			seq++
			return []string{"run-1", "run-2"}[seq-1]
		},
	}
	ctx := context.Background()

	if _, err := runner.Run(ctx, workbook); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := readBlob(t, store, archive.EventFile)

	if _, err := runner.Run(ctx, workbook); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second := readBlob(t, store, archive.EventFile)

	if !bytes.Equal(first, second) {
		t.Fatalf("rerun output differs:\n%s\nvs\n%s", first, second)
	}
}

func TestRunRerunFailsWithoutReplace(t *testing.T) {
	workbook := writeFixtureWorkbook(t)
	runner := &Runner{Blob: blob.NewMemory()}
	ctx := context.Background()

	if _, err := runner.Run(ctx, workbook); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := runner.Run(ctx, workbook); err == nil {
		t.Fatalf("expected create-only conflict on rerun")
	}
}

func TestRunRecordsFailure(t *testing.T) {
	led := ledger.NewMemory()
	runner := &Runner{
		Blob:   blob.NewMemory(),
		Ledger: led,
		NewID:  func() string { return "run-1" },
	}

	_, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))
	if err == nil {
		t.Fatalf("expected load failure")
	}

	run, ok, getErr := led.Get(context.Background(), "run-1")
	if getErr != nil || !ok {
		t.Fatalf("ledger get = %v, %v", ok, getErr)
	}
	if run.Status != ledger.StatusFailed {
		t.Fatalf("run status = %q, want failed", run.Status)
	}
	if run.Error == "" {
		t.Fatalf("expected recorded error message")
	}
	if run.CompletedAt == nil {
		t.Fatalf("failed runs still get a completion timestamp")
	}
}

func TestRunRequiresBlobStore(t *testing.T) {
	if _, err := (&Runner{}).Run(context.Background(), "x.xlsx"); err == nil {
		t.Fatalf("expected configuration error")
	}
}
