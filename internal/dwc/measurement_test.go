package dwc

import (
	"testing"

	"github.com/sformel/mob-sample-data/internal/survey"
)

func TestBuildMeasurementsOrganismFacts(t *testing.T) {
	m := measurementsTable(
		measurementsRow(map[string]string{
			"Station": "ST1", "Species": "scup",
			"TL_mm": "210", "Wt_g": "185.5", "Retained": "no",
		}),
	)
	facts, err := BuildMeasurements(stationTable(), cpueTable(), m)
	if err != nil {
		t.Fatalf("build measurements: %v", err)
	}
	if len(facts) != 3 {
		t.Fatalf("expected 3 facts (null columns skipped), got %d", len(facts))
	}

	length := facts[0]
	if length.MeasurementType != "total length" || length.MeasurementValue != "210" {
		t.Fatalf("unexpected first fact: %+v", length)
	}
	if length.MeasurementUnit != "mm" || length.MeasurementUnitID != unitURIMillimetre {
		t.Fatalf("length unit = %q/%q", length.MeasurementUnit, length.MeasurementUnitID)
	}
	if length.OccurrenceID != "MEAS_ST1_scup_1" || length.EventID != "" {
		t.Fatalf("organism fact must reference occurrenceID only: %+v", length)
	}

	weight := facts[1]
	if weight.MeasurementType != "weight" || weight.MeasurementUnitID != unitURIGram {
		t.Fatalf("unexpected second fact: %+v", weight)
	}

	retained := facts[2]
	if retained.MeasurementType != "retained" || retained.MeasurementUnit != "" || retained.MeasurementUnitID != "" {
		t.Fatalf("categorical facts carry no unit: %+v", retained)
	}
}

func TestBuildMeasurementsMappingOrder(t *testing.T) {
	station := stationTable(
		stationRow(map[string]string{
			"station": "ST1", "cruise_id": "1", "type": "deployment",
			"wind_speed": "12", "wave_height": "0.5",
		}),
	)
	cpue := cpueTable(
		cpueRow(map[string]string{"Station": "ST1", "Pot_ID": "P1", "Species": "scup", "Pot_position": "3"}),
	)
	m := measurementsTable(
		measurementsRow(map[string]string{"Station": "ST1", "Species": "scup", "TL_mm": "210"}),
	)
	facts, err := BuildMeasurements(station, cpue, m)
	if err != nil {
		t.Fatalf("build measurements: %v", err)
	}
	var types []string
	for _, f := range facts {
		types = append(types, f.MeasurementType)
	}
	// Concatenation is mapping-major: all organism facts, then station weather
	// and gear facts, then CPUE gear facts.
	want := []string{"total length", "wind speed", "wave height", "cruise ID", "pot position", "pot ID"}
	if len(types) != len(want) {
		t.Fatalf("fact types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("fact types = %v, want %v", types, want)
		}
	}
}

func TestBuildMeasurementsStationFacts(t *testing.T) {
	station := stationTable(
		stationRow(map[string]string{
			"station": "ST1", "cruise_id": "2.0", "type": "deployment",
			"wind_speed": "8", "cloud_cover_10th": "3",
		}),
	)
	facts, err := BuildMeasurements(station, cpueTable(), measurementsTable())
	if err != nil {
		t.Fatalf("build measurements: %v", err)
	}
	byType := make(map[string]MeasurementOrFact, len(facts))
	for _, f := range facts {
		byType[f.MeasurementType] = f
	}

	wind, ok := byType["wind speed"]
	if !ok {
		t.Fatalf("missing wind speed fact: %v", facts)
	}
	if wind.EventID != "ST1" || wind.OccurrenceID != "" {
		t.Fatalf("station fact must reference eventID only: %+v", wind)
	}
	if wind.MeasurementUnit != "kn" || wind.MeasurementUnitID != unitURIKnot {
		t.Fatalf("wind unit = %q/%q", wind.MeasurementUnit, wind.MeasurementUnitID)
	}

	cruise, ok := byType["cruise ID"]
	if !ok {
		t.Fatalf("missing cruise ID fact: %v", facts)
	}
	if cruise.MeasurementValue != "2" {
		t.Fatalf("cruise ID value = %q, want the normalized form", cruise.MeasurementValue)
	}

	cloud := byType["cloud cover"]
	if cloud.MeasurementUnit != "tenths" || cloud.MeasurementUnitID != "" {
		t.Fatalf("cloud cover unit = %q/%q", cloud.MeasurementUnit, cloud.MeasurementUnitID)
	}
}

func TestBuildMeasurementsSkipsNullCells(t *testing.T) {
	station := stationTable(
		stationRow(map[string]string{"station": "ST1", "cruise_id": "1", "type": "deployment"}),
		stationRow(map[string]string{"station": "ST2", "cruise_id": "1", "type": "deployment", "wind_speed": "10"}),
	)
	facts, err := BuildMeasurements(station, cpueTable(), measurementsTable())
	if err != nil {
		t.Fatalf("build measurements: %v", err)
	}
	var windEvents []string
	for _, f := range facts {
		if f.MeasurementType == "wind speed" {
			windEvents = append(windEvents, f.EventID)
		}
	}
	if len(windEvents) != 1 || windEvents[0] != "ST2" {
		t.Fatalf("wind speed facts = %v, want only ST2", windEvents)
	}
}

func TestBuildMeasurementsMissingColumn(t *testing.T) {
	station := survey.Table{Sheet: survey.SheetStation, Columns: []string{"station"}}
	if _, err := BuildMeasurements(station, cpueTable(), measurementsTable()); err == nil {
		t.Fatalf("expected schema mismatch")
	}
}
