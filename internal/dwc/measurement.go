package dwc

import (
	"fmt"

	"github.com/sformel/mob-sample-data/internal/survey"
)

// QUDT unit vocabulary URIs attached alongside measurement units.
const (
	unitURIMillimetre = "http://qudt.org/vocab/unit/MilliM"
	unitURIGram       = "http://qudt.org/vocab/unit/GM"
	unitURIKnot       = "http://qudt.org/vocab/unit/KN"
)

type factSubject int

const (
	subjectOccurrence factSubject = iota // references the organism's occurrenceID
	subjectEvent                         // references the station eventID
)

// factMapping declares one source column pivoted into measurement-or-fact
// rows: null source cells produce no row, everything else is copied as text.
type factMapping struct {
	sheet     string
	column    string
	label     string
	unit      string
	unitURI   string
	subject   factSubject
	normalize func(string) string
}

// factMappings lists every pivoted measurement in output concatenation order.
var factMappings = []factMapping{
	{sheet: survey.SheetMeasurements, column: "TL_mm", label: "total length", unit: "mm", unitURI: unitURIMillimetre, subject: subjectOccurrence},
	{sheet: survey.SheetMeasurements, column: "Wt_g_recorded", label: "weight (recorded)", unit: "g", unitURI: unitURIGram, subject: subjectOccurrence},
	{sheet: survey.SheetMeasurements, column: "scale_tare_g", label: "scale tare weight", unit: "g", unitURI: unitURIGram, subject: subjectOccurrence},
	{sheet: survey.SheetMeasurements, column: "Wt_g", label: "weight", unit: "g", unitURI: unitURIGram, subject: subjectOccurrence},
	{sheet: survey.SheetMeasurements, column: "Retained", label: "retained", subject: subjectOccurrence},
	{sheet: survey.SheetStation, column: "wind_speed", label: "wind speed", unit: "kn", unitURI: unitURIKnot, subject: subjectEvent},
	{sheet: survey.SheetStation, column: "wind_dir", label: "wind direction", subject: subjectEvent},
	{sheet: survey.SheetStation, column: "wave_height", label: "wave height", subject: subjectEvent},
	{sheet: survey.SheetStation, column: "cloud_cover_10th", label: "cloud cover", unit: "tenths", subject: subjectEvent},
	{sheet: survey.SheetStation, column: "ropeless_id", label: "ropeless gear ID", subject: subjectEvent},
	{sheet: survey.SheetStation, column: "cruise_id", label: "cruise ID", subject: subjectEvent, normalize: survey.NumericID},
	{sheet: survey.SheetCPUE, column: "Pot_position", label: "pot position", subject: subjectEvent},
	{sheet: survey.SheetCPUE, column: "Pot_ID", label: "pot ID", subject: subjectEvent},
	{sheet: survey.SheetCPUE, column: "Near_Far", label: "distance category", subject: subjectEvent},
	{sheet: survey.SheetMeasurements, column: "Near/Far", label: "distance category", subject: subjectEvent},
}

// BuildMeasurements derives the measurement-or-fact extension by applying
// every fact mapping in order. Organism measurements reference the
// occurrenceID synthesized for the same Measurements row; station and gear
// facts reference the station eventID.
func BuildMeasurements(station, cpue, measurements survey.Table) ([]MeasurementOrFact, error) {
	var out []MeasurementOrFact
	for _, m := range factMappings {
		var t survey.Table
		switch m.sheet {
		case survey.SheetStation:
			t = station
		case survey.SheetCPUE:
			t = cpue
		case survey.SheetMeasurements:
			t = measurements
		default:
			return nil, fmt.Errorf("fact mapping %q references unknown sheet %q", m.label, m.sheet)
		}
		if err := t.Require(m.column, stationColumn(m.sheet)); err != nil {
			return nil, err
		}

		for i, row := range t.Rows {
			value := t.Value(row, m.column)
			if value == "" {
				continue
			}
			if m.normalize != nil {
				value = m.normalize(value)
			}
			rec := MeasurementOrFact{
				MeasurementType:   m.label,
				MeasurementValue:  value,
				MeasurementUnit:   m.unit,
				MeasurementUnitID: m.unitURI,
			}
			if m.subject == subjectOccurrence {
				rec.OccurrenceID = measurementOccurrenceID(t, i, row)
			} else {
				rec.EventID = t.Value(row, stationColumn(m.sheet))
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// stationColumn names the column tying a sheet row back to its station event.
func stationColumn(sheet string) string {
	if sheet == survey.SheetStation {
		return "station"
	}
	return "Station"
}
