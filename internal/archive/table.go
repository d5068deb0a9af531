// Package archive renders the derived Darwin Core tables to delimited text
// and writes them through a blob store.
package archive

import (
	"bytes"
	"encoding/csv"

	"github.com/sformel/mob-sample-data/internal/dwc"
)

// Output file names of the three archive tables.
const (
	EventFile             = "dwc_event.csv"
	OccurrenceFile        = "dwc_occurrence.csv"
	MeasurementOrFactFile = "dwc_measurementorfact.csv"
)

// Table is a render-ready output table: a fixed column order plus rows keyed
// by column name. Absent values render as the empty string.
type Table struct {
	Name    string
	Columns []string
	Rows    []map[string]string
}

// Render serializes the table as CSV with the header row first.
func (t Table) Render() ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Column orders follow the concatenation order of the transforms: columns of
// the first contributing table, then columns first contributed by the second.
var (
	eventColumns = []string{
		"eventID", "eventDate", "eventType", "parentEventID", "footprintWKT",
		"locationID", "decimalLatitude", "decimalLongitude",
		"minimumDepthInMeters", "maximumDepthInMeters", "eventRemarks", "recordedBy",
	}
	occurrenceColumns = []string{
		"occurrenceID", "eventID", "vernacularName", "individualCount",
		"occurrenceRemarks", "basisOfRecord", "sex",
	}
	measurementColumns = []string{
		"occurrenceID", "measurementType", "measurementValue",
		"measurementUnit", "measurementUnitID", "eventID",
	}
)

// Tables maps a derived archive onto its three render-ready output tables,
// in write order: events, occurrences, measurements-or-facts.
func Tables(a *dwc.Archive) []Table {
	events := Table{Name: EventFile, Columns: eventColumns, Rows: make([]map[string]string, 0, len(a.Events))}
	for _, ev := range a.Events {
		events.Rows = append(events.Rows, map[string]string{
			"eventID":              ev.EventID,
			"eventDate":            ev.EventDate,
			"eventType":            ev.EventType,
			"parentEventID":        ev.ParentEventID,
			"footprintWKT":         ev.FootprintWKT,
			"locationID":           ev.LocationID,
			"decimalLatitude":      ev.DecimalLatitude,
			"decimalLongitude":     ev.DecimalLongitude,
			"minimumDepthInMeters": ev.MinimumDepthInMeters,
			"maximumDepthInMeters": ev.MaximumDepthInMeters,
			"eventRemarks":         ev.EventRemarks,
			"recordedBy":           ev.RecordedBy,
		})
	}

	occurrences := Table{Name: OccurrenceFile, Columns: occurrenceColumns, Rows: make([]map[string]string, 0, len(a.Occurrences))}
	for _, occ := range a.Occurrences {
		occurrences.Rows = append(occurrences.Rows, map[string]string{
			"occurrenceID":      occ.OccurrenceID,
			"eventID":           occ.EventID,
			"vernacularName":    occ.VernacularName,
			"individualCount":   occ.IndividualCount,
			"occurrenceRemarks": occ.OccurrenceRemarks,
			"basisOfRecord":     occ.BasisOfRecord,
			"sex":               occ.Sex,
		})
	}

	measurements := Table{Name: MeasurementOrFactFile, Columns: measurementColumns, Rows: make([]map[string]string, 0, len(a.Measurements))}
	for _, m := range a.Measurements {
		measurements.Rows = append(measurements.Rows, map[string]string{
			"occurrenceID":      m.OccurrenceID,
			"measurementType":   m.MeasurementType,
			"measurementValue":  m.MeasurementValue,
			"measurementUnit":   m.MeasurementUnit,
			"measurementUnitID": m.MeasurementUnitID,
			"eventID":           m.EventID,
		})
	}

	return []Table{events, occurrences, measurements}
}
