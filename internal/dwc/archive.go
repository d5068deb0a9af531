package dwc

import (
	"fmt"

	"github.com/sformel/mob-sample-data/internal/survey"
)

// Archive bundles the three derived output tables of one conversion pass.
type Archive struct {
	Events       []Event
	Occurrences  []Occurrence
	Measurements []MeasurementOrFact
}

// BuildArchive runs the three transformers over the loaded workbook and
// validates the cross-table invariants before returning.
func BuildArchive(wb *survey.Workbook) (*Archive, error) {
	events, err := BuildEvents(wb.Station)
	if err != nil {
		return nil, err
	}
	occurrences, err := BuildOccurrences(wb.CPUE, wb.Measurements)
	if err != nil {
		return nil, err
	}
	measurements, err := BuildMeasurements(wb.Station, wb.CPUE, wb.Measurements)
	if err != nil {
		return nil, err
	}
	a := &Archive{Events: events, Occurrences: occurrences, Measurements: measurements}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the archive invariants: unique occurrence ids, occurrence
// eventIDs resolving to an event, and each measurement row referencing
// exactly one of occurrenceID / eventID.
func (a *Archive) Validate() error {
	eventIDs := make(map[string]struct{}, len(a.Events))
	for _, ev := range a.Events {
		eventIDs[ev.EventID] = struct{}{}
	}

	occIDs := make(map[string]struct{}, len(a.Occurrences))
	for _, occ := range a.Occurrences {
		if _, dup := occIDs[occ.OccurrenceID]; dup {
			return fmt.Errorf("duplicate occurrenceID %q", occ.OccurrenceID)
		}
		occIDs[occ.OccurrenceID] = struct{}{}
		if _, ok := eventIDs[occ.EventID]; !ok {
			return fmt.Errorf("occurrence %q references unknown eventID %q", occ.OccurrenceID, occ.EventID)
		}
	}

	for _, m := range a.Measurements {
		if (m.OccurrenceID == "") == (m.EventID == "") {
			return fmt.Errorf("measurement %q must reference exactly one of occurrenceID/eventID", m.MeasurementType)
		}
	}
	return nil
}
