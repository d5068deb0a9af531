// Package dwc derives the Darwin Core Archive triad (events, occurrences,
// measurements-or-facts) from loaded survey sheets. All fields are text;
// the empty string marks an absent value.
package dwc

// BasisHumanObservation is the basisOfRecord constant assigned to every
// derived occurrence.
const BasisHumanObservation = "HumanObservation"

// Event is one row of the event core. Cruise events are roots; station
// events reference their cruise through ParentEventID.
type Event struct {
	EventID              string
	EventDate            string
	EventType            string
	ParentEventID        string
	FootprintWKT         string
	LocationID           string
	DecimalLatitude      string
	DecimalLongitude     string
	MinimumDepthInMeters string
	MaximumDepthInMeters string
	EventRemarks         string
	RecordedBy           string
}

// Occurrence is one row of the occurrence extension.
type Occurrence struct {
	OccurrenceID      string
	EventID           string
	VernacularName    string
	IndividualCount   string
	OccurrenceRemarks string
	BasisOfRecord     string
	Sex               string
}

// MeasurementOrFact is one row of the measurement-or-fact extension. Exactly
// one of OccurrenceID and EventID is populated, depending on whether the
// measurement describes an organism or a sampling event.
type MeasurementOrFact struct {
	OccurrenceID      string
	EventID           string
	MeasurementType   string
	MeasurementValue  string
	MeasurementUnit   string
	MeasurementUnitID string
}
