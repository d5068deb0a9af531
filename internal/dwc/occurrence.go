package dwc

import (
	"strconv"

	"github.com/sformel/mob-sample-data/internal/survey"
)

// BuildOccurrences derives the occurrence extension: one row per CPUE catch
// record followed by one row per individual measurement record. The two id
// namespaces (plain join vs the MEAS_ prefix) are disjoint by construction,
// which keeps occurrenceID globally unique.
func BuildOccurrences(cpue, measurements survey.Table) ([]Occurrence, error) {
	if err := cpue.Require("Station", "Pot_ID", "Species", "Catch", "Notes"); err != nil {
		return nil, err
	}
	if err := measurements.Require("Station", "Species", "Sex", "Barotrauma", "Notes"); err != nil {
		return nil, err
	}

	out := make([]Occurrence, 0, len(cpue.Rows)+len(measurements.Rows))
	for i, row := range cpue.Rows {
		station := cpue.Value(row, "Station")
		out = append(out, Occurrence{
			OccurrenceID: station + "_" + cpue.Value(row, "Pot_ID") + "_" +
				cpue.Value(row, "Species") + "_" + strconv.Itoa(i+1),
			EventID:           station,
			VernacularName:    cpue.Value(row, "Species"),
			IndividualCount:   cpue.Value(row, "Catch"),
			OccurrenceRemarks: cpue.Value(row, "Notes"),
			BasisOfRecord:     BasisHumanObservation,
		})
	}
	for i, row := range measurements.Rows {
		out = append(out, Occurrence{
			OccurrenceID:      measurementOccurrenceID(measurements, i, row),
			EventID:           measurements.Value(row, "Station"),
			VernacularName:    measurements.Value(row, "Species"),
			Sex:               measurements.Value(row, "Sex"),
			OccurrenceRemarks: combineRemarks(measurements.Value(row, "Barotrauma"), measurements.Value(row, "Notes")),
			BasisOfRecord:     BasisHumanObservation,
		})
	}
	return out, nil
}

// measurementOccurrenceID synthesizes the id shared between a
// measurement-derived occurrence and the organism facts that reference it.
// The 1-based row index disambiguates repeated (Station, Species) pairs.
func measurementOccurrenceID(measurements survey.Table, i int, row []string) string {
	return "MEAS_" + measurements.Value(row, "Station") + "_" +
		measurements.Value(row, "Species") + "_" + strconv.Itoa(i+1)
}

func combineRemarks(barotrauma, notes string) string {
	switch {
	case barotrauma != "" && notes != "":
		return "Barotrauma: " + barotrauma + "; " + notes
	case barotrauma != "":
		return "Barotrauma: " + barotrauma
	default:
		return notes
	}
}
