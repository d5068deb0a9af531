package dwc

import (
	"fmt"
	"strings"

	"github.com/sformel/mob-sample-data/internal/survey"
)

// BuildEvents derives the event core from the Station sheet: one aggregate
// event per distinct (cruise_id, type) pair in first-seen order, followed by
// one point event per station row. Cruise and station event ids must not
// collide, and station ids must be unique.
func BuildEvents(station survey.Table) ([]Event, error) {
	if err := station.Require(
		"station", "cruise_id", "type", "datetime",
		"lat_start", "lon_start", "lat_end", "lon_end",
		"depth", "notes", "participants",
	); err != nil {
		return nil, err
	}

	cruises, err := buildCruiseEvents(station)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(cruises)+len(station.Rows))
	seen := make(map[string]struct{}, len(cruises)+len(station.Rows))
	for _, ev := range cruises {
		seen[ev.EventID] = struct{}{}
		events = append(events, ev)
	}

	for _, row := range station.Rows {
		id := station.Value(row, "station")
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("station event id %q is not unique", id)
		}
		seen[id] = struct{}{}

		depth := station.Value(row, "depth")
		events = append(events, Event{
			EventID:              id,
			LocationID:           id,
			ParentEventID:        cruiseEventID(station, row),
			EventDate:            station.Value(row, "datetime"),
			EventType:            station.Value(row, "type"),
			DecimalLatitude:      station.Value(row, "lat_start"),
			DecimalLongitude:     station.Value(row, "lon_start"),
			MinimumDepthInMeters: depth,
			// A single depth is recorded per station, so min and max coincide.
			MaximumDepthInMeters: depth,
			EventRemarks:         station.Value(row, "notes"),
			RecordedBy:           station.Value(row, "participants"),
		})
	}
	return events, nil
}

func cruiseEventID(t survey.Table, row []string) string {
	return survey.NumericID(t.Value(row, "cruise_id")) + "_" + t.Value(row, "type")
}

type cruiseGroup struct {
	id     string
	date   string // first member row's datetime, sheet order
	typ    string
	starts []string
	ends   []string
}

func buildCruiseEvents(station survey.Table) ([]Event, error) {
	var order []string
	groups := make(map[string]*cruiseGroup)

	for _, row := range station.Rows {
		id := cruiseEventID(station, row)
		g, ok := groups[id]
		if !ok {
			g = &cruiseGroup{
				id:   id,
				date: station.Value(row, "datetime"),
				typ:  station.Value(row, "type"),
			}
			groups[id] = g
			order = append(order, id)
		}
		if pair, ok := coordPair(station, row, "lon_start", "lat_start"); ok {
			g.starts = append(g.starts, pair)
		}
		if pair, ok := coordPair(station, row, "lon_end", "lat_end"); ok {
			g.ends = append(g.ends, pair)
		}
	}

	events := make([]Event, 0, len(order))
	for _, id := range order {
		g := groups[id]
		events = append(events, Event{
			EventID:      g.id,
			EventDate:    g.date,
			EventType:    g.typ + " cruise",
			FootprintWKT: footprintWKT(g.starts, g.ends),
		})
	}
	return events, nil
}

func coordPair(t survey.Table, row []string, lonCol, latCol string) (string, bool) {
	lon := t.Value(row, lonCol)
	lat := t.Value(row, latCol)
	if lon == "" || lat == "" {
		return "", false
	}
	return lon + " " + lat, true
}

// footprintWKT joins all start coordinates, then all end coordinates, in
// encounter order. With fewer than two coordinates the result is degenerate
// (empty, or a one-point LINESTRING); that matches the recorded source data
// and is emitted as-is.
func footprintWKT(starts, ends []string) string {
	coords := make([]string, 0, len(starts)+len(ends))
	coords = append(coords, starts...)
	coords = append(coords, ends...)
	if len(coords) == 0 {
		return ""
	}
	return "LINESTRING (" + strings.Join(coords, ", ") + ")"
}
