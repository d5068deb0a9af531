package survey

import (
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names the loader expects in the survey workbook.
const (
	SheetStation      = "Station"
	SheetCPUE         = "CPUE"
	SheetMeasurements = "Measurements"
)

// Workbook holds the three loaded survey sheets.
type Workbook struct {
	Station      Table
	CPUE         Table
	Measurements Table
}

// requiredColumns lists the columns each sheet must carry for the downstream
// transforms. Validated at load time so a renamed column fails the run before
// any output is produced.
var requiredColumns = map[string][]string{
	SheetStation: {
		"station", "cruise_id", "type", "datetime",
		"lat_start", "lon_start", "lat_end", "lon_end",
		"depth", "wind_speed", "wind_dir", "wave_height",
		"cloud_cover_10th", "ropeless_id", "notes", "participants",
	},
	SheetCPUE: {
		"Station", "Pot_ID", "Pot_position", "Near_Far",
		"Species", "Catch", "Notes",
	},
	SheetMeasurements: {
		"Station", "Species", "TL_mm", "Wt_g_recorded",
		"scale_tare_g", "Wt_g", "Retained", "Sex",
		"Barotrauma", "Near/Far", "Notes",
	},
}

// LoadWorkbook reads the Station, CPUE and Measurements sheets from the
// workbook at path. A missing file, missing sheet or headerless sheet yields
// a *SourceReadError; a missing expected column yields a
// *SchemaMismatchError.
func LoadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	var wb Workbook
	for _, target := range []struct {
		sheet string
		dst   *Table
	}{
		{SheetStation, &wb.Station},
		{SheetCPUE, &wb.CPUE},
		{SheetMeasurements, &wb.Measurements},
	} {
		t, err := readSheet(f, path, target.sheet)
		if err != nil {
			return nil, err
		}
		*target.dst = t
	}
	return &wb, nil
}

func readSheet(f *excelize.File, path, sheet string) (Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, &SourceReadError{Path: path, Sheet: sheet, Err: err}
	}
	if len(rows) == 0 {
		return Table{}, &SourceReadError{Path: path, Sheet: sheet, Err: errors.New("missing header row")}
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	t := Table{Sheet: sheet, Columns: header, Rows: rows[1:]}
	if err := t.Require(requiredColumns[sheet]...); err != nil {
		return Table{}, err
	}
	return t, nil
}
