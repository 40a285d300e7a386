package acistherm

import (
	"database/sql"
	"fmt"

	// SQLite driver for the engineering archive mirror.
	_ "github.com/mattn/go-sqlite3"
)

// MSIDs holds telemetry pulled from the engineering archive or a
// tracelog, one array per telemetered quantity.
type MSIDs struct {
	*TimeSeriesData
}

// ArchiveOptions controls an engineering archive fetch.
type ArchiveOptions struct {
	FilterBad        bool      // drop samples flagged with bad quality
	InterpolateTimes []float64 // if set, interpolate onto this time axis
}

// NewMSIDsFromArchive queries the engineering archive mirror for the
// named MSIDs over [tstart, tstop]. An empty dbPath uses the configured
// archive database.
func NewMSIDsFromArchive(dbPath string, names []string, tstart, tstop float64, opts ArchiveOptions) (*MSIDs, error) {
	if dbPath == "" {
		dbPath = athermConfig().archiveDB
	}
	if dbPath == "" {
		return nil, fmt.Errorf("no engineering archive database configured")
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	m := &MSIDs{TimeSeriesData: NewTimeSeriesData()}
	for _, name := range names {
		times, values, err := queryMSID(db, name, tstart, tstop, opts.FilterBad)
		if err != nil {
			return nil, err
		}
		if len(times) == 0 {
			return nil, fmt.Errorf("no archive data for MSID `%s` between %s and %s",
				name, SecsToDate(tstart), SecsToDate(tstop))
		}
		if opts.InterpolateTimes != nil {
			values = Interpolate(values, times, opts.InterpolateTimes)
			times = opts.InterpolateTimes
		}
		d, err := NewDataArray(values, times, msidUnit(name))
		if err != nil {
			return nil, err
		}
		m.Set(name, d)
	}
	return m, nil
}

// NewMSIDsFromTracelog reads telemetry from an ASCII tracelog table with
// a time column and one column per MSID. Zero bounds disable clipping.
func NewMSIDsFromTracelog(filename string, tbegin, tend float64) (*MSIDs, error) {
	table, err := ReadTable(filename)
	if err != nil {
		return nil, err
	}
	timeCol, ok := table.Columns["time"]
	if !ok || timeCol.IsString() {
		return nil, fmt.Errorf("tracelog %s has no numeric `time` column", filename)
	}
	lo, hi := 0, len(timeCol.Floats)
	for lo < hi && tbegin > 0 && timeCol.Floats[lo] < tbegin {
		lo++
	}
	for hi > lo && tend > 0 && timeCol.Floats[hi-1] > tend {
		hi--
	}
	times := timeCol.Floats[lo:hi]
	m := &MSIDs{TimeSeriesData: NewTimeSeriesData()}
	for _, name := range table.Names {
		if name == "time" || name == "date" {
			continue
		}
		col := table.Columns[name]
		if col.IsString() {
			continue
		}
		d, err := NewDataArray(col.Floats[lo:hi], times, msidUnit(name))
		if err != nil {
			return nil, err
		}
		m.Set(name, d)
	}
	return m, nil
}

func queryMSID(db *sql.DB, name string, tstart, tstop float64, filterBad bool) ([]float64, []float64, error) {
	query := "SELECT time, value, quality FROM msid_data WHERE msid = ? AND time >= ? AND time <= ? ORDER BY time"
	rows, err := db.Query(query, name, tstart, tstop)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var times, values []float64
	for rows.Next() {
		var t, v float64
		var quality int
		if err := rows.Scan(&t, &v, &quality); err != nil {
			return nil, nil, err
		}
		if filterBad && quality != 0 {
			continue
		}
		times = append(times, t)
		values = append(values, v)
	}
	return times, values, rows.Err()
}

func msidUnit(name string) string {
	switch name {
	case "1deamzt", "1dpamzt", "1pdeaat", "fptemp_11",
		"tmp_fep1_mong", "tmp_fep1_actel", "tmp_bep_pcb":
		return "deg_C"
	}
	return ""
}
