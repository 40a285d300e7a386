package acistherm

import (
	"database/sql"
	"fmt"

	// SQLite driver for the commanded states database.
	_ "github.com/mattn/go-sqlite3"
)

// stateStringCols are the commanded-state columns carried as strings.
var stateStringCols = map[string]bool{
	"datestart": true,
	"datestop":  true,
	"pcad_mode": true,
	"power_cmd": true,
	"hetg":      true,
	"letg":      true,
	"dither":    true,
}

// stateUnits tags the physical commanded-state quantities.
var stateUnits = map[string]string{
	"tstart":           "s",
	"tstop":            "s",
	"pitch":            "deg",
	"off_nominal_roll": "deg",
	"simpos":           "steps",
}

// stateDBCols is the column set queried from the commanded states
// database, in report order.
var stateDBCols = []string{
	"datestart", "datestop", "tstart", "tstop", "pitch", "simpos",
	"ccd_count", "fep_count", "clocking", "vid_board", "pcad_mode",
	"power_cmd", "hetg", "letg", "dither", "q1", "q2", "q3", "q4",
}

// States holds the commanded-state table: one array per state quantity,
// sampled on intervals bounded by the tstart/tstop arrays.
type States struct {
	*TimeSeriesData
}

// NewStates builds a States table from named columns. The tstart and
// tstop columns are required; every array is tagged with the interval
// start times as its time axis.
func NewStates(columns map[string][]float64, strCols map[string][]string) (*States, error) {
	tstart, ok := columns["tstart"]
	if !ok {
		return nil, fmt.Errorf("commanded states require a `tstart` column")
	}
	if _, ok := columns["tstop"]; !ok {
		return nil, fmt.Errorf("commanded states require a `tstop` column")
	}
	s := &States{TimeSeriesData: NewTimeSeriesData()}
	for _, name := range stateDBCols {
		if vals, ok := columns[name]; ok {
			d, err := NewDataArray(vals, tstart, stateUnits[name])
			if err != nil {
				return nil, fmt.Errorf("state `%s`: %s", name, err)
			}
			s.Set(name, d)
		} else if vals, ok := strCols[name]; ok {
			d, err := NewStringArray(vals, tstart)
			if err != nil {
				return nil, fmt.Errorf("state `%s`: %s", name, err)
			}
			s.Set(name, d)
		}
	}
	for name, vals := range columns {
		if s.Contains(name) {
			continue
		}
		d, err := NewDataArray(vals, tstart, stateUnits[name])
		if err != nil {
			return nil, fmt.Errorf("state `%s`: %s", name, err)
		}
		s.Set(name, d)
	}
	for name, vals := range strCols {
		if s.Contains(name) {
			continue
		}
		d, err := NewStringArray(vals, tstart)
		if err != nil {
			return nil, fmt.Errorf("state `%s`: %s", name, err)
		}
		s.Set(name, d)
	}
	return s, nil
}

// NewStatesFromDatabase queries the commanded states SQLite database for
// all state intervals overlapping [tstart, tstop]. An empty dbPath uses
// the configured database.
func NewStatesFromDatabase(dbPath string, tstart, tstop float64) (*States, error) {
	if dbPath == "" {
		dbPath = athermConfig().statesDB
	}
	if dbPath == "" {
		return nil, fmt.Errorf("no commanded states database configured")
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	query := "SELECT "
	for i, col := range stateDBCols {
		if i > 0 {
			query += ", "
		}
		query += col
	}
	query += " FROM cmd_states WHERE tstop > ? AND tstart < ? ORDER BY tstart"
	rows, err := db.Query(query, tstart, tstop)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns := make(map[string][]float64)
	strCols := make(map[string][]string)
	for rows.Next() {
		dest := make([]interface{}, len(stateDBCols))
		fvals := make([]float64, len(stateDBCols))
		svals := make([]string, len(stateDBCols))
		for i, col := range stateDBCols {
			if stateStringCols[col] {
				dest[i] = &svals[i]
			} else {
				dest[i] = &fvals[i]
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, col := range stateDBCols {
			if stateStringCols[col] {
				strCols[col] = append(strCols[col], svals[i])
			} else {
				columns[col] = append(columns[col], fvals[i])
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewStates(columns, strCols)
}

// NewStatesFromArchive fetches the commanded states of a load review from
// the given thermal model page of the web archive.
func NewStatesFromArchive(load, comp string) (*States, error) {
	url, err := loadPageURL(comp, load, stateFileName)
	if err != nil {
		return nil, err
	}
	table, err := fetchArchiveTable(url)
	if err != nil {
		return nil, err
	}
	return statesFromTable(table)
}

// NewStatesFromFile reads a states.dat file written by a model check tool.
func NewStatesFromFile(filename string) (*States, error) {
	table, err := ReadTable(filename)
	if err != nil {
		return nil, err
	}
	return statesFromTable(table)
}

func statesFromTable(table *Table) (*States, error) {
	columns := make(map[string][]float64)
	strCols := make(map[string][]string)
	for _, name := range table.Names {
		// The PSMC pages carry a T_pin1at boundary column which is not
		// a commanded state.
		if name == "T_pin1at" {
			continue
		}
		col := table.Columns[name]
		if col.IsString() {
			strCols[name] = col.Strings
		} else {
			columns[name] = col.Floats
		}
	}
	return NewStates(columns, strCols)
}

// TStart returns the interval start times.
func (s *States) TStart() []float64 {
	d, _ := s.Get("tstart")
	return d.Values
}

// TStop returns the interval stop times.
func (s *States) TStop() []float64 {
	d, _ := s.Get("tstop")
	return d.Values
}

// At returns the commanded state holding at the given mission time, split
// into numeric and string quantities. A time outside every interval is an
// error.
func (s *States) At(t float64) (map[string]float64, map[string]string, error) {
	idx := intervalIndex(s.TStart(), s.TStop(), t)
	if idx < 0 {
		return nil, nil, fmt.Errorf("no commanded state interval holds at %s", SecsToDate(t))
	}
	nums := make(map[string]float64)
	strs := make(map[string]string)
	for _, name := range s.Keys() {
		d, _ := s.Get(name)
		if d.IsString() {
			strs[name] = d.Strings[idx]
		} else {
			nums[name] = d.Values[idx]
		}
	}
	return nums, strs, nil
}

// OffNominalRolls derives the off-nominal roll of each state interval
// from the attitude quaternions.
func (s *States) OffNominalRolls() ([]float64, error) {
	quats := make([][]float64, 4)
	for i, name := range []string{"q1", "q2", "q3", "q4"} {
		d, err := s.Get(name)
		if err != nil {
			return nil, fmt.Errorf("cannot derive off-nominal roll: %s", err)
		}
		quats[i] = d.Values
	}
	rolls := make([]float64, len(quats[0]))
	for i := range rolls {
		rolls[i] = OffNominalRoll(quats[0][i], quats[1][i], quats[2][i], quats[3][i])
	}
	return rolls, nil
}
