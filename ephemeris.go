package acistherm

import (
	"fmt"
)

// ephemAxes are the orbit ephemeris MSIDs needed by the focal plane model.
var ephemAxes = []string{"orbitephem0_x", "orbitephem0_y", "orbitephem0_z"}

// ephemPad widens the ephemeris window past the run bounds, in seconds.
const ephemPad = 2000.0

// Ephemeris holds orbit position boundary data for the focal plane model.
type Ephemeris struct {
	Times []float64
	Data  map[string][]float64
}

// NewEphemerisFromFile reads an ASCII ephemeris table and clips it to the
// padded [tstart, tstop] window.
func NewEphemerisFromFile(filename string, tstart, tstop float64) (*Ephemeris, error) {
	table, err := ReadTable(filename)
	if err != nil {
		return nil, err
	}
	timeCol, ok := table.Columns["times"]
	if !ok {
		timeCol, ok = table.Columns["time"]
	}
	if !ok || timeCol.IsString() {
		return nil, fmt.Errorf("ephemeris %s has no numeric time column", filename)
	}
	lo, hi := 0, len(timeCol.Floats)
	for lo < hi && timeCol.Floats[lo] < tstart-ephemPad {
		lo++
	}
	for hi > lo && timeCol.Floats[hi-1] > tstop+ephemPad {
		hi--
	}
	e := &Ephemeris{Times: timeCol.Floats[lo:hi], Data: make(map[string][]float64)}
	for _, axis := range ephemAxes {
		col, ok := table.Columns[axis]
		if !ok || col.IsString() {
			return nil, fmt.Errorf("ephemeris %s has no numeric `%s` column", filename, axis)
		}
		e.Data[axis] = col.Floats[lo:hi]
	}
	return e, nil
}

// NewEphemerisFromArchive pulls the orbit ephemeris MSIDs from the
// engineering archive over the padded window.
func NewEphemerisFromArchive(dbPath string, tstart, tstop float64) (*Ephemeris, error) {
	msids, err := NewMSIDsFromArchive(dbPath, ephemAxes, tstart-ephemPad, tstop+ephemPad, ArchiveOptions{})
	if err != nil {
		return nil, err
	}
	e := &Ephemeris{Data: make(map[string][]float64)}
	for _, axis := range ephemAxes {
		d, err := msids.Get(axis)
		if err != nil {
			return nil, err
		}
		if e.Times == nil {
			e.Times = d.Times
		}
		e.Data[axis] = d.Values
	}
	return e, nil
}
