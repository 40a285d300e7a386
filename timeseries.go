package acistherm

import (
	"fmt"
)

// DataArray holds one sampled quantity: parallel value/time axes, a unit
// tag and an optional bad-sample mask. String-valued arrays carry discrete
// states such as pcad_mode.
type DataArray struct {
	Values  []float64
	Strings []string // set instead of Values for discrete string states
	Times   []float64
	Unit    string
	Mask    []bool // true marks a good sample; nil means all good
}

// NewDataArray returns a DataArray, or an error if the value and time axes
// have different lengths.
func NewDataArray(values, times []float64, unit string) (*DataArray, error) {
	if len(values) != len(times) {
		return nil, fmt.Errorf("value axis has length %d but time axis has length %d", len(values), len(times))
	}
	return &DataArray{Values: values, Times: times, Unit: unit}, nil
}

// NewStringArray returns a string-valued DataArray.
func NewStringArray(values []string, times []float64) (*DataArray, error) {
	if len(values) != len(times) {
		return nil, fmt.Errorf("value axis has length %d but time axis has length %d", len(values), len(times))
	}
	return &DataArray{Strings: values, Times: times}, nil
}

// IsString returns whether this array holds discrete string values.
func (d *DataArray) IsString() bool {
	return d.Strings != nil
}

// Len returns the number of samples.
func (d *DataArray) Len() int {
	if d.IsString() {
		return len(d.Strings)
	}
	return len(d.Values)
}

// AtTime linearly interpolates the array at the given mission time.
func (d *DataArray) AtTime(t float64) float64 {
	return interpOne(d.Values, d.Times, t)
}

// TimeSeriesData maps quantity names to their sampled arrays. Lookup
// order is preserved from construction for deterministic report columns.
type TimeSeriesData struct {
	table map[string]*DataArray
	names []string
}

// NewTimeSeriesData returns an empty keyed series container.
func NewTimeSeriesData() *TimeSeriesData {
	return &TimeSeriesData{table: make(map[string]*DataArray)}
}

// EmptyTimeSeries stands in when a data source is not requested.
func EmptyTimeSeries() *TimeSeriesData {
	return NewTimeSeriesData()
}

// Set adds or replaces the array stored under name.
func (ts *TimeSeriesData) Set(name string, d *DataArray) {
	if _, ok := ts.table[name]; !ok {
		ts.names = append(ts.names, name)
	}
	ts.table[name] = d
}

// Get returns the array stored under name.
func (ts *TimeSeriesData) Get(name string) (*DataArray, error) {
	d, ok := ts.table[name]
	if !ok {
		return nil, fmt.Errorf("no quantity `%s` in this series", name)
	}
	return d, nil
}

// Contains reports whether name is a known quantity.
func (ts *TimeSeriesData) Contains(name string) bool {
	_, ok := ts.table[name]
	return ok
}

// Keys returns the quantity names in insertion order.
func (ts *TimeSeriesData) Keys() []string {
	keys := make([]string, len(ts.names))
	copy(keys, ts.names)
	return keys
}

// IsEmpty reports whether this series holds no quantities.
func (ts *TimeSeriesData) IsEmpty() bool {
	return len(ts.names) == 0
}
