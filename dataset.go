package acistherm

import (
	"fmt"
)

// Field types addressable in a Dataset.
const (
	FieldMSIDs  = "msids"
	FieldStates = "states"
	FieldModel  = "model"
)

// FieldKey addresses one quantity of a Dataset, e.g. {model 1dpamzt}.
type FieldKey struct {
	Type string
	Name string
}

func (k FieldKey) String() string {
	return k.Type + "/" + k.Name
}

// Dataset joins telemetry, commanded states and model output for one time
// range. The three tables keep their native sampling; cross-table lookups
// are only valid after mapping onto a common grid (MapStateToMSID,
// archive interpolation). Derived fields land next to their type.
type Dataset struct {
	MSIDs  *TimeSeriesData
	States *States
	Model  *Model

	derived map[FieldKey]*DataArray
	order   []FieldKey
}

// NewDataset joins the three sources. Pass EmptyTimeSeries() for absent
// telemetry.
func NewDataset(msids *TimeSeriesData, states *States, model *Model) *Dataset {
	return &Dataset{
		MSIDs:   msids,
		States:  states,
		Model:   model,
		derived: make(map[FieldKey]*DataArray),
	}
}

// Field returns the array addressed by the given key.
func (ds *Dataset) Field(ftype, name string) (*DataArray, error) {
	if d, ok := ds.derived[FieldKey{ftype, name}]; ok {
		return d, nil
	}
	switch ftype {
	case FieldMSIDs:
		return ds.MSIDs.Get(name)
	case FieldStates:
		return ds.States.Get(name)
	case FieldModel:
		return ds.Model.Get(name)
	}
	return nil, fmt.Errorf("unknown field type `%s`", ftype)
}

// HasField reports whether the key addresses a known quantity.
func (ds *Dataset) HasField(ftype, name string) bool {
	_, err := ds.Field(ftype, name)
	return err == nil
}

// FieldList returns every addressable field.
func (ds *Dataset) FieldList() []FieldKey {
	var fields []FieldKey
	for _, name := range ds.MSIDs.Keys() {
		fields = append(fields, FieldKey{FieldMSIDs, name})
	}
	for _, name := range ds.States.Keys() {
		fields = append(fields, FieldKey{FieldStates, name})
	}
	for _, name := range ds.Model.Keys() {
		fields = append(fields, FieldKey{FieldModel, name})
	}
	fields = append(fields, ds.order...)
	return fields
}

// Times returns the time axis of a field.
func (ds *Dataset) Times(ftype, name string) ([]float64, error) {
	d, err := ds.Field(ftype, name)
	if err != nil {
		return nil, err
	}
	return d.Times, nil
}

// Dates returns the datestrings of a field's time axis.
func (ds *Dataset) Dates(ftype, name string) ([]string, error) {
	times, err := ds.Times(ftype, name)
	if err != nil {
		return nil, err
	}
	return SecsToDates(times), nil
}

func (ds *Dataset) addDerived(key FieldKey, d *DataArray) {
	if _, ok := ds.derived[key]; !ok {
		ds.order = append(ds.order, key)
	}
	ds.derived[key] = d
}

// MapStateToMSID maps a commanded state onto the model time axis of the
// given component, so state and model values line up sample for sample.
// The mapped field is addressable as {msids, state}.
func (ds *Dataset) MapStateToMSID(state, msid string) error {
	times, err := ds.Times(FieldModel, msid)
	if err != nil {
		return err
	}
	sd, err := ds.States.Get(state)
	if err != nil {
		return err
	}
	tstarts, tstops := ds.States.TStart(), ds.States.TStop()
	if sd.IsString() {
		mapped := make([]string, len(times))
		for i, t := range times {
			mapped[i] = sd.Strings[clampedInterval(tstarts, tstops, t)]
		}
		d, err := NewStringArray(mapped, times)
		if err != nil {
			return err
		}
		ds.addDerived(FieldKey{FieldMSIDs, state}, d)
		return nil
	}
	mapped := make([]float64, len(times))
	for i, t := range times {
		mapped[i] = sd.Values[clampedInterval(tstarts, tstops, t)]
	}
	d, err := NewDataArray(mapped, times, sd.Unit)
	if err != nil {
		return err
	}
	ds.addDerived(FieldKey{FieldMSIDs, state}, d)
	return nil
}

// AddDiffDataModelField adds a model-minus-telemetry difference field for
// the given component, addressable as {model, diff_<msid>}. Model and
// telemetry must already share a time axis.
func (ds *Dataset) AddDiffDataModelField(msid string) error {
	md, err := ds.Model.Get(msid)
	if err != nil {
		return err
	}
	td, err := ds.MSIDs.Get(msid)
	if err != nil {
		return err
	}
	if md.Len() != td.Len() {
		return fmt.Errorf("model and telemetry for `%s` have lengths %d and %d", msid, md.Len(), td.Len())
	}
	diff := make([]float64, md.Len())
	for i := range diff {
		diff[i] = md.Values[i] - td.Values[i]
	}
	d, err := NewDataArray(diff, md.Times, md.Unit)
	if err != nil {
		return err
	}
	ds.addDerived(FieldKey{FieldModel, "diff_" + msid}, d)
	return nil
}

// clampedInterval is intervalIndex with out-of-range times clamped to the
// first or last interval.
func clampedInterval(tstarts, tstops []float64, t float64) int {
	if idx := intervalIndex(tstarts, tstops, t); idx >= 0 {
		return idx
	}
	if t < tstarts[0] {
		return 0
	}
	return len(tstarts) - 1
}

// WriteMSIDs writes the given fields vs. time to an ASCII table. All
// fields must share the time axis of the first one.
func (ds *Dataset) WriteMSIDs(filename string, fields []FieldKey, overwrite bool) error {
	if len(fields) == 0 {
		return fmt.Errorf("no fields to write")
	}
	table := NewTable()
	for i, key := range fields {
		d, err := ds.Field(key.Type, key.Name)
		if err != nil {
			return err
		}
		if i == 0 {
			table.AddFloats("time", d.Times)
			table.AddStrings("date", SecsToDates(d.Times))
		}
		colName := key.Name
		if _, taken := table.Columns[colName]; taken {
			// Model and telemetry share MSID names; qualify the column.
			colName = key.Type + "_" + key.Name
		}
		if d.IsString() {
			table.AddStrings(colName, d.Strings)
		} else {
			table.AddFloats(colName, d.Values)
		}
	}
	return table.WriteTable(filename, overwrite)
}

// WriteModel writes the model data vs. time to an ASCII table.
func (ds *Dataset) WriteModel(filename string, overwrite bool) error {
	var fields []FieldKey
	for _, name := range ds.Model.Keys() {
		fields = append(fields, FieldKey{FieldModel, name})
	}
	return ds.WriteMSIDs(filename, fields, overwrite)
}

// statesToMap are the commanded states carried in combined reports.
var statesToMap = []string{
	"vid_board", "pcad_mode", "pitch", "clocking", "simpos",
	"ccd_count", "fep_count", "off_nominal_roll", "power_cmd",
}

// WriteModelAndData writes model, telemetry and states vs. time to an
// ASCII table. States are mapped onto the model grid first so that
// everything shares one set of times; where telemetry exists for a
// component, a model-minus-telemetry diff column is added.
func (ds *Dataset) WriteModelAndData(filename string, overwrite bool) error {
	var out []FieldKey
	for i, msid := range ds.Model.Keys() {
		if i == 0 {
			for _, state := range statesToMap {
				if !ds.States.Contains(state) {
					continue
				}
				if err := ds.MapStateToMSID(state, msid); err != nil {
					return err
				}
				out = append(out, FieldKey{FieldMSIDs, state})
			}
		}
		out = append(out, FieldKey{FieldModel, msid})
		if ds.MSIDs.Contains(msid) {
			if err := ds.AddDiffDataModelField(msid); err != nil {
				return err
			}
			out = append(out, FieldKey{FieldMSIDs, msid}, FieldKey{FieldModel, "diff_" + msid})
		}
	}
	return ds.WriteMSIDs(filename, out, overwrite)
}

// WriteStates writes the commanded states to an ASCII table.
func (ds *Dataset) WriteStates(filename string, overwrite bool) error {
	table := NewTable()
	for _, name := range ds.States.Keys() {
		d, _ := ds.States.Get(name)
		if d.IsString() {
			table.AddStrings(name, d.Strings)
		} else {
			table.AddFloats(name, d.Values)
		}
	}
	return table.WriteTable(filename, overwrite)
}
