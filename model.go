package acistherm

import (
	"fmt"
)

// compMap translates a temperature MSID to its archive page name.
var compMap = map[string]string{
	"1deamzt":   "dea",
	"1dpamzt":   "dpa",
	"1pdeaat":   "psmc",
	"fptemp_11": "fp",
}

// Model holds temperature-model output: one array per modeled component,
// all sharing a single time axis.
type Model struct {
	*TimeSeriesData
	Times []float64
}

// NewModel returns a Model over the given time axis.
func NewModel(times []float64) *Model {
	return &Model{TimeSeriesData: NewTimeSeriesData(), Times: times}
}

// AddComponent adds a modeled temperature array, which must match the
// model time axis in length.
func (m *Model) AddComponent(name string, values []float64, mask []bool) error {
	d, err := NewDataArray(values, m.Times, "deg_C")
	if err != nil {
		return fmt.Errorf("component `%s`: %s", name, err)
	}
	d.Mask = mask
	m.Set(name, d)
	return nil
}

// NewModelFromArchive fetches the temperature model of a load review from
// the web archive, one page per requested component.
func NewModelFromArchive(load string, comps []string) (*Model, error) {
	var model *Model
	for _, comp := range comps {
		page, ok := compMap[comp]
		if !ok {
			return nil, fmt.Errorf("unknown temperature component `%s`", comp)
		}
		url, err := loadPageURL(page, load, tempFileName)
		if err != nil {
			return nil, err
		}
		table, err := fetchArchiveTable(url)
		if err != nil {
			return nil, err
		}
		one, err := modelFromTable(table)
		if err != nil {
			return nil, fmt.Errorf("load %s, component %s: %s", load, comp, err)
		}
		if model == nil {
			model = NewModel(one.Times)
		}
		d, err := one.Get(comp)
		if err != nil {
			return nil, err
		}
		if err := model.AddComponent(comp, d.Values, nil); err != nil {
			return nil, err
		}
	}
	return model, nil
}

// NewModelFromFile reads temperature-model output from an ASCII table
// produced by a model check tool. Every column other than time and date
// is taken as a modeled component.
func NewModelFromFile(filename string) (*Model, error) {
	table, err := ReadTable(filename)
	if err != nil {
		return nil, err
	}
	return modelFromTable(table)
}

// NewModelFromFiles reads one or more temperature files. The files must
// either all hold the same single component (kept as model0, model1, ...)
// or all hold different components (merged by name); any other mix is an
// error.
func NewModelFromFiles(filenames []string) (*Model, error) {
	if len(filenames) == 1 {
		return NewModelFromFile(filenames[0])
	}
	models := make([]*Model, len(filenames))
	comps := make([]string, len(filenames))
	unique := make(map[string]bool)
	for i, filename := range filenames {
		m, err := NewModelFromFile(filename)
		if err != nil {
			return nil, err
		}
		models[i] = m
		comps[i] = m.Keys()[0]
		unique[comps[i]] = true
	}
	switch len(unique) {
	case 1:
		joined := NewModel(models[0].Times)
		for i, m := range models {
			d, err := m.Get(comps[i])
			if err != nil {
				return nil, err
			}
			if err := joined.AddComponent(fmt.Sprintf("model%d", i), d.Values, d.Mask); err != nil {
				return nil, err
			}
		}
		return joined, nil
	case len(filenames):
		return JoinModels(models)
	default:
		return nil, fmt.Errorf("can only join model files which are all the same component or all different ones")
	}
}

// JoinModels merges models holding distinct components onto the time axis
// of the first model.
func JoinModels(models []*Model) (*Model, error) {
	joined := NewModel(models[0].Times)
	for _, m := range models {
		for _, name := range m.Keys() {
			if joined.Contains(name) {
				return nil, fmt.Errorf("component `%s` appears in more than one model", name)
			}
			d, err := m.Get(name)
			if err != nil {
				return nil, err
			}
			values := d.Values
			if !sameAxis(m.Times, joined.Times) {
				values = Interpolate(d.Values, m.Times, joined.Times)
			}
			if err := joined.AddComponent(name, values, d.Mask); err != nil {
				return nil, err
			}
		}
	}
	return joined, nil
}

// Values interpolates every component at the given mission time.
func (m *Model) Values(t float64) map[string]float64 {
	values := make(map[string]float64, len(m.Keys()))
	for _, name := range m.Keys() {
		d, _ := m.Get(name)
		values[name] = d.AtTime(t)
	}
	return values
}

func sameAxis(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return a[0] == b[0] && a[len(a)-1] == b[len(b)-1]
}

func modelFromTable(table *Table) (*Model, error) {
	timeCol, ok := table.Columns["time"]
	if !ok || timeCol.IsString() {
		return nil, fmt.Errorf("table has no numeric `time` column")
	}
	model := NewModel(timeCol.Floats)
	for _, name := range table.Names {
		if name == "time" || name == "date" {
			continue
		}
		col := table.Columns[name]
		if col.IsString() {
			continue
		}
		comp := name
		if comp == "fptemp" {
			comp = "fptemp_11"
		}
		if err := model.AddComponent(comp, col.Floats, nil); err != nil {
			return nil, err
		}
	}
	if model.IsEmpty() {
		return nil, fmt.Errorf("table holds no temperature components")
	}
	return model, nil
}
