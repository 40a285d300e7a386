package acistherm

import (
	"fmt"
	"os"
	"sort"

	kitlog "github.com/go-kit/kit/log"
)

// fullName translates a temperature MSID to its display name.
var fullName = map[string]string{
	"1deamzt":        "DEA",
	"1dpamzt":        "DPA",
	"1pdeaat":        "PSMC",
	"fptemp_11":      "Focal Plane",
	"tmp_fep1_mong":  "FEP1 Mongoose",
	"tmp_fep1_actel": "FEP1 Actel",
	"tmp_bep_pcb":    "BEP PCB",
}

// Limits are the planning limits in degrees C.
var Limits = map[string]float64{
	"1deamzt":        35.5,
	"1dpamzt":        35.5,
	"1pdeaat":        52.5,
	"tmp_fep1_mong":  43.0,
	"tmp_fep1_actel": 43.0,
	"tmp_bep_pcb":    43.0,
}

// Margins are the caution margins above the planning limits in degrees C.
var Margins = map[string]float64{
	"1deamzt":        2.0,
	"1dpamzt":        2.0,
	"1pdeaat":        4.5,
	"tmp_fep1_mong":  2.0,
	"tmp_fep1_actel": 2.0,
	"tmp_bep_pcb":    2.0,
}

// statePad widens telemetry and state fetches past the run bounds, in
// seconds, to guarantee boundary coverage.
const statePad = 700.0

// defaultSimPos parks the science instrument module for CTI runs.
const defaultSimPos = -99616.0

// RunnerOptions tunes a thermal model run.
type RunnerOptions struct {
	States          *States  // explicit states; nil queries the states database
	StatesDB        string   // states database override
	TInit           *float64 // initial temperature; nil takes the telemetry mean
	UseMSIDs        bool     // pull telemetry alongside the model
	ArchiveDB       string   // engineering archive override
	ModelSpec       string   // model spec path override
	IncludeBadTimes bool     // mask known-bad samples in the model arrays
	Ephemeris       *Ephemeris
	Engine          Engine // nil uses the configured external engine
}

// ThermalModelRunner configures the thermal model of one component with
// commanded-state boundary data, runs the external engine and joins the
// result with states and, optionally, telemetry.
type ThermalModelRunner struct {
	*Dataset
	Name     string
	SpecPath string
	TStart   float64
	TStop    float64
	BadTimes [][2]float64

	logger kitlog.Logger
}

// NewThermalModelRunner runs the named model between tstart and tstop
// (any format ParseTime accepts).
func NewThermalModelRunner(name, tstart, tstop string, opts RunnerOptions) (*ThermalModelRunner, error) {
	tstartSecs, err := ParseTime(tstart)
	if err != nil {
		return nil, err
	}
	tstopSecs, err := ParseTime(tstop)
	if err != nil {
		return nil, err
	}

	states := opts.States
	if states == nil {
		states, err = NewStatesFromDatabase(opts.StatesDB, tstartSecs-statePad, tstopSecs)
		if err != nil {
			return nil, err
		}
	}
	if !states.Contains("off_nominal_roll") {
		if rolls, rollErr := states.OffNominalRolls(); rollErr == nil {
			d, _ := NewDataArray(rolls, states.TStart(), "deg")
			states.Set("off_nominal_roll", d)
		}
	}

	var tInit float64
	if opts.TInit != nil {
		tInit = *opts.TInit
	} else {
		if !opts.UseMSIDs {
			return nil, fmt.Errorf("set UseMSIDs if telemetry should set the initial temperature")
		}
		telem, err := NewMSIDsFromArchive(opts.ArchiveDB, []string{name},
			tstartSecs-statePad, tstartSecs+statePad, ArchiveOptions{FilterBad: true})
		if err != nil {
			return nil, err
		}
		d, err := telem.Get(name)
		if err != nil {
			return nil, err
		}
		tInit = meanFloats(d.Values)
	}

	specPath, err := findModelSpec(name, opts.ModelSpec)
	if err != nil {
		return nil, err
	}
	cfg, err := buildModelConfig(name, specPath, tstartSecs, tstopSecs, tInit, states, opts)
	if err != nil {
		return nil, err
	}

	engine := opts.Engine
	if engine == nil {
		engine = NewXijaEngine()
	}
	res, err := engine.Run(cfg)
	if err != nil {
		return nil, err
	}
	compVals, ok := res.Comps[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("engine result is missing the `%s` component", cfg.Name)
	}

	var mask []bool
	if opts.IncludeBadTimes {
		mask = badTimesMask(res.Times, res.BadTimes)
	}
	model := NewModel(res.Times)
	if err := model.AddComponent(name, compVals, mask); err != nil {
		return nil, err
	}
	if power, ok := res.Comps["dpa_power"]; ok {
		if err := model.AddComponent("dpa_power", power, nil); err != nil {
			return nil, err
		}
	}

	msids := EmptyTimeSeries()
	if opts.UseMSIDs {
		telem, err := NewMSIDsFromArchive(opts.ArchiveDB, []string{name}, tstartSecs, tstopSecs,
			ArchiveOptions{FilterBad: true, InterpolateTimes: res.Times})
		if err != nil {
			return nil, err
		}
		d, err := telem.Get(name)
		if err != nil {
			return nil, err
		}
		if d.Len() != len(res.Times) {
			return nil, fmt.Errorf("time arrays for model data and telemetry have lengths %d and %d; the model probably ran past the end of the archive", len(res.Times), d.Len())
		}
		msids = telem.TimeSeriesData
	}

	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "model", name)
	return &ThermalModelRunner{
		Dataset:  NewDataset(msids, states, model),
		Name:     name,
		SpecPath: specPath,
		TStart:   tstartSecs,
		TStop:    tstopSecs,
		BadTimes: res.BadTimes,
		logger:   klog,
	}, nil
}

// buildModelConfig assembles the boundary data of every component the
// model spec declares and the states can drive.
func buildModelConfig(name, specPath string, tstart, tstop, tInit float64, states *States, opts RunnerOptions) (*ModelConfig, error) {
	compName := name
	if name == "fptemp_11" {
		compName = "fptemp"
	}
	cfg, err := NewModelConfig(compName, specPath, tstart, tstop)
	if err != nil {
		return nil, err
	}
	starts, stops := states.TStart(), states.TStop()
	intervals := func(comp, state string) error {
		d, err := states.Get(state)
		if err != nil {
			return fmt.Errorf("model `%s` needs the `%s` state: %s", name, state, err)
		}
		cfg.SetIntervals(comp, d.Values, starts, stops)
		return nil
	}

	if cfg.HasComponent("eclipse") {
		cfg.SetScalar("eclipse", 0)
	}
	cfg.SetScalar(compName, tInit)
	if err := intervals("sim_z", "simpos"); err != nil {
		return nil, err
	}
	if cfg.HasComponent("roll") {
		if err := intervals("roll", "off_nominal_roll"); err != nil {
			return nil, err
		}
	}
	if cfg.HasComponent("dpa_power") {
		// The power is not really zero; the spec treats this node as
		// solar-driven and ignores the set value.
		cfg.SetScalar("dpa_power", 0)
	}
	if cfg.HasComponent("pin1at") {
		cfg.SetScalar("pin1at", tInit-10)
	}
	if cfg.HasComponent("dpa0") {
		cfg.SetScalar("dpa0", tInit)
	}
	if cfg.HasComponent("dh_heater") {
		if states.Contains("dh_heater") {
			if err := intervals("dh_heater", "dh_heater"); err != nil {
				return nil, err
			}
		} else {
			cfg.SetScalar("dh_heater", 0)
		}
	}
	for _, state := range []string{"ccd_count", "fep_count", "vid_board", "clocking", "pitch"} {
		if err := intervals(state, state); err != nil {
			return nil, err
		}
	}
	if compName == "fptemp" {
		ephem := opts.Ephemeris
		if ephem == nil {
			ephem, err = NewEphemerisFromArchive(opts.ArchiveDB, tstart, tstop)
			if err != nil {
				return nil, err
			}
		}
		for _, axis := range ephemAxes {
			cfg.SetSampled(axis, ephem.Data[axis], ephem.Times)
		}
		for i := 1; i <= 4; i++ {
			if err := intervals(fmt.Sprintf("aoattqt%d", i), fmt.Sprintf("q%d", i)); err != nil {
				return nil, err
			}
		}
		cfg.SetScalar("1cbat", -53.0)
		cfg.SetScalar("sim_px", -120.0)
	}
	return cfg, nil
}

// badTimesMask marks samples inside known-bad intervals as bad.
func badTimesMask(times []float64, badTimes [][2]float64) []bool {
	mask := make([]bool, len(times))
	for i := range mask {
		mask[i] = true
	}
	for _, span := range badTimes {
		left := sort.SearchFloat64s(times, span[0])
		right := sort.SearchFloat64s(times, span[1])
		for i := left; i < right && i < len(mask); i++ {
			mask[i] = false
		}
	}
	return mask
}

// LogStatus logs the run window and spec of this model run.
func (r *ThermalModelRunner) LogStatus() {
	r.logger.Log("level", "info", "start", SecsToDate(r.TStart), "stop", SecsToDate(r.TStop), "spec", r.SpecPath)
}

// NewThermalModelFromFiles joins one or more temperature files with their
// states file. With getMSIDs, telemetry for the modeled components is
// interpolated onto the model times from the tracelog file if given, else
// from the engineering archive.
func NewThermalModelFromFiles(tempFiles []string, stateFile string, getMSIDs bool, tlFile string) (*Dataset, error) {
	model, err := NewModelFromFiles(tempFiles)
	if err != nil {
		return nil, err
	}
	states, err := NewStatesFromFile(stateFile)
	if err != nil {
		return nil, err
	}
	msids := EmptyTimeSeries()
	if getMSIDs {
		msids, err = msidsForModel(model, tlFile)
		if err != nil {
			return nil, err
		}
	}
	return NewDataset(msids, states, model), nil
}

// NewThermalModelFromLoad fetches a load review's temperature model and
// commanded states from the web archive. The states come from the
// statesComp thermal model page ("dpa" when empty).
func NewThermalModelFromLoad(load string, comps []string, getMSIDs bool, statesComp string) (*Dataset, error) {
	if comps == nil {
		comps = []string{"1deamzt", "1dpamzt", "1pdeaat", "fptemp_11"}
	}
	if statesComp == "" {
		statesComp = "dpa"
	}
	model, err := NewModelFromArchive(load, comps)
	if err != nil {
		return nil, err
	}
	states, err := NewStatesFromArchive(load, statesComp)
	if err != nil {
		return nil, err
	}
	msids := EmptyTimeSeries()
	if getMSIDs {
		msids, err = msidsForModel(model, "")
		if err != nil {
			return nil, err
		}
	}
	return NewDataset(msids, states, model), nil
}

func msidsForModel(model *Model, tlFile string) (*TimeSeriesData, error) {
	if len(model.Times) == 0 {
		return nil, fmt.Errorf("model has no time samples")
	}
	first, last := model.Times[0], model.Times[len(model.Times)-1]
	var telem *MSIDs
	var err error
	if tlFile != "" {
		telem, err = NewMSIDsFromTracelog(tlFile, first-statePad, last+statePad)
	} else {
		telem, err = NewMSIDsFromArchive("", model.Keys(), first-statePad, last+statePad,
			ArchiveOptions{FilterBad: true, InterpolateTimes: model.Times})
		if err == nil {
			for _, name := range model.Keys() {
				d, getErr := telem.Get(name)
				if getErr != nil {
					return nil, getErr
				}
				if d.Len() != len(model.Times) {
					return nil, fmt.Errorf("time arrays for model data and telemetry have lengths %d and %d; the model probably ran past the end of the archive", len(model.Times), d.Len())
				}
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return telem.TimeSeriesData, nil
}
