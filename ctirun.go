package acistherm

import (
	"fmt"
)

// CTIRunOptions tunes a CTI run simulation.
type CTIRunOptions struct {
	TInit          float64 // starting temperature in degrees C
	Pitch          float64 // pitch in degrees
	CCDCount       int     // number of CCDs to clock
	SimPos         float64 // SIM position; 0 takes the parked default
	OffNominalRoll float64 // off-nominal roll in degrees
	DHHeater       bool    // detector housing heater on
	NoClocking     bool    // simulate a run which does not clock
	VehicleLoad    string  // run concurrently with this vehicle load
	ModelSpec      string  // model spec path override
	Engine         Engine  // nil uses the configured external engine
}

// LimitCrossing reports the first sample of a simulated run which exceeds
// the planning limit.
type LimitCrossing struct {
	Index      int
	Time       float64 // mission seconds of the crossing
	Date       string
	DurationKs float64 // elapsed kiloseconds from run start
	BeforeStop bool    // the crossing happens before the nominal stop
}

// CTIRun is a simulated CTI run with its thermal verdict.
type CTIRun struct {
	*ThermalModelRunner
	DateStart string
	DateStop  string
	DateEnd   string // modeled past the stop by half the run length
	TEnd      float64
	TInit     float64
	Limit     float64
	Crossing  *LimitCrossing // nil if the limit is never reached
	Safe      bool
}

// SimulateCTIRun models the named component through a CTI run between
// tstart and tstop, either under constant commanded conditions or
// concurrent with a vehicle load, and scans the prediction for a planning
// limit crossing. The model is run half the run length past tstop so a
// crossing shortly after the nominal stop is still seen.
func SimulateCTIRun(name, tstart, tstop string, opts CTIRunOptions) (*CTIRun, error) {
	limit, ok := Limits[name]
	if !ok {
		return nil, fmt.Errorf("no planning limit defined for `%s`", name)
	}
	tstartSecs, err := ParseTime(tstart)
	if err != nil {
		return nil, err
	}
	tstopSecs, err := ParseTime(tstop)
	if err != nil {
		return nil, err
	}
	tend := tstopSecs + 0.5*(tstopSecs-tstartSecs)
	datestart := SecsToDate(tstartSecs)
	datestop := SecsToDate(tstopSecs)
	dateend := SecsToDate(tend)

	var states *States
	if opts.VehicleLoad == "" {
		states, err = ctiStates(tstartSecs, tend, datestart, dateend, opts)
	} else {
		states, err = vehicleLoadStates(opts.VehicleLoad, tstopSecs, opts.CCDCount)
	}
	if err != nil {
		return nil, err
	}

	tInit := opts.TInit
	runner, err := NewThermalModelRunner(name, datestart, dateend, RunnerOptions{
		States:    states,
		TInit:     &tInit,
		ModelSpec: opts.ModelSpec,
		Engine:    opts.Engine,
	})
	if err != nil {
		return nil, err
	}

	run := &CTIRun{
		ThermalModelRunner: runner,
		DateStart:          datestart,
		DateStop:           datestop,
		DateEnd:            dateend,
		TEnd:               tend,
		TInit:              tInit,
		Limit:              limit,
	}
	run.TStop = tstopSecs

	mvals, err := runner.Model.Get(name)
	if err != nil {
		return nil, err
	}
	run.Crossing = scanLimit(mvals.Values, mvals.Times, limit, tstartSecs, tstopSecs)
	run.Safe = run.Crossing == nil || !run.Crossing.BeforeStop

	logCTIRun(run, opts)
	return run, nil
}

// scanLimit finds the first sample strictly above the limit and reports
// when it happens relative to the run window. It returns nil when every
// sample stays at or below the limit.
func scanLimit(values, times []float64, limit, tstart, tstop float64) *LimitCrossing {
	for i, v := range values {
		if v > limit {
			return &LimitCrossing{
				Index:      i,
				Time:       times[i],
				Date:       SecsToDate(times[i]),
				DurationKs: (times[i] - tstart) * 0.001,
				BeforeStop: times[i] < tstop,
			}
		}
	}
	return nil
}

// TempAtTime returns the modeled temperature t seconds past the beginning
// of the CTI run.
func (run *CTIRun) TempAtTime(t float64) float64 {
	d, err := run.Model.Get(run.Name)
	if err != nil {
		panic(err)
	}
	return d.AtTime(run.TStart + t)
}

// ctiStates builds the single-interval commanded states of a
// constant-condition CTI run.
func ctiStates(tstart, tend float64, datestart, dateend string, opts CTIRunOptions) (*States, error) {
	clocking := 1.0
	if opts.NoClocking {
		clocking = 0
	}
	heater := 0.0
	if opts.DHHeater {
		heater = 1
	}
	simpos := opts.SimPos
	if simpos == 0 {
		simpos = defaultSimPos
	}
	columns := map[string][]float64{
		"tstart":           {tstart},
		"tstop":            {tend},
		"ccd_count":        {float64(opts.CCDCount)},
		"fep_count":        {float64(opts.CCDCount)},
		"clocking":         {clocking},
		"vid_board":        {clocking},
		"pitch":            {opts.Pitch},
		"simpos":           {simpos},
		"off_nominal_roll": {opts.OffNominalRoll},
		"dh_heater":        {heater},
	}
	strCols := map[string][]string{
		"datestart": {datestart},
		"datestop":  {dateend},
	}
	return NewStates(columns, strCols)
}

// vehicleLoadStates fetches the vehicle load states and forces the CTI
// configuration onto every interval starting before the CTI stop time.
func vehicleLoadStates(load string, tstop float64, ccdCount int) (*States, error) {
	states, err := NewStatesFromArchive(load, "dpa")
	if err != nil {
		return nil, err
	}
	if !states.Contains("off_nominal_roll") {
		if rolls, rollErr := states.OffNominalRolls(); rollErr == nil {
			d, _ := NewDataArray(rolls, states.TStart(), "deg")
			states.Set("off_nominal_roll", d)
		}
	}
	starts := states.TStart()
	for _, override := range []struct {
		name  string
		value float64
	}{
		{"ccd_count", float64(ccdCount)},
		{"fep_count", float64(ccdCount)},
		{"clocking", 1},
		{"vid_board", 1},
	} {
		d, err := states.Get(override.name)
		if err != nil {
			return nil, err
		}
		for i := range d.Values {
			if starts[i] < tstop {
				d.Values[i] = override.value
			}
		}
	}
	return states, nil
}

func logCTIRun(run *CTIRun, opts CTIRunOptions) {
	logger := run.logger
	logger.Log("level", "info", "start", run.DateStart, "stop", run.DateStop,
		"T_init(degC)", run.TInit, "ccd_count", opts.CCDCount)
	if opts.VehicleLoad == "" {
		logger.Log("level", "info", "pitch", opts.Pitch, "roll", opts.OffNominalRoll,
			"dh_heater", opts.DHHeater)
	} else {
		logger.Log("level", "info", "vehicle_load", opts.VehicleLoad)
	}
	caution := run.Limit + Margins[run.Name]
	if run.Crossing == nil {
		logger.Log("level", "info", "limit(degC)", run.Limit, "caution(degC)", caution, "crossed", false)
	} else {
		when := "after"
		if run.Crossing.BeforeStop {
			when = "before"
		}
		logger.Log("level", "info", "limit(degC)", run.Limit, "caution(degC)", caution, "crossed", true,
			"date", run.Crossing.Date, "after(ks)", run.Crossing.DurationKs, "reached", when+" the end of the run")
	}
	if run.Safe {
		logger.Log("level", "notice", "verdict", "this CTI run is safe from a thermal perspective")
	} else {
		logger.Log("level", "warning", "verdict", "this CTI run is NOT safe from a thermal perspective")
	}
}
