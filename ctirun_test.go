package acistherm

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gonum/floats"
)

// rampEngine is a stand-in engine producing a linear temperature ramp
// from the initial temperature of the modeled component.
type rampEngine struct {
	step float64 // sample spacing in seconds
	rate float64 // degrees per second
}

func (e rampEngine) Run(cfg *ModelConfig) (*ModelResult, error) {
	bd, ok := cfg.Comps[cfg.Name]
	if !ok || bd.Value == nil {
		return nil, fmt.Errorf("no initial temperature for `%s`", cfg.Name)
	}
	var times, vals []float64
	for t := cfg.TStart; t <= cfg.TStop; t += e.step {
		times = append(times, t)
		vals = append(vals, *bd.Value+e.rate*(t-cfg.TStart))
	}
	return &ModelResult{Times: times, Comps: map[string][]float64{cfg.Name: vals}}, nil
}

func writeSpecFile(t *testing.T, comps ...string) string {
	t.Helper()
	content := `{"name": "dpa", "comps": [`
	for i, comp := range comps {
		if i > 0 {
			content += ", "
		}
		content += fmt.Sprintf(`{"name": %q}`, comp)
	}
	content += `]}`
	filename := filepath.Join(t.TempDir(), "dpa_model_spec.json")
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func dpaSpec(t *testing.T) string {
	return writeSpecFile(t, "1dpamzt", "sim_z", "pitch", "ccd_count",
		"fep_count", "vid_board", "clocking", "eclipse", "roll", "dh_heater")
}

func TestScanLimitNoCrossing(t *testing.T) {
	values := []float64{20, 25, 30, 35.5}
	times := []float64{0, 100, 200, 300}
	if c := scanLimit(values, times, 35.5, 0, 300); c != nil {
		t.Fatalf("values at or below the limit must not cross, got %+v", c)
	}
}

func TestScanLimitFirstMatch(t *testing.T) {
	values := []float64{20, 36, 30, 40}
	times := []float64{0, 100, 200, 300}
	c := scanLimit(values, times, 35.5, 0, 250)
	if c == nil {
		t.Fatal("expected a crossing")
	}
	if c.Index != 1 || c.Time != 100 {
		t.Fatalf("must report the first crossing, got %+v", c)
	}
	if !floats.EqualWithinAbs(c.DurationKs, 0.1, 1e-12) {
		t.Fatalf("duration: %f ks", c.DurationKs)
	}
	if !c.BeforeStop {
		t.Fatal("crossing at 100 is before the stop at 250")
	}
}

func TestScanLimitAfterStop(t *testing.T) {
	values := []float64{20, 30, 40}
	times := []float64{0, 100, 200}
	c := scanLimit(values, times, 35.5, 0, 150)
	if c == nil || c.BeforeStop {
		t.Fatalf("crossing at 200 is after the stop at 150, got %+v", c)
	}
}

func TestSimulateCTIRunSafe(t *testing.T) {
	run, err := SimulateCTIRun("1dpamzt", "2021:001:00:00:00", "2021:001:05:33:20", CTIRunOptions{
		TInit:     20.0,
		Pitch:     150.0,
		CCDCount:  5,
		ModelSpec: dpaSpec(t),
		Engine:    rampEngine{step: 328, rate: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !run.Safe || run.Crossing != nil {
		t.Fatalf("a flat run must be safe, got safe=%v crossing=%+v", run.Safe, run.Crossing)
	}
	if !floats.EqualWithinAbs(run.TempAtTime(5000), 20.0, 1e-9) {
		t.Fatalf("flat run temperature: %f", run.TempAtTime(5000))
	}
}

func TestSimulateCTIRunViolation(t *testing.T) {
	// 20ks run, ramping 1.55 degC/ks from 20 degC: the 35.5 degC limit
	// falls at 10ks, in the middle of the run.
	run, err := SimulateCTIRun("1dpamzt", "2021:001:00:00:00", "2021:001:05:33:20", CTIRunOptions{
		TInit:     20.0,
		Pitch:     150.0,
		CCDCount:  6,
		ModelSpec: dpaSpec(t),
		Engine:    rampEngine{step: 500, rate: 0.00155},
	})
	if err != nil {
		t.Fatal(err)
	}
	if run.Safe {
		t.Fatal("a ramp through the limit mid-run must not be safe")
	}
	c := run.Crossing
	if c == nil {
		t.Fatal("expected a crossing")
	}
	// First sample strictly above the limit: 10ks lands exactly on the
	// limit, so the crossing is one step later.
	if !floats.EqualWithinAbs(c.DurationKs, 10.5, 1e-9) {
		t.Fatalf("crossing after %f ks, want 10.5", c.DurationKs)
	}
	if !c.BeforeStop {
		t.Fatal("the crossing must be before the nominal stop")
	}
	if !floats.EqualWithinAbs(run.TempAtTime(5000), 27.75, 1e-9) {
		t.Fatalf("mid-ramp temperature: %f", run.TempAtTime(5000))
	}
}

func TestSimulateCTIRunCrossingAfterStop(t *testing.T) {
	// 8ks run modeled out to 12ks; the crossing at 10ks is past the
	// nominal stop, so the run is safe but the crossing is reported.
	run, err := SimulateCTIRun("1dpamzt", "2021:001:00:00:00", "2021:001:02:13:20", CTIRunOptions{
		TInit:     20.0,
		Pitch:     150.0,
		CCDCount:  6,
		ModelSpec: dpaSpec(t),
		Engine:    rampEngine{step: 500, rate: 0.00155},
	})
	if err != nil {
		t.Fatal(err)
	}
	if run.Crossing == nil {
		t.Fatal("expected a crossing past the stop")
	}
	if run.Crossing.BeforeStop {
		t.Fatal("crossing at 10.5ks is after the 8ks stop")
	}
	if !run.Safe {
		t.Fatal("a crossing after the stop leaves the run safe")
	}
}

func TestSimulateCTIRunUnknownLimit(t *testing.T) {
	_, err := SimulateCTIRun("fptemp_11", "2021:001:00:00:00", "2021:001:01:00:00", CTIRunOptions{})
	if err == nil {
		t.Fatal("components without a planning limit must be an error")
	}
}
