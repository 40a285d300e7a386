package acistherm

import (
	"path/filepath"
	"testing"
)

func TestFindModelSpecMissing(t *testing.T) {
	if _, err := findModelSpec("1dpamzt", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("a missing model spec file must be an error")
	}
	if _, err := findModelSpec("not_an_msid", ""); err == nil {
		t.Fatal("an unknown component must be an error")
	}
}

func TestFindModelSpecExplicit(t *testing.T) {
	spec := dpaSpec(t)
	got, err := findModelSpec("1dpamzt", spec)
	if err != nil {
		t.Fatal(err)
	}
	if got != spec {
		t.Fatalf("explicit spec path must win, got %s", got)
	}
}

func TestNewModelConfig(t *testing.T) {
	spec := writeSpecFile(t, "1dpamzt", "sim_z", "eclipse")
	cfg, err := NewModelConfig("1dpamzt", spec, 0, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.HasComponent("eclipse") || cfg.HasComponent("roll") {
		t.Fatal("spec components not read correctly")
	}
	cfg.SetScalar("eclipse", 0)
	cfg.SetIntervals("sim_z", []float64{-99616}, []float64{0}, []float64{1000})
	if cfg.Comps["eclipse"].Value == nil || len(cfg.Comps["sim_z"].TStart) != 1 {
		t.Fatal("boundary data not recorded")
	}
}

func TestBuildModelConfigMissingState(t *testing.T) {
	states, err := NewStates(map[string][]float64{
		"tstart": {0},
		"tstop":  {1000},
		"simpos": {-99616},
		// no pitch
		"ccd_count": {5},
		"fep_count": {5},
		"vid_board": {1},
		"clocking":  {1},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	spec := writeSpecFile(t, "1dpamzt", "sim_z")
	_, err = buildModelConfig("1dpamzt", spec, 0, 1000, 20, states, RunnerOptions{})
	if err == nil {
		t.Fatal("a model run without the pitch state must be an error")
	}
}
