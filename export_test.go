package acistherm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testCTIRun(t *testing.T) *CTIRun {
	t.Helper()
	model := NewModel([]float64{0, 1000, 2000})
	if err := model.AddComponent("1dpamzt", []float64{20, 25, 30}, nil); err != nil {
		t.Fatal(err)
	}
	states, err := NewStates(map[string][]float64{
		"tstart": {0}, "tstop": {2000}, "pitch": {150},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	runner := &ThermalModelRunner{
		Dataset: NewDataset(EmptyTimeSeries(), states, model),
		Name:    "1dpamzt",
		TStart:  0,
		TStop:   1000,
	}
	return &CTIRun{
		ThermalModelRunner: runner,
		DateStart:          SecsToDate(0),
		DateStop:           SecsToDate(1000),
		DateEnd:            SecsToDate(2000),
		TEnd:               2000,
		TInit:              20,
		Limit:              35.5,
		Safe:               true,
	}
}

func TestWriteCTISummary(t *testing.T) {
	outDir := t.TempDir()
	withTestConfig(t, func(cfg *_athermconfig) { cfg.outputDir = outDir })
	run := testCTIRun(t)
	if err := WriteCTISummary(run, "summary.csv", false); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(outDir, "summary.csv"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)
	if !strings.Contains(content, "# Verdict: SAFE") {
		t.Fatalf("missing verdict in:\n%s", content)
	}
	if !strings.Contains(content, "# Caution limit: 37.50 degC") {
		t.Fatalf("missing caution limit in:\n%s", content)
	}
	if !strings.Contains(content, "time,date,1dpamzt") {
		t.Fatalf("missing column header in:\n%s", content)
	}
	lines := strings.Split(strings.TrimSpace(content), "\n")
	var dataRows int
	for _, line := range lines {
		if !strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "time,") {
			dataRows++
		}
	}
	if dataRows != 3 {
		t.Fatalf("expected 3 data rows, found %d", dataRows)
	}
	// Overwrite protection.
	if err := WriteCTISummary(run, "summary.csv", false); err == nil {
		t.Fatal("expected an error when overwriting without overwrite set")
	}
	if err := WriteCTISummary(run, "summary.csv", true); err != nil {
		t.Fatal(err)
	}
}
