package acistherm

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// shortName translates a temperature MSID to its model short name.
var shortName = map[string]string{
	"1deamzt":        "dea",
	"1dpamzt":        "dpa",
	"1pdeaat":        "psmc",
	"fptemp_11":      "acisfp",
	"tmp_fep1_mong":  "fep1_mong",
	"tmp_fep1_actel": "fep1_actel",
	"tmp_bep_pcb":    "bep_pcb",
}

// findModelSpec locates the model spec JSON for a component. An explicit
// path wins; otherwise the configured spec directory is searched, falling
// back to the working directory. A missing file is an error.
func findModelSpec(name, override string) (string, error) {
	specPath := override
	if specPath == "" {
		short, ok := shortName[name]
		if !ok {
			return "", fmt.Errorf("no thermal model known for `%s`", name)
		}
		specFile := short + "_model_spec.json"
		if dir := athermConfig().specDir; dir != "" {
			specPath = filepath.Join(dir, specFile)
		} else {
			specPath = specFile
		}
	}
	if _, err := os.Stat(specPath); err != nil {
		return "", fmt.Errorf("the model spec file %s does not exist", specPath)
	}
	return specPath, nil
}

// BoundaryData is the data driving one named component of the model:
// either a constant, an interval-valued array (commanded states) or a
// sampled array (telemetry such as ephemerides).
type BoundaryData struct {
	Value  *float64  `json:"value,omitempty"`
	Values []float64 `json:"values,omitempty"`
	TStart []float64 `json:"tstart,omitempty"`
	TStop  []float64 `json:"tstop,omitempty"`
	Times  []float64 `json:"times,omitempty"`
}

// ModelConfig configures one engine run: the model spec, the run window
// and the boundary data of every driven component.
type ModelConfig struct {
	Name     string                   `json:"name"`
	SpecPath string                   `json:"model_spec"`
	TStart   float64                  `json:"tstart"`
	TStop    float64                  `json:"tstop"`
	Comps    map[string]*BoundaryData `json:"comps"`

	specComps map[string]bool
}

// NewModelConfig reads the model spec JSON and returns an empty run
// configuration for it.
func NewModelConfig(name, specPath string, tstart, tstop float64) (*ModelConfig, error) {
	raw, err := os.ReadFile(specPath)
	if err != nil {
		return nil, err
	}
	var spec struct {
		Comps []struct {
			Name string `json:"name"`
		} `json:"comps"`
	}
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("model spec %s: %s", specPath, err)
	}
	cfg := &ModelConfig{
		Name:      name,
		SpecPath:  specPath,
		TStart:    tstart,
		TStop:     tstop,
		Comps:     make(map[string]*BoundaryData),
		specComps: make(map[string]bool),
	}
	for _, comp := range spec.Comps {
		cfg.specComps[comp.Name] = true
	}
	return cfg, nil
}

// HasComponent reports whether the model spec declares the component.
func (cfg *ModelConfig) HasComponent(comp string) bool {
	return cfg.specComps[comp]
}

// SetScalar drives a component with a constant.
func (cfg *ModelConfig) SetScalar(comp string, v float64) {
	val := v
	cfg.Comps[comp] = &BoundaryData{Value: &val}
}

// SetIntervals drives a component with interval-valued data.
func (cfg *ModelConfig) SetIntervals(comp string, values, tstart, tstop []float64) {
	cfg.Comps[comp] = &BoundaryData{Values: values, TStart: tstart, TStop: tstop}
}

// SetSampled drives a component with sampled data.
func (cfg *ModelConfig) SetSampled(comp string, values, times []float64) {
	cfg.Comps[comp] = &BoundaryData{Values: values, Times: times}
}

// ModelResult is the engine output: the integrated temperature of each
// modeled component on the engine time axis, plus known-bad intervals.
type ModelResult struct {
	Times    []float64            `json:"times"`
	Comps    map[string][]float64 `json:"comps"`
	BadTimes [][2]float64         `json:"bad_times"`
}

// Engine runs a configured thermal model.
type Engine interface {
	Run(cfg *ModelConfig) (*ModelResult, error)
}

// XijaEngine invokes the external xija engine process. The run
// configuration is written to a JSON job file whose path is appended to
// the configured command; the engine prints the result JSON on stdout.
type XijaEngine struct {
	Command []string
}

// NewXijaEngine returns an engine using the configured command.
func NewXijaEngine() *XijaEngine {
	return &XijaEngine{Command: athermConfig().engineCmd}
}

// Run implements Engine.
func (e *XijaEngine) Run(cfg *ModelConfig) (*ModelResult, error) {
	if len(e.Command) == 0 {
		return nil, fmt.Errorf("no engine command configured")
	}
	job, err := os.CreateTemp("", "xijajob-*.json")
	if err != nil {
		return nil, err
	}
	defer os.Remove(job.Name())
	enc := json.NewEncoder(job)
	if err := enc.Encode(cfg); err != nil {
		job.Close()
		return nil, err
	}
	if err := job.Close(); err != nil {
		return nil, err
	}
	args := append(append([]string{}, e.Command[1:]...), job.Name())
	cmd := exec.Command(e.Command[0], args...)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("engine run for `%s` failed: %s", cfg.Name, err)
	}
	var res ModelResult
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, fmt.Errorf("cannot parse engine output for `%s`: %s", cfg.Name, err)
	}
	for comp, vals := range res.Comps {
		if len(vals) != len(res.Times) {
			return nil, fmt.Errorf("engine output for `%s` has %d samples on a %d sample time axis", comp, len(vals), len(res.Times))
		}
	}
	return &res, nil
}
