package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/scenfire/scenfire/scenario"
	"github.com/scenfire/scenfire/scenario/sample"
	"github.com/scenfire/scenfire/scenario/trace"
)

// InputSpec locates a column of event magnitudes in a CSV file.
type InputSpec struct {
	Path          string `yaml:"path"`
	Column        string `yaml:"column"`
	WeightColumn  string `yaml:"weight_column,omitempty"`
	SurfaceColumn string `yaml:"surface_column,omitempty"`
}

// RunConfig is the run YAML consumed by `select` and `synth`.
// Parsed with KnownFields(true): typos must cause errors.
type RunConfig struct {
	Historical     InputSpec       `yaml:"historical"`
	Simulated      InputSpec       `yaml:"simulated"`
	UniformWeights bool            `yaml:"uniform_weights,omitempty"` // equal weights when no weight column is given
	XMinQuantile   float64         `yaml:"xmin_quantile,omitempty"`   // xmin from this quantile of the historical sizes when xmin is unset
	Years          int             `yaml:"years,omitempty"`           // historical record length; enables the recommended threshold
	TraceLevel     string          `yaml:"trace_level,omitempty"`
	Params         scenario.Params `yaml:"params"`
}

// DefaultRunConfig returns the configuration used when no YAML is given.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Historical:   InputSpec{Column: "size"},
		Simulated:    InputSpec{Column: "size"},
		XMinQuantile: 0.05,
		TraceLevel:   string(trace.TraceLevelNone),
		Params:       scenario.DefaultParams(),
	}
}

// LoadRunConfig reads a run YAML on top of the defaults.
func LoadRunConfig(path string) (RunConfig, error) {
	rc := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return rc, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rc); err != nil {
		return rc, fmt.Errorf("parsing run config: %w", err)
	}
	return rc, nil
}

// Inputs are the loaded samples of a run.
type Inputs struct {
	Historical []float64
	Pool       scenario.Pool
	Events     *sample.EventSet // simulated events, aligned with Pool
}

// LoadInputs reads the historical and simulated columns named by rc.
func LoadInputs(rc RunConfig) (*Inputs, error) {
	if rc.Historical.Path == "" {
		return nil, fmt.Errorf("historical input path is required")
	}
	if rc.Simulated.Path == "" {
		return nil, fmt.Errorf("simulated input path is required")
	}

	hist, err := loadEventSet(rc.Historical)
	if err != nil {
		return nil, fmt.Errorf("historical: %w", err)
	}

	simTable, err := sample.LoadTable(rc.Simulated.Path)
	if err != nil {
		return nil, fmt.Errorf("simulated: %w", err)
	}
	simValues, err := simTable.Column(rc.Simulated.Column)
	if err != nil {
		return nil, fmt.Errorf("simulated: %w", err)
	}
	events, err := sample.NewEventSet(simValues)
	if err != nil {
		return nil, fmt.Errorf("simulated: %w", err)
	}

	pool := scenario.Pool{Sizes: events.Values()}
	switch {
	case rc.Simulated.WeightColumn != "":
		pool.Weights, err = gatherColumn(simTable, events, rc.Simulated.WeightColumn)
		if err != nil {
			return nil, fmt.Errorf("simulated weights: %w", err)
		}
	case rc.UniformWeights:
		pool.Weights = scenario.UniformWeights(len(pool.Sizes))
	}
	if rc.Simulated.SurfaceColumn != "" {
		pool.Surfaces, err = gatherColumn(simTable, events, rc.Simulated.SurfaceColumn)
		if err != nil {
			return nil, fmt.Errorf("simulated surfaces: %w", err)
		}
	}

	logrus.Infof("Loaded %d historical and %d simulated events", len(hist.Events), len(events.Events))
	return &Inputs{Historical: hist.Values(), Pool: pool, Events: events}, nil
}

func loadEventSet(in InputSpec) (*sample.EventSet, error) {
	table, err := sample.LoadTable(in.Path)
	if err != nil {
		return nil, err
	}
	values, err := table.Column(in.Column)
	if err != nil {
		return nil, err
	}
	return sample.NewEventSet(values)
}

func gatherColumn(t *sample.Table, events *sample.EventSet, name string) ([]float64, error) {
	column, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return events.Gather(column)
}

// resolveParams fills the policy defaults that depend on the data: xmin
// from a historical quantile and the surface threshold from the
// sufficiency check. Both are assigned before validation, never by the engine.
func resolveParams(rc RunConfig, in *Inputs) (scenario.Params, error) {
	params := rc.Params
	if params.XMin == 0 && rc.XMinQuantile > 0 {
		xmin, err := scenario.EstimateXMin(in.Historical, rc.XMinQuantile)
		if err != nil {
			return params, err
		}
		logrus.Infof("xmin set to %.6g (quantile %.3f of historical sizes)", xmin, rc.XMinQuantile)
		params.XMin = xmin
	}
	if params.Mode != scenario.ModeSynthetic && params.SurfaceThreshold == 0 && rc.Years > 0 {
		verdict, err := scenario.CheckSufficiency(in.Historical, in.Pool.Sizes, rc.Years)
		if err != nil {
			return params, err
		}
		switch v := verdict.(type) {
		case scenario.Sufficient:
			logrus.Infof("surface_threshold set to recommended %d", v.RecommendedThreshold)
			params.SurfaceThreshold = float64(v.RecommendedThreshold)
		case scenario.Insufficient:
			return params, fmt.Errorf("simulated events are insufficient: %v", v.Reasons)
		}
	}
	return params, nil
}
