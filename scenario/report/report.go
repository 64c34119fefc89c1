// Package report assembles the output record of a selection run for the
// downstream converters: the result, the histograms it was scored on, and
// run metadata.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scenfire/scenfire/scenario"
	"github.com/scenfire/scenfire/scenario/trace"
)

// RunReport is the document written after a selection run.
type RunReport struct {
	GeneratedAt time.Time           `yaml:"generated_at"`
	ElapsedMs   int64               `yaml:"elapsed_ms"`
	Seed        int64               `yaml:"seed"`
	Params      scenario.Params     `yaml:"params"`
	Result      *scenario.Result    `yaml:"result"`
	Comparison  []BinRow            `yaml:"comparison"`
	Trace       *trace.TraceSummary `yaml:"trace,omitempty"`
}

// Run measures a selection run and builds its report.
type Run struct {
	start time.Time
}

// StartRun starts timing a run.
func StartRun() *Run {
	return &Run{start: clock.Now()}
}

// Finish assembles the report for a finished run.
func (r *Run) Finish(cfg scenario.Config, params scenario.Params, dist *scenario.Distribution, st *trace.SearchTrace) (*RunReport, error) {
	if dist == nil || dist.Result == nil {
		return nil, fmt.Errorf("%w: no result to report", scenario.ErrInvalidInput)
	}
	comparison, err := CompareHistograms(dist.Target, dist.Result.Density)
	if err != nil {
		return nil, err
	}
	now := clock.Now()
	rep := &RunReport{
		GeneratedAt: now.UTC(),
		ElapsedMs:   now.Sub(r.start).Milliseconds(),
		Seed:        cfg.Seed,
		Params:      params,
		Result:      dist.Result,
		Comparison:  comparison,
	}
	if st != nil && st.Level != trace.TraceLevelNone && st.Level != "" {
		rep.Trace = trace.Summarize(st)
	}
	return rep, nil
}

// WriteYAML marshals the report to w.
func (rep *RunReport) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes the report YAML to path.
func (rep *RunReport) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := rep.WriteYAML(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// LoadReport reads a report written by WriteFile. Only the result is needed
// downstream, so unknown fields are tolerated.
func LoadReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var rep RunReport
	if err := yaml.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	if rep.Result == nil {
		return nil, fmt.Errorf("%w: report %s has no result", scenario.ErrInvalidInput, path)
	}
	return &rep, nil
}
