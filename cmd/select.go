package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/scenfire/scenfire/scenario"
	"github.com/scenfire/scenfire/scenario/observability"
	"github.com/scenfire/scenfire/scenario/report"
	"github.com/scenfire/scenfire/scenario/trace"
)

var (
	// CLI flags shared by select and synth
	configPath       string  // Run YAML
	historicalPath   string  // Historical sizes CSV
	historicalColumn string  // Column of historical sizes
	simulatedPath    string  // Simulated events CSV
	simulatedColumn  string  // Column of simulated sizes
	weightColumn     string  // Column of sampling weights
	surfaceColumn    string  // Column of event surfaces
	uniformWeights   bool    // Use equal weights when no weight column is given
	xmin             float64 // Power-law lower cutoff
	xminQuantile     float64 // Historical quantile used when xmin is unset
	alpha            float64 // Power-law exponent
	numBins          int     // Histogram bins
	logBins          bool    // Bin on the log axis
	maxIter          int     // Attempt budget
	tol              float64 // Early-stop discrepancy
	seed             int64   // Seed for all random draws
	surfaceThreshold float64 // Surface budget per selection
	referenceSurface float64 // Stop once accumulated surface is this close to the reference
	surfaceTolerance float64 // Tolerance around the reference surface
	maxPicks         int     // Max events per attempt (0 = unlimited)
	years            int     // Historical record length in years
	traceLevel       string  // Attempt trace verbosity
	outPath          string  // Report YAML path (empty = stdout)
	tablePath        string  // Histogram comparison CSV path
	metricsPath      string  // Prometheus textfile path
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select simulated events matching the historical size distribution under a surface budget",
	Run: func(cmd *cobra.Command, args []string) {
		runSelectionCommand(cmd, scenario.ModeResample)
	},
}

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize power-law event sets matching the historical size distribution",
	Run: func(cmd *cobra.Command, args []string) {
		runSelectionCommand(cmd, scenario.ModeSynthetic)
	},
}

func runSelectionCommand(cmd *cobra.Command, mode scenario.Mode) {
	rc := DefaultRunConfig()
	if configPath != "" {
		var err error
		if rc, err = LoadRunConfig(configPath); err != nil {
			logrus.Fatalf("%v", err)
		}
	}
	applyFlagOverrides(cmd.Flags(), &rc)
	rc.Params.Mode = mode

	var metrics *observability.Metrics
	if metricsPath != "" {
		metrics = observability.NewMetrics()
	}
	rep, err := RunSelection(rc, metrics)
	if err != nil {
		logrus.Fatalf("Selection failed: %v", err)
	}

	if outPath == "" {
		if err := rep.WriteYAML(os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	} else if err := rep.WriteFile(outPath); err != nil {
		logrus.Fatalf("%v", err)
	}
	if tablePath != "" {
		if err := writeComparisonTable(tablePath, rep.Comparison); err != nil {
			logrus.Fatalf("%v", err)
		}
	}
	if metrics != nil {
		if err := metrics.WriteTextfile(metricsPath); err != nil {
			logrus.Fatalf("%v", err)
		}
	}
}

// RunSelection loads the inputs of rc, resolves data-dependent defaults,
// runs the engine and assembles the report. metrics may be nil.
func RunSelection(rc RunConfig, metrics *observability.Metrics) (*report.RunReport, error) {
	if !trace.IsValidTraceLevel(rc.TraceLevel) {
		return nil, fmt.Errorf("unknown trace level %q; valid: none, improvements, attempts", rc.TraceLevel)
	}
	run := report.StartRun()

	in, err := LoadInputs(rc)
	if err != nil {
		return nil, err
	}
	params, err := resolveParams(rc, in)
	if err != nil {
		return nil, err
	}
	cfg, err := params.Validate()
	if err != nil {
		return nil, err
	}
	logrus.Infof("Starting %s selection: xmin=%.6g alpha=%.3g bins=%d log=%v max_iter=%d tol=%g seed=%d",
		cfg.Mode, cfg.XMin, cfg.Alpha, cfg.NumBins, cfg.Logarithmic, cfg.MaxIter, cfg.Tol, cfg.Seed)

	st := trace.NewSearchTrace(trace.TraceLevel(rc.TraceLevel))
	opts := []scenario.EngineOption{scenario.WithTrace(st)}
	if metrics != nil {
		opts = append(opts, scenario.WithObserver(metrics))
	}
	dist, err := scenario.CreateDistribution(in.Historical, in.Pool, params, opts...)
	if err != nil {
		return nil, err
	}
	return run.Finish(cfg, params, dist, st)
}

func writeComparisonTable(path string, rows []report.BinRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := report.WriteComparisonCSV(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// applyFlagOverrides copies explicitly set flags over the YAML values.
// Flags left at their defaults never override the run config.
func applyFlagOverrides(flags *pflag.FlagSet, rc *RunConfig) {
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("historical", func() { rc.Historical.Path = historicalPath })
	set("historical-column", func() { rc.Historical.Column = historicalColumn })
	set("simulated", func() { rc.Simulated.Path = simulatedPath })
	set("column", func() { rc.Simulated.Column = simulatedColumn })
	set("weight-column", func() { rc.Simulated.WeightColumn = weightColumn })
	set("surface-column", func() { rc.Simulated.SurfaceColumn = surfaceColumn })
	set("uniform-weights", func() { rc.UniformWeights = uniformWeights })
	set("xmin", func() { rc.Params.XMin = xmin })
	set("xmin-quantile", func() { rc.XMinQuantile = xminQuantile })
	set("alpha", func() { rc.Params.Alpha = alpha })
	set("bins", func() { rc.Params.NumBins = numBins })
	set("log-bins", func() { rc.Params.Logarithmic = logBins })
	set("max-iter", func() { rc.Params.MaxIter = maxIter })
	set("tol", func() { rc.Params.Tol = tol })
	set("seed", func() { s := seed; rc.Params.Seed = &s })
	set("surface-threshold", func() { rc.Params.SurfaceThreshold = surfaceThreshold })
	set("reference-surface", func() { rc.Params.ReferenceSurface = referenceSurface })
	set("surface-tolerance", func() { rc.Params.SurfaceTolerance = surfaceTolerance })
	set("max-picks", func() { rc.Params.MaxPicks = maxPicks })
	set("years", func() { rc.Years = years })
	set("trace-level", func() { rc.TraceLevel = traceLevel })
}

func registerSelectionFlags(c *cobra.Command) {
	defaults := DefaultRunConfig()
	f := c.Flags()
	f.StringVar(&configPath, "config", "", "Path to run YAML")
	f.StringVar(&historicalPath, "historical", "", "CSV of historical event sizes")
	f.StringVar(&historicalColumn, "historical-column", defaults.Historical.Column, "Column of historical sizes")
	f.StringVar(&simulatedPath, "simulated", "", "CSV of simulated candidate events")
	f.StringVar(&simulatedColumn, "column", defaults.Simulated.Column, "Column of simulated sizes")
	f.StringVar(&weightColumn, "weight-column", "", "Column of per-event sampling weights")
	f.StringVar(&surfaceColumn, "surface-column", "", "Column of per-event surfaces (default: the size itself)")
	f.BoolVar(&uniformWeights, "uniform-weights", false, "Weight all simulated events equally when no weight column is given")
	f.Float64Var(&xmin, "xmin", 0, "Power-law lower cutoff (0 = use --xmin-quantile of historical sizes)")
	f.Float64Var(&xminQuantile, "xmin-quantile", defaults.XMinQuantile, "Historical quantile used as xmin when --xmin is unset")
	f.Float64Var(&alpha, "alpha", 0, "Power-law exponent (> 1)")
	f.IntVar(&numBins, "bins", defaults.Params.NumBins, "Number of histogram bins")
	f.BoolVar(&logBins, "log-bins", defaults.Params.Logarithmic, "Bin on a log axis")
	f.IntVar(&maxIter, "max-iter", defaults.Params.MaxIter, "Maximum number of attempts")
	f.Float64Var(&tol, "tol", defaults.Params.Tol, "Stop once the discrepancy is at or below this value")
	f.Int64Var(&seed, "seed", scenario.DefaultSeed, "Seed for all random draws")
	f.Float64Var(&surfaceThreshold, "surface-threshold", 0, "Surface budget per selection (0 = recommended from --years)")
	f.Float64Var(&referenceSurface, "reference-surface", 0, "Stop an attempt once its surface is within --surface-tolerance of this (0 = off)")
	f.Float64Var(&surfaceTolerance, "surface-tolerance", 0, "Tolerance around --reference-surface")
	f.IntVar(&maxPicks, "max-picks", 0, "Maximum events per attempt (0 = unlimited)")
	f.IntVar(&years, "years", 0, "Years covered by the historical record")
	f.StringVar(&traceLevel, "trace-level", defaults.TraceLevel, "Attempt trace (none, improvements, attempts)")
	f.StringVar(&outPath, "out", "", "Report YAML path (default stdout)")
	f.StringVar(&tablePath, "table", "", "Write the target/selected histogram comparison CSV here")
	f.StringVar(&metricsPath, "metrics-file", "", "Write Prometheus metrics of the run to this textfile")
}

func init() {
	registerSelectionFlags(selectCmd)
	registerSelectionFlags(synthCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(synthCmd)
}
