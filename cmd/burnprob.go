package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scenfire/scenfire/scenario"
	"github.com/scenfire/scenfire/scenario/report"
	"github.com/scenfire/scenfire/scenario/sample"
)

// --- scenfire burnprob ---

var (
	bpEventsPath    string
	bpColumn        string
	bpSurfaceColumn string
	bpResultPath    string
	bpOutPath       string
)

// burnProbabilityColumn is the name of the column appended to the events CSV.
const burnProbabilityColumn = "burn_probability"

var burnProbCmd = &cobra.Command{
	Use:   "burnprob",
	Short: "Append per-event burn probability of a resample selection to the events CSV",
	Run: func(cmd *cobra.Command, args []string) {
		rep, err := report.LoadReport(bpResultPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		table, err := AttachBurnProbability(bpEventsPath, bpColumn, bpSurfaceColumn, rep.Result)
		if err != nil {
			logrus.Fatalf("Burn probability failed: %v", err)
		}
		if bpOutPath == "" {
			err = table.Write(os.Stdout)
		} else {
			err = table.WriteFile(bpOutPath)
		}
		if err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// AttachBurnProbability reloads the simulated events exactly as the
// selection saw them, computes the burn probability of the selected indices
// and appends it as a column. Rows that were not usable events get 0.
func AttachBurnProbability(eventsPath, column, surfaceColumn string, res *scenario.Result) (*sample.Table, error) {
	if res.Mode != scenario.ModeResample {
		return nil, fmt.Errorf("burn probability needs a resample selection, got mode %q", res.Mode)
	}
	table, err := sample.LoadTable(eventsPath)
	if err != nil {
		return nil, err
	}
	values, err := table.Column(column)
	if err != nil {
		return nil, err
	}
	events, err := sample.NewEventSet(values)
	if err != nil {
		return nil, err
	}

	surfaces := events.Values()
	if surfaceColumn != "" {
		if surfaces, err = gatherColumn(table, events, surfaceColumn); err != nil {
			return nil, err
		}
	}
	indicator, err := scenario.SelectionIndicator(len(events.Events), res.Indices)
	if err != nil {
		return nil, err
	}
	bp, err := scenario.BurnProbability(indicator, surfaces)
	if err != nil {
		return nil, err
	}
	perRow, err := events.Scatter(bp, 0)
	if err != nil {
		return nil, err
	}
	if err := table.AppendColumn(burnProbabilityColumn, perRow); err != nil {
		return nil, err
	}
	logrus.Infof("Burn probability computed for %d selected of %d events", len(res.Indices), len(events.Events))
	return table, nil
}

func init() {
	burnProbCmd.Flags().StringVar(&bpEventsPath, "events", "", "CSV of the simulated events used for selection")
	burnProbCmd.Flags().StringVar(&bpColumn, "column", "size", "Column of simulated sizes")
	burnProbCmd.Flags().StringVar(&bpSurfaceColumn, "surface-column", "", "Column of per-event surfaces (default: the size itself)")
	burnProbCmd.Flags().StringVar(&bpResultPath, "result", "", "Report YAML written by `scenfire select`")
	burnProbCmd.Flags().StringVar(&bpOutPath, "out", "", "Output CSV path (default stdout)")
	_ = burnProbCmd.MarkFlagRequired("events")
	_ = burnProbCmd.MarkFlagRequired("result")

	rootCmd.AddCommand(burnProbCmd)
}
