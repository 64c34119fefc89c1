package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scenfire/scenfire/scenario"
	"github.com/scenfire/scenfire/scenario/report"
)

// --- scenfire target ---

var (
	targetHistoricalPath string
	targetHistoricalCol  string
	targetSimulatedPath  string
	targetSimulatedCol   string
	targetBins           int
	targetLogBins        bool
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Print the target histogram next to the unselected simulated pool, as CSV",
	Run: func(cmd *cobra.Command, args []string) {
		rows, err := TargetComparison(
			InputSpec{Path: targetHistoricalPath, Column: targetHistoricalCol},
			InputSpec{Path: targetSimulatedPath, Column: targetSimulatedCol},
			targetBins, targetLogBins)
		if err != nil {
			logrus.Fatalf("Target histogram failed: %v", err)
		}
		if err := report.WriteComparisonCSV(os.Stdout, rows); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// TargetComparison builds the target histogram of the historical sizes and
// bins the whole simulated pool on the same edges.
func TargetComparison(historical, simulated InputSpec, bins int, logarithmic bool) ([]report.BinRow, error) {
	hist, err := loadEventSet(historical)
	if err != nil {
		return nil, fmt.Errorf("historical: %w", err)
	}
	sims, err := loadEventSet(simulated)
	if err != nil {
		return nil, fmt.Errorf("simulated: %w", err)
	}
	target, err := scenario.BuildTargetHistogram(hist.Values(), sims.Values(), bins, logarithmic)
	if err != nil {
		return nil, err
	}
	return report.CompareHistograms(target, target.Bins.Density(sims.Values()))
}

func init() {
	defaults := scenario.DefaultParams()
	targetCmd.Flags().StringVar(&targetHistoricalPath, "historical", "", "CSV of historical event sizes")
	targetCmd.Flags().StringVar(&targetHistoricalCol, "historical-column", "size", "Column of historical sizes")
	targetCmd.Flags().StringVar(&targetSimulatedPath, "simulated", "", "CSV of simulated events")
	targetCmd.Flags().StringVar(&targetSimulatedCol, "column", "size", "Column of simulated sizes")
	targetCmd.Flags().IntVar(&targetBins, "bins", defaults.NumBins, "Number of histogram bins")
	targetCmd.Flags().BoolVar(&targetLogBins, "log-bins", defaults.Logarithmic, "Bin on a log axis")
	_ = targetCmd.MarkFlagRequired("historical")
	_ = targetCmd.MarkFlagRequired("simulated")

	rootCmd.AddCommand(targetCmd)
}
