package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scenfire/scenfire/scenario"
)

// --- scenfire check ---

var (
	checkHistoricalPath string
	checkHistoricalCol  string
	checkSimulatedPath  string
	checkSimulatedCol   string
	checkYears          int
)

// SufficiencyReport is the YAML form of a scenario.Sufficiency verdict.
type SufficiencyReport struct {
	Sufficient           bool     `yaml:"sufficient"`
	MaxThreshold         float64  `yaml:"max_threshold,omitempty"`
	RecommendedThreshold int      `yaml:"recommended_threshold,omitempty"`
	Reasons              []string `yaml:"reasons,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether simulated events can reproduce the historical record and recommend a surface threshold",
	Run: func(cmd *cobra.Command, args []string) {
		rep, err := CheckInputs(
			InputSpec{Path: checkHistoricalPath, Column: checkHistoricalCol},
			InputSpec{Path: checkSimulatedPath, Column: checkSimulatedCol},
			checkYears)
		if err != nil {
			logrus.Fatalf("Sufficiency check failed: %v", err)
		}
		data, err := yaml.Marshal(rep)
		if err != nil {
			logrus.Fatalf("YAML marshal failed: %v", err)
		}
		fmt.Print(string(data))
		if !rep.Sufficient {
			os.Exit(2)
		}
	},
}

// CheckInputs runs the sufficiency check on two CSV columns.
func CheckInputs(historical, simulated InputSpec, years int) (*SufficiencyReport, error) {
	hist, err := loadEventSet(historical)
	if err != nil {
		return nil, fmt.Errorf("historical: %w", err)
	}
	sims, err := loadEventSet(simulated)
	if err != nil {
		return nil, fmt.Errorf("simulated: %w", err)
	}
	verdict, err := scenario.CheckSufficiency(hist.Values(), sims.Values(), years)
	if err != nil {
		return nil, err
	}
	switch v := verdict.(type) {
	case scenario.Sufficient:
		return &SufficiencyReport{Sufficient: true, MaxThreshold: v.MaxThreshold, RecommendedThreshold: v.RecommendedThreshold}, nil
	case scenario.Insufficient:
		return &SufficiencyReport{Reasons: v.Reasons}, nil
	default:
		return nil, fmt.Errorf("unexpected sufficiency verdict %T", verdict)
	}
}

func init() {
	checkCmd.Flags().StringVar(&checkHistoricalPath, "historical", "", "CSV of historical event sizes")
	checkCmd.Flags().StringVar(&checkHistoricalCol, "historical-column", "size", "Column of historical sizes")
	checkCmd.Flags().StringVar(&checkSimulatedPath, "simulated", "", "CSV of simulated events")
	checkCmd.Flags().StringVar(&checkSimulatedCol, "column", "size", "Column of simulated sizes")
	checkCmd.Flags().IntVar(&checkYears, "years", 0, "Years covered by the historical record")
	_ = checkCmd.MarkFlagRequired("historical")
	_ = checkCmd.MarkFlagRequired("simulated")
	_ = checkCmd.MarkFlagRequired("years")

	rootCmd.AddCommand(checkCmd)
}
