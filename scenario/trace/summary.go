package trace

import "math"

// TraceSummary aggregates statistics from a SearchTrace.
type TraceSummary struct {
	RecordedAttempts int     `yaml:"recorded_attempts"`
	ScoredAttempts   int     `yaml:"scored_attempts"`
	EmptyAttempts    int     `yaml:"empty_attempts"`
	Improvements     int     `yaml:"improvements"`
	MeanDiscrepancy  float64 `yaml:"mean_discrepancy"`
	MinDiscrepancy   float64 `yaml:"min_discrepancy"`
	MeanSelected     float64 `yaml:"mean_selected"`
}

// Summarize computes aggregate statistics from a SearchTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SearchTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil || len(st.Attempts) == 0 {
		return summary
	}

	summary.RecordedAttempts = len(st.Attempts)
	summary.MinDiscrepancy = math.Inf(1)
	totalDisc, totalSelected := 0.0, 0
	for _, a := range st.Attempts {
		if !a.Scored {
			summary.EmptyAttempts++
			continue
		}
		summary.ScoredAttempts++
		totalDisc += a.Discrepancy
		totalSelected += a.Selected
		if a.Discrepancy < summary.MinDiscrepancy {
			summary.MinDiscrepancy = a.Discrepancy
		}
		if a.Improved {
			summary.Improvements++
		}
	}

	if summary.ScoredAttempts > 0 {
		summary.MeanDiscrepancy = totalDisc / float64(summary.ScoredAttempts)
		summary.MeanSelected = float64(totalSelected) / float64(summary.ScoredAttempts)
	} else {
		summary.MinDiscrepancy = 0
	}
	return summary
}
