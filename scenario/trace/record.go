// Package trace provides per-attempt recording for selection searches.
// This package has no dependencies on scenario/ — it stores pure data types.
package trace

// AttemptRecord captures the outcome of a single search attempt.
type AttemptRecord struct {
	Attempt     int     `yaml:"attempt"`
	Selected    int     `yaml:"selected"` // number of events in the candidate (0 = empty, unscored)
	Surface     float64 `yaml:"surface"`
	Discrepancy float64 `yaml:"discrepancy"` // meaningless when Scored is false
	Scored      bool    `yaml:"scored"`
	Improved    bool    `yaml:"improved"` // replaced the incumbent best
}
