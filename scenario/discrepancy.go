package scenario

import (
	"fmt"
	"math"
)

// Discrepancy returns the relative L1 distance between a candidate and a
// target histogram sharing the same bins:
//
//	Σ |candidate_i − target_i| / target_i   over bins with target_i > 0
//
// Bins where the target is zero carry no relative information and are
// skipped. The score is 0 iff both agree on every positive target bin.
func Discrepancy(target, candidate []float64) (float64, error) {
	if len(target) != len(candidate) {
		return 0, fmt.Errorf("%w: target has %d bins, candidate has %d", ErrShapeMismatch, len(target), len(candidate))
	}
	score := 0.0
	informative := 0
	for i, t := range target {
		if !(t > 0) {
			continue
		}
		informative++
		score += math.Abs(candidate[i]-t) / t
	}
	if informative == 0 {
		return 0, ErrDegenerateTarget
	}
	return score, nil
}
