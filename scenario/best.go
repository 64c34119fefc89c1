package scenario

import "math"

// candidate is one scored attempt.
type candidate struct {
	attempt     int
	indices     []int     // nil in synthetic mode
	events      []float64 // magnitudes, in selection order
	surface     float64
	density     []float64
	discrepancy float64
}

// bestSnapshot is the incumbent best candidate. It is a value: offer never
// mutates the receiver, it returns the snapshot that should replace it.
type bestSnapshot struct {
	cand  candidate
	found bool
}

// noBest returns the empty incumbent, which any scored candidate beats.
func noBest() bestSnapshot {
	return bestSnapshot{cand: candidate{attempt: -1, discrepancy: math.Inf(1)}}
}

// offer returns the new incumbent and whether c replaced the old one.
// Only a strictly lower discrepancy wins; on ties the earlier candidate stays.
func (b bestSnapshot) offer(c candidate) (bestSnapshot, bool) {
	if c.discrepancy < b.cand.discrepancy {
		return bestSnapshot{cand: c, found: true}, true
	}
	return b, false
}

func (b bestSnapshot) discrepancy() float64 {
	return b.cand.discrepancy
}
