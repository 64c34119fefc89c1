package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MagnitudeSampler generates event magnitudes.
type MagnitudeSampler interface {
	// Sample returns a finite magnitude.
	Sample(rng *rand.Rand) float64
}

// PowerLawSampler draws from the continuous power-law tail
// P(X ≥ x) = (x / XMin)^(1 − Alpha), x ≥ XMin.
type PowerLawSampler struct {
	XMin  float64 // lower cutoff
	Alpha float64 // tail exponent, > 1
}

// NewPowerLawSampler validates the tail parameters.
func NewPowerLawSampler(xmin, alpha float64) (*PowerLawSampler, error) {
	if !(xmin > 0) || math.IsInf(xmin, 0) {
		return nil, paramErr("xmin", xmin, "must be a finite positive number")
	}
	if !(alpha > 1) || math.IsInf(alpha, 0) {
		return nil, paramErr("alpha", alpha, "must be a finite number greater than 1")
	}
	return &PowerLawSampler{XMin: xmin, Alpha: alpha}, nil
}

// Sample applies the inverse CDF x = xmin · (1 − u)^(−1/(alpha−1)).
// u ∈ [0, 1) keeps 1 − u in (0, 1], so the result is finite and ≥ XMin.
func (s *PowerLawSampler) Sample(rng *rand.Rand) float64 {
	u := rng.Float64()
	return s.XMin * math.Pow(1-u, -1/(s.Alpha-1))
}

// Fill overwrites dst with independent draws.
func (s *PowerLawSampler) Fill(rng *rand.Rand, dst []float64) {
	for i := range dst {
		dst[i] = s.Sample(rng)
	}
}

// SamplePowerLaw draws count magnitudes from the power-law tail using a
// generator seeded with seed. Identical arguments reproduce identical output.
func SamplePowerLaw(xmin, alpha float64, count int, seed int64) ([]float64, error) {
	s, err := NewPowerLawSampler(xmin, alpha)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, paramErr("count", count, "must be positive")
	}
	rng := NewPartitionedRNG(NewSelectionKey(seed)).ForSubsystem(SubsystemSampler)
	out := make([]float64, count)
	s.Fill(rng, out)
	return out, nil
}

// PowerLawSurvival returns P(X ≥ x) for the tail model.
func PowerLawSurvival(xmin, alpha, x float64) float64 {
	if x <= xmin {
		return 1
	}
	return math.Pow(x/xmin, 1-alpha)
}

// EstimateXMin returns the q-quantile of the finite positive entries of
// sizes, a robust lower cutoff that discards noise-dominated small events.
func EstimateXMin(sizes []float64, q float64) (float64, error) {
	if !(q >= 0 && q <= 1) {
		return 0, paramErr("quantile", q, "must be in [0, 1]")
	}
	s, err := positiveFinite("sizes", sizes)
	if err != nil {
		return 0, err
	}
	sort.Float64s(s)
	xmin := stat.Quantile(q, stat.LinInterp, s, nil)
	if !(xmin > 0) {
		return 0, fmt.Errorf("%w: quantile %.3f of sizes is not positive", ErrInvalidInput, q)
	}
	return xmin, nil
}
