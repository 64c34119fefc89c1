package scenario

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// BurnProbability returns selected_i · surface_i / Σ selected for each
// event, given an indicator (or count) vector of selected events and the
// surface burned by each.
func BurnProbability(selected, surfaces []float64) ([]float64, error) {
	if len(selected) != len(surfaces) {
		return nil, fmt.Errorf("%w: %d selection flags for %d surfaces", ErrShapeMismatch, len(selected), len(surfaces))
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: empty selection vector", ErrInvalidInput)
	}
	for i := range selected {
		if math.IsNaN(selected[i]) || math.IsInf(selected[i], 0) || selected[i] < 0 {
			return nil, fmt.Errorf("%w: selected[%d] = %v is not finite and non-negative", ErrInvalidInput, i, selected[i])
		}
		if math.IsNaN(surfaces[i]) || math.IsInf(surfaces[i], 0) || surfaces[i] < 0 {
			return nil, fmt.Errorf("%w: surface[%d] = %v is not finite and non-negative", ErrInvalidInput, i, surfaces[i])
		}
	}
	total := floats.Sum(selected)
	if total <= 0 {
		return nil, fmt.Errorf("%w: no selected events", ErrInvalidInput)
	}

	bp := make([]float64, len(selected))
	floats.MulTo(bp, selected, surfaces)
	floats.Scale(1/total, bp)
	return bp, nil
}

// SelectionIndicator turns selected pool indices into an n-long indicator
// vector. Indices picked more than once are counted once.
func SelectionIndicator(n int, indices []int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: pool size must be positive, got %d", ErrInvalidInput, n)
	}
	ind := make([]float64, n)
	for _, i := range indices {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("%w: index %d outside pool of %d", ErrShapeMismatch, i, n)
		}
		ind[i] = 1
	}
	return ind, nil
}
