package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscrepancy_IdenticalHistogramsScoreZero(t *testing.T) {
	tests := [][]float64{
		{1},
		{0.5, 0.25, 0.25},
		{0, 0.1, 0, 3.2},
	}
	for _, h := range tests {
		d, err := Discrepancy(h, h)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d)
	}
}

func TestDiscrepancy_SingleBinPerturbationIncreasesScore(t *testing.T) {
	target := []float64{0.5, 0.25, 0.25}
	for i := range target {
		candidate := append([]float64(nil), target...)
		candidate[i] += 0.1

		d, err := Discrepancy(target, candidate)
		require.NoError(t, err)
		assert.Greater(t, d, 0.0, "perturbing bin %d", i)
	}
}

func TestDiscrepancy_RelativeL1(t *testing.T) {
	d, err := Discrepancy([]float64{0.5, 0.25}, []float64{0.25, 0.5})
	require.NoError(t, err)

	// |0.25-0.5|/0.5 + |0.5-0.25|/0.25 = 0.5 + 1
	assert.InDelta(t, 1.5, d, 1e-12)
}

func TestDiscrepancy_ZeroTargetBinsExcluded(t *testing.T) {
	d, err := Discrepancy([]float64{0.5, 0, 0.25}, []float64{0.5, 7, 0.25})
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestDiscrepancy_ShapeMismatch(t *testing.T) {
	_, err := Discrepancy([]float64{1, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDiscrepancy_DegenerateTarget(t *testing.T) {
	_, err := Discrepancy([]float64{0, 0, 0}, []float64{1, 0, 0})
	assert.ErrorIs(t, err, ErrDegenerateTarget)

	_, err = Discrepancy([]float64{}, []float64{})
	assert.ErrorIs(t, err, ErrDegenerateTarget)
}
