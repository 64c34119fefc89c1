package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestSamplePowerLaw_SameSeedSameSample(t *testing.T) {
	a, err := SamplePowerLaw(1.0, 2.3, 100, 42)
	require.NoError(t, err)
	b, err := SamplePowerLaw(1.0, 2.3, 100, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := SamplePowerLaw(1.0, 2.3, 100, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSamplePowerLaw_NeverBelowXMin(t *testing.T) {
	xs, err := SamplePowerLaw(5, 2, 1000, 1)
	require.NoError(t, err)
	require.Len(t, xs, 1000)
	for i, x := range xs {
		assert.GreaterOrEqual(t, x, 5.0, "sample %d", i)
	}
}

func TestSamplePowerLaw_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		xmin  float64
		alpha float64
		count int
		field string
	}{
		{"zero xmin", 0, 2, 10, "xmin"},
		{"negative xmin", -1, 2, 10, "xmin"},
		{"alpha at one", 1, 1, 10, "alpha"},
		{"alpha below one", 1, 0.5, 10, "alpha"},
		{"zero count", 1, 2, 0, "count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SamplePowerLaw(tt.xmin, tt.alpha, tt.count, 1)
			require.ErrorIs(t, err, ErrInvalidParameter)
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestPowerLawSurvival_MatchesPareto(t *testing.T) {
	// The tail P(X ≥ x) = (x/xmin)^(1-alpha) is a Pareto law with shape alpha-1.
	for _, alpha := range []float64{1.5, 2.0, 2.3, 3.1} {
		ref := distuv.Pareto{Xm: 2, Alpha: alpha - 1}
		for _, x := range []float64{2, 2.5, 10, 1000} {
			assert.InDelta(t, ref.Survival(x), PowerLawSurvival(2, alpha, x), 1e-12, "alpha=%v x=%v", alpha, x)
		}
	}
	assert.Equal(t, 1.0, PowerLawSurvival(2, 2.5, 1))
}

func TestSamplePowerLaw_EmpiricalTail(t *testing.T) {
	// GIVEN xmin=1, alpha=2.5, so P(X ≥ 4) = 4^-1.5 = 0.125
	xs, err := SamplePowerLaw(1, 2.5, 20000, 7)
	require.NoError(t, err)

	above := 0
	for _, x := range xs {
		if x >= 4 {
			above++
		}
	}
	assert.InDelta(t, 0.125, float64(above)/float64(len(xs)), 0.01)
}

func TestEstimateXMin(t *testing.T) {
	sizes := make([]float64, 100)
	for i := range sizes {
		sizes[i] = float64(100 - i) // unsorted on purpose
	}
	xmin, err := EstimateXMin(sizes, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 50.5, xmin, 1)

	// Input is not reordered
	assert.Equal(t, 100.0, sizes[0])
}

func TestEstimateXMin_Errors(t *testing.T) {
	_, err := EstimateXMin([]float64{1, 2}, 1.5)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = EstimateXMin([]float64{1, 2}, -0.1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = EstimateXMin(nil, 0.5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = EstimateXMin([]float64{0, -3}, 0.5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
