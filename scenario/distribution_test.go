package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDistribution(t *testing.T) {
	seed := int64(42)
	params := Params{
		XMin: 1, Alpha: 2.3, NumBins: 4, Logarithmic: true,
		MaxIter: 50, Tol: 1e-6, Seed: &seed,
		Mode: ModeResample, SurfaceThreshold: 55,
	}

	dist, err := CreateDistribution(fibSizes, fibPool(), params)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, dist.Target.Mass(), 1e-9)
	assert.Len(t, dist.Result.Density, 4)
	assert.True(t, dist.Result.Converged)
}

func TestCreateDistribution_InvalidParams(t *testing.T) {
	_, err := CreateDistribution(fibSizes, fibPool(), Params{XMin: -1})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestCreateDistribution_EmptyHistorical(t *testing.T) {
	seed := int64(1)
	params := Params{XMin: 1, Alpha: 2, NumBins: 3, MaxIter: 1, Tol: 1e-3, Seed: &seed, Mode: ModeSynthetic}
	_, err := CreateDistribution(nil, Pool{Sizes: fibSizes}, params)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
