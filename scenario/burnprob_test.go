package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBurnProbability(t *testing.T) {
	bp, err := BurnProbability([]float64{1, 0, 1}, []float64{10, 20, 30})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 0, 15}, bp, 1e-12)
}

func TestBurnProbability_Counts(t *testing.T) {
	// An event picked twice weighs twice as much
	bp, err := BurnProbability([]float64{2, 1, 1}, []float64{4, 4, 8})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 1, 2}, bp, 1e-12)
}

func TestBurnProbability_Errors(t *testing.T) {
	tests := []struct {
		name     string
		selected []float64
		surfaces []float64
		want     error
	}{
		{"length mismatch", []float64{1, 0}, []float64{1}, ErrShapeMismatch},
		{"empty", nil, nil, ErrInvalidInput},
		{"nothing selected", []float64{0, 0}, []float64{1, 2}, ErrInvalidInput},
		{"negative flag", []float64{-1, 1}, []float64{1, 2}, ErrInvalidInput},
		{"NaN surface", []float64{1, 1}, []float64{math.NaN(), 2}, ErrInvalidInput},
		{"negative surface", []float64{1, 1}, []float64{-3, 2}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BurnProbability(tt.selected, tt.surfaces)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSelectionIndicator(t *testing.T) {
	ind, err := SelectionIndicator(5, []int{3, 0, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 1, 0}, ind)

	_, err = SelectionIndicator(3, []int{3})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = SelectionIndicator(0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
