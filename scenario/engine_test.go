package scenario

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/scenfire/scenfire/scenario/trace"
)

var fibSizes = []float64{1, 2, 2, 3, 5, 8, 13, 21}

// resampleConfig returns a validated resample config over fibSizes.
func resampleConfig(t *testing.T, mutate func(*Params)) Config {
	t.Helper()
	seed := int64(42)
	p := Params{
		XMin:             1,
		Alpha:            2.3,
		NumBins:          4,
		Logarithmic:      true,
		MaxIter:          50,
		Tol:              1e-6,
		Seed:             &seed,
		Mode:             ModeResample,
		SurfaceThreshold: 55,
	}
	if mutate != nil {
		mutate(&p)
	}
	cfg, err := p.Validate()
	require.NoError(t, err)
	return cfg
}

func fibTarget(t *testing.T, cfg Config) *Histogram {
	t.Helper()
	h, err := BuildTargetHistogram(fibSizes, fibSizes, cfg.NumBins, cfg.Logarithmic)
	require.NoError(t, err)
	return h
}

func fibPool() Pool {
	return Pool{Sizes: fibSizes, Weights: UniformWeights(len(fibSizes))}
}

func TestEngine_ConvergesWhenBudgetCoversWholePool(t *testing.T) {
	// GIVEN the pool equals the historical sample and the budget is its total area
	cfg := resampleConfig(t, nil)

	// WHEN the engine runs
	res, err := NewEngine(cfg).Run(fibTarget(t, cfg), fibPool())
	require.NoError(t, err)

	// THEN every event is taken and the histograms match exactly
	assert.LessOrEqual(t, res.Discrepancy, cfg.Tol)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Attempts, "should stop on the first converged attempt")
	assert.Equal(t, 55.0, res.TotalSurface)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, res.Indices)
}

func TestEngine_RespectsSurfaceBudget(t *testing.T) {
	cfg := resampleConfig(t, func(p *Params) { p.SurfaceThreshold = 20 })

	res, err := NewEngine(cfg).Run(fibTarget(t, cfg), fibPool())
	require.NoError(t, err)

	assert.LessOrEqual(t, res.TotalSurface, 20.0)
	assert.InDelta(t, floats.Sum(res.Events), res.TotalSurface, 1e-12)
	assert.NotEmpty(t, res.Events)
	assert.Equal(t, len(res.Indices), len(res.Events))
	for k, i := range res.Indices {
		assert.Equal(t, fibSizes[i], res.Events[k])
	}
	assert.GreaterOrEqual(t, res.BestAttempt, 0)
	assert.Less(t, res.BestAttempt, res.Attempts)
}

func TestEngine_NoFeasibleSelection(t *testing.T) {
	// GIVEN a budget smaller than the smallest event
	cfg := resampleConfig(t, func(p *Params) { p.SurfaceThreshold = 0.5 })

	_, err := NewEngine(cfg).Run(fibTarget(t, cfg), fibPool())

	assert.ErrorIs(t, err, ErrNoFeasibleSelection)
}

func TestEngine_SameSeedSameResult(t *testing.T) {
	cfg := resampleConfig(t, func(p *Params) { p.SurfaceThreshold = 30 })
	target := fibTarget(t, cfg)

	a, err := NewEngine(cfg).Run(target, fibPool())
	require.NoError(t, err)
	b, err := NewEngine(cfg).Run(target, fibPool())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEngine_ZeroWeightEventsNeverSelected(t *testing.T) {
	cfg := resampleConfig(t, func(p *Params) { p.SurfaceThreshold = 40 })
	pool := fibPool()
	pool.Weights = []float64{0, 1, 1, 1, 1, 1, 1, 0}

	st := trace.NewSearchTrace(trace.TraceLevelAttempts)
	res, err := NewEngine(cfg, WithTrace(st)).Run(fibTarget(t, cfg), pool)
	require.NoError(t, err)
	assert.NotContains(t, res.Indices, 0)
	assert.NotContains(t, res.Indices, 7)

	p, err := preparePool(pool)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		order := p.permutation(rng)
		assert.Len(t, order, 6)
		assert.NotContains(t, order, 0)
		assert.NotContains(t, order, 7)
	}
}

func TestEngine_MaxPicks(t *testing.T) {
	cfg := resampleConfig(t, func(p *Params) { p.MaxPicks = 2 })

	res, err := NewEngine(cfg).Run(fibTarget(t, cfg), fibPool())
	require.NoError(t, err)

	assert.LessOrEqual(t, len(res.Indices), 2)
	assert.False(t, res.Converged)
	assert.Equal(t, cfg.MaxIter, res.Attempts)
}

func TestEngine_StopsAtReferenceSurface(t *testing.T) {
	// GIVEN ten unit events and a reference surface of 3
	ones := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	cfg := resampleConfig(t, func(p *Params) {
		p.SurfaceThreshold = 100
		p.ReferenceSurface = 3
		p.SurfaceTolerance = 0.5
	})
	target, err := BuildTargetHistogram(ones, ones, cfg.NumBins, cfg.Logarithmic)
	require.NoError(t, err)

	res, err := NewEngine(cfg).Run(target, Pool{Sizes: ones, Weights: UniformWeights(len(ones))})
	require.NoError(t, err)

	// THEN each attempt stops once three events are accumulated
	assert.Equal(t, 3.0, res.TotalSurface)
	assert.Len(t, res.Indices, 3)
}

func TestEngine_SurfacesOverrideSizes(t *testing.T) {
	cfg := resampleConfig(t, func(p *Params) { p.SurfaceThreshold = 4 })
	pool := fibPool()
	pool.Surfaces = []float64{1, 1, 1, 1, 1, 1, 1, 1}

	res, err := NewEngine(cfg).Run(fibTarget(t, cfg), pool)
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.TotalSurface)
	assert.Len(t, res.Indices, 4)
}

func TestEngine_SyntheticMode(t *testing.T) {
	sizes, err := SamplePowerLaw(1, 2.3, 500, 3)
	require.NoError(t, err)
	seed := int64(9)
	cfg, err := Params{XMin: 1, Alpha: 2.3, NumBins: 10, Logarithmic: true, MaxIter: 5, Tol: 1e-9, Seed: &seed, Mode: ModeSynthetic}.Validate()
	require.NoError(t, err)
	target, err := BuildTargetHistogram(sizes, sizes, cfg.NumBins, cfg.Logarithmic)
	require.NoError(t, err)

	res, err := NewEngine(cfg).Run(target, Pool{Sizes: sizes})
	require.NoError(t, err)

	assert.Nil(t, res.Indices)
	assert.Len(t, res.Events, 500)
	for _, x := range res.Events {
		assert.GreaterOrEqual(t, x, 1.0)
	}
	assert.InDelta(t, floats.Sum(res.Events), res.TotalSurface, 1e-9)
	assert.Equal(t, 5, res.Attempts)

	again, err := NewEngine(cfg).Run(target, Pool{Sizes: sizes})
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestEngine_InvalidTarget(t *testing.T) {
	cfg := resampleConfig(t, nil)
	e := NewEngine(cfg)

	_, err := e.Run(nil, fibPool())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.Run(&Histogram{Bins: Bins{Edges: []float64{0, 1, 2}}, Density: []float64{0, 0}}, fibPool())
	assert.ErrorIs(t, err, ErrDegenerateTarget)

	_, err = e.Run(&Histogram{Bins: Bins{Edges: []float64{0, 1, 2}}, Density: []float64{1, 0, 0}}, fibPool())
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestEngine_InvalidPool(t *testing.T) {
	cfg := resampleConfig(t, nil)
	target := fibTarget(t, cfg)

	tests := []struct {
		name string
		pool Pool
		want error
	}{
		{"empty pool", Pool{Weights: []float64{}}, ErrInvalidInput},
		{"nil weights", Pool{Sizes: fibSizes}, ErrInvalidWeights},
		{"negative weight", Pool{Sizes: []float64{1, 2}, Weights: []float64{1, -1}}, ErrInvalidWeights},
		{"all zero weights", Pool{Sizes: []float64{1, 2}, Weights: []float64{0, 0}}, ErrInvalidWeights},
		{"weight length", Pool{Sizes: []float64{1, 2}, Weights: []float64{1}}, ErrShapeMismatch},
		{"surface length", Pool{Sizes: []float64{1, 2}, Weights: []float64{1, 1}, Surfaces: []float64{1}}, ErrShapeMismatch},
		{"non-positive size", Pool{Sizes: []float64{0, 2}, Weights: []float64{1, 1}}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(cfg).Run(target, tt.pool)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

type countingObserver struct {
	scored, empty, finished int
	last                    *Result
}

func (o *countingObserver) AttemptScored(Mode, float64, int, float64) { o.scored++ }
func (o *countingObserver) AttemptEmpty(Mode) { o.empty++ }
func (o *countingObserver) RunFinished(r *Result) {
	o.finished++
	o.last = r
}

func TestEngine_ObserverAndTraceSeeEveryAttempt(t *testing.T) {
	// GIVEN a budget that leaves some attempts empty (a first pick of 21 overflows it)
	cfg := resampleConfig(t, func(p *Params) { p.SurfaceThreshold = 20 })
	obs := &countingObserver{}
	st := trace.NewSearchTrace(trace.TraceLevelAttempts)

	res, err := NewEngine(cfg, WithTrace(st), WithObserver(obs)).Run(fibTarget(t, cfg), fibPool())
	require.NoError(t, err)

	assert.Equal(t, res.Attempts, obs.scored+obs.empty)
	assert.Equal(t, 1, obs.finished)
	assert.Same(t, res, obs.last)
	assert.Len(t, st.Attempts, res.Attempts)

	// Improvements are strictly decreasing and the last one is the result
	prev := -1.0
	var lastImproved trace.AttemptRecord
	for _, a := range st.Attempts {
		if !a.Improved {
			continue
		}
		if prev >= 0 {
			assert.Less(t, a.Discrepancy, prev)
		}
		prev = a.Discrepancy
		lastImproved = a
	}
	assert.Equal(t, res.BestAttempt, lastImproved.Attempt)
	assert.Equal(t, res.Discrepancy, lastImproved.Discrepancy)
}
