package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Pool is the set of candidate events the engine selects from.
type Pool struct {
	// Sizes are the event magnitudes. Every entry must be finite and positive.
	Sizes []float64
	// Weights are per-event sampling weights. Required in resample mode; use
	// UniformWeights to ask for equal propensity explicitly.
	Weights []float64
	// Surfaces are per-event areas counted against the surface budget.
	// When nil an event's surface is its size.
	Surfaces []float64
}

// UniformWeights returns n equal weights.
func UniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// preparedPool is a validated pool with normalized weights.
type preparedPool struct {
	sizes    []float64
	surfaces []float64
	weights  []float64 // sums to 1
	drawable []int     // indices with positive weight
}

// preparePool validates pool for resample mode. Weights have non-finite
// entries zeroed and are renormalized to sum to 1.
func preparePool(pool Pool) (*preparedPool, error) {
	n := len(pool.Sizes)
	if n == 0 {
		return nil, fmt.Errorf("%w: candidate pool is empty", ErrInvalidInput)
	}
	for i, s := range pool.Sizes {
		if !(s > 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: candidate size[%d] = %v is not finite and positive", ErrInvalidInput, i, s)
		}
	}
	if pool.Weights == nil {
		return nil, fmt.Errorf("%w: no sampling weights supplied", ErrInvalidWeights)
	}
	if len(pool.Weights) != n {
		return nil, fmt.Errorf("%w: %d weights for %d candidates", ErrShapeMismatch, len(pool.Weights), n)
	}

	surfaces := pool.Sizes
	if pool.Surfaces != nil {
		if len(pool.Surfaces) != n {
			return nil, fmt.Errorf("%w: %d surfaces for %d candidates", ErrShapeMismatch, len(pool.Surfaces), n)
		}
		for i, s := range pool.Surfaces {
			if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
				return nil, fmt.Errorf("%w: surface[%d] = %v is not finite and non-negative", ErrInvalidInput, i, s)
			}
		}
		surfaces = pool.Surfaces
	}

	weights := make([]float64, n)
	for i, w := range pool.Weights {
		switch {
		case math.IsNaN(w) || math.IsInf(w, 0):
			weights[i] = 0
		case w < 0:
			return nil, fmt.Errorf("%w: weight[%d] = %v is negative", ErrInvalidWeights, i, w)
		default:
			weights[i] = w
		}
	}
	total := floats.Sum(weights)
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: weights sum to %v", ErrInvalidWeights, total)
	}
	floats.Scale(1/total, weights)

	drawable := make([]int, 0, n)
	for i, w := range weights {
		if w > 0 {
			drawable = append(drawable, i)
		}
	}
	return &preparedPool{sizes: pool.Sizes, surfaces: surfaces, weights: weights, drawable: drawable}, nil
}

// permutation returns the drawable indices in a weighted random order,
// without replacement: each event gets key log(u)/w and events are taken in
// decreasing key order (Efraimidis–Spirakis). Zero-weight events never appear.
func (p *preparedPool) permutation(rng *rand.Rand) []int {
	keys := make([]float64, len(p.sizes))
	for _, i := range p.drawable {
		u := rng.Float64()
		if u == 0 {
			u = math.SmallestNonzeroFloat64
		}
		keys[i] = math.Log(u) / p.weights[i]
	}
	order := make([]int, len(p.drawable))
	copy(order, p.drawable)
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]] > keys[order[b]]
	})
	return order
}

// accumulate walks order greedily, stopping when the next event would push
// the accumulated surface over the threshold, when the accumulated surface
// reaches the reference surface within tolerance, or at maxPicks events.
func (p *preparedPool) accumulate(order []int, cfg Config) ([]int, float64) {
	var selected []int
	acc := 0.0
	for _, i := range order {
		if cfg.MaxPicks > 0 && len(selected) >= cfg.MaxPicks {
			break
		}
		s := p.surfaces[i]
		if acc+s > cfg.SurfaceThreshold {
			break
		}
		selected = append(selected, i)
		acc += s
		if cfg.ReferenceSurface > 0 && math.Abs(acc-cfg.ReferenceSurface) <= cfg.SurfaceTolerance {
			break
		}
	}
	return selected, acc
}

func (p *preparedPool) sizesOf(indices []int) []float64 {
	out := make([]float64, len(indices))
	for k, i := range indices {
		out[k] = p.sizes[i]
	}
	return out
}
