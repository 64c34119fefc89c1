package scenario

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// logEpsilon keeps log(x + ε) finite for values at or near zero.
const logEpsilon = 1e-6

// collapseMargin widens a single-valued range so bins keep a non-zero width.
const collapseMargin = 1e-3

// Bins is a fixed set of histogram edges. When Logarithmic is set the edges
// live on the log(x + ε) axis and every value is transformed before binning.
type Bins struct {
	Edges       []float64 `yaml:"edges"`
	Logarithmic bool      `yaml:"logarithmic"`
}

// Histogram is a density histogram over Bins.
type Histogram struct {
	Bins    Bins      `yaml:"bins"`
	Density []float64 `yaml:"density"`
}

// NumBins returns the number of intervals.
func (b Bins) NumBins() int {
	if len(b.Edges) < 2 {
		return 0
	}
	return len(b.Edges) - 1
}

// Widths returns the width of each interval on the binning axis.
func (b Bins) Widths() []float64 {
	w := make([]float64, b.NumBins())
	for i := range w {
		w[i] = b.Edges[i+1] - b.Edges[i]
	}
	return w
}

// Bounds returns the edges in magnitude units, undoing the log transform.
func (b Bins) Bounds() []float64 {
	out := make([]float64, len(b.Edges))
	for i, e := range b.Edges {
		if b.Logarithmic {
			out[i] = math.Exp(e) - logEpsilon
		} else {
			out[i] = e
		}
	}
	return out
}

// transform maps a magnitude onto the binning axis. ok is false for values
// that have no position on it.
func (b Bins) transform(x float64) (float64, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	if !b.Logarithmic {
		return x, true
	}
	if x+logEpsilon <= 0 {
		return 0, false
	}
	return math.Log(x + logEpsilon), true
}

// Counts returns the number of values falling in each interval. Intervals
// are half-open except the last one, which includes its upper edge; values
// outside [Edges[0], Edges[n]] are not counted.
func (b Bins) Counts(values []float64) []float64 {
	n := b.NumBins()
	if n == 0 {
		return nil
	}
	lo, hi := b.Edges[0], b.Edges[n]
	pts := make([]float64, 0, len(values))
	for _, v := range values {
		t, ok := b.transform(v)
		if !ok || t < lo || t > hi {
			continue
		}
		pts = append(pts, t)
	}
	sort.Float64s(pts)

	// stat.Histogram excludes the top divider; nudge it so hi itself lands in the last bin.
	dividers := make([]float64, len(b.Edges))
	copy(dividers, b.Edges)
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	return stat.Histogram(nil, dividers, pts, nil)
}

// Density returns the density histogram of values on these bins, normalized
// so that Σ density_i · width_i = 1 over the values that fall inside the
// edges. When no value falls inside, every density is zero.
func (b Bins) Density(values []float64) []float64 {
	counts := b.Counts(values)
	total := floats.Sum(counts)
	density := make([]float64, len(counts))
	if total == 0 {
		return density
	}
	for i, w := range b.Widths() {
		density[i] = counts[i] / (total * w)
	}
	return density
}

// Mass returns Σ density_i · width_i, which is 1 for any non-degenerate histogram.
func (h *Histogram) Mass() float64 {
	mass := 0.0
	for i, w := range h.Bins.Widths() {
		mass += h.Density[i] * w
	}
	return mass
}

// BuildTargetHistogram builds the fixed target histogram of sizes. The edges
// span the union of sizes and reference so that candidates drawn from the
// reference pool can be binned on the same axis; the density itself is
// computed from sizes only.
func BuildTargetHistogram(sizes, reference []float64, numBins int, logarithmic bool) (*Histogram, error) {
	if numBins < 2 {
		return nil, paramErr("num_bins", numBins, "must be at least 2")
	}
	s, err := positiveFinite("sizes", sizes)
	if err != nil {
		return nil, err
	}
	r, err := positiveFinite("reference sample", reference)
	if err != nil {
		return nil, err
	}

	bins := Bins{Logarithmic: logarithmic}
	vmin, vmax := math.Inf(1), math.Inf(-1)
	for _, sample := range [][]float64{s, r} {
		for _, v := range sample {
			t, _ := bins.transform(v)
			vmin = math.Min(vmin, t)
			vmax = math.Max(vmax, t)
		}
	}
	vmin, vmax = widenCollapsed(vmin, vmax)

	bins.Edges = make([]float64, numBins+1)
	floats.Span(bins.Edges, vmin, vmax)
	// Pin the outer edges so the extreme values are never lost to rounding.
	bins.Edges[0], bins.Edges[numBins] = vmin, vmax

	return &Histogram{Bins: bins, Density: bins.Density(s)}, nil
}

// widenCollapsed spreads a (near) single-valued range by a small multiplicative margin.
func widenCollapsed(vmin, vmax float64) (float64, float64) {
	if math.Abs(vmax-vmin) > 1e-8+1e-5*math.Abs(vmax) {
		return vmin, vmax
	}
	if vmin == 0 {
		return -collapseMargin / 2, collapseMargin / 2
	}
	return vmin - collapseMargin*math.Abs(vmin), vmax + collapseMargin*math.Abs(vmax)
}

// positiveFinite returns the finite, strictly positive entries of xs.
func positiveFinite(name string, xs []float64) ([]float64, error) {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s has no finite positive values", ErrInvalidInput, name)
	}
	return out, nil
}
