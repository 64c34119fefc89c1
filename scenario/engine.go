package scenario

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/scenfire/scenfire/scenario/trace"
)

// Observer receives search progress. Implementations must not retain the
// slices they are given.
type Observer interface {
	AttemptScored(mode Mode, discrepancy float64, selected int, surface float64)
	AttemptEmpty(mode Mode)
	RunFinished(result *Result)
}

// Result is the outcome of a selection run.
type Result struct {
	Mode Mode `yaml:"mode"`
	// Indices into the candidate pool, in selection order. Nil in synthetic mode.
	Indices []int `yaml:"surface_index,omitempty"`
	// Events are the selected (or synthesized) magnitudes.
	Events       []float64 `yaml:"events"`
	Discrepancy  float64   `yaml:"discrepancy"`
	TotalSurface float64   `yaml:"total_surface"`
	// Density is the histogram of Events on the target bins.
	Density     []float64 `yaml:"density"`
	Attempts    int       `yaml:"attempts"`
	BestAttempt int       `yaml:"best_attempt"`
	Converged   bool      `yaml:"converged"` // Discrepancy <= Tol
}

// Engine runs the attempt loop. It is single-use per Run call but may be
// reused; every Run starts from the configured seed.
type Engine struct {
	cfg      Config
	trace    *trace.SearchTrace
	observer Observer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithTrace records every attempt into st (filtered by its level).
func WithTrace(st *trace.SearchTrace) EngineOption {
	return func(e *Engine) { e.trace = st }
}

// WithObserver reports progress to o.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// NewEngine creates an engine from a validated Config.
func NewEngine(cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// attemptFunc produces the unscored candidate of one attempt.
type attemptFunc func(attempt int, rng *rand.Rand) candidate

// Run searches for the candidate whose histogram on target's bins has the
// lowest discrepancy to target. It stops after MaxIter attempts or as soon
// as the best discrepancy is <= Tol.
func (e *Engine) Run(target *Histogram, pool Pool) (*Result, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target histogram", ErrInvalidInput)
	}
	if target.Bins.NumBins() != len(target.Density) {
		return nil, fmt.Errorf("%w: %d bins but %d densities", ErrShapeMismatch, target.Bins.NumBins(), len(target.Density))
	}
	// Reject a degenerate target before spending any attempt.
	if _, err := Discrepancy(target.Density, target.Density); err != nil {
		return nil, err
	}

	next, err := e.attempts(pool)
	if err != nil {
		return nil, err
	}

	rngs := NewPartitionedRNG(NewSelectionKey(e.cfg.Seed))
	best := noBest()
	attempts := 0
	for i := 0; i < e.cfg.MaxIter; i++ {
		attempts++
		c := next(i, rngs.ForAttempt(i))
		if len(c.events) == 0 {
			e.trace.RecordAttempt(trace.AttemptRecord{Attempt: i})
			if e.observer != nil {
				e.observer.AttemptEmpty(e.cfg.Mode)
			}
			continue
		}

		c.density = target.Bins.Density(c.events)
		c.discrepancy, err = Discrepancy(target.Density, c.density)
		if err != nil {
			return nil, err
		}

		var improved bool
		best, improved = best.offer(c)
		if improved {
			logrus.Debugf("attempt %d: discrepancy %.6g with %d events (surface %.6g)",
				i, c.discrepancy, len(c.events), c.surface)
		}
		e.trace.RecordAttempt(trace.AttemptRecord{
			Attempt:     i,
			Selected:    len(c.events),
			Surface:     c.surface,
			Discrepancy: c.discrepancy,
			Scored:      true,
			Improved:    improved,
		})
		if e.observer != nil {
			e.observer.AttemptScored(e.cfg.Mode, c.discrepancy, len(c.events), c.surface)
		}

		if best.discrepancy() <= e.cfg.Tol {
			break
		}
	}

	if !best.found {
		return nil, fmt.Errorf("%w: %d attempts produced no non-empty candidate", ErrNoFeasibleSelection, attempts)
	}

	res := &Result{
		Mode:         e.cfg.Mode,
		Indices:      best.cand.indices,
		Events:       best.cand.events,
		Discrepancy:  best.cand.discrepancy,
		TotalSurface: best.cand.surface,
		Density:      best.cand.density,
		Attempts:     attempts,
		BestAttempt:  best.cand.attempt,
		Converged:    best.cand.discrepancy <= e.cfg.Tol,
	}
	logrus.Infof("Selection finished: mode=%s attempts=%d best_attempt=%d discrepancy=%.6g events=%d surface=%.6g",
		res.Mode, res.Attempts, res.BestAttempt, res.Discrepancy, len(res.Events), res.TotalSurface)
	if e.observer != nil {
		e.observer.RunFinished(res)
	}
	return res, nil
}

// attempts returns the candidate generator for the configured mode.
func (e *Engine) attempts(pool Pool) (attemptFunc, error) {
	switch e.cfg.Mode {
	case ModeSynthetic:
		return e.syntheticAttempts(pool)
	case ModeResample:
		return e.resampleAttempts(pool)
	default:
		return nil, paramErr("mode", e.cfg.Mode, "must be one of synthetic, resample")
	}
}

// syntheticAttempts draws a fresh power-law sample the size of the pool each attempt.
func (e *Engine) syntheticAttempts(pool Pool) (attemptFunc, error) {
	n := len(pool.Sizes)
	if n == 0 {
		return nil, fmt.Errorf("%w: reference pool is empty", ErrInvalidInput)
	}
	sampler, err := NewPowerLawSampler(e.cfg.XMin, e.cfg.Alpha)
	if err != nil {
		return nil, err
	}
	return func(attempt int, rng *rand.Rand) candidate {
		events := make([]float64, n)
		sampler.Fill(rng, events)
		return candidate{attempt: attempt, events: events, surface: floats.Sum(events)}
	}, nil
}

// resampleAttempts selects real events under the surface budget each attempt.
func (e *Engine) resampleAttempts(pool Pool) (attemptFunc, error) {
	p, err := preparePool(pool)
	if err != nil {
		return nil, err
	}
	return func(attempt int, rng *rand.Rand) candidate {
		indices, surface := p.accumulate(p.permutation(rng), e.cfg)
		return candidate{attempt: attempt, indices: indices, events: p.sizesOf(indices), surface: surface}
	}, nil
}
