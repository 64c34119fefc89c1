package scenario

import "fmt"

// Distribution bundles the target histogram and the selection matched to it.
type Distribution struct {
	Target *Histogram `yaml:"target"`
	Result *Result    `yaml:"result"`
}

// CreateDistribution validates params, builds the target histogram of the
// historical sizes on bins covering both historical and pool sizes, and runs
// the selection engine against it.
func CreateDistribution(historical []float64, pool Pool, params Params, opts ...EngineOption) (*Distribution, error) {
	cfg, err := params.Validate()
	if err != nil {
		return nil, err
	}
	target, err := BuildTargetHistogram(historical, pool.Sizes, cfg.NumBins, cfg.Logarithmic)
	if err != nil {
		return nil, fmt.Errorf("building target histogram: %w", err)
	}
	res, err := NewEngine(cfg, opts...).Run(target, pool)
	if err != nil {
		return nil, err
	}
	return &Distribution{Target: target, Result: res}, nil
}
