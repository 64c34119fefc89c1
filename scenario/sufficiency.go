package scenario

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

const (
	// sufficiencyRatio is the share of the historical maximum and total area
	// the simulated pool must reach.
	sufficiencyRatio = 0.9
	// recommendedShare is the share of the maximum useful threshold recommended
	// as the surface budget.
	recommendedShare = 0.10
)

// Sufficiency is the outcome of CheckSufficiency: either Sufficient or Insufficient.
type Sufficiency interface {
	sufficiency()
}

// Sufficient reports a usable pool and the surface thresholds derived from it.
type Sufficient struct {
	MaxThreshold         float64 `yaml:"max_threshold"`
	RecommendedThreshold int     `yaml:"recommended_threshold"`
}

// Insufficient lists why the simulated pool cannot reproduce the historical regime.
type Insufficient struct {
	Reasons []string `yaml:"reasons"`
}

func (Sufficient) sufficiency()   {}
func (Insufficient) sufficiency() {}

// CheckSufficiency decides whether simulated events can reproduce the
// historical record: the largest simulated event must reach 90% of the
// largest historical one, and the simulated area per year must reach 90% of
// the total historical area. When both hold, the maximum useful threshold is
// min(max_sim, sim_per_year) and the recommended threshold is 10% of it.
func CheckSufficiency(historical, simulated []float64, years int) (Sufficiency, error) {
	hist, err := positiveFinite("historical sizes", historical)
	if err != nil {
		return nil, err
	}
	sims, err := positiveFinite("simulated sizes", simulated)
	if err != nil {
		return nil, err
	}
	if years <= 0 {
		return nil, paramErr("years", years, "must be positive")
	}

	maxHist, totalHist := floats.Max(hist), floats.Sum(hist)
	maxSim, totalSim := floats.Max(sims), floats.Sum(sims)
	perYear := totalSim / float64(years)

	var reasons []string
	if maxSim < sufficiencyRatio*maxHist {
		reasons = append(reasons, fmt.Sprintf("insufficient simulated maximum fire size: max_hist=%.3f max_sim=%.3f", maxHist, maxSim))
	}
	if perYear < sufficiencyRatio*totalHist {
		reasons = append(reasons, fmt.Sprintf("insufficient simulated burned area per year: total_hist=%.3f sim_per_year=%.3f", totalHist, perYear))
	}
	if len(reasons) > 0 {
		for _, r := range reasons {
			logrus.Warn(r)
		}
		return Insufficient{Reasons: reasons}, nil
	}

	maxThreshold := math.Min(maxSim, perYear)
	recommended := int(math.Max(1, math.Round(recommendedShare*maxThreshold)))
	logrus.Infof("Sufficient simulated events: maximum surface threshold %.0f, recommended %d", maxThreshold, recommended)
	return Sufficient{MaxThreshold: maxThreshold, RecommendedThreshold: recommended}, nil
}
