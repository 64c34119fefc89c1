package scenario

import (
	"math"
)

// Mode selects how the engine produces candidates.
type Mode string

const (
	// ModeSynthetic draws synthetic power-law samples each attempt.
	ModeSynthetic Mode = "synthetic"
	// ModeResample selects real candidate events under a surface budget.
	ModeResample Mode = "resample"
)

// validModes maps accepted mode strings.
var validModes = map[Mode]bool{
	ModeSynthetic: true,
	ModeResample:  true,
}

// IsValidMode reports whether name is a recognized engine mode.
func IsValidMode(name string) bool {
	return validModes[Mode(name)]
}

// DefaultSeed is assigned when the caller does not provide one.
const DefaultSeed int64 = 42

// Params is the raw, user-facing selection configuration.
// Loaded from the run YAML or built from CLI flags; call Validate before use.
type Params struct {
	XMin        float64 `yaml:"xmin"`
	Alpha       float64 `yaml:"alpha"`
	NumBins     int     `yaml:"num_bins"`
	Logarithmic bool    `yaml:"logarithmic"`
	MaxIter     int     `yaml:"max_iter"`
	Tol         float64 `yaml:"tol"`
	Seed        *int64  `yaml:"seed,omitempty"`
	Mode        Mode    `yaml:"mode"`

	// Resample mode only.
	SurfaceThreshold float64 `yaml:"surface_threshold,omitempty"`
	ReferenceSurface float64 `yaml:"reference_surface,omitempty"` // 0 = no reference stop
	SurfaceTolerance float64 `yaml:"surface_tolerance,omitempty"`
	MaxPicks         int     `yaml:"max_picks,omitempty"` // 0 = unlimited
}

// DefaultParams returns the defaults used by the CLI. XMin, Alpha and
// SurfaceThreshold have no sensible default and stay zero.
func DefaultParams() Params {
	seed := DefaultSeed
	return Params{
		NumBins:     20,
		Logarithmic: true,
		MaxIter:     1000,
		Tol:         1e-6,
		Seed:        &seed,
		Mode:        ModeResample,
	}
}

// Config is the validated, normalized configuration consumed by the engine.
// It is only produced by Params.Validate.
type Config struct {
	XMin        float64
	Alpha       float64
	NumBins     int
	Logarithmic bool
	MaxIter     int
	Tol         float64
	Seed        int64
	Mode        Mode

	SurfaceThreshold float64
	ReferenceSurface float64
	SurfaceTolerance float64
	MaxPicks         int
}

// Validate checks every field and returns the normalized Config. The first
// violation is returned as a *ParamError naming the field.
func (p Params) Validate() (Config, error) {
	if err := validateFinitePositive("xmin", p.XMin); err != nil {
		return Config{}, err
	}
	if math.IsNaN(p.Alpha) || math.IsInf(p.Alpha, 0) || p.Alpha <= 1 {
		return Config{}, paramErr("alpha", p.Alpha, "must be a finite number greater than 1")
	}
	if p.NumBins < 2 {
		return Config{}, paramErr("num_bins", p.NumBins, "must be at least 2")
	}
	if p.MaxIter <= 0 {
		return Config{}, paramErr("max_iter", p.MaxIter, "must be positive")
	}
	if err := validateFinitePositive("tol", p.Tol); err != nil {
		return Config{}, err
	}
	mode := p.Mode
	if mode == "" {
		mode = ModeResample
	}
	if !validModes[mode] {
		return Config{}, paramErr("mode", p.Mode, "must be one of synthetic, resample")
	}

	cfg := Config{
		XMin:        p.XMin,
		Alpha:       p.Alpha,
		NumBins:     p.NumBins,
		Logarithmic: p.Logarithmic,
		MaxIter:     p.MaxIter,
		Tol:         p.Tol,
		Seed:        DefaultSeed,
		Mode:        mode,
	}
	if p.Seed != nil {
		cfg.Seed = *p.Seed
	}
	if mode == ModeSynthetic {
		return cfg, nil
	}

	if err := validateFinitePositive("surface_threshold", p.SurfaceThreshold); err != nil {
		return Config{}, err
	}
	if err := validateFiniteNonNegative("reference_surface", p.ReferenceSurface); err != nil {
		return Config{}, err
	}
	if err := validateFiniteNonNegative("surface_tolerance", p.SurfaceTolerance); err != nil {
		return Config{}, err
	}
	if p.MaxPicks < 0 {
		return Config{}, paramErr("max_picks", p.MaxPicks, "must be non-negative")
	}
	cfg.SurfaceThreshold = p.SurfaceThreshold
	cfg.ReferenceSurface = p.ReferenceSurface
	cfg.SurfaceTolerance = p.SurfaceTolerance
	cfg.MaxPicks = p.MaxPicks
	return cfg, nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return paramErr(name, val, "must be a finite number")
	}
	if val <= 0 {
		return paramErr(name, val, "must be positive")
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return paramErr(name, val, "must be a finite number")
	}
	if val < 0 {
		return paramErr(name, val, "must be non-negative")
	}
	return nil
}
