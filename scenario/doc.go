// Package scenario selects fire events whose size distribution best matches
// a target regime.
//
// # Reading Guide
//
//   - histogram.go: target histogram construction and density binning on fixed edges
//   - discrepancy.go: relative L1 score between two histograms
//   - powerlaw.go: seeded power-law tail sampler
//   - engine.go: the attempt loop, in synthetic or resample mode
//   - params.go: raw Params and their validation into an immutable Config
//
// # Determinism
//
// Every random draw derives from Config.Seed. Attempt i uses its own
// generator seeded with seed XOR fnv1a64("attempt_i") (see rng.go), so an
// attempt's candidate depends only on the seed and its index.
//
// # Sub-packages
//   - scenario/trace/: per-attempt search trace
//   - scenario/sample/: CSV ingestion and output
//   - scenario/report/: result and histogram comparison reports
//   - scenario/observability/: Prometheus metrics for a run
package scenario
