// Package analyze implements the prelude: a single event sweep over the
// raw input job set that detects the trivial cases idealloc can solve
// without boxing (no overlap at all; overlap but uniform sizes) and, for
// the general case, builds everything the boxing/placement pipeline needs
// (interference graph, fallback heuristic placement, a converged starting
// instance for Theorem 16) so no computation is repeated later.
package analyze

import (
	"github.com/katalvlaran/idealloc/instance"
	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
	"github.com/katalvlaran/idealloc/placement"
)

// Result is the outcome of PreludeAnalysis: exactly one of NoOverlap,
// SameSizes, or NeedsBA. Callers should type-switch on it.
type Result interface {
	isResult()
}

// NoOverlap means no two jobs in Jobs are ever simultaneously live: they
// can all be placed at the same offset.
type NoOverlap struct {
	Jobs jobset.JobSet
}

// SameSizes means jobs overlap, but all share one size: interval graph
// coloring alone yields an optimal placement.
type SameSizes struct {
	Jobs jobset.JobSet
	IG   placement.InterferenceGraph
	Reg  placement.PlacedJobRegistry
}

// NeedsBA means the general case applies: the boxing/placement pipeline
// must run, starting from the precomputed BACtrl.
type NeedsBA struct {
	Ctrl BACtrl
}

func (NoOverlap) isResult() {}
func (SameSizes) isResult() {}
func (NeedsBA) isResult()   {}

// BACtrl bundles everything the boxing/placement pipeline needs to start
// iterating, so the prelude's single event sweep never has to be redone.
type BACtrl struct {
	Input    *instance.Instance
	PreBoxed *instance.Instance
	Epsilon  float64
	ToBox    uint32
	RealLoad job.ByteSteps
	// Dummy is the synthetic job injected to force Theorem 16's height
	// ratio invariants to converge, or nil if none was needed.
	Dummy   *job.Job
	IG      placement.InterferenceGraph
	Reg     placement.PlacedJobRegistry
	MuLim   float64
	BestOpt job.ByteSteps
	// Hardness holds (height, conflict, death) hardness coefficients,
	// reported purely for diagnostics.
	Hardness [3]float64
}
