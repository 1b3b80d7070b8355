// Package algo wires the prelude, boxing, and placement packages into
// Idealloc: the entry point that takes a raw job set and worst-case
// fragmentation budget and returns final byte offsets.
package algo

import (
	"math"
	"runtime/debug"
	"time"

	"github.com/katalvlaran/idealloc/analyze"
	"github.com/katalvlaran/idealloc/boxing"
	"github.com/katalvlaran/idealloc/instance"
	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
	"github.com/katalvlaran/idealloc/placement"
	"github.com/katalvlaran/idealloc/rng"
	"github.com/katalvlaran/idealloc/xlog"
)

// maxStackBytes raises the goroutine stack limit high enough for Theorem
// 2's recursion depth, mirroring the Rust implementation's
// rayon::ThreadPoolBuilder::stack_size(1 GiB).
const maxStackBytes = 1 << 30

// Idealloc assigns an offset to every job in originalInput so that the
// resulting makespan's fragmentation — (makespan/load - 1) * 100 percent —
// is, with high probability, under (worstCaseFrag-1)*100 percent. All
// offsets are relative to startAddress. maxLives bounds how many
// refinement iterations Idealloc may spend trying to beat its best
// placement so far; seed fixes the root random stream, but boxing draws
// derived streams from concurrent goroutines, so two runs with one seed
// can still make different random choices.
//
// Returns the best placement found and its makespan.
func Idealloc(originalInput jobset.JobSet, worstCaseFrag float64, startAddress job.ByteSteps, maxLives uint32, seed int64) (placement.PlacedJobRegistry, job.ByteSteps) {
	debug.SetMaxStack(maxStackBytes)

	total := time.Now()
	src := rng.New(seed)

	var (
		targetLoad  job.ByteSteps
		bestOpt     job.ByteSteps
		finalResult placement.PlacedJobRegistry
	)

	switch res := analyze.PreludeAnalysis(originalInput, src).(type) {
	case analyze.NoOverlap:
		targetLoad, bestOpt, finalResult = placeNoOverlap(res.Jobs, startAddress)

	case analyze.SameSizes:
		targetLoad, bestOpt, finalResult = placeSameSizes(res.Jobs, res.IG, res.Reg, startAddress)

	case analyze.NeedsBA:
		targetLoad, bestOpt, finalResult = placeWithBoxing(res.Ctrl, worstCaseFrag, startAddress, maxLives, src)

	default:
		panic("algo: prelude analysis returned an unrecognized result type")
	}

	frag := float64(bestOpt-targetLoad) / float64(targetLoad) * 100.0
	xlog.L.Info().
		Dur("total_time", time.Since(total)).
		Uint64("makespan", uint64(bestOpt)).
		Uint64("load", uint64(targetLoad)).
		Float64("fragmentation_pct", frag).
		Msg("idealloc finished")

	return finalResult, bestOpt
}

func placeNoOverlap(jobs jobset.JobSet, startAddress job.ByteSteps) (job.ByteSteps, job.ByteSteps, placement.PlacedJobRegistry) {
	reg := make(placement.PlacedJobRegistry, len(jobs))
	for _, j := range jobs {
		pj := placement.NewPlacedJob(j)
		pj.SetOffset(pj.CorrectedOffset(startAddress, 0))
		reg[j.ID()] = pj
	}
	return jobset.Load(jobs), jobset.MaxSize(jobs), reg
}

func placeSameSizes(jobs jobset.JobSet, ig placement.InterferenceGraph, reg placement.PlacedJobRegistry, startAddress job.ByteSteps) (job.ByteSteps, job.ByteSteps, placement.PlacedJobRegistry) {
	l := jobset.Load(jobs)
	rowSize := jobs[0].Size()

	var loose placement.LoosePlacement
	for rowIdx, row := range jobset.IntervalGraphColoring(jobs) {
		for _, j := range row {
			semiPlaced := reg[j.ID()]
			semiPlaced.SetOffset(job.ByteSteps(rowIdx) * rowSize)
			loose = append(loose, semiPlaced)
		}
	}

	bestOpt := placement.DoBestFit(loose, ig, 0, math.MaxUint64, false, startAddress)
	return l, bestOpt, reg
}

func placeWithBoxing(ctrl analyze.BACtrl, worstCaseFrag float64, startAddress job.ByteSteps, maxLives uint32, src *rng.Source) (job.ByteSteps, job.ByteSteps, placement.PlacedJobRegistry) {
	heuristicOpt := ctrl.BestOpt
	livesLeft := maxLives
	totalIters := uint32(1)
	targetOpt := job.ByteSteps(math.Floor(float64(ctrl.RealLoad) * worstCaseFrag))

	dumbID := uint32(math.MaxUint32/2 + 1)
	if ctrl.Dummy != nil {
		dumbID = ctrl.Dummy.ID()
	}

	finalPlacement := clonePlacementRegistry(ctrl.Reg)
	bestOpt := ctrl.BestOpt
	preBoxed := ctrl.PreBoxed

	_, mu, _, _ := preBoxed.GetSafetyInfo(ctrl.Epsilon)
	if mu > ctrl.MuLim {
		mu = 0.99 * ctrl.MuLim
	}
	_, hMax := ctrl.Input.MinMaxHeight()
	finalH := float64(hMax) / mu

	for livesLeft > 0 && bestOpt > targetOpt {
		boxed := boxing.C15(preBoxed, finalH, mu, src)
		if !boxed.CheckBoxedOriginals(ctrl.ToBox) {
			panic("algo: boxing dropped or duplicated an original job")
		}

		currentOpt := place(boxed, ctrl.IG, ctrl.Reg, totalIters, bestOpt, dumbID, startAddress)
		if currentOpt != placement.Unplaced && currentOpt < ctrl.RealLoad {
			panic("algo: placement makespan fell below the load lower bound")
		}

		if currentOpt < bestOpt {
			if !analyze.PlacementIsValid(ctrl.IG, ctrl.Reg) {
				panic("algo: best-fit produced an overlapping placement")
			}
			bestOpt = currentOpt
			xlog.L.Debug().
				Uint32("iteration", totalIters).
				Uint64("bytes_saved", uint64(heuristicOpt-bestOpt)).
				Msg("beat the fallback heuristic")
			finalPlacement = clonePlacementRegistry(ctrl.Reg)
		}

		totalIters++
		livesLeft--
		if livesLeft > 0 && bestOpt > targetOpt {
			preBoxed = boxing.Rogue(ctrl.Input, ctrl.Epsilon, src)
		} else {
			break
		}
	}

	xlog.L.Info().
		Int("buffers", len(ctrl.Reg)).
		Float64("height_hardness_pct", ctrl.Hardness[0]*100).
		Float64("conflict_hardness_pct", ctrl.Hardness[1]*100).
		Float64("death_hardness_pct", ctrl.Hardness[2]*100).
		Uint64("bytes_saved_vs_heuristic", uint64(heuristicOpt-bestOpt)).
		Msg("boxing/placement refinement complete")

	return ctrl.RealLoad, bestOpt, finalPlacement
}

// place unboxes a fully boxed instance (every top-level job the same
// height) into a loose placement and squeezes it, mirroring the Rust
// implementation's Instance::place.
func place(boxed *instance.Instance, ig placement.InterferenceGraph, reg placement.PlacedJobRegistry, itersDone uint32, makespanLim job.ByteSteps, dumbID uint32, startAddr job.ByteSteps) job.ByteSteps {
	jobs := boxed.Jobs()
	rowSize := jobs[0].Size()
	loose := placement.GetLoosePlacement(jobs, 0, placement.UnboxCtrl{Kind: placement.UnboxSameSizes, RowHeight: rowSize}, reg, dumbID)
	return placement.DoBestFit(loose, ig, itersDone, makespanLim, true, startAddr)
}

func clonePlacementRegistry(reg placement.PlacedJobRegistry) placement.PlacedJobRegistry {
	out := make(placement.PlacedJobRegistry, len(reg))
	for id, pj := range reg {
		baby := placement.NewPlacedJob(pj.Descr)
		baby.SetOffset(pj.Offset())
		out[id] = baby
	}
	return out
}
