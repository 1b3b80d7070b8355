package analyze

import (
	"math"
	"sort"

	"github.com/katalvlaran/idealloc/boxing"
	"github.com/katalvlaran/idealloc/instance"
	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
	"github.com/katalvlaran/idealloc/placement"
	"github.com/katalvlaran/idealloc/rng"
)

// PreludeAnalysis sweeps jobs once, in ascending-time order, to decide
// which of idealloc's three regimes applies: no overlap at all, overlap
// but uniform sizes, or the general case — for which it also assembles
// the interference graph, the fallback heuristic's placement, and (if
// boxing's height-ratio invariants can't converge on their own) a dummy
// job to force them to.
//
// jobs must already be jobset.Init-validated; src drives every random
// choice Theorem 2 will later need to make while boxing this instance.
func PreludeAnalysis(jobs jobset.JobSet, src *rng.Source) Result {
	var (
		lastEvtWasBirth bool
		overlapExists   bool
		sameSizes       bool

		runningLoad, maxLoad job.ByteSteps
		sizes                = make(map[job.ByteSteps]struct{})

		ig       = make(placement.InterferenceGraph, len(jobs))
		registry = make(placement.PlacedJobRegistry, len(jobs))
		live     = make(placement.PlacedJobRegistry, len(jobs))

		hMin, hMax job.ByteSteps = math.MaxUint64, 0
		maxDeath   job.ByteSteps
		maxID      uint32

		sizesSum, deathsSum job.ByteSteps
	)

	jobset.ForEachEvent(jobs, func(e jobset.Event) {
		switch e.Kind {
		case jobset.Birth:
			sz := e.Job.Size()
			if sz < hMin {
				hMin = sz
			}
			if sz > hMax {
				hMax = sz
			}
			if e.Job.ID() > maxID {
				maxID = e.Job.ID()
			}
			sizesSum += sz
			runningLoad += sz
			if runningLoad > maxLoad {
				maxLoad = runningLoad
			}
			sizes[sz] = struct{}{}

			newEntry := placement.NewPlacedJob(e.Job)
			initVec := make(placement.PlacedJobSet, 0, len(live))
			for _, v := range live {
				initVec = append(initVec, v)
			}
			ig[e.Job.ID()] = initVec
			registry[e.Job.ID()] = newEntry
			for id := range live {
				ig[id] = append(ig[id], newEntry)
			}
			live[e.Job.ID()] = newEntry

			if lastEvtWasBirth && !overlapExists && !sameSizes {
				overlapExists = true
				if len(sizes) == 1 {
					allSame := true
					for _, j := range jobs {
						if j.Size() != sz {
							allSame = false
							break
						}
					}
					if allSame {
						sameSizes = true
					}
				}
			}
			lastEvtWasBirth = true

		case jobset.Death:
			sz := e.Job.Size()
			if runningLoad < sz {
				panic("analyze: load accounting underflowed")
			}
			runningLoad -= sz
			if !overlapExists {
				lastEvtWasBirth = false
			}
			delete(live, e.Job.ID())
			deathsSum += e.Job.Death()
			if e.Job.Death() > maxDeath {
				maxDeath = e.Job.Death()
			}
		}
	})

	if !overlapExists {
		return NoOverlap{Jobs: jobs}
	}
	if sameSizes {
		return SameSizes{Jobs: jobs, IG: ig, Reg: registry}
	}

	// General case: compute the fallback heuristic's placement (sort by
	// size then lifetime, descending, then first-fit) before anything
	// else, since it stands as-is if boxing never beats it.
	ordered := make(placement.PlacedJobSet, 0, len(registry))
	for _, pj := range registry {
		ordered = append(ordered, pj)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Descr.Size() != ordered[j].Descr.Size() {
			return ordered[i].Descr.Size() > ordered[j].Descr.Size()
		}
		return ordered[i].Descr.Lifetime() > ordered[j].Descr.Lifetime()
	})
	loose := make(placement.LoosePlacement, len(ordered))
	for i, pj := range ordered {
		pj.SetOffset(job.ByteSteps(i))
		loose[i] = pj
	}
	bestOpt := placement.DoBestFit(loose, ig, 0, math.MaxUint64, true, 0)

	toBox := len(jobs)
	realLoad := maxLoad

	// Instance hardness characterization, purely for diagnostics.
	hMean := float64(sizesSum) / float64(toBox)
	deathMean := float64(deathsSum) / float64(toBox)
	var heightSqDevs, deathSqDevs float64
	for _, j := range jobs {
		heightSqDevs += math.Pow(float64(j.Size())-hMean, 2)
		deathSqDevs += math.Pow(float64(j.Death())-deathMean, 2)
	}
	sizeStd := math.Sqrt(heightSqDevs / float64(toBox))
	deathStd := math.Sqrt(deathSqDevs / float64(toBox))
	hHardness := sizeStd / hMean
	deathHardness := deathStd / deathMean
	var doubleNumConflicts int
	for _, v := range ig {
		doubleNumConflicts += len(v)
	}
	numTwoCombos := toBox * (toBox - 1) / 2
	conflictHardness := float64(doubleNumConflicts/2) / float64(numTwoCombos)

	r := float64(hMax) / float64(hMin)
	lgr := math.Log2(r)
	lg2r := lgr * lgr
	smallEnd := math.Pow(math.Pow(lg2r, 7)/r, 1.0/6.0)
	muLim := (math.Sqrt(5) - 1) / 2
	bigEnd := muLim * lg2r

	var dummy *job.Job
	if smallEnd >= bigEnd {
		// p. 562's demanded small < big reduces to r > lg2r * muLim^-6;
		// any r exceeding ~2216.54 satisfies that regardless of this
		// instance's own ratio, so planting a dummy job at that ratio
		// always restores convergence.
		hMax = job.ByteSteps(math.Ceil(2216.54 * float64(hMin)))
		dummy = job.New(job.DummyID, 0, maxDeath, hMax, 0)
		jobs = append(append(jobset.JobSet{}, jobs...), dummy)
		toBox++
		maxLoad += hMax
	}

	inst := instance.New(jobs)
	inst.SetLoad(maxLoad)
	inst.SetHeights(hMin, hMax)
	_, small2, big2, _ := inst.CtrlPrelude()
	if !(small2 < big2) {
		panic("analyze: dummy job injection failed to restore small < big")
	}

	epsilon, preBoxed := InitRogue(inst, small2, big2, src)

	return NeedsBA{Ctrl: BACtrl{
		Input:    inst,
		PreBoxed: preBoxed,
		Epsilon:  epsilon,
		ToBox:    uint32(toBox),
		RealLoad: realLoad,
		Dummy:    dummy,
		IG:       ig,
		Reg:      registry,
		MuLim:    muLim,
		BestOpt:  bestOpt,
		Hardness: [3]float64{hHardness, conflictHardness, deathHardness},
	}}
}

// InitRogue tries boxing.Rogue across a handful of epsilon values between
// small and big, keeping the one that leaves the smallest min/max height
// ratio — giving up after 3 consecutive non-improving tries.
func InitRogue(input *instance.Instance, small, big float64, src *rng.Source) (float64, *instance.Instance) {
	e := small
	minR := math.MaxFloat64
	bestE := e
	best := input
	triesLeft := 3

	for triesLeft > 0 {
		test := boxing.Rogue(input, e, src)
		r, _, _, _ := test.GetSafetyInfo(e)
		if r < minR {
			minR = r
			bestE = e
			best = test
			triesLeft = 3
		} else {
			triesLeft--
		}
		e += (big - e) * 0.01
	}

	return bestE, best
}

// PlacementIsValid checks that no two interfering jobs in reg overlap in
// their placed address ranges — a correctness assertion run after every
// placement attempt that improves on the running best.
func PlacementIsValid(ig placement.InterferenceGraph, reg placement.PlacedJobRegistry) bool {
	for id, neighbors := range ig {
		this := reg[id]
		thisStart := this.Offset()
		thisEnd := this.NextAvailOffset() - 1
		for _, j := range neighbors {
			thatStart := j.Offset()
			thatEnd := j.NextAvailOffset() - 1
			if thatStart > thisEnd {
				continue
			}
			if thatStart >= thisStart {
				return false
			}
			if thatEnd >= thisStart {
				return false
			}
		}
	}
	return true
}
