package boxing

import (
	"sync"

	"github.com/katalvlaran/idealloc/instance"
	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
	"github.com/katalvlaran/idealloc/rng"
)

// t2 implements Buchsbaum et al.'s Theorem 2: it splits input by liveness
// at its control structure's critical points into a coarse residue R and,
// for every sub-interval between consecutive points, a disjoint X_i that
// lives entirely inside it. R is boxed directly (via Lemma 1 and interval
// graph coloring); every X_i recurses, in parallel, with a control
// structure scoped to its own sub-interval.
func t2(input *instance.Instance, h, hReal job.ByteSteps, epsilon float64, ctrl *T2Control, src *rng.Source) *instance.Instance {
	var resJobs jobset.JobSet
	var allUnresolved jobset.JobSet

	if ctrl == nil {
		ctrl = newT2Control(input, src)
	}
	ptsVec := append([]job.ByteSteps{}, ctrl.CriticalPoints...)

	rCoarse, xIs := input.SplitByLiveness(ptsVec)
	if len(rCoarse) == 0 {
		panic("boxing: theorem2 entered an infinite loop (empty residue)")
	}

	for _, rI := range jobset.SplitRis(rCoarse, ptsVec) {
		boxed, unresolved := lemma1(rI, h, hReal, epsilon)
		allUnresolved = append(allUnresolved, unresolved...)
		if boxed != nil {
			resJobs = append(resJobs, boxed...)
		}
	}

	igcRows := jobset.IntervalGraphColoring(allUnresolved)

	pointsToAllocate := newOrderedSet()
	var rowCount job.ByteSteps
	var jobsBuf jobset.JobSet
	for _, row := range igcRows {
		for _, g := range jobset.GapFinder(row, ctrl.BoundingInterval[0], ctrl.BoundingInterval[1]) {
			pointsToAllocate.insert(g)
		}
		rowCount++
		jobsBuf = append(jobsBuf, row...)
		if rowCount%h == 0 {
			resJobs = append(resJobs, job.NewBox(jobsBuf, hReal, jobset.Load(jobsBuf)))
			jobsBuf = nil
		}
	}
	if len(jobsBuf) > 0 {
		resJobs = append(resJobs, job.NewBox(jobsBuf, hReal, jobset.Load(jobsBuf)))
	}

	res := instance.New(resJobs)
	var mergeMu sync.Mutex
	var wg sync.WaitGroup
	allocatable := pointsToAllocate.slice()

	for i, xi := range xIs {
		wg.Add(1)
		go func(i int, xi *instance.Instance) {
			defer wg.Done()

			biStart, biEnd := ptsVec[i], ptsVec[i+1]
			critPts := newOrderedSet(biStart, biEnd)
			ptsReady := false
			for _, v := range allocatable {
				if v <= biStart {
					continue
				}
				if v >= biEnd {
					break
				}
				if !ptsReady {
					for _, j := range xi.Jobs() {
						if j.IsLiveAt(v) {
							ptsReady = true
							break
						}
					}
				}
				critPts.insert(v)
			}
			if !ptsReady {
				localSrc := src.Derive(uint64(i) + 1)
				for !critPts.insert(genCrit(xi, biStart, biEnd, localSrc)) {
				}
			}

			xiRes := t2(xi, h, hReal, epsilon, &T2Control{
				BoundingInterval: [2]job.ByteSteps{biStart, biEnd},
				CriticalPoints:   critPts.slice(),
			}, src.Derive(uint64(i)+1_000_003))

			mergeMu.Lock()
			res.MergeViaRef(xiRes)
			mergeMu.Unlock()
		}(i, xi)
	}
	wg.Wait()

	return res
}
