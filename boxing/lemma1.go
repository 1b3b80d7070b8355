package boxing

import (
	"math"

	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
)

// lemma1 implements Buchsbaum et al.'s Lemma 1: it carves up to two "outer"
// strips of outerNum jobs each (one ordered by ascending birth, one by
// ascending death) out of input, leaving them unresolved for the caller's
// interval-graph-coloring pass, then recursively carves and boxes the
// remainder into h-sized groups.
//
// Returns (nil, input) if input is too small for carving to be worthwhile.
func lemma1(input jobset.JobSet, h, hReal job.ByteSteps, epsilon float64) (jobset.JobSet, jobset.JobSet) {
	outerNum := h * job.ByteSteps(math.Ceil(1.0/(epsilon*epsilon)))
	totalJobs := job.ByteSteps(len(input))
	if totalJobs <= 2*outerNum {
		return nil, input
	}

	cutter := newStripCutter(input)
	outerVert := cutter.cutVert(outerNum)
	outerHor := cutter.cutHor(outerNum)
	totalJobs -= 2 * outerNum

	innerNum := h * job.ByteSteps(math.Ceil(1.0/epsilon))
	var innerVert, innerHor [][]*job.Job
	var innerJobs job.ByteSteps
	for innerJobs < totalJobs {
		vertStrip := cutter.cutVert(innerNum)
		innerJobs += job.ByteSteps(len(vertStrip))
		innerVert = append(innerVert, vertStrip)
		if innerJobs == totalJobs {
			break
		}
		horStrip := cutter.cutHor(innerNum)
		innerJobs += job.ByteSteps(len(horStrip))
		innerHor = append(innerHor, horStrip)
	}

	boxed := stripBoxin(innerVert, innerHor, h, hReal)

	unresolved := make(jobset.JobSet, 0, len(outerVert)+len(outerHor))
	unresolved = append(unresolved, outerVert...)
	unresolved = append(unresolved, outerHor...)
	return boxed, unresolved
}
