package boxing

import (
	"github.com/katalvlaran/idealloc/instance"
	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
	"github.com/katalvlaran/idealloc/rng"
)

// T2Control carries Theorem 2's recursion state: the bounding interval of
// the sub-instance currently being boxed, and the critical points its
// liveness split is performed against.
type T2Control struct {
	BoundingInterval [2]job.ByteSteps
	CriticalPoints   []job.ByteSteps
}

// newT2Control seeds a fresh control structure for input: its bounding
// interval is its own horizon, and its critical points are that horizon's
// endpoints plus one random interior point at which some job is live.
func newT2Control(input *instance.Instance, src *rng.Source) *T2Control {
	start, end := input.GetHorizon()
	mid := genCrit(input, start, end, src)
	return &T2Control{
		BoundingInterval: [2]job.ByteSteps{start, end},
		CriticalPoints:   newOrderedSet(start, end, mid).slice(),
	}
}

// genCrit picks a uniformly random point strictly between left and right
// from the candidates birth+1 and death-1 of every job of input. Each
// candidate is live for its job when that job spans at least 2 units; a
// job with death == birth+1 contributes candidates at which it is not live.
func genCrit(input *instance.Instance, left, right job.ByteSteps, src *rng.Source) job.ByteSteps {
	var pts []job.ByteSteps
	jobset.ForEachEvent(input.Jobs(), func(e jobset.Event) {
		var cand job.ByteSteps
		if e.Kind == jobset.Birth {
			cand = e.Time + 1
		} else {
			cand = e.Time - 1
		}
		if cand > left && cand < right {
			pts = append(pts, cand)
		}
	})
	return pts[src.IntN(len(pts))]
}
