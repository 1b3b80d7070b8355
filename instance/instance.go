// Package instance implements Instance: a JobSet plus cached aggregate
// info (max load, (h_min, h_max)), and the splitting/merging/bucketing
// operations Theorem 2 and Corollary 15 are built from.
package instance

import (
	"math"

	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
)

// Info caches aggregate facts about an Instance so repeated queries (e.g.
// during recursive boxing) don't re-sweep the job set. Mutation happens
// only on an instance not yet shared across goroutines — boxing only ever
// merges finished instances behind a mutex (see package boxing), never
// mutates one concurrently — so no lock is needed here, mirroring the
// Rust implementation's plain (non-atomic) Cell<Option<T>>.
type Info struct {
	loadSet    bool
	load       job.ByteSteps
	heightsSet bool
	hMin, hMax job.ByteSteps
}

// Instance is a JobSet plus its cached Info. It is the entity consumed and
// produced by the boxing pipeline: idealloc builds an input Instance of
// unplaced jobs, puts it through boxing, and finally unboxes and places
// the result.
type Instance struct {
	jobs jobset.JobSet
	info Info
}

// New creates an Instance from jobs. Aggregate info is computed lazily.
func New(jobs jobset.JobSet) *Instance {
	return &Instance{jobs: jobs}
}

// Jobs returns the instance's underlying job set.
func (in *Instance) Jobs() jobset.JobSet { return in.jobs }

// Len returns the number of jobs in the instance.
func (in *Instance) Len() int { return len(in.jobs) }

// SetLoad caches a precomputed load value (the prelude computes this once
// during its event sweep and stores it here for later reuse).
func (in *Instance) SetLoad(l job.ByteSteps) {
	in.info.load = l
	in.info.loadSet = true
}

// Load returns the cached load, panicking if it was never set — load is
// always computed explicitly by the prelude, never lazily derived here.
func (in *Instance) Load() job.ByteSteps {
	if !in.info.loadSet {
		panic("instance: Load() called before SetLoad()")
	}
	return in.info.load
}

// SetHeights caches a precomputed (h_min, h_max) pair.
func (in *Instance) SetHeights(hMin, hMax job.ByteSteps) {
	in.info.hMin, in.info.hMax = hMin, hMax
	in.info.heightsSet = true
}

// MinMaxHeight returns the minimum and maximum job size in the instance,
// computing and caching it on first use.
func (in *Instance) MinMaxHeight() (job.ByteSteps, job.ByteSteps) {
	if in.info.heightsSet {
		return in.info.hMin, in.info.hMax
	}
	min := job.ByteSteps(math.MaxUint64)
	var max job.ByteSteps
	for _, j := range in.jobs {
		if j.Size() < min {
			min = j.Size()
		}
		if j.Size() > max {
			max = j.Size()
		}
	}
	in.SetHeights(min, max)
	return min, max
}

// GetHorizon returns (smallest birth, largest death) over the instance.
func (in *Instance) GetHorizon() (job.ByteSteps, job.ByteSteps) {
	smallestBirth := job.ByteSteps(math.MaxUint64)
	var largestDeath job.ByteSteps
	for _, j := range in.jobs {
		if j.Birth() < smallestBirth {
			smallestBirth = j.Birth()
		}
		if j.Death() > largestDeath {
			largestDeath = j.Death()
		}
	}
	return smallestBirth, largestDeath
}

// CheckBoxedOriginals reports whether exactly target original jobs are
// transitively boxed within the instance.
func (in *Instance) CheckBoxedOriginals(target uint32) bool {
	return target == in.TotalOriginalsBoxed()
}

// TotalOriginalsBoxed counts how many original jobs are boxed somewhere
// within the instance's hierarchy.
func (in *Instance) TotalOriginalsBoxed() uint32 {
	return jobset.TotalOriginalsBoxed(in.jobs)
}

// CtrlPrelude derives the control constants Theorem 16's safety check
// needs from the instance's current height ratio r = h_max/h_min:
//
//	muLim   = (sqrt(5) - 1) / 2                     (golden-ratio conjugate)
//	smallEnd = (lg2r^7 / r)^(1/6)
//	bigEnd   = muLim * lg2r
//	lg2r     = log2(r)^2
func (in *Instance) CtrlPrelude() (muLim, smallEnd, bigEnd, lg2r float64) {
	hMin, hMax := in.MinMaxHeight()
	r := float64(hMax) / float64(hMin)
	lgr := math.Log2(r)
	lg2r = lgr * lgr
	smallEnd = math.Pow(math.Pow(lg2r, 7)/r, 1.0/6.0)
	muLim = (math.Sqrt(5) - 1) / 2
	return muLim, smallEnd, muLim * lg2r, lg2r
}

// GetSafetyInfo evaluates a candidate epsilon and returns:
//
//	r       the instance's current h_max/h_min ratio
//	mu      epsilon / lg2r
//	h       ceil(mu^5 * h_max / lg2r), the box height Corollary 15 would use
//	isSafe  whether it is safe to continue mimicking Theorem 16
func (in *Instance) GetSafetyInfo(epsilon float64) (r, mu, h float64, isSafe bool) {
	hMin, hMax := in.MinMaxHeight()
	muLim, _, _, lg2r := in.CtrlPrelude()
	mu = epsilon / lg2r
	h = math.Ceil(math.Pow(mu, 5) * float64(hMax) / lg2r)
	targetSize := math.Floor(mu * h)

	r = float64(hMax) / float64(hMin)
	isSafe = mu < muLim && targetSize >= float64(hMin)
	return r, mu, h, isSafe
}

// SplitByHeight partitions the instance into two new instances: the first
// containing jobs with Size() <= ceil, the second the rest.
func (in *Instance) SplitByHeight(ceil job.ByteSteps) (small, high *Instance) {
	var smallJobs, highJobs jobset.JobSet
	for _, j := range in.jobs {
		if j.Size() <= ceil {
			smallJobs = append(smallJobs, j)
		} else {
			highJobs = append(highJobs, j)
		}
	}
	return New(smallJobs), New(highJobs)
}

// MakeBuckets splits the instance into unit-height buckets for Corollary
// 15: starting from the smallest representable height (1+epsilon)^0 and
// climbing by powers of (1+epsilon), every job whose size falls in
// ((1+epsilon)^(i-1), (1+epsilon)^i] is peeled into the bucket keyed by
// floor((1+epsilon)^i).
func MakeBuckets(source *Instance, epsilon float64) map[job.ByteSteps]*Instance {
	res := make(map[job.ByteSteps]*Instance)
	prevFloor := 1.0 / (1.0 + epsilon)
	i := 0
	for source.Len() > 0 {
		h := math.Pow(1.0+epsilon, float64(i))
		hasMatch := false
		for _, j := range source.jobs {
			sz := float64(j.Size())
			if sz > prevFloor && sz <= h {
				hasMatch = true
				break
			}
		}
		if hasMatch {
			hSplit := job.ByteSteps(math.Floor(h))
			toBucket, rem := source.SplitByHeight(hSplit)
			res[hSplit] = toBucket
			source = rem
		}
		prevFloor = h
		i++
	}
	return res
}

// MergeWith returns a new instance containing the union of in's and
// other's jobs. Height-range info (not load) is merged eagerly; load must
// be recomputed by the caller if needed.
func (in *Instance) MergeWith(other *Instance) *Instance {
	res := New(append(append(jobset.JobSet{}, in.jobs...), other.jobs...))
	mergeHeights(res, in, other)
	return res
}

// MergeViaRef merges other into in without allocating a new Instance —
// used to consolidate mutex-protected results accumulated across
// goroutines (package boxing). See spec.md §5: "short critical section:
// append-only".
func (in *Instance) MergeViaRef(other *Instance) {
	merged := append(in.jobs, other.jobs...)
	mergeHeights(in, in, other)
	in.jobs = merged
}

// SplitByLiveness splits the instance into jobs live at one or more of pts
// ("R", the coarse residue Theorem 2 will box) and, for every sub-interval
// [pts[i], pts[i+1]), the jobs whose entire lifetime lies inside it
// ("X_i", keyed by i). pts must be sorted ascending and have length >= 2.
//
// Assumes no job still unprocessed is born before the current pts[i] —
// true because jobs are swept in ascending-birth order in lockstep with
// ascending pts, exactly as the original two-pointer merge does.
func (in *Instance) SplitByLiveness(pts []job.ByteSteps) (jobset.JobSet, map[int]*Instance) {
	xisBase := make(map[int]jobset.JobSet)
	var live jobset.JobSet
	jobs := append(jobset.JobSet{}, in.jobs...)
	jobs.Sort()
	idx := 0

outer:
	for q := 0; q < len(pts); q++ {
		tQ := pts[q]
		if q+1 >= len(pts) {
			break outer
		}
		tQNext := pts[q+1]
		if q+1 == len(pts)-1 {
			// Last segment: every remaining job belongs to this X_i.
			for idx < len(jobs) {
				xisBase[q] = append(xisBase[q], jobs[idx])
				idx++
			}
			break outer
		}
		for {
			if idx >= len(jobs) {
				break outer
			}
			j := jobs[idx]
			switch {
			case j.LivesWithin(tQ, tQNext):
				idx++
				xisBase[q] = append(xisBase[q], j)
			case j.IsLiveAt(tQNext):
				idx++
				live = append(live, j)
			default:
				// This job belongs to a later sub-interval; advance q.
				continue outer
			}
		}
	}

	out := make(map[int]*Instance, len(xisBase))
	for k, v := range xisBase {
		out[k] = New(v)
	}
	return live, out
}

func mergeHeights(dst, a, b *Instance) {
	aMin, aMax := a.MinMaxHeight()
	bMin, bMax := b.MinMaxHeight()
	min := aMin
	if bMin < min {
		min = bMin
	}
	max := aMax
	if bMax > max {
		max = bMax
	}
	dst.info = Info{heightsSet: true, hMin: min, hMax: max}
}
