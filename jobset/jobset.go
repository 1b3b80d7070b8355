// Package jobset operates on groups of jobs: validating raw input (the
// "gatekeeper" of spec.md §7), computing aggregate quantities (load, max
// size), event-sweeping them for interval graph coloring and gap-finding,
// and splitting them the way Theorem 2 requires.
package jobset

import (
	"sort"

	"github.com/katalvlaran/idealloc/job"
)

// JobSet is a group of jobs. Most algorithms in this module expect a JobSet
// sorted by ascending birth; callers that build one incrementally should
// call Sort before handing it to anything in package boxing.
type JobSet []*job.Job

// Sort orders js by ascending birth in place.
func (js JobSet) Sort() {
	sort.Slice(js, func(i, j int) bool { return js[i].Birth() < js[j].Birth() })
}

// Init is the gatekeeper to the rest of idealloc: it validates that every
// job in in obeys the invariants spec.md §3 demands, and rejects the whole
// batch — with the offending job attached — on the first violation. A
// successfully returned JobSet is guaranteed compliant with every
// assumption the boxing and placement engines make.
func Init(in []*job.Job) (JobSet, error) {
	for _, j := range in {
		switch {
		case j.Size() == 0:
			return nil, &ValidationError{Err: ErrZeroSize, Culprit: j}
		case j.Birth() >= j.Death():
			return nil, &ValidationError{Err: ErrBirthNotBeforeDeath, Culprit: j}
		}
		if a, ok := j.Alignment(); ok && a == 0 {
			return nil, &ValidationError{Err: ErrZeroAlignment, Culprit: j}
		}
		if !j.IsOriginal() || j.OriginalsBoxed() != 0 {
			return nil, &ValidationError{Err: ErrNotOriginal, Culprit: j}
		}
		if j.Size() < j.ReqSize() {
			return nil, &ValidationError{Err: ErrReqSizeExceedsSize, Culprit: j}
		}
	}

	out := make(JobSet, len(in))
	copy(out, in)
	return out, nil
}

// MaxSize returns the largest Size among js, or 0 for an empty set.
func MaxSize(js JobSet) job.ByteSteps {
	var max job.ByteSteps
	for _, j := range js {
		if j.Size() > max {
			max = j.Size()
		}
	}
	return max
}

// Load returns the maximum instantaneous sum of sizes of live jobs in js —
// the theoretical lower bound on any placement's makespan.
func Load(js JobSet) job.ByteSteps {
	var running, max job.ByteSteps
	ForEachEvent(js, func(e Event) {
		switch e.Kind {
		case Birth:
			running += e.Job.Size()
			if running > max {
				max = running
			}
		case Death:
			if running < e.Job.Size() {
				panic("jobset: load accounting underflowed")
			}
			running -= e.Job.Size()
		}
	})
	return max
}

// TotalOriginalsBoxed counts the original jobs in js (each original job
// counts as 1; a box counts the originals nested under it).
func TotalOriginalsBoxed(js JobSet) uint32 {
	var total uint32
	for _, j := range js {
		if j.IsOriginal() {
			total++
		} else {
			total += j.OriginalsBoxed()
		}
	}
	return total
}

// SplitRis forms Theorem 2's R_i groups: a balanced divide-and-conquer split
// of jobs around the midpoint of pts, recursing on the jobs that fall
// strictly before or after it.
//
// pts must have length >= 1; lengths < 3 short-circuit to returning jobs
// itself as the sole group (matching the Rust recursion's base case).
func SplitRis(jobs JobSet, pts []job.ByteSteps) []JobSet {
	if len(pts) < 3 {
		return []JobSet{jobs}
	}

	q := len(pts) - 2
	idxMid := ceilDivInt(q, 2)
	tMid := pts[idxMid]

	var liveAt, dieBefore, bornAfter JobSet
	for _, j := range jobs {
		switch {
		case j.IsLiveAt(tMid):
			liveAt = append(liveAt, j)
		case j.DiesBefore(tMid):
			dieBefore = append(dieBefore, j)
		case j.BornAfter(tMid):
			bornAfter = append(bornAfter, j)
		default:
			panic("jobset: split_ris found a job neither live, dead, nor unborn at its midpoint")
		}
	}

	res := []JobSet{liveAt}
	if len(dieBefore) > 0 {
		res = append(res, SplitRis(dieBefore, pts[:idxMid])...)
	}
	if len(bornAfter) > 0 {
		res = append(res, SplitRis(bornAfter, pts[idxMid+1:])...)
	}
	return res
}

func ceilDivInt(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
