// Package job defines idealloc's fundamental unit: a buffer request with a
// birth, a death, a size, and an optional alignment.
//
// A Job is an immutable value: once constructed it never changes. Mutable
// placement state (offsets, squeeze counters) lives on the overlay types in
// package placement, never here, because one *Job is shared by many
// instances and boxes at once.
package job

import (
	"fmt"
	"sync/atomic"
)

// ByteSteps is the unit for logical time and for byte extents. idealloc does
// not care about the semantics of either axis, as long as the liveness
// invariant below is preserved; we reuse one integer type for both, as the
// original implementation does.
type ByteSteps = uint64

// DummyID is reserved for the optional dummy job the prelude may inject to
// force Theorem 16's height-ratio invariants to converge (see package
// analyze). It must never collide with a box ID.
const DummyID uint32 = 1<<31 + 1

// boxIDFloor is the highest ID an original (input) job may carry. Box IDs are
// allocated downward from math.MaxUint32 and must never cross this floor.
const boxIDFloor uint32 = 1 << 31

// Job is a complete description of the events triggered by a memory request:
// Size bytes are allocated at logical time Birth, and deallocated at Death.
//
// Liveness is the OPEN interval (Birth, Death): a job is not live at either
// endpoint. Two jobs with a.Death == b.Birth may legally share an offset.
type Job struct {
	id             uint32
	birth          ByteSteps
	death          ByteSteps
	size           ByteSteps
	reqSize        ByteSteps
	alignment      ByteSteps // 0 means "no alignment requirement"
	contents       []*Job    // nil for original jobs, non-empty for boxes
	originalsBoxed uint32    // count of original jobs transitively contained
}

// New constructs an original job. It performs no validation; validating a
// batch of jobs and rejecting the whole batch on the first bad one is
// jobset.Init's job (the "gatekeeper" of spec.md §7).
func New(id uint32, birth, death, size ByteSteps, alignment ByteSteps) *Job {
	return &Job{
		id:        id,
		birth:     birth,
		death:     death,
		size:      size,
		reqSize:   size,
		alignment: alignment,
	}
}

// NewWithReqSize is New, but with an explicitly distinct requested size
// (reqSize <= size; idealloc may round allocations up for alignment or
// caller-side bucketing reasons it does not itself impose).
func NewWithReqSize(id uint32, birth, death, size, reqSize, alignment ByteSteps) *Job {
	j := New(id, birth, death, size, alignment)
	j.reqSize = reqSize
	return j
}

// nextBoxID is the downward-allocating counter for synthetic box IDs,
// mirroring the Rust implementation's `static NEXT_ID: AtomicU32`.
var nextBoxID = newBoxIDCounter()

// NewBox creates a box containing contents, a synthetic job whose lifetime
// spans its contents' lifetimes and whose size is the supplied height.
//
// Panics if height is smaller than the load of contents — a box that cannot
// hold its own contents is a programmer error in the boxing engine, not a
// recoverable condition (spec.md §7: "invariant violation... fatal").
func NewBox(contents []*Job, height ByteSteps, load ByteSteps) *Job {
	if load > height {
		panic(fmt.Sprintf("job: bad boxing requested: load %d exceeds height %d", load, height))
	}

	birth := ByteSteps(1<<64 - 1)
	var death ByteSteps
	var originalsBoxed uint32
	for _, c := range contents {
		if c.birth < birth {
			birth = c.birth
		}
		if c.death > death {
			death = c.death
		}
		if c.IsOriginal() {
			originalsBoxed++
		} else {
			originalsBoxed += c.originalsBoxed
		}
	}

	id := nextBoxID.next()
	return &Job{
		id:             id,
		birth:          birth,
		death:          death,
		size:           height,
		reqSize:        height,
		contents:       contents,
		originalsBoxed: originalsBoxed,
	}
}

// ID returns the job's identifier.
func (j *Job) ID() uint32 { return j.id }

// Birth returns the logical time at which the job's memory becomes live.
func (j *Job) Birth() ByteSteps { return j.birth }

// Death returns the logical time at which the job's memory stops being live.
func (j *Job) Death() ByteSteps { return j.death }

// Size returns the allocated byte extent.
func (j *Job) Size() ByteSteps { return j.size }

// ReqSize returns the originally requested size (ReqSize <= Size).
func (j *Job) ReqSize() ByteSteps { return j.reqSize }

// Alignment returns the required alignment, or (0, false) if unaligned.
func (j *Job) Alignment() (ByteSteps, bool) {
	if j.alignment == 0 {
		return 0, false
	}
	return j.alignment, true
}

// Contents returns the jobs a box contains, or nil for an original job.
func (j *Job) Contents() []*Job { return j.contents }

// OriginalsBoxed returns the number of original jobs transitively contained;
// zero for an original job.
func (j *Job) OriginalsBoxed() uint32 { return j.originalsBoxed }

// IsOriginal reports whether the job came from user input rather than from
// boxing.
func (j *Job) IsOriginal() bool { return j.contents == nil }

// IsLiveAt reports whether the job is live at moment t, under the open
// liveness convention.
func (j *Job) IsLiveAt(t ByteSteps) bool { return j.birth < t && j.death > t }

// LivesWithin reports whether the job's lifetime is a subset of [start, end].
func (j *Job) LivesWithin(start, end ByteSteps) bool { return j.birth >= start && j.death <= end }

// DiesBefore reports whether the job's lifetime ends at or before t.
func (j *Job) DiesBefore(t ByteSteps) bool { return j.death <= t }

// BornAfter reports whether the job's lifetime starts at or after t.
func (j *Job) BornAfter(t ByteSteps) bool { return j.birth >= t }

// Lifetime returns the number of discrete logical time units the job is
// live. Liveness is an open interval, so this is Death-Birth-1, which is 0
// for a job with Death == Birth+1.
func (j *Job) Lifetime() ByteSteps { return j.death - j.birth - 1 }

// Area returns Size * Lifetime, used purely for the fallback heuristic's
// ordering and for hardness reporting.
func (j *Job) Area() ByteSteps { return j.size * j.Lifetime() }

func (j *Job) String() string {
	return fmt.Sprintf("Job{id=%d birth=%d death=%d size=%d}", j.id, j.birth, j.death, j.size)
}

// boxIDCounter allocates box IDs downward from math.MaxUint32, asserting it
// never collides with DummyID — mirrors the Rust implementation's
// AtomicU32 counter plus its collision assertion. Boxing fans out over
// goroutines (package boxing), so this must be safe for concurrent use.
type boxIDCounter struct {
	next atomic.Uint32
}

func newBoxIDCounter() *boxIDCounter {
	c := &boxIDCounter{}
	c.next.Store(1<<32 - 1)
	return c
}

func (c *boxIDCounter) next() uint32 {
	id := c.next.Add(^uint32(0)) + 1 // post-fetch-sub semantics: return pre-decrement value
	if id == DummyID {
		panic("job: box ID counter collided with the dummy job ID")
	}
	if id <= boxIDFloor {
		panic("job: box ID counter underflowed into original-job ID space")
	}
	return id
}
