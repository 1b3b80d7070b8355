// Package placement turns a fully boxed Instance back into concrete byte
// offsets: it unboxes the hierarchy one layer at a time into a loose,
// non-final placement, then squeezes that loose placement with best-fit
// (or first-fit) to produce the final makespan.
//
// PlacedJob overlays mutable placement state (offset, squeeze count) onto
// an immutable *job.Job, mirroring the Rust implementation's choice to keep
// Job itself immutable and push all placement bookkeeping into a wrapper —
// see the package doc in package job for why that split exists.
package placement

import (
	"github.com/katalvlaran/idealloc/job"
)

// PlacedJob is a job that has been assigned (or is being assigned) an
// offset in some contiguous address space. offset and timesSqueezed are
// plain fields with no lock: they are only mutated by unboxing and
// best-fit, which run on a single goroutine.
type PlacedJob struct {
	Descr         *job.Job
	offset        job.ByteSteps
	timesSqueezed uint32
}

// NewPlacedJob wraps j, with offset and squeeze count both zero.
func NewPlacedJob(j *job.Job) *PlacedJob {
	return &PlacedJob{Descr: j}
}

// Offset returns the job's currently assigned offset.
func (p *PlacedJob) Offset() job.ByteSteps { return p.offset }

// SetOffset assigns o as the job's offset.
func (p *PlacedJob) SetOffset(o job.ByteSteps) { p.offset = o }

// TimesSqueezed returns how many best-fit passes have placed this job.
func (p *PlacedJob) TimesSqueezed() uint32 { return p.timesSqueezed }

// SetTimesSqueezed records that this job was placed during pass n.
func (p *PlacedJob) SetTimesSqueezed(n uint32) { p.timesSqueezed = n }

// NextAvailOffset returns the first address past this job's placed extent.
func (p *PlacedJob) NextAvailOffset() job.ByteSteps { return p.offset + p.Descr.Size() }

// OverlapsWith reports whether p and other are ever simultaneously live.
func (p *PlacedJob) OverlapsWith(other *PlacedJob) bool {
	return p.Descr.Birth() < other.Descr.Death() && other.Descr.Birth() < p.Descr.Death()
}

// CorrectedOffset nudges cand forward, if necessary, so that startAddr+cand
// respects the job's alignment requirement. Returns cand unchanged for an
// unaligned job.
func (p *PlacedJob) CorrectedOffset(startAddr, cand job.ByteSteps) job.ByteSteps {
	a, ok := p.Descr.Alignment()
	if !ok {
		return cand
	}
	candAddr := startAddr + cand
	switch {
	case candAddr == 0 || candAddr%a == 0:
		return cand
	case candAddr < a:
		return a - startAddr
	default:
		return (candAddr/a+1)*a - startAddr
	}
}

// PlacedJobSet is a group of PlacedJobs, with no implied ordering.
type PlacedJobSet []*PlacedJob

// InterferenceGraph maps a job's ID to the PlacedJobs it temporally
// overlaps with. Built once during the prelude and reused throughout.
type InterferenceGraph map[uint32]PlacedJobSet

// PlacedJobRegistry maps a job's ID to its single canonical PlacedJob.
type PlacedJobRegistry map[uint32]*PlacedJob

// LoosePlacement is a min-heap on offset, ready for best-fit squeezing.
// Grounded on the same container/heap.Interface idiom as
// jobset.eventHeap/minRowHeap.
type LoosePlacement []*PlacedJob

func (h LoosePlacement) Len() int           { return len(h) }
func (h LoosePlacement) Less(i, j int) bool { return h[i].Offset() < h[j].Offset() }
func (h LoosePlacement) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *LoosePlacement) Push(x interface{}) {
	*h = append(*h, x.(*PlacedJob))
}
func (h *LoosePlacement) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// UnboxKind distinguishes the three shapes GetLoosePlacement may encounter
// while recursively unwrapping a box's contents.
type UnboxKind int

const (
	// UnboxSameSizes means every job at this level shares one height, so
	// interval graph coloring yields non-overlapping rows directly.
	UnboxSameSizes UnboxKind = iota
	// UnboxNonOverlapping means the jobs at this level never overlap in
	// time, so they can all start at the same offset.
	UnboxNonOverlapping
	// UnboxUnknown means neither property has been established yet and
	// must be probed for.
	UnboxUnknown
)

// UnboxCtrl carries UnboxSameSizes' row height alongside the discriminant,
// the Go analogue of the Rust implementation's UnboxCtrl enum variant data.
type UnboxCtrl struct {
	Kind      UnboxKind
	RowHeight job.ByteSteps
}
