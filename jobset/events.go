package jobset

import (
	"container/heap"
	"sort"

	"github.com/katalvlaran/idealloc/job"
)

// EventKind distinguishes a job's birth from its death while sweeping.
type EventKind int

const (
	// Birth marks the moment a job's memory becomes live.
	Birth EventKind = iota
	// Death marks the moment a job's memory stops being live.
	Death
)

// Event is one endpoint of a job's lifetime, timestamped for sweeping.
type Event struct {
	Job  *job.Job
	Kind EventKind
	Time job.ByteSteps
}

// eventHeap is a min-heap on Event.Time, breaking ties Death-before-Birth so
// that a dying job's address is released before a newborn job's is counted
// — this is what makes the open-interval liveness semantics correct.
// Grounded on the same container/heap.Interface idiom as the teacher's
// Dijkstra priority queue (graph/algorithms/dijkstra.go's nodePQ).
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	// Same instant: deaths sort before births.
	return h[i].Kind == Death && h[j].Kind == Birth
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(Event))
}
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// newEventHeap builds and heapifies the birth/death event stream for js.
func newEventHeap(js JobSet) *eventHeap {
	h := make(eventHeap, 0, 2*len(js))
	for _, j := range js {
		h = append(h, Event{Job: j, Kind: Birth, Time: j.Birth()})
		h = append(h, Event{Job: j, Kind: Death, Time: j.Death()})
	}
	heap.Init(&h)
	return &h
}

// ForEachEvent sweeps js in ascending time order (ties broken
// death-before-birth) and invokes fn once per event.
func ForEachEvent(js JobSet, fn func(Event)) {
	h := newEventHeap(js)
	for h.Len() > 0 {
		fn(heap.Pop(h).(Event))
	}
}

// minRowHeap is a min-int-heap used by IntervalGraphColoring to track the
// lowest-numbered free row.
type minRowHeap []int

func (h minRowHeap) Len() int            { return len(h) }
func (h minRowHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h minRowHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minRowHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *minRowHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// IntervalGraphColoring assigns each job to the lowest-numbered row such
// that no two jobs in the same row overlap, and returns the rows. Row count
// equals the maximum concurrent job count — not the load.
func IntervalGraphColoring(js JobSet) []JobSet {
	var rows []JobSet
	free := &minRowHeap{0}
	heap.Init(free)
	maxRow := 0
	rowOf := make(map[uint32]int, len(js))

	ForEachEvent(js, func(e Event) {
		switch e.Kind {
		case Birth:
			row := heap.Pop(free).(int)
			rowOf[e.Job.ID()] = row
			if row == len(rows) {
				rows = append(rows, JobSet{e.Job})
			} else {
				rows[row] = append(rows[row], e.Job)
			}
			if free.Len() == 0 {
				maxRow++
				heap.Push(free, maxRow)
			}
		case Death:
			row := rowOf[e.Job.ID()]
			delete(rowOf, e.Job.ID())
			heap.Push(free, row)
		}
	})

	return rows
}

// GapFinder sweeps a single IGC row and returns, as a sorted set of
// endpoints, every maximal interval within (alpha, omega) during which the
// row holds no live job. Used by Theorem 2 to derive critical points for
// recursive sub-instances.
func GapFinder(row JobSet, alpha, omega job.ByteSteps) []job.ByteSteps {
	seen := make(map[job.ByteSteps]struct{})
	add := func(t job.ByteSteps) { seen[t] = struct{}{} }

	gapStart := &alpha
	gapStartSet := true
	ForEachEvent(row, func(e Event) {
		switch e.Kind {
		case Birth:
			if gapStartSet {
				if *gapStart < e.Time {
					add(*gapStart)
					add(e.Time)
				}
				gapStartSet = false
			}
		case Death:
			t := e.Time
			gapStart = &t
			gapStartSet = true
		}
	})
	if gapStartSet && *gapStart < omega {
		add(*gapStart)
	}

	out := make([]job.ByteSteps, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
