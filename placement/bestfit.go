package placement

import (
	"container/heap"
	"math"
	"sort"

	"github.com/katalvlaran/idealloc/job"
)

// Unplaced is returned by DoBestFit when the running makespan would exceed
// the caller's budget. It is a sentinel, not an error: DoBestFit always
// succeeds at producing *some* placement, it just may not be good enough
// to bother finishing or reporting.
const Unplaced = job.ByteSteps(math.MaxUint64)

// DoBestFit squeezes loose (a min-heap on offset) against ig, assigning
// every job in loose its final offset for this pass, and returns the
// resulting makespan — or Unplaced if makespanLim was exceeded along the
// way. itersDone identifies this pass: only neighbors already squeezed
// during pass itersDone+1 are considered, which lets a caller squeeze a
// disjoint subset of jobs without disturbing placements from older passes.
//
// firstFit picks the first gap that fits; otherwise the smallest gap that
// fits is preferred (true best-fit). startAddr offsets alignment
// corrections, letting callers place into a sub-range of a larger space.
func DoBestFit(loose LoosePlacement, ig InterferenceGraph, itersDone uint32, makespanLim job.ByteSteps, firstFit bool, startAddr job.ByteSteps) job.ByteSteps {
	h := loose
	heap.Init(&h)

	var maxAddress job.ByteSteps
	for h.Len() > 0 {
		toSqueeze := heap.Pop(&h).(*PlacedJob)
		minGap := toSqueeze.Descr.Size()

		neighbors := ig[toSqueeze.Descr.ID()]
		filtered := make(PlacedJobSet, 0, len(neighbors))
		for _, n := range neighbors {
			if n.TimesSqueezed() == itersDone+1 {
				filtered = append(filtered, n)
			}
		}
		sort.Slice(filtered, func(i, j int) bool { return filtered[i].Offset() < filtered[j].Offset() })

		var offsetRunner job.ByteSteps
		smallestGap := job.ByteSteps(math.MaxUint64)
		var bestOffset job.ByteSteps
		haveBest := false

		for _, next := range filtered {
			njo := next.Offset()
			if njo > offsetRunner {
				testOff := toSqueeze.CorrectedOffset(startAddr, offsetRunner)
				if njo > testOff && njo-testOff >= minGap {
					if !firstFit {
						if gap := njo - testOff; gap < smallestGap {
							smallestGap = gap
							bestOffset = testOff
							haveBest = true
						}
					} else {
						bestOffset = testOff
						haveBest = true
						break
					}
				}
				if testOff > next.NextAvailOffset() {
					offsetRunner = testOff
				} else {
					offsetRunner = next.NextAvailOffset()
				}
			} else if next.NextAvailOffset() > offsetRunner {
				offsetRunner = next.NextAvailOffset()
			}
		}

		if haveBest {
			toSqueeze.SetOffset(bestOffset)
		} else {
			toSqueeze.SetOffset(offsetRunner)
		}
		toSqueeze.SetTimesSqueezed(itersDone + 1)

		if candMakespan := toSqueeze.NextAvailOffset(); candMakespan > maxAddress {
			maxAddress = candMakespan
			if maxAddress > makespanLim {
				return Unplaced
			}
		}
	}

	return maxAddress
}
