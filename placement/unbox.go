package placement

import (
	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
)

// GetLoosePlacement recursively unboxes jobs, assigning every original job
// (other than the dummy, identified by dummyID) a starting offset relative
// to startOffset. The result is "loose": offsets are correct relative to
// each other within a box, but siblings across different boxes have not
// yet been squeezed against one another — that is DoBestFit's job.
//
// ctrl tells the function what it already knows about jobs' shape; pass
// UnboxCtrl{Kind: UnboxUnknown} when nothing is known yet, so it probes.
func GetLoosePlacement(jobs jobset.JobSet, startOffset job.ByteSteps, ctrl UnboxCtrl, reg PlacedJobRegistry, dummyID uint32) LoosePlacement {
	var res LoosePlacement

	if len(jobs) == 1 {
		only := jobs[0]
		if only.IsOriginal() {
			if only.ID() != dummyID {
				toPut := reg[only.ID()]
				toPut.SetOffset(startOffset)
				res = append(res, toPut)
			}
		} else {
			res = append(res, GetLoosePlacement(only.Contents(), startOffset, UnboxCtrl{Kind: UnboxUnknown}, reg, dummyID)...)
		}
		return res
	}

	switch ctrl.Kind {
	case UnboxSameSizes:
		off := startOffset
		for _, row := range jobset.IntervalGraphColoring(jobs) {
			res = append(res, GetLoosePlacement(row, off, UnboxCtrl{Kind: UnboxNonOverlapping}, reg, dummyID)...)
			off += ctrl.RowHeight
		}

	case UnboxNonOverlapping:
		for _, j := range jobs {
			if j.IsOriginal() {
				if j.ID() != dummyID {
					toPut := reg[j.ID()]
					toPut.SetOffset(startOffset)
					res = append(res, toPut)
				}
			} else {
				res = append(res, GetLoosePlacement(j.Contents(), startOffset, UnboxCtrl{Kind: UnboxUnknown}, reg, dummyID)...)
			}
		}

	case UnboxUnknown:
		sizeProbe := jobs[0].Size()
		allSame := true
		for _, j := range jobs[1:] {
			if j.Size() != sizeProbe {
				allSame = false
				break
			}
		}
		if allSame {
			res = append(res, GetLoosePlacement(jobs, startOffset, UnboxCtrl{Kind: UnboxSameSizes, RowHeight: sizeProbe}, reg, dummyID)...)
			break
		}

		nonOverlapping := true
		lastWasBirth := false
		jobset.ForEachEvent(jobs, func(e jobset.Event) {
			switch e.Kind {
			case jobset.Birth:
				if lastWasBirth {
					nonOverlapping = false
				}
				lastWasBirth = true
			case jobset.Death:
				lastWasBirth = false
			}
		})

		if nonOverlapping {
			res = append(res, GetLoosePlacement(jobs, startOffset, UnboxCtrl{Kind: UnboxNonOverlapping}, reg, dummyID)...)
			break
		}

		// Overlapping and of mixed sizes: split into size classes and
		// treat each one independently, in encounter order.
		buckets := make(map[job.ByteSteps]jobset.JobSet)
		var order []job.ByteSteps
		for _, j := range jobs {
			if _, ok := buckets[j.Size()]; !ok {
				order = append(order, j.Size())
			}
			buckets[j.Size()] = append(buckets[j.Size()], j)
		}
		off := startOffset
		for _, rowHeight := range order {
			for _, row := range jobset.IntervalGraphColoring(buckets[rowHeight]) {
				res = append(res, GetLoosePlacement(row, off, UnboxCtrl{Kind: UnboxNonOverlapping}, reg, dummyID)...)
				off += rowHeight
			}
		}
	}

	return res
}
