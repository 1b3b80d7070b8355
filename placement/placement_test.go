package placement_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
	"github.com/katalvlaran/idealloc/placement"
)

// Two jobs with the same size whose lifetimes overlap can't share an
// offset; GetLoosePlacement walks them in a min-heap of free rows and
// hands each a distinct one.
func ExampleGetLoosePlacement() {
	a := job.New(0, 0, 10, 4, 0)
	b := job.New(1, 5, 15, 4, 0)
	reg := placement.PlacedJobRegistry{
		a.ID(): placement.NewPlacedJob(a),
		b.ID(): placement.NewPlacedJob(b),
	}

	loose := placement.GetLoosePlacement(jobset.JobSet{a, b}, 0, placement.UnboxCtrl{Kind: placement.UnboxUnknown}, reg, job.DummyID)
	offsets := make(map[job.ByteSteps]bool, len(loose))
	for _, pj := range loose {
		offsets[pj.Offset()] = true
	}
	fmt.Println(len(offsets))
	// Output: 2
}

func TestPlacedJob_OffsetAndSqueeze(t *testing.T) {
	j := job.New(0, 0, 10, 4, 0)
	pj := placement.NewPlacedJob(j)
	require.Equal(t, job.ByteSteps(0), pj.Offset())
	require.Equal(t, uint32(0), pj.TimesSqueezed())

	pj.SetOffset(16)
	pj.SetTimesSqueezed(2)
	require.Equal(t, job.ByteSteps(16), pj.Offset())
	require.Equal(t, uint32(2), pj.TimesSqueezed())
	require.Equal(t, job.ByteSteps(20), pj.NextAvailOffset())
}

func TestPlacedJob_OverlapsWith(t *testing.T) {
	a := placement.NewPlacedJob(job.New(0, 0, 10, 4, 0))
	b := placement.NewPlacedJob(job.New(1, 5, 15, 4, 0))
	c := placement.NewPlacedJob(job.New(2, 10, 20, 4, 0)) // touches a at the boundary only

	require.True(t, a.OverlapsWith(b))
	require.False(t, a.OverlapsWith(c))
}

func TestPlacedJob_CorrectedOffset(t *testing.T) {
	aligned := placement.NewPlacedJob(job.New(0, 0, 10, 4, 8))
	require.Equal(t, job.ByteSteps(8), aligned.CorrectedOffset(0, 3))
	require.Equal(t, job.ByteSteps(8), aligned.CorrectedOffset(0, 8))
	require.Equal(t, job.ByteSteps(16), aligned.CorrectedOffset(0, 10))

	unaligned := placement.NewPlacedJob(job.New(1, 0, 10, 4, 0))
	require.Equal(t, job.ByteSteps(7), unaligned.CorrectedOffset(0, 7))
}

// TestDoBestFit_PacksThreeMutuallyOverlappingJobsTightly sets three
// same-size, fully-overlapping jobs at wide, non-tight initial offsets and
// checks best-fit squeezes them back-to-back.
func TestDoBestFit_PacksThreeMutuallyOverlappingJobsTightly(t *testing.T) {
	a := job.New(0, 0, 10, 4, 0)
	b := job.New(1, 0, 10, 4, 0)
	c := job.New(2, 0, 10, 4, 0)

	pa, pb, pc := placement.NewPlacedJob(a), placement.NewPlacedJob(b), placement.NewPlacedJob(c)
	pa.SetOffset(0)
	pb.SetOffset(10)
	pc.SetOffset(20)

	ig := placement.InterferenceGraph{
		a.ID(): {pb, pc},
		b.ID(): {pa, pc},
		c.ID(): {pa, pb},
	}

	loose := placement.LoosePlacement{pa, pb, pc}
	makespan := placement.DoBestFit(loose, ig, 0, 1_000_000, false, 0)
	require.Equal(t, job.ByteSteps(12), makespan)
}

func TestDoBestFit_ReturnsUnplacedWhenOverBudget(t *testing.T) {
	a := job.New(0, 0, 10, 4, 0)
	b := job.New(1, 0, 10, 4, 0)
	pa, pb := placement.NewPlacedJob(a), placement.NewPlacedJob(b)
	ig := placement.InterferenceGraph{a.ID(): {pb}, b.ID(): {pa}}

	loose := placement.LoosePlacement{pa, pb}
	makespan := placement.DoBestFit(loose, ig, 0, 4, false, 0)
	require.Equal(t, placement.Unplaced, makespan)
}

func TestGetLoosePlacement_SingleOriginalJob(t *testing.T) {
	j := job.New(0, 0, 10, 4, 0)
	reg := placement.PlacedJobRegistry{j.ID(): placement.NewPlacedJob(j)}

	loose := placement.GetLoosePlacement(jobset.JobSet{j}, 100, placement.UnboxCtrl{Kind: placement.UnboxUnknown}, reg, job.DummyID)
	require.Len(t, loose, 1)
	require.Equal(t, job.ByteSteps(100), loose[0].Offset())
}

func TestGetLoosePlacement_SkipsDummyJob(t *testing.T) {
	dummy := job.New(job.DummyID, 0, 10, 4, 0)
	reg := placement.PlacedJobRegistry{dummy.ID(): placement.NewPlacedJob(dummy)}

	loose := placement.GetLoosePlacement(jobset.JobSet{dummy}, 0, placement.UnboxCtrl{Kind: placement.UnboxUnknown}, reg, job.DummyID)
	require.Empty(t, loose)
}

func TestGetLoosePlacement_NonOverlappingJobsShareOffset(t *testing.T) {
	a := job.New(0, 0, 10, 4, 0)
	b := job.New(1, 10, 20, 6, 0)
	reg := placement.PlacedJobRegistry{
		a.ID(): placement.NewPlacedJob(a),
		b.ID(): placement.NewPlacedJob(b),
	}

	loose := placement.GetLoosePlacement(jobset.JobSet{a, b}, 5, placement.UnboxCtrl{Kind: placement.UnboxUnknown}, reg, job.DummyID)
	require.Len(t, loose, 2)
	for _, pj := range loose {
		require.Equal(t, job.ByteSteps(5), pj.Offset())
	}
}

func TestGetLoosePlacement_SameSizeOverlappingJobsGetDistinctRows(t *testing.T) {
	a := job.New(0, 0, 10, 4, 0)
	b := job.New(1, 5, 15, 4, 0)
	reg := placement.PlacedJobRegistry{
		a.ID(): placement.NewPlacedJob(a),
		b.ID(): placement.NewPlacedJob(b),
	}

	loose := placement.GetLoosePlacement(jobset.JobSet{a, b}, 0, placement.UnboxCtrl{Kind: placement.UnboxUnknown}, reg, job.DummyID)
	require.Len(t, loose, 2)

	offsets := map[job.ByteSteps]bool{}
	for _, pj := range loose {
		offsets[pj.Offset()] = true
	}
	require.Len(t, offsets, 2, "overlapping same-size jobs must land in distinct rows")
	require.Contains(t, offsets, job.ByteSteps(0))
	require.Contains(t, offsets, job.ByteSteps(4))
}
