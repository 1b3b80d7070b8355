package job_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/idealloc/job"
)

func TestNew_FieldsAndDefaults(t *testing.T) {
	j := job.New(3, 10, 20, 64, 0)
	require.Equal(t, uint32(3), j.ID())
	require.Equal(t, job.ByteSteps(10), j.Birth())
	require.Equal(t, job.ByteSteps(20), j.Death())
	require.Equal(t, job.ByteSteps(64), j.Size())
	require.Equal(t, job.ByteSteps(64), j.ReqSize(), "ReqSize defaults to Size")
	_, aligned := j.Alignment()
	require.False(t, aligned)
	require.True(t, j.IsOriginal())
	require.Equal(t, uint32(0), j.OriginalsBoxed())
}

func TestNewWithReqSize(t *testing.T) {
	j := job.NewWithReqSize(1, 0, 10, 64, 48, 16)
	require.Equal(t, job.ByteSteps(48), j.ReqSize())
	a, ok := j.Alignment()
	require.True(t, ok)
	require.Equal(t, job.ByteSteps(16), a)
}

func TestLiveness(t *testing.T) {
	j := job.New(0, 10, 20, 8, 0)

	cases := []struct {
		t    job.ByteSteps
		live bool
	}{
		{9, false},
		{10, false}, // open interval: not live at birth
		{15, true},
		{19, true},
		{20, false}, // not live at death
		{21, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.live, j.IsLiveAt(tc.t), "IsLiveAt(%d)", tc.t)
	}

	require.True(t, j.LivesWithin(10, 20))
	require.True(t, j.LivesWithin(5, 25))
	require.False(t, j.LivesWithin(12, 20))
	require.True(t, j.DiesBefore(20))
	require.True(t, j.DiesBefore(21))
	require.False(t, j.DiesBefore(19))
	require.True(t, j.BornAfter(10))
	require.False(t, j.BornAfter(11))
}

func TestLifetimeAndArea(t *testing.T) {
	j := job.New(0, 10, 20, 3, 0)
	require.Equal(t, job.ByteSteps(9), j.Lifetime())
	require.Equal(t, job.ByteSteps(27), j.Area())
}

func TestNewBox(t *testing.T) {
	a := job.New(0, 0, 10, 4, 0)
	b := job.New(1, 5, 15, 4, 0)

	box := job.NewBox([]*job.Job{a, b}, 8, 8)
	require.False(t, box.IsOriginal())
	require.Equal(t, job.ByteSteps(0), box.Birth())
	require.Equal(t, job.ByteSteps(15), box.Death())
	require.Equal(t, job.ByteSteps(8), box.Size())
	require.Equal(t, uint32(2), box.OriginalsBoxed())
	require.ElementsMatch(t, []*job.Job{a, b}, box.Contents())
}

func TestNewBox_NestedOriginalsBoxedAccumulates(t *testing.T) {
	a := job.New(0, 0, 10, 4, 0)
	b := job.New(1, 0, 10, 4, 0)
	inner := job.NewBox([]*job.Job{a, b}, 8, 8)

	c := job.New(2, 0, 10, 4, 0)
	outer := job.NewBox([]*job.Job{inner, c}, 12, 12)
	require.Equal(t, uint32(3), outer.OriginalsBoxed())
}

func TestNewBox_PanicsWhenLoadExceedsHeight(t *testing.T) {
	a := job.New(0, 0, 10, 10, 0)
	require.Panics(t, func() {
		job.NewBox([]*job.Job{a}, 5, 10)
	})
}

func TestNewBox_IDsAreDistinctAndAboveFloor(t *testing.T) {
	a := job.New(0, 0, 10, 4, 0)
	first := job.NewBox([]*job.Job{a}, 4, 4)
	second := job.NewBox([]*job.Job{a}, 4, 4)
	require.NotEqual(t, first.ID(), second.ID())
	require.Greater(t, first.ID(), uint32(1<<31))
	require.Greater(t, second.ID(), uint32(1<<31))
}
