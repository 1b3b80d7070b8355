package rng_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/idealloc/rng"
)

func TestNew_DeterministicForSameSeed(t *testing.T) {
	a := rng.New(42)
	b := rng.New(42)

	for i := 0; i < 50; i++ {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestNew_ZeroSeedIsStable(t *testing.T) {
	a := rng.New(0)
	b := rng.New(0)
	require.Equal(t, a.IntN(1000), b.IntN(1000))
}

func TestDerive_IsDeterministicPerStream(t *testing.T) {
	parent1 := rng.New(7)
	parent2 := rng.New(7)

	s1a := parent1.Derive(3)
	s1b := parent2.Derive(3)
	require.Equal(t, s1a.IntN(1000), s1b.IntN(1000))
}

func TestDerive_DifferentStreamsDiverge(t *testing.T) {
	parent := rng.New(7)
	a := parent.Derive(1)
	b := parent.Derive(2)

	diverged := false
	for i := 0; i < 20; i++ {
		if a.IntN(1_000_000) != b.IntN(1_000_000) {
			diverged = true
			break
		}
	}
	require.True(t, diverged, "distinct stream ids should not produce identical sequences")
}

func TestSource_ConcurrentIntNIsRace_Free(t *testing.T) {
	s := rng.New(1)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.IntN(100)
			}
		}()
	}
	wg.Wait()
}
