// Package boxing implements the theorems the approximation scheme stacks
// to turn arbitrarily shaped jobs into same-height boxes: Theorem 16's
// outer small/big split (Rogue), Corollary 15's parallel per-height-bucket
// boxing (C15), and Buchsbaum et al.'s Theorem 2 / Lemma 1 beneath it.
//
// Concurrency mirrors the Rust implementation's rayon::par_iter + Mutex
// pattern: an embarrassingly parallel fan-out (one goroutine per bucket, or
// per X_i sub-instance) merges its result into one shared *instance.Instance
// behind a mutex, with the critical section kept to a single append.
package boxing

import (
	"math"
	"sync"

	"github.com/katalvlaran/idealloc/instance"
	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/rng"
)

// Rogue implements Theorem 16's (p. 561-562) first phase: repeatedly split
// input into "small" and "big" jobs by a safety-derived target size, box
// the small ones with Corollary 15, merge the boxes back with the big ones,
// and recurse — until the safety check says it is no longer productive to
// continue (epsilon has, empirically, to exceed 1 for boxing's invariants
// to hold).
func Rogue(input *instance.Instance, epsilon float64, src *rng.Source) *instance.Instance {
	_, mu, h, isSafe := input.GetSafetyInfo(epsilon)
	if !isSafe {
		return input
	}

	targetSize := job.ByteSteps(math.Floor(mu * h))
	small, big := input.SplitByHeight(targetSize)
	smallBoxed := C15(small, h, mu, src)
	return Rogue(big.MergeWith(smallBoxed), epsilon, src)
}

// C15 implements Corollary 15 (p. 561): bucket input by height into
// unit-ratio groups and box each bucket independently via Theorem 2 — an
// embarrassingly parallel operation, since buckets share no jobs.
func C15(input *instance.Instance, h, epsilon float64, src *rng.Source) *instance.Instance {
	buckets := instance.MakeBuckets(input, epsilon)

	res := instance.New(nil)
	var mergeMu sync.Mutex
	var wg sync.WaitGroup

	for hi, unitJobs := range buckets {
		wg.Add(1)
		go func(hi job.ByteSteps, unitJobs *instance.Instance) {
			defer wg.Done()
			hParam := job.ByteSteps(math.Floor(h / float64(hi)))
			boxed := t2(unitJobs, hParam, job.ByteSteps(h), epsilon, nil, src.Derive(uint64(hi)))
			mergeMu.Lock()
			res.MergeViaRef(boxed)
			mergeMu.Unlock()
		}(hi, unitJobs)
	}
	wg.Wait()

	return res
}
