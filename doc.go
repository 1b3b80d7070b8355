// Package idealloc assigns byte offsets to a set of jobs with known
// liveness intervals, minimizing the resulting makespan within a
// configurable fragmentation budget.
//
// Each job is alive over an exclusive-exclusive (birth, death) interval
// and requires size contiguous bytes; two jobs that overlap in time must
// not overlap in their assigned byte ranges. idealloc approximates the
// optimal makespan by recursively boxing jobs of similar height into
// same-size groups (Theorem 2, Corollary 15, Lemma 1 in boxing/), then
// unboxing the result into a loose placement squeezed against a
// size-then-lifetime first-fit fallback (placement/).
//
// The package tree mirrors the pipeline:
//
//	job/       — the Job type: birth, death, size, alignment, nesting
//	jobset/    — validated slices of Job, event sweeps, interval coloring
//	instance/  — a mutable working set plus height/load bookkeeping
//	boxing/    — Theorem 2 / Corollary 15 / Lemma 1 grouping
//	placement/ — interference graphs, unboxing, best-fit squeezing
//	analyze/   — prelude classification (no-overlap / same-size / general)
//	algo/      — Idealloc, the entry point wiring the above together
//	input/     — CSV and binary job-set readers
//	rng/       — deterministic, concurrency-safe randomness
//	xlog/      — structured logging
//	cmd/idealloc/ — the CLI driver
//
//	go get github.com/katalvlaran/idealloc
package idealloc
