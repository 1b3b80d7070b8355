package jobset

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/idealloc/job"
)

// Sentinel validation errors. Callers MUST use errors.Is(err, ErrX) to
// branch on semantics, per the convention lvlath's matrix and builder
// packages document — never compare on the formatted string.
var (
	// ErrZeroSize indicates a job with size == 0 was submitted.
	ErrZeroSize = errors.New("jobset: job has zero size")
	// ErrBirthNotBeforeDeath indicates birth >= death.
	ErrBirthNotBeforeDeath = errors.New("jobset: job birth is not strictly before death")
	// ErrZeroAlignment indicates an explicit zero alignment was supplied.
	// job.Job stores "no alignment" as 0, so Init cannot tell a zero
	// alignment from none and never returns this error: a job with
	// alignment 0 is accepted as unaligned.
	ErrZeroAlignment = errors.New("jobset: job has zero alignment")
	// ErrNotOriginal indicates a job with non-empty contents was submitted
	// externally; only the boxing engine may create such jobs.
	ErrNotOriginal = errors.New("jobset: job is not original")
	// ErrReqSizeExceedsSize indicates req_size > size.
	ErrReqSizeExceedsSize = errors.New("jobset: requested size exceeds allocated size")
)

// ValidationError reports which sentinel fired and names the offending job,
// the Go analogue of the Rust implementation's JobError{message, culprit}.
type ValidationError struct {
	Err     error
	Culprit *job.Job
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Culprit)
}

func (e *ValidationError) Unwrap() error { return e.Err }
