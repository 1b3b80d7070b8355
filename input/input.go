package input

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
)

// ErrTRCUnsupported is returned by ReadFromPath for Format TRC: such files
// must first be converted to PLC by an external trace-adaptation tool.
var ErrTRCUnsupported = errors.New("input: trc files must be converted to plc before idealloc can read them")

// ReadFromPath reads and validates the job set at path, dispatching on
// format. shift is forwarded to parsers that use it (IREECSV); others
// ignore it. The returned JobSet has already passed jobset.Init.
func ReadFromPath(format Format, path string, shift job.ByteSteps) (jobset.JobSet, error) {
	var parser Parser
	switch format {
	case ExCSV:
		parser = NewMinimalloCSV(path)
	case InExCSV, InCSV:
		parser = NewIREECSV(path)
	case PLC:
		parser = NewPLC(path)
	case TRC:
		return nil, ErrTRCUnsupported
	default:
		return nil, fmt.Errorf("input: unrecognized format %v", format)
	}

	raw, err := parser.ReadJobs(shift)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("input: %s contains no jobs", path)
	}

	return jobset.Init(raw)
}
