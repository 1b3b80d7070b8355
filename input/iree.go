package input

import (
	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
)

// IREECSV wraps MinimalloCSV to read buffers traced from IREE, which
// assigns every buffer an *inclusive* lifetime bound on at least one end
// (see spec.md's Open Question on generation shifting). Converting to
// idealloc's exclusive-exclusive convention isn't a flat +1: any buffer
// still alive when another dies shares that death's "generation", so the
// shift applied to a buffer's timestamps is the number of such generation
// boundaries crossed before it, not its raw position in the event stream.
//
// shift distinguishes IREE's two inclusive flavors: 1 for end-exclusive
// input (in-ex-csv), 2 for fully inclusive input (in-csv).
type IREECSV struct {
	Path string
}

// NewIREECSV returns a parser for the file at path.
func NewIREECSV(path string) *IREECSV {
	return &IREECSV{Path: path}
}

func (p *IREECSV) ReadJobs(shift job.ByteSteps) ([]*job.Job, error) {
	dirty, err := NewMinimalloCSV(p.Path).ReadJobs(0)
	if err != nil {
		return nil, err
	}

	dirtySet := jobset.JobSet(dirty)
	res := make([]*job.Job, 0, len(dirty))
	live := make(map[uint32]*job.Job, len(dirty))
	var numGenerations job.ByteSteps
	lastEvtWasBirth := true

	jobset.ForEachEvent(dirtySet, func(e jobset.Event) {
		switch e.Kind {
		case jobset.Birth:
			lastEvtWasBirth = true
			live[e.Job.ID()] = job.New(
				e.Job.ID(),
				e.Job.Birth()+numGenerations,
				e.Job.Death()+numGenerations+shift,
				e.Job.Size(),
				0,
			)
		case jobset.Death:
			if lastEvtWasBirth {
				numGenerations++
				lastEvtWasBirth = false
			}
			res = append(res, live[e.Job.ID()])
			delete(live, e.Job.ID())
		}
	})

	return res, nil
}
