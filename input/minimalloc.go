package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/katalvlaran/idealloc/job"
)

// Parser reads a job set from a single file. shift is only meaningful to
// parsers dealing in inclusive-ended timestamps (see IREECSV); others
// ignore it.
type Parser interface {
	ReadJobs(shift job.ByteSteps) ([]*job.Job, error)
}

// MinimalloCSV reads the minimalloc benchmark CSV format: a header row
// followed by "id,birth,death,size" rows, with exclusive-exclusive
// liveness semantics matching Job's own convention directly. Assigned
// job IDs are sequential (0, 1, 2, ...) in row order; the CSV's own id
// column is read but not reused, matching the upstream benchmark format's
// looseness about id uniqueness.
type MinimalloCSV struct {
	Path string
}

// NewMinimalloCSV returns a parser for the file at path.
func NewMinimalloCSV(path string) *MinimalloCSV {
	return &MinimalloCSV{Path: path}
}

func (p *MinimalloCSV) ReadJobs(_ job.ByteSteps) ([]*job.Job, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil { // header
		if err == io.EOF {
			return nil, fmt.Errorf("input: %s is empty", p.Path)
		}
		return nil, err
	}

	var jobs []*job.Job
	var nextID uint32
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("input: %s: row %d has fewer than 4 columns", p.Path, nextID+1)
		}

		birth, err := strconv.ParseUint(row[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("input: %s: row %d birth: %w", p.Path, nextID+1, err)
		}
		death, err := strconv.ParseUint(row[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("input: %s: row %d death: %w", p.Path, nextID+1, err)
		}
		size, err := strconv.ParseUint(row[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("input: %s: row %d size: %w", p.Path, nextID+1, err)
		}

		jobs = append(jobs, job.New(nextID, birth, death, size, 0))
		nextID++
	}

	return jobs, nil
}
