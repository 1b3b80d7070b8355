package input_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/idealloc/input"
	"github.com/katalvlaran/idealloc/job"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseFormat_RoundTripsAllKnownNames(t *testing.T) {
	cases := map[string]input.Format{
		"ex-csv":    input.ExCSV,
		"in-ex-csv": input.InExCSV,
		"in-csv":    input.InCSV,
		"plc":       input.PLC,
		"trc":       input.TRC,
	}
	for name, want := range cases {
		got, err := input.ParseFormat(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, name, got.String())
	}
}

func TestParseFormat_RejectsUnknownName(t *testing.T) {
	_, err := input.ParseFormat("xml")
	require.Error(t, err)
}

func TestReadFromPath_TRCIsRejectedExplicitly(t *testing.T) {
	_, err := input.ReadFromPath(input.TRC, "irrelevant.trc", 0)
	require.ErrorIs(t, err, input.ErrTRCUnsupported)
}

func TestReadFromPath_MinimalloCSVParsesRowsInOrder(t *testing.T) {
	path := writeFile(t, "jobs.csv", "id,birth,death,size\n0,0,10,4\n1,10,20,6\n")

	jobs, err := input.ReadFromPath(input.ExCSV, path, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	require.Equal(t, job.ByteSteps(0), jobs[0].Birth())
	require.Equal(t, job.ByteSteps(10), jobs[0].Death())
	require.Equal(t, job.ByteSteps(4), jobs[0].Size())
}

func TestReadFromPath_MinimalloCSVRejectsEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "id,birth,death,size\n")
	_, err := input.ReadFromPath(input.ExCSV, path, 0)
	require.Error(t, err)
}

func TestReadFromPath_MinimalloCSVRejectsShortRows(t *testing.T) {
	path := writeFile(t, "short.csv", "id,birth,death,size\n0,0,10\n")
	_, err := input.ReadFromPath(input.ExCSV, path, 0)
	require.Error(t, err)
}

func TestReadFromPath_IREECSVShiftsJobsBornAfterAGenerationBoundary(t *testing.T) {
	// Two disjoint jobs: the first job's death closes one generation, so
	// the second job is shifted by 1 on both ends; the in-ex-csv shift of
	// 1 also pushes each job's own death outward.
	path := writeFile(t, "iree.csv", "id,birth,death,size\n0,0,10,4\n1,20,30,4\n")

	jobs, err := input.ReadFromPath(input.InExCSV, path, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	for _, j := range jobs {
		require.Less(t, j.Birth(), j.Death())
	}
	require.Equal(t, job.ByteSteps(0), jobs[0].Birth())
	require.Equal(t, job.ByteSteps(11), jobs[0].Death())
	require.Equal(t, job.ByteSteps(21), jobs[1].Birth())
	require.Equal(t, job.ByteSteps(32), jobs[1].Death())
}

func TestReadFromPath_PLCRoundTripsABinaryRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.plc")
	buf := make([]byte, 64)
	binary.BigEndian.PutUint64(buf[0:8], 7)   // id
	binary.BigEndian.PutUint64(buf[8:16], 1)  // birth
	binary.BigEndian.PutUint64(buf[16:24], 9) // death
	binary.BigEndian.PutUint64(buf[24:32], 4) // size
	binary.BigEndian.PutUint64(buf[48:56], 0) // alignment
	binary.BigEndian.PutUint64(buf[56:64], 4) // reqSize
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	jobs, err := input.ReadFromPath(input.PLC, path, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, uint32(7), jobs[0].ID())
	require.Equal(t, job.ByteSteps(1), jobs[0].Birth())
	require.Equal(t, job.ByteSteps(9), jobs[0].Death())
	require.Equal(t, job.ByteSteps(4), jobs[0].Size())
}

func TestReadFromPath_MissingFileReturnsError(t *testing.T) {
	_, err := input.ReadFromPath(input.ExCSV, filepath.Join(t.TempDir(), "nope.csv"), 0)
	require.Error(t, err)
}
