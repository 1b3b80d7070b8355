package input

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/katalvlaran/idealloc/job"
)

// plcFieldsNum is the number of big-endian 64-bit words per job record.
const plcFieldsNum = 8

// PLC reads idealloc's native binary format: a flat stream of
// plcFieldsNum-word (64 bytes) records, one per job, produced by an
// external `adapt` tool. Field layout, by word index:
//
//	0 id      1 birth   2 death     3 size
//	4 unused  5 unused  6 alignment 7 reqSize
type PLC struct {
	Path string
}

// NewPLC returns a parser for the file at path.
func NewPLC(path string) *PLC {
	return &PLC{Path: path}
}

func (p *PLC) ReadJobs(_ job.ByteSteps) ([]*job.Job, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	buf := make([]byte, 8*plcFieldsNum)
	var res []*job.Job

	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		j, err := decodePLCRecord(buf)
		if err != nil {
			return nil, err
		}
		res = append(res, j)
	}

	return res, nil
}

func decodePLCRecord(buf []byte) (*job.Job, error) {
	word := func(i int) uint64 { return binary.BigEndian.Uint64(buf[i*8 : (i+1)*8]) }

	id := word(0)
	if id > math.MaxUint32 {
		return nil, fmt.Errorf("input: plc job id %d overflows uint32", id)
	}
	birth := word(1)
	death := word(2)
	size := word(3)
	alignment := word(6)
	reqSize := word(7)

	return job.NewWithReqSize(uint32(id), birth, death, size, reqSize, alignment), nil
}
