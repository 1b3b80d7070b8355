package boxing

import (
	"sort"

	"github.com/katalvlaran/idealloc/job"
	"github.com/katalvlaran/idealloc/jobset"
)

// stripCutter holds two views of the same remaining jobs — one ordered by
// ascending birth, one by ascending death — so Lemma 1 can alternately cut
// a "vertical" strip (smallest remaining births) and a "horizontal" strip
// (largest remaining deaths) from a shared pool. Cutting from either view
// removes the job from both, mirroring the Rust implementation's paired
// IndexMaps with mirrored shift_remove calls.
type stripCutter struct {
	vertOrder []*job.Job // ascending birth
	horOrder  []*job.Job // ascending death
	present   map[uint32]bool
}

func newStripCutter(jobs jobset.JobSet) *stripCutter {
	vert := append(jobset.JobSet{}, jobs...)
	vert.Sort()
	hor := append(jobset.JobSet{}, jobs...)
	sort.Slice(hor, func(i, j int) bool { return hor[i].Death() < hor[j].Death() })
	present := make(map[uint32]bool, len(jobs))
	for _, j := range jobs {
		present[j.ID()] = true
	}
	return &stripCutter{vertOrder: vert, horOrder: hor, present: present}
}

// cutVert removes and returns up to n jobs with the smallest remaining
// births.
func (c *stripCutter) cutVert(n job.ByteSteps) []*job.Job {
	var out []*job.Job
	for job.ByteSteps(len(out)) < n {
		for len(c.vertOrder) > 0 && !c.present[c.vertOrder[0].ID()] {
			c.vertOrder = c.vertOrder[1:]
		}
		if len(c.vertOrder) == 0 {
			break
		}
		j := c.vertOrder[0]
		c.vertOrder = c.vertOrder[1:]
		delete(c.present, j.ID())
		out = append(out, j)
	}
	return out
}

// cutHor removes and returns up to n jobs with the largest remaining
// deaths.
func (c *stripCutter) cutHor(n job.ByteSteps) []*job.Job {
	var out []*job.Job
	for job.ByteSteps(len(out)) < n {
		for len(c.horOrder) > 0 && !c.present[c.horOrder[len(c.horOrder)-1].ID()] {
			c.horOrder = c.horOrder[:len(c.horOrder)-1]
		}
		if len(c.horOrder) == 0 {
			break
		}
		j := c.horOrder[len(c.horOrder)-1]
		c.horOrder = c.horOrder[:len(c.horOrder)-1]
		delete(c.present, j.ID())
		out = append(out, j)
	}
	return out
}

// stripBoxin boxes every inner strip (vertical strips ordered by
// descending death, horizontal strips by ascending birth) into
// groupSize-sized boxes of height boxSize.
func stripBoxin(verticals, horizontals [][]*job.Job, groupSize, boxSize job.ByteSteps) jobset.JobSet {
	var res jobset.JobSet
	res = append(res, stripBoxCore(verticals, groupSize, boxSize, true)...)
	res = append(res, stripBoxCore(horizontals, groupSize, boxSize, false)...)
	return res
}

func stripBoxCore(strips [][]*job.Job, groupSize, boxSize job.ByteSteps, vertical bool) jobset.JobSet {
	var res jobset.JobSet
	for _, strip := range strips {
		s := append([]*job.Job{}, strip...)
		if vertical {
			sort.Slice(s, func(i, j int) bool { return s[i].Death() > s[j].Death() })
		} else {
			sort.Slice(s, func(i, j int) bool { return s[i].Birth() < s[j].Birth() })
		}

		var buf jobset.JobSet
		for _, j := range s {
			buf = append(buf, j)
			if job.ByteSteps(len(buf)) == groupSize {
				res = append(res, job.NewBox(buf, boxSize, jobset.Load(buf)))
				buf = nil
			}
		}
		if len(buf) > 0 {
			res = append(res, job.NewBox(buf, boxSize, jobset.Load(buf)))
		}
	}
	return res
}
