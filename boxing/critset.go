package boxing

import (
	"sort"

	"github.com/katalvlaran/idealloc/job"
)

// orderedSet is a sorted, deduplicated []job.ByteSteps — the Go analogue of
// the Rust implementation's BTreeSet<ByteSteps>, used throughout Theorem 2
// for critical points and gap endpoints.
type orderedSet struct {
	items []job.ByteSteps
}

func newOrderedSet(vs ...job.ByteSteps) *orderedSet {
	s := &orderedSet{}
	for _, v := range vs {
		s.insert(v)
	}
	return s
}

// insert adds v if absent and reports whether it was newly inserted.
func (s *orderedSet) insert(v job.ByteSteps) bool {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= v })
	if i < len(s.items) && s.items[i] == v {
		return false
	}
	s.items = append(s.items, 0)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
	return true
}

func (s *orderedSet) slice() []job.ByteSteps { return s.items }
