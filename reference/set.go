// Package reference loads the static lookup tables of a run: query and entity names, entity
// passage lists, candidate entity files and ranked run files.
package reference

import (
	"sort"

	"github.com/xtgo/set"
)

// Set is a sorted set of identifiers.
type Set []string

// NewSet creates a set from identifiers, removing duplicates.
func NewSet(ids ...string) Set {
	s := make(sort.StringSlice, len(ids))
	copy(s, ids)
	sort.Sort(s)
	n := set.Uniq(s)
	return Set(s[:n])
}

// Contains reports whether id is in the set.
func (s Set) Contains(id string) bool {
	i := sort.SearchStrings(s, id)
	return i < len(s) && s[i] == id
}

// Inter is the intersection of two sets.
func (s Set) Inter(o Set) Set {
	return apply(set.Inter, s, o)
}

// Diff is the set of identifiers of s not in o.
func (s Set) Diff(o Set) Set {
	return apply(set.Diff, s, o)
}

func apply(op func(data sort.Interface, pivot int) int, a, b Set) Set {
	data := make(sort.StringSlice, 0, len(a)+len(b))
	data = append(data, a...)
	data = append(data, b...)
	n := op(data, len(a))
	return Set(data[:n])
}
