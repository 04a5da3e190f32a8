// Package search matches a query against the display names of visible rows.
package search

import (
	"strings"

	"github.com/gobwas/glob"
)

// Matches is the ordered set of row indices whose names match a query.
type Matches struct {
	indices []int
}

// globChars are the metacharacters that switch a query to glob matching.
const globChars = "*?["

// Search returns the indices of names matching query, in order. Plain queries
// match as case-insensitive substrings; queries containing *, ? or [ are
// compiled as case-insensitive globs against the whole name. An empty query,
// or a glob that does not compile, matches nothing.
func Search(query string, names []string) Matches {
	if query == "" {
		return Matches{}
	}
	match := matcher(strings.ToLower(query))
	if match == nil {
		return Matches{}
	}

	var m Matches
	for i, name := range names {
		if match(strings.ToLower(name)) {
			m.indices = append(m.indices, i)
		}
	}
	return m
}

func matcher(query string) func(string) bool {
	if !strings.ContainsAny(query, globChars) {
		return func(name string) bool {
			return strings.Contains(name, query)
		}
	}
	g, err := glob.Compile(query)
	if err != nil {
		return nil
	}
	return g.Match
}

// Len returns the number of matches.
func (m Matches) Len() int {
	return len(m.indices)
}

// Empty reports whether nothing matched.
func (m Matches) Empty() bool {
	return len(m.indices) == 0
}

// All returns the matching indices in order. Each call starts from the first.
func (m Matches) All() []int {
	return append([]int(nil), m.indices...)
}

// Contains reports whether row i matched.
func (m Matches) Contains(i int) bool {
	for _, idx := range m.indices {
		if idx == i {
			return true
		}
		if idx > i {
			return false
		}
	}
	return false
}

// Next returns the first match after current, wrapping to the first match.
// It returns current and false when there are no matches.
func (m Matches) Next(current int) (int, bool) {
	if len(m.indices) == 0 {
		return current, false
	}
	for _, idx := range m.indices {
		if idx > current {
			return idx, true
		}
	}
	return m.indices[0], true
}

// Prev returns the last match before current, wrapping to the last match.
func (m Matches) Prev(current int) (int, bool) {
	if len(m.indices) == 0 {
		return current, false
	}
	for i := len(m.indices) - 1; i >= 0; i-- {
		if m.indices[i] < current {
			return m.indices[i], true
		}
	}
	return m.indices[len(m.indices)-1], true
}

// First returns the first match at or after from, wrapping. Used while typing
// so the cursor stays put when its row still matches.
func (m Matches) First(from int) (int, bool) {
	if m.Contains(from) {
		return from, true
	}
	return m.Next(from)
}
