// internal/originality/shingles.go
package originality

import (
	"sort"
	"strings"
)

const DefaultShingleSize = 3

// Set is a deduplicated collection of shingles.
type Set map[string]struct{}

func (s Set) Contains(shingle string) bool {
	_, ok := s[shingle]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Shingles returns every contiguous n-word window of a normalized text.
// Texts with fewer than n tokens have no shingles.
func Shingles(normalized string, n int) Set {
	seq := Sequence(normalized, n)
	set := make(Set, len(seq))
	for _, sh := range seq {
		set[sh] = struct{}{}
	}
	return set
}

// Sequence returns the distinct shingles of a normalized text in order of
// first occurrence.
func Sequence(normalized string, n int) []string {
	if n < 1 {
		n = DefaultShingleSize
	}

	tokens := strings.Fields(normalized)
	if len(tokens) < n {
		return nil
	}

	seen := make(map[string]struct{}, len(tokens)-n+1)
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		sh := strings.Join(tokens[i:i+n], " ")
		if _, dup := seen[sh]; dup {
			continue
		}
		seen[sh] = struct{}{}
		out = append(out, sh)
	}
	return out
}
