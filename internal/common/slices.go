package common

import (
	"slices"
	"sort"
)

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// SortedSet returns the distinct values of all inputs in lexical order.
// The result is nil when there are no values, so that equal sets encode equally.
func SortedSet(lists ...[]string) []string {
	seen := make(map[string]struct{})

	var out []string

	for _, list := range lists {
		for _, v := range list {
			if v == "" {
				continue
			}

			if _, ok := seen[v]; ok {
				continue
			}

			seen[v] = struct{}{}
			out = append(out, v)
		}
	}

	sort.Strings(out)

	return out
}

// Contains reports whether s contains v.
func Contains[S ~[]E, E comparable](s S, v E) bool {
	return slices.Contains(s, v)
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
