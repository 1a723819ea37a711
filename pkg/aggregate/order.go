package aggregate

import "sort"

// Order returns a copy of paths sorted in ascending lexical order of the full
// path string. Paths are unique, so the order is total.
func Order(paths []string) []string {
	ordered := make([]string, len(paths))
	copy(ordered, paths)
	sort.Strings(ordered)
	return ordered
}
