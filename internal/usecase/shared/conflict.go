package shared

import "sort"

// Intersect returns the sorted intersection of two path lists. Used to
// find files touched by two sessions at once.
func Intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a))
	for _, p := range a {
		seen[p] = true
	}
	var out []string
	for _, p := range b {
		if seen[p] {
			out = append(out, p)
			seen[p] = false // dedupe
		}
	}
	sort.Strings(out)
	return out
}
