package dispatch

import "path"

// globsOverlap reports whether two touch-glob sets could hit the same file.
// Two globs overlap when they are equal or when either matches the other as
// a literal path. Malformed patterns never match; a task with a bad glob
// simply conflicts less, and validation is where bad patterns get reported.
func globsOverlap(a, b []string) bool {
	for _, ga := range a {
		for _, gb := range b {
			if ga == gb {
				return true
			}
			if ok, err := path.Match(ga, gb); err == nil && ok {
				return true
			}
			if ok, err := path.Match(gb, ga); err == nil && ok {
				return true
			}
		}
	}
	return false
}
