package service

import "strings"

// SplitCategories turns "a, b ,c" into [a b c]. Entries left empty after
// trimming are dropped; an empty input yields nil.
func SplitCategories(raw string) []string {
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
