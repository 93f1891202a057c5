package mdblog

import (
	"strings"
)

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitTags parses a comma-separated tag list such as "go, web".
func SplitTags(s string) []string {
	return FilterEmpty(strings.Split(s, ","))
}
