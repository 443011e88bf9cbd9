package query

import (
	"strconv"
	"strings"
)

// IntSlice converts raw query values into integers. Entries that do not
// parse are skipped rather than failing the whole filter.
func IntSlice(values []string) []int {
	var out []int
	for _, value := range values {
		if number, err := strconv.Atoi(value); err == nil {
			out = append(out, number)
		}
	}
	return out
}

// StringSlice splits a comma-separated query value into trimmed,
// non-empty parts.
func StringSlice(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
