package testing

import (
	"regexp"
	"strings"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// ContainsInOrder reports whether output contains every expected string, in order.
func ContainsInOrder(output string, expected ...string) bool {
	rest := output
	for _, e := range expected {
		i := strings.Index(rest, e)
		if i < 0 {
			return false
		}
		rest = rest[i+len(e):]
	}
	return true
}
