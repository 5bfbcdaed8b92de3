// Package testutil provides shared testing utilities used across the project.
package testutil

import (
	"regexp"
	"strings"
)

// ansiRegex matches CSI escape sequences (ESC [ ... letter).
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI escape codes so CLI output can be compared as
// plain text.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// MissingLines returns the entries of want that do not appear in the
// ANSI-stripped output.
func MissingLines(output string, want ...string) []string {
	plain := StripAnsiCodes(output)
	var missing []string
	for _, w := range want {
		if !strings.Contains(plain, w) {
			missing = append(missing, w)
		}
	}
	return missing
}
