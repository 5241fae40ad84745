//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// CleanFileName strips path separators out of a would-be file name and
// makes sure something usable is left.
func CleanFileName(in string) string {
	drop := string([]rune{os.PathSeparator, os.PathListSeparator})
	out := strings.Map(func(r rune) rune {
		if strings.ContainsRune(drop, r) {
			return -1
		}
		return r
	}, in)
	// no hidden files by accident
	out = strings.TrimLeft(out, ".")
	if len(out) == 0 {
		return "_bad_file_name_"
	}
	return out
}

// EnableColorOutput reports whether stream lands on a terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
