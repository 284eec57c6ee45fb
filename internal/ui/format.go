package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

func humanizeBytes(size int64) string {
	if size < 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(size))
}

func formatNumber(n int64) string {
	return humanize.Comma(n)
}

func displayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home || strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}

// truncateMiddle keeps both ends of s and drops the middle so the result
// fits in width cells.
func truncateMiddle(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width < 5 {
		return ansi.Truncate(s, width, "")
	}
	const sep = "[...]"
	keep := width - len(sep)
	head := keep / 2
	tail := keep - head
	total := ansi.StringWidth(s)
	return ansi.Truncate(s, head, "") + sep + ansi.TruncateLeft(s, total-tail, "")
}

// firstFitting returns the first candidate no wider than width, or "" when
// none fits.
func firstFitting(width int, candidates ...string) string {
	for _, c := range candidates {
		if ansi.StringWidth(c) <= width {
			return c
		}
	}
	return ""
}
