// Package strings holds small text helpers for single-line console and
// table output.
package strings

import (
	"fmt"
	"strings"
)

const (
	// CellMaxLen bounds free text (descriptions, errors) inside table cells.
	CellMaxLen = 60
	// LineMaxLen bounds error text on a console line.
	LineMaxLen = 120

	ellipsis = "..."
	// minMaxLen leaves room for one character plus the ellipsis
	minMaxLen = len(ellipsis) + 1
)

// SingleLine collapses every run of whitespace, newlines included, into one
// space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate returns s on a single line, cut to at most maxLen runes with a
// trailing "..." when it was longer. maxLen below 4 is treated as 4.
func Truncate(s string, maxLen int) string {
	if maxLen < minMaxLen {
		maxLen = minMaxLen
	}
	s = SingleLine(s)
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}

// JoinNonEmpty joins the non-empty items with ", ".
func JoinNonEmpty(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ", ")
}

// Count formats n with noun, adding an "s" unless n is 1.
func Count(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
