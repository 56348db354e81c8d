package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most width display cells, appending ".."
// when anything was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 2 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "..")
}

// previewText flattens content to a single-line preview of at most
// limit runes, mirroring the journal card excerpt.
func previewText(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
