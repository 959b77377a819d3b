package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	rtrunc "github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// truncate shortens a string to the given display width, adding ellipsis
// if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || lipgloss.Width(value) <= limit {
		return value
	}
	if limit == 1 {
		return rtrunc.String(value, 1)
	}
	return rtrunc.StringWithTail(value, uint(limit), "…")
}

// padLeft right-aligns a string within the given display width.
func padLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 || w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

// formatCount renders a "used/limit" counter.
func formatCount(used, limit int) string {
	return fmt.Sprintf("%d/%d", used, limit)
}

// wrapWords breaks text into lines no wider than width cells. Words longer
// than a line are cut with an ellipsis.
func wrapWords(text string, width int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	if width <= 0 {
		return []string{text}
	}

	lines := strings.Split(wordwrap.String(text, width), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if lipgloss.Width(line) > width {
			line = truncate(line, width)
		}
		lines[i] = line
	}
	return lines
}
