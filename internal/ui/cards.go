package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luvo-tarot/luvo/internal/api"
)

const reversedLabel = "Перевернутая"

// renderCard draws one card, face down until flipped. Compact cards omit
// the position label.
func (m Model) renderCard(card api.Card, idx int, flipped, compact bool) string {
	styles := m.theme.Styles()
	width := cardWidth
	if compact {
		width = cardCompactWidth
	}
	inner := width - 2

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(inner).
		Height(cardHeight - 2).
		Align(lipgloss.Center, lipgloss.Center)

	if !flipped {
		return box.
			BorderForeground(lipgloss.Color(m.theme.Border)).
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Render(iconFor(idx))
	}

	lines := wrapWords(card.DisplayName(), inner)
	for i, line := range lines {
		lines[i] = styles.Text.Bold(true).Render(line)
	}
	if card.Reversed {
		lines = append(lines, styles.DangerText.Render(reversedLabel))
	}
	if !compact {
		if pos := strings.TrimSpace(card.Position); pos != "" {
			for _, line := range wrapWords(pos, inner) {
				lines = append(lines, styles.MutedText.Render(line))
			}
		}
	}

	return box.
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Render(strings.Join(lines, "\n"))
}

// renderCardGrid lays the cards out in rows: two columns when compact,
// otherwise as many as fit the width.
func (m Model) renderCardGrid(cards []api.Card, isFlipped func(int) bool, width int, compact bool) string {
	if len(cards) == 0 {
		return ""
	}
	cols := cardColumns(width, compact)
	gap := strings.Repeat(" ", cardGap)

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		row := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				row = append(row, gap)
			}
			row = append(row, m.renderCard(cards[i], i, isFlipped(i), compact))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	grid := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, grid)
}
