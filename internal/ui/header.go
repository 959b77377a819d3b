package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	appTitle   = "Luvo Tarot"
	appTagline = "Откройте тайны судьбы через древние карты"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.snapshot.HasReading() {
		b.WriteString(m.reading.View())
	} else {
		body := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderForm())
		b.WriteString(lipgloss.NewStyle().
			Height(max(1, m.height-m.chromeHeight())).
			MaxHeight(max(1, m.height-m.chromeHeight())).
			Render(body))
	}
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())

	return m.theme.Styles().Background.
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height).
		Render(b.String())
}

// renderHeader renders the title, tagline and the host user.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	lines := []string{
		styles.Logo.Render(appTitle),
	}
	if !m.compact() || m.width == 0 {
		lines = append(lines, styles.MutedText.Render(appTagline))
	}
	if m.snapshot.User != nil {
		lines = append(lines, styles.FaintText.Render("👤 "+m.snapshot.User.DisplayName()))
	}

	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return styles.Header.Width(m.width).Align(lipgloss.Center).Render(block)
}

// renderCommandBar renders the key hints for the current stage.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Background)

	type hint struct{ key, desc string }
	var hints []hint
	switch {
	case m.snapshot.Loading:
		hints = []hint{{"esc", "отмена"}, {"ctrl+c", "выход"}}
	case m.snapshot.HasReading() && m.snapshot.InterpretationVisible:
		hints = []hint{{"n", "новый вопрос"}, {"j/k", "прокрутка"}, {"d", "карта дня"}, {"T", "тема"}, {"?", "справка"}, {"q", "выход"}}
	case m.snapshot.HasReading():
		hints = []hint{{"j/k", "прокрутка"}, {"?", "справка"}, {"q", "выход"}}
	case m.focus == focusQuestion:
		hints = []hint{{"tab", "к раскладам"}, {"ctrl+s", "начать"}, {"F1", "справка"}, {"ctrl+c", "выход"}}
	default:
		hints = []hint{{"tab", "поле"}, {"enter", "выбрать"}, {"ctrl+s", "начать"}, {"d", "карта дня"}, {"T", "тема"}, {"?", "справка"}, {"q", "выход"}}
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, onBackground(h.key+" ", styles.AccentText, bg)+onBackground(h.desc, styles.FaintText, bg))
	}
	return styles.Footer.Width(m.width).Render(strings.Join(parts, onBackground("  ", styles.FaintText, bg)))
}

// onBackground styles each word of s and fills the spaces with bg, so the
// footer keeps its color across the resets between styled segments.
func onBackground(s string, style lipgloss.Style, bg lipgloss.Color) string {
	style = style.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	words := strings.Split(s, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, space)
}
