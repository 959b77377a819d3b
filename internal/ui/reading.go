package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	interpretationTitle = "🔮 Толкование расклада"
	newQuestionLabel    = "Задать новый вопрос"
	revealingHint       = "Карты открываются..."
)

// handleReadingKey processes keyboard input while a reading is shown.
func (m Model) handleReadingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NewQuestion):
		if !m.snapshot.InterpretationVisible {
			return m, nil
		}
		m.workflow.Reset()
		return m, m.sync()

	case key.Matches(msg, m.keys.ScrollDown):
		m.reading.ScrollDown(1)
	case key.Matches(msg, m.keys.ScrollUp):
		m.reading.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.reading.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.reading.HalfPageUp()
	}
	return m, nil
}

// refreshReading re-renders the reading into the scrollable viewport.
func (m *Model) refreshReading() {
	m.reading.SetContent(m.renderReadingContent())
}

func (m *Model) renderReadingContent() string {
	snap := m.snapshot
	if snap.Reading == nil {
		return ""
	}
	styles := m.theme.Styles()
	width := max(m.width, cardCompactWidth*2+cardGap)
	compact := m.compact()

	var b strings.Builder
	if q := strings.TrimSpace(snap.Reading.Question); q != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, styles.MutedText.Italic(true).Render("«"+truncate(q, width-4)+"»")))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderCardGrid(snap.Reading.Cards, snap.IsFlipped, width, compact))
	b.WriteString("\n\n")

	if !snap.InterpretationVisible {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, styles.FaintText.Render(revealingHint)))
		return b.String()
	}

	panelWidth := contentWidth(m.width)
	var panel strings.Builder
	panel.WriteString(styles.Text.Bold(true).Render(interpretationTitle))
	panel.WriteString("\n\n")
	panel.WriteString(m.renderInterpretation(snap.Reading.Interpretation, panelWidth-6))
	panel.WriteString("\n\n")
	panel.WriteString(lipgloss.PlaceHorizontal(panelWidth-6, lipgloss.Center, styles.Button.Render(newQuestionLabel)))

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, styles.Panel.Width(panelWidth).Render(panel.String())))
	return b.String()
}

// renderInterpretation renders the interpretation as markdown, falling back
// to plain wrapped text when glamour cannot render it.
func (m *Model) renderInterpretation(text string, width int) string {
	if m.interpretation != "" {
		return m.interpretation
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	cacheKey := m.theme.MarkdownStyle + ":" + strconv.Itoa(width)
	if m.renderer == nil || m.rendererKey != cacheKey {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(m.theme.MarkdownStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.logger.Warn("markdown renderer unavailable", "error", err)
			m.renderer = nil
		} else {
			m.renderer = r
			m.rendererKey = cacheKey
		}
	}

	if m.renderer != nil {
		if rendered, err := m.renderer.Render(text); err == nil {
			m.interpretation = strings.Trim(rendered, "\n")
			return m.interpretation
		}
	}
	lines := make([]string, 0)
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapWords(para, width)...)
	}
	m.interpretation = m.theme.Styles().Text.Render(strings.Join(lines, "\n"))
	return m.interpretation
}
