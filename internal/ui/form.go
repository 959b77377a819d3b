package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luvo-tarot/luvo/internal/prefs"
)

// Form labels.
const (
	questionLabel = "Задайте свой вопрос картам"
	spreadsLabel  = "Выберите расклад"
	submitLabel   = "Начать гадание"
	loadingLabel  = "Тасую колоду..."
	noSpreadsText = "Расклады недоступны"
)

// spreadIcons decorate the spread and card backs.
var spreadIcons = []string{"★", "⚡", "👁", "♛", "⛨", "♥", "☾", "☀"}

func iconFor(i int) string {
	if i < 0 {
		i = -i
	}
	return spreadIcons[i%len(spreadIcons)]
}

// handleFormKey processes keyboard input for the question form.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.snapshot.Loading {
			m.workflow.Cancel()
			m.snapshot = m.workflow.Snapshot()
			return m, nil
		}
		if m.focus == focusQuestion {
			m.setFocus(focusSpreads)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.setFocus((m.focus + 1) % 3)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.setFocus((m.focus + 2) % 3)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	}

	switch m.focus {
	case focusQuestion:
		var cmd tea.Cmd
		before := m.question.Value()
		m.question, cmd = m.question.Update(msg)
		if value := m.question.Value(); value != before {
			m.workflow.SetQuestion(value)
			m.snapshot = m.workflow.Snapshot()
		}
		return m, cmd

	case focusSpreads:
		return m.handleSpreadKey(msg)

	case focusSubmit:
		if key.Matches(msg, m.keys.Select) {
			return m, m.submit()
		}
	}
	return m, nil
}

func (m Model) handleSpreadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Spreads)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.spreadCursor > 0 {
			m.spreadCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.spreadCursor < count-1 {
			m.spreadCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.snapshot.Loading {
			return m, nil
		}
		id := m.snapshot.Spreads[m.spreadCursor].ID
		if err := m.workflow.SelectSpread(id); err != nil {
			m.logger.Warn("select spread failed", "spread", id, "error", err)
			return m, nil
		}
		m.snapshot = m.workflow.Snapshot()
		return m, m.savePrefs(func(p *prefs.Prefs) { p.LastSpread = id })
	}
	return m, nil
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusQuestion {
		m.question.Focus()
	} else {
		m.question.Blur()
	}
}

func (m *Model) clampSpreadCursor() {
	count := len(m.snapshot.Spreads)
	if m.spreadCursor >= count {
		m.spreadCursor = max(0, count-1)
	}
	if id := m.snapshot.SpreadID; id != "" {
		for i, spread := range m.snapshot.Spreads {
			if spread.ID == id {
				m.spreadCursor = i
				break
			}
		}
	}
}

// submit issues the reading request when the form allows it.
func (m Model) submit() tea.Cmd {
	if !m.snapshot.CanSubmit() {
		return nil
	}
	return submitCmd(m.ctx, m.workflow)
}

// renderForm renders the question form.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	width := contentWidth(m.width)

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(questionLabel))
	b.WriteString("\n")
	b.WriteString(m.question.View())
	b.WriteString("\n")
	counter := styles.FaintText.Render(
		padLeft(formatCount(len([]rune(m.question.Value())), questionCharLimit), width-6),
	)
	b.WriteString(counter)
	b.WriteString("\n\n")

	label := styles.Text.Bold(true)
	if m.focus == focusSpreads {
		label = styles.AccentText.Bold(true)
	}
	b.WriteString(label.Render(spreadsLabel))
	b.WriteString("\n")
	b.WriteString(m.renderSpreads(width - 6))
	b.WriteString("\n\n")

	b.WriteString(m.renderSubmit(width - 6))

	panel := styles.Panel
	return panel.Width(width).Render(b.String())
}

func (m Model) renderSpreads(width int) string {
	styles := m.theme.Styles()
	if len(m.snapshot.Spreads) == 0 {
		return styles.FaintText.Render(noSpreadsText)
	}

	lines := make([]string, 0, len(m.snapshot.Spreads))
	for i, spread := range m.snapshot.Spreads {
		marker := "○"
		if spread.ID == m.snapshot.SpreadID {
			marker = "●"
		}
		name := styles.Text.Bold(true).Render(iconFor(i) + " " + spread.Name)
		desc := ""
		if d := strings.TrimSpace(spread.Description); d != "" {
			desc = styles.MutedText.Render(" · " + truncate(d, max(10, width-lipgloss.Width(spread.Name)-8)))
		}
		line := marker + " " + name + desc
		if m.focus == focusSpreads && i == m.spreadCursor {
			line = styles.Selected.Render(marker+" "+iconFor(i)+" "+spread.Name) + desc
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSubmit(width int) string {
	styles := m.theme.Styles()

	var button string
	switch {
	case m.snapshot.Loading:
		button = styles.DisabledButton.Render(m.spinner.View() + " " + loadingLabel)
	case m.snapshot.CanSubmit():
		style := styles.Button
		if m.focus == focusSubmit {
			style = style.Underline(true)
		}
		button = style.Render(submitLabel)
	default:
		button = styles.DisabledButton.Render(submitLabel)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, button)
}
