package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Вопрос и расклад",
			items: []helpItem{
				{m.keys.NextField.Help().Key, m.keys.NextField.Help().Desc},
				{m.keys.PrevField.Help().Key, m.keys.PrevField.Help().Desc},
				{"j/k", "Выбор расклада"},
				{m.keys.Select.Help().Key, m.keys.Select.Help().Desc},
				{m.keys.Submit.Help().Key, m.keys.Submit.Help().Desc},
				{m.keys.Cancel.Help().Key, m.keys.Cancel.Help().Desc},
			},
		},
		{
			title: "Расклад",
			items: []helpItem{
				{m.keys.NewQuestion.Help().Key, m.keys.NewQuestion.Help().Desc},
				{"j/k", "Прокрутка"},
				{"ctrl+d/u", "Полстраницы вниз/вверх"},
			},
		},
		{
			title: "Общее",
			items: []helpItem{
				{m.keys.Daily.Help().Key, m.keys.Daily.Help().Desc},
				{m.keys.CycleTheme.Help().Key, m.keys.CycleTheme.Help().Desc + " (" + m.theme.Name + ")"},
				{m.keys.Help.Help().Key, m.keys.Help.Help().Desc},
				{"q/ctrl+c", "Выход"},
			},
		},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Клавиши"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Буквенные клавиши работают вне поля вопроса"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(min(48, max(24, m.width-4)))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
