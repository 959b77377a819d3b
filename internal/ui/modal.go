package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luvo-tarot/luvo/internal/api"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// alertModal blocks the UI until the user acknowledges a message.
type alertModal struct {
	message string
}

func newAlertModal(message string) *alertModal {
	return &alertModal{message: message}
}

func (a *alertModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Dismiss) {
		return a, nil, true
	}
	return a, nil, false
}

func (a *alertModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.DangerText.Bold(true).Render("⚠ "+a.message) +
		"\n\n" +
		styles.FaintText.Render("enter — OK")
	return placeModal(theme, width, height, body, theme.Danger)
}

// dailyModal shows the card of the day.
type dailyModal struct {
	card *api.DailyCard
	err  error
}

const (
	dailyTitle        = "✨ Карта дня"
	dailyErrorMessage = "Не удалось загрузить карту дня."
)

func newDailyModal(card *api.DailyCard, err error) *dailyModal {
	return &dailyModal{card: card, err: err}
}

func (d *dailyModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return d, nil, true
	}
	return d, nil, false
}

func (d *dailyModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	inner := min(48, max(20, width-10))

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(dailyTitle))
	b.WriteString("\n\n")

	switch {
	case d.err != nil || d.card == nil:
		b.WriteString(styles.DangerText.Render(dailyErrorMessage))
	default:
		card := d.card.Card
		b.WriteString(styles.Text.Bold(true).Render(card.DisplayName()))
		if card.Reversed {
			b.WriteString("  " + styles.DangerText.Render(reversedLabel))
		}
		b.WriteString("\n")
		if d.card.Date != "" {
			b.WriteString(styles.FaintText.Render(d.card.Date))
			b.WriteString("\n")
		}
		if len(card.Keywords) > 0 {
			b.WriteString(styles.MutedText.Render(strings.Join(card.Keywords, " · ")))
			b.WriteString("\n")
		}
		if meaning := strings.TrimSpace(card.Meaning); meaning != "" {
			b.WriteString("\n")
			b.WriteString(styles.Text.Render(strings.Join(wrapWords(meaning, inner), "\n")))
			b.WriteString("\n")
		}
		if msg := strings.TrimSpace(d.card.Message); msg != "" {
			b.WriteString("\n")
			b.WriteString(styles.AccentText.Italic(true).Render(strings.Join(wrapWords(msg, inner), "\n")))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("любая клавиша — закрыть"))

	return placeModal(theme, width, height, b.String(), theme.Accent)
}

// placeModal centers a bordered box over the screen.
func placeModal(theme Theme, width, height int, body, border string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		MaxWidth(max(24, width-4)).
		Render(body)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(theme.Background)),
	)
}

// fetchDaily requests the card of the day when a source is configured.
func (m Model) fetchDaily() tea.Cmd {
	if m.daily == nil {
		return nil
	}
	ctx, src := m.ctx, m.daily
	return func() tea.Msg {
		card, err := src.FetchDaily(ctx)
		return dailyMsg{card: card, err: err}
	}
}
