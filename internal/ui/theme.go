package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Panels (form, interpretation)
	SurfaceAlt string // Card backs
	FocusBg    string // Focused control

	// Selection
	SelectionBg   string
	SelectionText string

	// Borders
	Border      string
	BorderMuted string
	BorderFocus string

	// Text
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string // reversed marker, alerts

	// Glamour style for the interpretation.
	MarkdownStyle string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Background)),

		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),

		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderMuted)).
			Padding(1, 2),

		FocusedPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Padding(1, 2),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.SelectionText)).
			Background(lipgloss.Color(t.SelectionBg)).
			Bold(true).
			Padding(0, 3),

		DisabledButton: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)).
			Background(lipgloss.Color(t.SurfaceAlt)).
			Padding(0, 3),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	Panel          lipgloss.Style
	FocusedPanel   lipgloss.Style
	Button         lipgloss.Style
	DisabledButton lipgloss.Style
}

// WithHostBackground returns a copy of the theme using the host's background
// color, when the host reports one.
func (t Theme) WithHostBackground(bg string) Theme {
	bg = strings.TrimSpace(bg)
	if bg == "" {
		return t
	}
	t.Background = bg
	return t
}

// Theme definitions. Noir is the black variant of the reading screen and
// Amethyst the purple gradient one.

var themes = map[string]Theme{
	"Noir":     noirTheme(),
	"Amethyst": amethystTheme(),
}

var themeOrder = []string{"Noir", "Amethyst"}

// GetTheme returns a theme by name, falling back to Noir.
func GetTheme(name string) Theme {
	if t, ok := themes[strings.TrimSpace(name)]; ok {
		return t
	}
	return noirTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func noirTheme() Theme {
	return Theme{
		Name: "Noir",

		Background: "#000000",
		Surface:    "#0a0a0a",
		SurfaceAlt: "#1a1a1a",
		FocusBg:    "#262626",

		SelectionBg:   "#ffffff",
		SelectionText: "#000000",

		Border:      "#4d4d4d", // white/30
		BorderMuted: "#333333", // white/20
		BorderFocus: "#ffffff",

		Text:    "#ffffff",
		Muted:   "#d1d5db", // gray-300
		Faint:   "#6b7280", // gray-500
		Accent:  "#ffffff",
		Success: "#e5e7eb",
		Warning: "#fbbf24",
		Danger:  "#f87171", // red-400

		MarkdownStyle: "dark",
	}
}

func amethystTheme() Theme {
	// Tailwind purple/indigo scale.
	return Theme{
		Name: "Amethyst",

		Background: "#1e1b4b", // indigo-950
		Surface:    "#2e1065", // violet-950
		SurfaceAlt: "#3b0764", // purple-950
		FocusBg:    "#4c1d95", // violet-900

		SelectionBg:   "#c084fc", // purple-400
		SelectionText: "#1e1b4b",

		Border:      "#7c3aed", // violet-600
		BorderMuted: "#5b21b6", // violet-800
		BorderFocus: "#e9d5ff", // purple-200

		Text:    "#faf5ff", // purple-50
		Muted:   "#d8b4fe", // purple-300
		Faint:   "#a78bfa", // violet-400
		Accent:  "#f0abfc", // fuchsia-300
		Success: "#86efac",
		Warning: "#fde68a",
		Danger:  "#fca5a5",

		MarkdownStyle: "dracula",
	}
}
