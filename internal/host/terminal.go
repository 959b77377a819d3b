package host

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/term"
)

// TerminalOptions configure a Terminal host.
type TerminalOptions struct {
	// InitData is Telegram WebApp init data; it wins over the explicit fields.
	InitData   string
	UserID     int64
	Username   string
	FirstName  string
	Background string
	// Output is the terminal the UI draws on; nil means stdout.
	Output *os.File
}

// Terminal is the Host for an interactive terminal session.
type Terminal struct {
	user       *User
	background string
	output     *os.File

	mu       sync.Mutex
	expanded bool
}

var _ Host = (*Terminal)(nil)

// NewTerminal builds a Terminal host. Malformed init data is an error.
func NewTerminal(opts TerminalOptions) (*Terminal, error) {
	t := &Terminal{
		background: strings.TrimSpace(opts.Background),
		output:     opts.Output,
	}
	if t.output == nil {
		t.output = os.Stdout
	}

	switch {
	case strings.TrimSpace(opts.InitData) != "":
		user, err := ParseInitData(opts.InitData)
		if err != nil {
			return nil, fmt.Errorf("host identity: %w", err)
		}
		t.user = &user
	case opts.UserID != 0:
		t.user = &User{
			ID:        opts.UserID,
			Username:  strings.TrimSpace(opts.Username),
			FirstName: strings.TrimSpace(opts.FirstName),
		}
	}
	return t, nil
}

func (t *Terminal) User() (User, bool) {
	if t.user == nil {
		return User{}, false
	}
	return *t.user, true
}

// Viewport returns the current terminal size, or zero when it is not a tty.
func (t *Terminal) Viewport() Viewport {
	width, height, err := term.GetSize(t.output.Fd())
	if err != nil {
		return Viewport{}
	}
	return Viewport{Width: width, Height: height}
}

// Expand requests the alternate screen for the UI.
func (t *Terminal) Expand() {
	t.mu.Lock()
	t.expanded = true
	t.mu.Unlock()
}

// Expanded reports whether Expand was called.
func (t *Terminal) Expanded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expanded
}

func (t *Terminal) ThemeBackground() string { return t.background }
