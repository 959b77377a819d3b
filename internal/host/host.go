// Package host abstracts the environment the reading client is embedded in:
// who the user is, how much room there is, and which background to paint.
// A Host is injected at startup instead of being discovered globally.
package host

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// CompactWidth is the terminal width below which layouts switch to compact.
const CompactWidth = 100

const anonymousName = "Пользователь"

// User is the identity the host reports for the current user.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

// DisplayName prefers the first name, then the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.Username); name != "" {
		return name
	}
	return anonymousName
}

// Viewport is the size available to the client.
type Viewport struct {
	Width  int
	Height int
}

// Compact reports whether a known width is below CompactWidth.
func (v Viewport) Compact() bool {
	return v.Width > 0 && v.Width < CompactWidth
}

// Host provides host capabilities to the reading workflow.
type Host interface {
	// User returns the embedded user identity, if the host has one.
	User() (User, bool)
	Viewport() Viewport
	// Expand asks the host to give the client its full area.
	Expand()
	// ThemeBackground returns a host-provided background color or "".
	ThemeBackground() string
}

// Static is a fixed Host, used by tests and non-interactive commands.
type Static struct {
	Identity   *User
	Size       Viewport
	Background string

	expanded bool
}

var _ Host = (*Static)(nil)

func (s *Static) User() (User, bool) {
	if s == nil || s.Identity == nil {
		return User{}, false
	}
	return *s.Identity, true
}

func (s *Static) Viewport() Viewport { return s.Size }

func (s *Static) Expand() { s.expanded = true }

// Expanded reports whether Expand was called.
func (s *Static) Expanded() bool { return s.expanded }

func (s *Static) ThemeBackground() string { return strings.TrimSpace(s.Background) }

// ParseInitData extracts the user from Telegram WebApp init data, the
// URL-encoded string a Mini App receives (user=%7B%22id%22...&auth_date=...).
// The signature is not verified.
func ParseInitData(raw string) (User, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return User{}, fmt.Errorf("init data is empty")
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return User{}, fmt.Errorf("parse init data: %w", err)
	}
	userJSON := values.Get("user")
	if userJSON == "" {
		return User{}, fmt.Errorf("init data has no user")
	}
	var user User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return User{}, fmt.Errorf("decode init data user: %w", err)
	}
	if user.ID == 0 {
		return User{}, fmt.Errorf("init data user has no id")
	}
	return user, nil
}
