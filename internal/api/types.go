package api

import (
	"strings"
	"time"
)

// readingTimestampLayout matches the backend's naive isoformat() output.
const readingTimestampLayout = "2006-01-02T15:04:05.999999"

// Language is the only reading language the backend interprets in.
const Language = "ru"

// Spread describes a selectable card layout from /api/spreads.
type Spread struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cards       int    `json:"cards,omitempty"`
}

// SpreadListResponse mirrors /api/spreads.
type SpreadListResponse struct {
	Spreads []Spread `json:"spreads"`
}

// ReadingRequest is the body posted to /api/reading.
type ReadingRequest struct {
	Question   string `json:"question" validate:"required,max=500"`
	SpreadType string `json:"spread_type" validate:"required"`
	Language   string `json:"language" validate:"required,eq=ru"`
	UserID     *int64 `json:"user_id,omitempty"`
	Username   string `json:"username,omitempty"`
}

// Card is a drawn (or catalog) card in transport form.
type Card struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	NameRU   string   `json:"name_ru"`
	Meaning  string   `json:"meaning"`
	Keywords []string `json:"keywords"`
	Position string   `json:"position,omitempty"`
	Reversed bool     `json:"reversed"`
	Image    string   `json:"image,omitempty"`

	// Minor arcana only.
	Suit    string `json:"suit,omitempty"`
	SuitRU  string `json:"suit_ru,omitempty"`
	Rank    string `json:"rank,omitempty"`
	RankRU  string `json:"rank_ru,omitempty"`
	Element string `json:"element,omitempty"`
}

// DisplayName prefers the Russian name and falls back to the English one.
func (c Card) DisplayName() string {
	if name := strings.TrimSpace(c.NameRU); name != "" {
		return name
	}
	return strings.TrimSpace(c.Name)
}

// IsMajor reports whether the card belongs to the major arcana.
func (c Card) IsMajor() bool {
	return c.Suit == ""
}

// Reading is the generated reading returned by /api/reading.
type Reading struct {
	SessionID      string `json:"session_id"`
	Question       string `json:"question"`
	SpreadType     string `json:"spread_type"`
	Cards          []Card `json:"cards"`
	Interpretation string `json:"interpretation"`
	Timestamp      string `json:"timestamp"`
}

// ParsedTime attempts to parse the reading timestamp.
func (r Reading) ParsedTime() time.Time {
	return parseTimestamp(r.Timestamp)
}

// Clone returns a deep copy of the reading.
func (r *Reading) Clone() *Reading {
	if r == nil {
		return nil
	}
	dup := *r
	if r.Cards != nil {
		dup.Cards = make([]Card, len(r.Cards))
		for i, card := range r.Cards {
			card.Keywords = append([]string(nil), card.Keywords...)
			dup.Cards[i] = card
		}
	}
	return &dup
}

// DeckResponse mirrors /api/cards.
type DeckResponse struct {
	Cards []Card `json:"cards"`
	Total int    `json:"total"`
}

// InterpretRequest is the body of POST /api/interpret.
type InterpretRequest struct {
	Question   string `json:"question"`
	Cards      []Card `json:"cards"`
	SpreadType string `json:"spread_type"`
}

// InterpretResponse mirrors /api/interpret.
type InterpretResponse struct {
	Interpretation string `json:"interpretation"`
}

// DailyCard mirrors /api/daily.
type DailyCard struct {
	Date    string `json:"date"`
	Card    Card   `json:"card"`
	Message string `json:"message"`
}

func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.ParseInLocation(readingTimestampLayout, value, time.Local); err == nil {
		return ts
	}
	return time.Time{}
}
