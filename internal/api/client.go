package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"resty.dev/v3"
)

// Backend defines the reading backend operations. It is implemented by
// *Client and can be substituted in tests.
type Backend interface {
	FetchSpreads(ctx context.Context) ([]Spread, error)
	CreateReading(ctx context.Context, req ReadingRequest) (*Reading, error)
	FetchReading(ctx context.Context, sessionID string) (*Reading, error)
	FetchDeck(ctx context.Context) ([]Card, error)
	FetchCard(ctx context.Context, id int) (*Card, error)
	FetchDaily(ctx context.Context) (*DailyCard, error)
	Interpret(ctx context.Context, question, spreadType string, cards []Card) (string, error)
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the tarot reading HTTP API.
type Client struct {
	baseURL *url.URL
	http    *resty.Client
}

const (
	DefaultAPIURL    = "http://localhost:8000"
	defaultUserAgent = "luvo/0.1"
	// Reading generation waits on an LLM upstream that itself times out at 60s.
	defaultTimeout = 90 * time.Second

	requestIDHeader = "X-Request-ID"
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.http.SetHeader("User-Agent", ua)
		}
	}
}

// NewClient builds a Client for the given base URL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := ParseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	httpClient := resty.New().
		SetBaseURL(base.String()).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", defaultUserAgent)

	c := &Client{baseURL: base, http: httpClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.http.Close()
}

// BaseURL returns a copy of the normalised base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// CardImageURL returns the absolute URL of a card face image.
func (c *Client) CardImageURL(image string) string {
	image = strings.TrimSpace(image)
	if c == nil || image == "" {
		return ""
	}
	return c.baseURL.JoinPath("cards", image).String()
}

// FetchSpreads retrieves the spread catalog.
func (c *Client) FetchSpreads(ctx context.Context) ([]Spread, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload SpreadListResponse
	if err := c.get(ctx, "/api/spreads", &payload); err != nil {
		return nil, err
	}
	return payload.Spreads, nil
}

// CreateReading requests a new generated reading.
func (c *Client) CreateReading(ctx context.Context, req ReadingRequest) (*Reading, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(req.Language) == "" {
		req.Language = Language
	}
	var payload Reading
	if err := c.do(ctx, resty.MethodPost, "/api/reading", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Interpret asks for an interpretation of cards drawn elsewhere, such as
// over a live session.
func (c *Client) Interpret(ctx context.Context, question, spreadType string, cards []Card) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if len(cards) == 0 {
		return "", fmt.Errorf("no cards to interpret")
	}
	body := InterpretRequest{
		Question:   strings.TrimSpace(question),
		Cards:      cards,
		SpreadType: strings.TrimSpace(spreadType),
	}
	var payload InterpretResponse
	if err := c.do(ctx, resty.MethodPost, "/api/interpret", body, &payload); err != nil {
		return "", err
	}
	return payload.Interpretation, nil
}

// FetchReading retrieves a reading the backend still holds for sessionID.
func (c *Client) FetchReading(ctx context.Context, sessionID string) (*Reading, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}
	var payload Reading
	if err := c.get(ctx, "/api/reading/"+url.PathEscape(sessionID), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchDeck retrieves the full 78-card deck.
func (c *Client) FetchDeck(ctx context.Context) ([]Card, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload DeckResponse
	if err := c.get(ctx, "/api/cards", &payload); err != nil {
		return nil, err
	}
	return payload.Cards, nil
}

// FetchCard retrieves a single card by id.
func (c *Client) FetchCard(ctx context.Context, id int) (*Card, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if id < 0 {
		return nil, fmt.Errorf("card id must be non-negative")
	}
	var payload Card
	if err := c.get(ctx, "/api/cards/"+strconv.Itoa(id), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchDaily retrieves the card of the day.
func (c *Client) FetchDaily(ctx context.Context) (*DailyCard, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload DailyCard
	if err := c.get(ctx, "/api/daily", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	return c.do(ctx, resty.MethodGet, path, nil, dest)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if dest != nil {
		req.SetResult(dest)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	if resp.IsError() {
		return &StatusError{Path: path, Code: resp.StatusCode(), Body: truncateBody(resp.String())}
	}
	return nil
}

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// ParseBaseURL normalises an API base URL, defaulting to DefaultAPIURL.
func ParseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func truncateBody(body string) string {
	body = strings.TrimSpace(body)
	const limit = 256
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}
