package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const livePath = "/ws/live-reading"

// Live frame statuses sent by /ws/live-reading.
const (
	LiveShuffling      = "shuffling"
	LiveReady          = "ready"
	LiveCardDrawn      = "card_drawn"
	LiveComplete       = "complete"
	LiveInterpretation = "interpretation"
)

// LiveFrame is one server message of a live reading.
type LiveFrame struct {
	Status   string `json:"status"`
	Progress int    `json:"progress,omitempty"`
	Index    int    `json:"index,omitempty"`
	Card     *Card  `json:"card,omitempty"`
	Cards    []Card `json:"cards,omitempty"`
	Text     string `json:"text,omitempty"`
}

type liveAction struct {
	Action     string `json:"action"`
	SpreadType string `json:"spread_type,omitempty"`
	Question   string `json:"question,omitempty"`
	Cards      []Card `json:"cards,omitempty"`
}

// LiveSession is an open live-reading WebSocket. Calls are serialised; the
// server answers one action at a time.
type LiveSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// DialLive opens a live-reading session.
func (c *Client) DialLive(ctx context.Context) (*LiveSession, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	wsURL := c.BaseURL()
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = livePath

	header := http.Header{}
	header.Set("User-Agent", defaultUserAgent)
	header.Set(requestIDHeader, uuid.NewString())

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial live reading: status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial live reading: %w", err)
	}
	return &LiveSession{conn: conn}, nil
}

// Shuffle asks the server to shuffle and reports progress frames until ready.
func (s *LiveSession) Shuffle(ctx context.Context, onFrame func(LiveFrame)) error {
	_, err := s.exchange(ctx, liveAction{Action: "shuffle"}, LiveReady, onFrame)
	return err
}

// Draw draws the cards of spreadType, reporting each card as it is drawn.
func (s *LiveSession) Draw(ctx context.Context, spreadType string, onFrame func(LiveFrame)) ([]Card, error) {
	spreadType = strings.TrimSpace(spreadType)
	if spreadType == "" {
		return nil, fmt.Errorf("spread type required")
	}
	last, err := s.exchange(ctx, liveAction{Action: "draw", SpreadType: spreadType}, LiveComplete, onFrame)
	if err != nil {
		return nil, err
	}
	return last.Cards, nil
}

// Interpret requests an interpretation for already drawn cards.
func (s *LiveSession) Interpret(ctx context.Context, question, spreadType string, cards []Card) (string, error) {
	last, err := s.exchange(ctx, liveAction{
		Action:     "interpret",
		Question:   question,
		SpreadType: spreadType,
		Cards:      cards,
	}, LiveInterpretation, nil)
	if err != nil {
		return "", err
	}
	return last.Text, nil
}

// Close sends a close frame and releases the connection.
func (s *LiveSession) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteMessage(websocket.CloseMessage, msg)
	return s.conn.Close()
}

func (s *LiveSession) exchange(ctx context.Context, action liveAction, until string, onFrame func(LiveFrame)) (LiveFrame, error) {
	if s == nil || s.conn == nil {
		return LiveFrame{}, fmt.Errorf("live session is closed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Unblock reads when the caller gives up.
	stop := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stop()

	if err := s.conn.WriteJSON(action); err != nil {
		return LiveFrame{}, liveErr(ctx, "send "+action.Action, err)
	}
	for {
		var frame LiveFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			return LiveFrame{}, liveErr(ctx, "read frame", err)
		}
		if onFrame != nil {
			onFrame(frame)
		}
		if frame.Status == until {
			return frame, nil
		}
	}
}

func liveErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return fmt.Errorf("%s: %w", op, ErrLiveClosed)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrLiveClosed reports that the server ended the live session.
var ErrLiveClosed = errors.New("live session closed by server")
