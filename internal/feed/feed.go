// Package feed subscribes to the backend's live match feed over a WebSocket.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/mauv0809/dart-scoreboard/internal/match"
)

const defaultRetryDelay = 5 * time.Second

// ApplyFunc receives every decoded snapshot.
type ApplyFunc func(ctx context.Context, m *match.Match) error

// Subscriber reads JSON Match frames and hands them to apply. It reconnects
// after the connection drops until its context is cancelled.
type Subscriber struct {
	URL        string
	Dialer     *websocket.Dialer
	RetryDelay time.Duration
	apply      ApplyFunc
}

func New(url string, apply ApplyFunc) *Subscriber {
	return &Subscriber{
		URL:        url,
		Dialer:     websocket.DefaultDialer,
		RetryDelay: defaultRetryDelay,
		apply:      apply,
	}
}

// Run blocks until ctx is cancelled and returns ctx.Err().
func (s *Subscriber) Run(ctx context.Context) error {
	for {
		err := s.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("Feed connection lost, reconnecting", "url", s.URL, "error", err, "delay", s.RetryDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.RetryDelay):
		}
	}
}

func (s *Subscriber) runOnce(ctx context.Context) error {
	conn, _, err := s.Dialer.DialContext(ctx, s.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Info("Connected to match feed", "url", s.URL)

	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()

	return s.consume(ctx, conn)
}

func (s *Subscriber) consume(ctx context.Context, conn *websocket.Conn) error {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("feed closed by server")
			}
			return err
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		var m match.Match
		if err := json.Unmarshal(data, &m); err != nil {
			log.Warn("Skipping malformed feed frame", "error", err, "bytes", len(data))
			continue
		}
		if m.ID == "" {
			log.Warn("Skipping feed frame without match id")
			continue
		}
		if err := s.apply(ctx, &m); err != nil {
			log.Warn("Failed to apply feed snapshot", "matchID", m.ID, "error", err)
		}
	}
}
