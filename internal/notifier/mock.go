package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/timeline"
)

var _ Notifier = (*Mock)(nil)

// EventCall holds the arguments for a call to SendEvent.
type EventCall struct {
	MatchID string
	Event   timeline.Event
	DryRun  bool
}

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendEventFunc       func(m *match.Match, event timeline.Event) error
	SendMatchResultFunc func(m *match.Match) error

	// Call records
	SendEventCalls       []EventCall
	SendMatchResultCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendEventCalls = nil
	m.SendMatchResultCalls = nil
}

func (m *Mock) SendEvent(_ context.Context, mt *match.Match, event timeline.Event, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendEventCalls = append(m.SendEventCalls, EventCall{MatchID: mt.ID, Event: event, DryRun: dryRun})
	if m.SendEventFunc != nil {
		return m.SendEventFunc(mt, event)
	}
	return nil
}

func (m *Mock) SendMatchResult(_ context.Context, mt *match.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, mt.ID)
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(mt)
	}
	return nil
}

// Events returns a copy of the recorded SendEvent calls.
func (m *Mock) Events() []EventCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EventCall(nil), m.SendEventCalls...)
}

// MatchResults returns a copy of the match ids passed to SendMatchResult.
func (m *Mock) MatchResults() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.SendMatchResultCalls...)
}
