package backend

import (
	"context"
	"sync"

	"github.com/mauv0809/dart-scoreboard/internal/match"
)

var _ BackendClient = (*MockClient)(nil)

// MockClient is a mock implementation of BackendClient for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	GetMatchFunc       func(ctx context.Context, matchID string) (*match.Match, error)
	FetchCheckoutsFunc func(ctx context.Context) ([]byte, error)
	SubmitTurnFunc     func(ctx context.Context, matchID string, turn Turn) error

	GetMatchCalls    []string
	SubmitTurnCalls  []Turn
	UpdateTurnCalls  []Turn
	DeleteTurnCalls  []TurnKey
	ResetMatchCalls  []string
	DeleteMatchCalls []string
}

func NewMock() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GetMatch(ctx context.Context, matchID string) (*match.Match, error) {
	m.mu.Lock()
	m.GetMatchCalls = append(m.GetMatchCalls, matchID)
	fn := m.GetMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, matchID)
	}
	return nil, ErrNotFound
}

func (m *MockClient) FetchCheckouts(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	fn := m.FetchCheckoutsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil, ErrNotFound
}

func (m *MockClient) SubmitTurn(ctx context.Context, matchID string, turn Turn) error {
	m.mu.Lock()
	m.SubmitTurnCalls = append(m.SubmitTurnCalls, turn)
	fn := m.SubmitTurnFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, matchID, turn)
	}
	return nil
}

func (m *MockClient) UpdateTurn(_ context.Context, _ string, turn Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateTurnCalls = append(m.UpdateTurnCalls, turn)
	return nil
}

func (m *MockClient) DeleteTurn(_ context.Context, _ string, key TurnKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteTurnCalls = append(m.DeleteTurnCalls, key)
	return nil
}

func (m *MockClient) ResetMatch(_ context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetMatchCalls = append(m.ResetMatchCalls, matchID)
	return nil
}

func (m *MockClient) DeleteMatch(_ context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, matchID)
	return nil
}
