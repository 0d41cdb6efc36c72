package backend

import (
	"context"

	"github.com/mauv0809/dart-scoreboard/internal/match"
)

// BackendClient defines the interface for talking to the match backend.
// This allows for mock implementations to be used in tests.
type BackendClient interface {
	GetMatch(ctx context.Context, matchID string) (*match.Match, error)
	FetchCheckouts(ctx context.Context) ([]byte, error)
	SubmitTurn(ctx context.Context, matchID string, turn Turn) error
	UpdateTurn(ctx context.Context, matchID string, turn Turn) error
	DeleteTurn(ctx context.Context, matchID string, key TurnKey) error
	ResetMatch(ctx context.Context, matchID string) error
	DeleteMatch(ctx context.Context, matchID string) error
}
