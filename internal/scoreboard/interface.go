package scoreboard

import (
	"context"

	"github.com/mauv0809/dart-scoreboard/internal/backend"
	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/notifier"
)

// SnapshotStore defines the persistence the board needs.
type SnapshotStore interface {
	SaveSnapshot(m *match.Match) error
	ListSnapshots() ([]*match.Match, error)
	DeleteSnapshot(matchID string) error
}

// Backend defines the backend operations the board needs.
type Backend interface {
	GetMatch(ctx context.Context, matchID string) (*match.Match, error)
	SubmitTurn(ctx context.Context, matchID string, turn backend.Turn) error
	UpdateTurn(ctx context.Context, matchID string, turn backend.Turn) error
	DeleteTurn(ctx context.Context, matchID string, key backend.TurnKey) error
	ResetMatch(ctx context.Context, matchID string) error
	DeleteMatch(ctx context.Context, matchID string) error
}

// Notifier defines the notification operations required by the board.
type Notifier interface {
	notifier.Notifier
}
