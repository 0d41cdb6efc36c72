package scoreboard

import (
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/dart-scoreboard/internal/backend"
	"github.com/mauv0809/dart-scoreboard/internal/cards"
	"github.com/mauv0809/dart-scoreboard/internal/checkout"
	"github.com/mauv0809/dart-scoreboard/internal/legtable"
	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/metrics"
	"github.com/mauv0809/dart-scoreboard/internal/pubsub"
	"github.com/mauv0809/dart-scoreboard/internal/timeline"
)

var (
	// ErrUnknownMatch is returned when no snapshot was applied for a match yet.
	ErrUnknownMatch = errors.New("unknown match")
	// ErrStaleSnapshot is returned when a newer snapshot of the same match was
	// applied while this one was being derived. Its view is discarded.
	ErrStaleSnapshot = errors.New("stale snapshot")
	// ErrUnknownLeg is returned when a match has no such set or leg.
	ErrUnknownLeg = errors.New("unknown leg")
	// ErrMissingRequestID is returned when updating a turn without its request id.
	ErrMissingRequestID = errors.New("turn has no request id")
)

// View is everything derived from one snapshot.
type View struct {
	Generation uint64            `json:"generation"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Match      *match.Match      `json:"match"`
	Timeline   timeline.Timeline `json:"timeline"`
	Cards      cards.Cards       `json:"cards"`
	Table      *legtable.Table   `json:"table,omitempty"`
}

// Deps are the collaborators of a Board. Metrics is required, every other
// field may be nil.
type Deps struct {
	Backend   Backend
	Lookup    checkout.Lookup
	Store     SnapshotStore
	Counters  metrics.CounterStore
	Notifier  Notifier
	Publisher pubsub.PubSubClient
	Metrics   metrics.Metrics
	Policy    legtable.RemainingPolicy
}

// Board keeps the latest view per match.
type Board struct {
	backend   Backend
	lookup    checkout.Lookup
	store     SnapshotStore
	counters  metrics.CounterStore
	notifier  Notifier
	publisher pubsub.PubSubClient
	metrics   metrics.Metrics
	policy    legtable.RemainingPolicy

	mu          sync.RWMutex
	generations map[string]uint64
	views       map[string]*View

	// saveMu serializes store writes; saved is the newest generation stored per match.
	saveMu sync.Mutex
	saved  map[string]uint64
}

// TurnCommand is the payload published on the submit-turn and update-turn topics.
type TurnCommand struct {
	MatchID string       `json:"matchId" msgpack:"matchId"`
	Turn    backend.Turn `json:"turn" msgpack:"turn"`
}

type DeleteTurnCommand struct {
	MatchID string          `json:"matchId" msgpack:"matchId"`
	Key     backend.TurnKey `json:"key" msgpack:"key"`
}

// MatchCommand is the payload of the reset-match and delete-match topics.
type MatchCommand struct {
	MatchID string `json:"matchId" msgpack:"matchId"`
}
