package store

import "github.com/mauv0809/dart-scoreboard/internal/match"

// KVStore is a string-keyed durable store. Values are opaque strings.
type KVStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// SnapshotStore keeps the latest snapshot received for every match.
type SnapshotStore interface {
	SaveSnapshot(m *match.Match) error
	GetSnapshot(matchID string) (*match.Match, error)
	ListSnapshots() ([]*match.Match, error)
	DeleteSnapshot(matchID string) error
}
