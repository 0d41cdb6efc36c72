package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/vmihailenco/msgpack/v5"
)

type snapshotStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSnapshots creates a SnapshotStore on the snapshots table. Snapshots are
// stored msgpack-encoded.
func NewSnapshots(db *sql.DB) SnapshotStore {
	return &snapshotStore{db: db}
}

// SaveSnapshot replaces the stored snapshot of the match.
func (s *snapshotStore) SaveSnapshot(m *match.Match) error {
	if m == nil || m.ID == "" {
		return errors.New("snapshot has no match id")
	}
	payload, err := msgpack.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", m.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO snapshots (match_id, payload, status, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			payload = excluded.payload,
			status = excluded.status,
			updated_at = excluded.updated_at;
	`, m.ID, payload, string(m.Status), time.Now().Unix())
	return err
}

func (s *snapshotStore) GetSnapshot(matchID string) (*match.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRow("SELECT payload FROM snapshots WHERE match_id = ?", matchID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(payload)
}

// ListSnapshots returns every stored snapshot, oldest update first. Rows that
// fail to decode are logged and skipped.
func (s *snapshotStore) ListSnapshots() ([]*match.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT match_id, payload FROM snapshots ORDER BY updated_at, match_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*match.Match
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		m, err := decode(payload)
		if err != nil {
			log.Error("Failed to decode stored snapshot", "matchID", id, "error", err)
			continue
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *snapshotStore) DeleteSnapshot(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM snapshots WHERE match_id = ?", matchID)
	return err
}

func decode(payload []byte) (*match.Match, error) {
	var m match.Match
	if err := msgpack.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
