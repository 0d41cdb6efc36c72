package store

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type kvStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
}

// NewKV creates a KVStore on the kv_cache table. Entries older than ttl read as
// missing; a zero ttl keeps entries forever.
func NewKV(db *sql.DB, ttl time.Duration) KVStore {
	return &kvStore{
		db:  db,
		ttl: ttl,
		now: time.Now,
	}
}

func (s *kvStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	var updatedAt int64
	err := s.db.QueryRow("SELECT value, updated_at FROM kv_cache WHERE key = ?", key).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if s.ttl > 0 && s.now().Sub(time.Unix(updatedAt, 0)) > s.ttl {
		log.Debug("Cache entry expired", "key", key, "updatedAt", updatedAt)
		return "", false, nil
	}
	return value, true, nil
}

func (s *kvStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO kv_cache (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at;
	`, key, value, s.now().Unix())
	return err
}

func (s *kvStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM kv_cache WHERE key = ?", key)
	return err
}
