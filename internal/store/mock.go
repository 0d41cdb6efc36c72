package store

import (
	"sync"

	"github.com/mauv0809/dart-scoreboard/internal/match"
)

var (
	_ KVStore       = (*MockKV)(nil)
	_ SnapshotStore = (*MockSnapshots)(nil)
)

// MockKV is an in-memory KVStore. It is safe for concurrent use.
type MockKV struct {
	mu     sync.Mutex
	values map[string]string

	// GetErr, when set, is returned by every Get.
	GetErr error
	// SetErr, when set, is returned by every Set.
	SetErr error

	SetCalls    []string
	DeleteCalls []string
}

func NewMockKV() *MockKV {
	return &MockKV{values: make(map[string]string)}
}

func (m *MockKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MockKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, key)
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *MockKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, key)
	delete(m.values, key)
	return nil
}

// MockSnapshots is an in-memory SnapshotStore. It is safe for concurrent use.
type MockSnapshots struct {
	mu        sync.Mutex
	snapshots map[string]*match.Match
	order     []string

	SaveErr error
}

func NewMockSnapshots() *MockSnapshots {
	return &MockSnapshots{snapshots: make(map[string]*match.Match)}
}

func (m *MockSnapshots) SaveSnapshot(s *match.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if _, ok := m.snapshots[s.ID]; !ok {
		m.order = append(m.order, s.ID)
	}
	m.snapshots[s.ID] = s
	return nil
}

func (m *MockSnapshots) GetSnapshot(matchID string) (*match.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snapshots[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *MockSnapshots) ListSnapshots() ([]*match.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*match.Match, 0, len(m.order))
	for _, id := range m.order {
		if s, ok := m.snapshots[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockSnapshots) DeleteSnapshot(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, matchID)
	return nil
}
