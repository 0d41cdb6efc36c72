package match

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PlayerMap is an ordered association from player id to T. Iteration follows
// insertion order, which callers keep equal to the match's player list order.
type PlayerMap[T any] struct {
	keys   []string
	values map[string]T
}

// NewPlayerMap creates an empty map with room for n players.
func NewPlayerMap[T any](n int) PlayerMap[T] {
	return PlayerMap[T]{
		keys:   make([]string, 0, n),
		values: make(map[string]T, n),
	}
}

// Set stores v for id. A new id is appended; an existing id keeps its position.
func (m *PlayerMap[T]) Set(id string, v T) {
	if m.values == nil {
		m.values = make(map[string]T)
	}
	if _, ok := m.values[id]; !ok {
		m.keys = append(m.keys, id)
	}
	m.values[id] = v
}

func (m PlayerMap[T]) Get(id string) (T, bool) {
	v, ok := m.values[id]
	return v, ok
}

func (m PlayerMap[T]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the ids in order.
func (m PlayerMap[T]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in order.
func (m PlayerMap[T]) Each(fn func(id string, v T)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Clone returns an independent copy. Values are copied shallowly.
func (m PlayerMap[T]) Clone() PlayerMap[T] {
	out := NewPlayerMap[T](len(m.keys))
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

func (m PlayerMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *PlayerMap[T]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = PlayerMap[T]{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("player map: expected object, got %v", tok)
	}
	out := NewPlayerMap[T](0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("player map: expected string key, got %v", keyTok)
		}
		var v T
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("player map: decoding %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}
