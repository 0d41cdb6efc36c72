package store

import "errors"

// ErrNotFound is returned when no snapshot is stored for a match.
var ErrNotFound = errors.New("snapshot not found")
