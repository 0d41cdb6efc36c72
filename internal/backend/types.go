package backend

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("not found on backend")

// TurnKey identifies one player's turn within a match.
type TurnKey struct {
	SetNumber   int    `json:"setNumber" msgpack:"setNumber"`
	LegNumber   int    `json:"legNumber" msgpack:"legNumber"`
	RoundNumber int    `json:"roundNumber" msgpack:"roundNumber"`
	PlayerID    string `json:"playerId" msgpack:"playerId"`
}

// Turn is a score entry sent to the backend. RequestID makes retries of the
// same command idempotent on the backend.
type Turn struct {
	RequestID string `json:"requestId" msgpack:"requestId"`
	TurnKey
	Score         int  `json:"score" msgpack:"score"`
	DartsUsed     int  `json:"dartsUsed" msgpack:"dartsUsed"`
	DoublesMissed *int `json:"doublesMissed,omitempty" msgpack:"doublesMissed,omitempty"`
}

// WithRequestID returns the turn with a fresh request id when it has none.
func (t Turn) WithRequestID() Turn {
	if t.RequestID == "" {
		t.RequestID = uuid.NewString()
	}
	return t
}

// StatusError is returned for any non-2xx answer other than 404.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return e.Method + " " + e.Path + ": unexpected status " + httpStatusText(e.Status) + ": " + e.Body
}
