package legtable

import (
	"fmt"
	"strings"

	"github.com/mauv0809/dart-scoreboard/internal/match"
)

// RemainingPolicy decides a player's remaining score after a round.
type RemainingPolicy interface {
	Remaining(previous int, score match.RoundScore) int
}

// TrustBackend uses the remaining value the backend computed and only falls
// back to subtracting the score when the field is missing.
type TrustBackend struct{}

func (TrustBackend) Remaining(previous int, score match.RoundScore) int {
	if score.Remaining != nil {
		return *score.Remaining
	}
	return previous - score.Score
}

// Recompute always subtracts the score from the previous remaining.
type Recompute struct{}

func (Recompute) Remaining(previous int, score match.RoundScore) int {
	return previous - score.Score
}

// PolicyFromString maps "backend" and "recompute" to a policy. An empty string
// selects TrustBackend.
func PolicyFromString(name string) (RemainingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "backend":
		return TrustBackend{}, nil
	case "recompute":
		return Recompute{}, nil
	default:
		return nil, fmt.Errorf("unknown remaining policy %q", name)
	}
}
