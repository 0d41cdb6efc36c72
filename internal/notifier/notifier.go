package notifier

import (
	"context"

	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/timeline"
)

// Notifier defines a high-level interface for announcing match events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For a leg or set won during play
	SendEvent(ctx context.Context, m *match.Match, event timeline.Event, dryRun bool) error
	// For finished matches
	SendMatchResult(ctx context.Context, m *match.Match, dryRun bool) error
}
