package scoreboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/dart-scoreboard/internal/backend"
	"github.com/mauv0809/dart-scoreboard/internal/cards"
	"github.com/mauv0809/dart-scoreboard/internal/legtable"
	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/metrics"
	"github.com/mauv0809/dart-scoreboard/internal/pubsub"
	"github.com/mauv0809/dart-scoreboard/internal/store"
	"github.com/mauv0809/dart-scoreboard/internal/timeline"
)

// New creates a new Board.
func New(deps Deps) *Board {
	policy := deps.Policy
	if policy == nil {
		policy = legtable.TrustBackend{}
	}
	return &Board{
		backend:     deps.Backend,
		lookup:      deps.Lookup,
		store:       deps.Store,
		counters:    deps.Counters,
		notifier:    deps.Notifier,
		publisher:   deps.Publisher,
		metrics:     deps.Metrics,
		policy:      policy,
		generations: make(map[string]uint64),
		views:       make(map[string]*View),
		saved:       make(map[string]uint64),
	}
}

type applyOptions struct {
	dryRun  bool
	restore bool
}

// Apply derives the views of a snapshot and publishes them unless a newer
// snapshot of the same match was applied in the meantime, in which case
// ErrStaleSnapshot is returned. Legs and sets won since the previous view are
// announced through the notifier.
func (b *Board) Apply(ctx context.Context, m *match.Match, dryRun bool) (*View, error) {
	return b.apply(ctx, m, applyOptions{dryRun: dryRun})
}

func (b *Board) apply(ctx context.Context, m *match.Match, opts applyOptions) (*View, error) {
	if m == nil || m.ID == "" {
		return nil, errors.New("snapshot has no match id")
	}
	gen := b.nextGeneration(m.ID)
	log.Debug("Applying snapshot", "matchID", m.ID, "generation", gen, "status", m.Status)

	start := time.Now()
	view, err := b.derive(ctx, m, gen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive views for match %s: %w", m.ID, err)
	}
	b.metrics.ObserveTransformDuration(time.Since(start).Seconds())

	prev, ok := b.publish(view)
	if !ok {
		b.metrics.IncSnapshotsStale()
		log.Info("Discarding stale snapshot", "matchID", m.ID, "generation", gen)
		return nil, ErrStaleSnapshot
	}
	b.metrics.IncSnapshotsApplied()
	log.Info("Applied snapshot", "matchID", m.ID, "generation", gen)

	if opts.restore {
		return view, nil
	}
	if b.counters != nil {
		b.counters.Increment(metrics.KeySnapshotsApplied)
	}
	b.persist(m, gen)
	b.announce(ctx, prev, view, opts.dryRun)
	return view, nil
}

func (b *Board) nextGeneration(matchID string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generations[matchID]++
	return b.generations[matchID]
}

// publish stores view if its generation is still the newest. It returns the
// view it replaced.
func (b *Board) publish(view *View) (*View, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := view.Match.ID
	if b.generations[id] != view.Generation {
		return nil, false
	}
	prev := b.views[id]
	b.views[id] = view
	return prev, true
}

// persist saves a snapshot unless a newer generation of the match was already
// saved. Saves are serialized so an older save cannot finish after a newer one.
func (b *Board) persist(m *match.Match, gen uint64) {
	if b.store == nil {
		return
	}
	b.saveMu.Lock()
	defer b.saveMu.Unlock()
	if gen <= b.saved[m.ID] {
		log.Debug("Skipping superseded snapshot", "matchID", m.ID, "generation", gen, "saved", b.saved[m.ID])
		return
	}
	if err := b.store.SaveSnapshot(m); err != nil {
		log.Error("Failed to persist snapshot", "matchID", m.ID, "error", err)
		return
	}
	b.saved[m.ID] = gen
}

func (b *Board) derive(ctx context.Context, m *match.Match, gen uint64) (*View, error) {
	c, err := cards.Transform(ctx, m, b.lookup, b.policy)
	if err != nil {
		return nil, err
	}
	return &View{
		Generation: gen,
		UpdatedAt:  time.Now(),
		Match:      m,
		Timeline:   timeline.FromMatch(m),
		Cards:      c,
		Table:      legtable.Current(m, b.policy),
	}, nil
}

// announce notifies about what changed between two views of a match. The first
// view of a match has nothing to compare with and announces nothing.
func (b *Board) announce(ctx context.Context, prev, next *View, dryRun bool) {
	if prev == nil {
		return
	}
	for _, event := range timeline.Diff(prev.Timeline, next.Timeline) {
		if event.Kind == timeline.LegWon && b.counters != nil {
			b.counters.Increment(metrics.KeyLegsFinished)
		}
		if b.notifier == nil {
			continue
		}
		if err := b.notifier.SendEvent(ctx, next.Match, event, dryRun); err != nil {
			log.Error("Failed to send event notification", "matchID", next.Match.ID, "event", event.Kind, "error", err)
		}
	}

	if prev.Match.Status != match.StatusFinished && next.Match.Status == match.StatusFinished {
		if b.counters != nil {
			b.counters.Increment(metrics.KeyMatchesFinished)
		}
		if b.notifier != nil {
			if err := b.notifier.SendMatchResult(ctx, next.Match, dryRun); err != nil {
				log.Error("Failed to send match result", "matchID", next.Match.ID, "error", err)
			}
		}
	}
}

// View returns the latest view of a match.
func (b *Board) View(matchID string) (*View, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.views[matchID]
	if !ok {
		return nil, ErrUnknownMatch
	}
	return v, nil
}

// Views returns the latest view of every match, ordered by match id.
func (b *Board) Views() []*View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*View, 0, len(b.views))
	for _, v := range b.views {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *View) int { return strings.Compare(a.Match.ID, b.Match.ID) })
	return out
}

// Refresh pulls the current snapshot of a match from the backend and applies it.
func (b *Board) Refresh(ctx context.Context, matchID string, dryRun bool) (*View, error) {
	if b.backend == nil {
		return nil, errors.New("no backend configured")
	}
	m, err := b.backend.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}
	return b.Apply(ctx, m, dryRun)
}

// Restore re-applies every persisted snapshot without announcing anything. It
// returns the number of matches restored.
func (b *Board) Restore(ctx context.Context) (int, error) {
	if b.store == nil {
		return 0, nil
	}
	snapshots, err := b.store.ListSnapshots()
	if err != nil {
		return 0, fmt.Errorf("failed to list snapshots: %w", err)
	}
	restored := 0
	for _, m := range snapshots {
		if _, err := b.apply(ctx, m, applyOptions{restore: true}); err != nil {
			if ctx.Err() != nil {
				return restored, ctx.Err()
			}
			log.Warn("Failed to restore snapshot", "matchID", m.ID, "error", err)
			continue
		}
		restored++
	}
	log.Info("Restored snapshots", "count", restored)
	return restored, nil
}

// SubmitTurn stamps a request id on turn and forwards it to the backend. The
// backend answers with a new snapshot through the usual channels.
func (b *Board) SubmitTurn(ctx context.Context, matchID string, turn backend.Turn, dryRun bool) (backend.Turn, error) {
	turn = turn.WithRequestID()
	err := b.command(ctx, pubsub.EventSubmitTurn, TurnCommand{MatchID: matchID, Turn: turn}, dryRun, func(be Backend) error {
		return be.SubmitTurn(ctx, matchID, turn)
	})
	return turn, err
}

// UpdateTurn replaces a turn submitted earlier, identified by its request id.
func (b *Board) UpdateTurn(ctx context.Context, matchID string, turn backend.Turn, dryRun bool) error {
	if turn.RequestID == "" {
		return ErrMissingRequestID
	}
	return b.command(ctx, pubsub.EventUpdateTurn, TurnCommand{MatchID: matchID, Turn: turn}, dryRun, func(be Backend) error {
		return be.UpdateTurn(ctx, matchID, turn)
	})
}

func (b *Board) DeleteTurn(ctx context.Context, matchID string, key backend.TurnKey, dryRun bool) error {
	return b.command(ctx, pubsub.EventDeleteTurn, DeleteTurnCommand{MatchID: matchID, Key: key}, dryRun, func(be Backend) error {
		return be.DeleteTurn(ctx, matchID, key)
	})
}

func (b *Board) ResetMatch(ctx context.Context, matchID string, dryRun bool) error {
	return b.command(ctx, pubsub.EventResetMatch, MatchCommand{MatchID: matchID}, dryRun, func(be Backend) error {
		return be.ResetMatch(ctx, matchID)
	})
}

// DeleteMatch asks the backend to delete a match and drops its view and
// persisted snapshot. Snapshots of the match still being derived are discarded.
func (b *Board) DeleteMatch(ctx context.Context, matchID string, dryRun bool) error {
	err := b.command(ctx, pubsub.EventDeleteMatch, MatchCommand{MatchID: matchID}, dryRun, func(be Backend) error {
		return be.DeleteMatch(ctx, matchID)
	})
	if err != nil || dryRun {
		return err
	}
	b.forget(matchID)
	return nil
}

// command sends a command through the command topic when a publisher is
// configured and straight to the backend otherwise. Dry runs only log.
func (b *Board) command(ctx context.Context, event pubsub.EventType, payload any, dryRun bool, direct func(Backend) error) error {
	if dryRun {
		log.Info("[Dry Run] Would send command", "event", event, "payload", payload)
		return nil
	}
	if b.publisher != nil {
		if err := b.publisher.SendMessage(ctx, event, payload); err != nil {
			return fmt.Errorf("failed to publish %s: %w", event, err)
		}
		return nil
	}
	if b.backend == nil {
		return errors.New("no backend configured")
	}
	return direct(b.backend)
}

func (b *Board) forget(matchID string) {
	b.mu.Lock()
	b.generations[matchID]++
	gen := b.generations[matchID]
	delete(b.views, matchID)
	b.mu.Unlock()

	if b.store == nil {
		return
	}
	b.saveMu.Lock()
	defer b.saveMu.Unlock()
	b.saved[matchID] = gen
	if err := b.store.DeleteSnapshot(matchID); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("Failed to delete snapshot", "matchID", matchID, "error", err)
	}
}

// HandleMessage decodes a msgpack snapshot from Pub/Sub and applies it. Stale
// snapshots are not an error.
func (b *Board) HandleMessage(ctx context.Context, data []byte) error {
	var m match.Match
	if err := pubsub.Decode(data, &m); err != nil {
		return err
	}
	_, err := b.Apply(ctx, &m, false)
	if errors.Is(err, ErrStaleSnapshot) {
		return nil
	}
	return err
}

// Table builds the table of any leg of a match from its latest view.
func (b *Board) Table(matchID string, setNumber, legNumber int) (*legtable.Table, error) {
	v, err := b.View(matchID)
	if err != nil {
		return nil, err
	}
	t := legtable.ForMatch(v.Match, setNumber, legNumber, b.policy)
	if t == nil {
		return nil, fmt.Errorf("%w: set %d leg %d", ErrUnknownLeg, setNumber, legNumber)
	}
	return t, nil
}
