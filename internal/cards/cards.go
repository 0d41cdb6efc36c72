// Package cards derives the per-player summary shown on the player cards for
// every leg of a match.
package cards

import (
	"context"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/dart-scoreboard/internal/checkout"
	"github.com/mauv0809/dart-scoreboard/internal/legtable"
	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/timeline"
	"golang.org/x/sync/errgroup"
)

// maxLookups bounds the concurrent checkout lookups of one pass.
const maxLookups = 8

type Card struct {
	Remaining         int    `json:"remaining"`
	SetsWon           int    `json:"setsWon"`
	LegsWonInSet      int    `json:"legsWonInSet"`
	LastScore         *int   `json:"lastScore"`
	DartsUsed         int    `json:"dartsUsed"`
	SuggestedCheckout string `json:"suggestedCheckout"`
}

type LegCards struct {
	LegNumber int                   `json:"legNumber"`
	Players   match.PlayerMap[Card] `json:"players"`
}

type SetCards struct {
	SetNumber int        `json:"setNumber"`
	Legs      []LegCards `json:"legs"`
}

type Cards struct {
	Sets []SetCards `json:"sets"`
}

// Lookup returns the cards of a leg.
func (c Cards) Lookup(setNumber, legNumber int) (LegCards, bool) {
	for _, s := range c.Sets {
		if s.SetNumber != setNumber {
			continue
		}
		for _, l := range s.Legs {
			if l.LegNumber == legNumber {
				return l, true
			}
		}
	}
	return LegCards{}, false
}

// Transform builds the cards of every leg. Remaining, last score and darts come
// from the leg table, win counters from the timeline. Checkout suggestions are
// looked up once per distinct remaining value, all concurrently, and the result
// is only assembled after every lookup finished. A failed lookup leaves the
// suggestion empty; only cancellation of ctx fails the pass.
func Transform(ctx context.Context, m *match.Match, lookup checkout.Lookup, policy legtable.RemainingPolicy) (Cards, error) {
	out := Cards{Sets: []SetCards{}}
	if m == nil {
		return out, nil
	}
	tl := timeline.FromMatch(m)

	wanted := make(map[int]struct{})
	for _, setNumber := range setNumbers(m) {
		set := m.Set(setNumber)
		if len(set.Legs) == 0 {
			continue
		}
		sc := SetCards{SetNumber: setNumber}
		for _, legNumber := range legNumbers(set) {
			table := legtable.ForMatch(m, setNumber, legNumber, policy)
			snap, _ := tl.Lookup(setNumber, legNumber)

			lc := LegCards{LegNumber: legNumber, Players: match.NewPlayerMap[Card](len(m.Players))}
			for _, p := range m.Players {
				total, _ := table.Totals.Get(p.ID)
				standing, _ := snap.Standings.Get(p.ID)
				lc.Players.Set(p.ID, Card{
					Remaining:    total.Remaining,
					SetsWon:      standing.SetsWon,
					LegsWonInSet: standing.LegsWonInSet,
					LastScore:    total.LastScore,
					DartsUsed:    total.DartsUsed,
				})
				if total.Remaining >= 1 && total.Remaining <= checkout.MaxRemaining {
					wanted[total.Remaining] = struct{}{}
				}
			}
			sc.Legs = append(sc.Legs, lc)
		}
		out.Sets = append(out.Sets, sc)
	}

	suggestions, err := suggest(ctx, lookup, wanted)
	if err != nil {
		return Cards{}, err
	}
	for i := range out.Sets {
		for j := range out.Sets[i].Legs {
			players := &out.Sets[i].Legs[j].Players
			for _, id := range players.Keys() {
				card, _ := players.Get(id)
				card.SuggestedCheckout = suggestions[card.Remaining]
				players.Set(id, card)
			}
		}
	}
	return out, nil
}

func suggest(ctx context.Context, lookup checkout.Lookup, wanted map[int]struct{}) (map[int]string, error) {
	suggestions := make(map[int]string, len(wanted))
	if lookup == nil || len(wanted) == 0 {
		return suggestions, ctx.Err()
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLookups)
	for remaining := range wanted {
		g.Go(func() error {
			c, err := lookup.GetCheckout(gctx, remaining)
			if err != nil {
				log.Warn("Checkout lookup failed", "remaining", remaining, "error", err)
				return nil
			}
			mu.Lock()
			suggestions[remaining] = checkout.Format(c)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return suggestions, nil
}

func setNumbers(m *match.Match) []int {
	out := make([]int, 0, len(m.Sets))
	for _, s := range m.Sets {
		out = append(out, s.SetNumber)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func legNumbers(s *match.Set) []int {
	out := make([]int, 0, len(s.Legs))
	for _, l := range s.Legs {
		out = append(out, l.LegNumber)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
