// Package legtable turns the rounds of a leg into display rows with running
// darts and remaining columns.
package legtable

import (
	"slices"

	"github.com/mauv0809/dart-scoreboard/internal/match"
)

const dartsPerRound = 3

// Cell is one player's entry in a round. Score is nil when the player has not
// thrown in that round yet; Remaining then carries the previous value.
type Cell struct {
	Score         *int `json:"score"`
	Remaining     int  `json:"remaining"`
	DoublesMissed *int `json:"doublesMissed,omitempty"`
}

type Row struct {
	RoundNumber    int                   `json:"roundNumber"`
	DartsThrown    int                   `json:"dartsThrown"`
	Scores         match.PlayerMap[Cell] `json:"scores"`
	CurrentThrower *string               `json:"currentThrower,omitempty"`
}

// PlayerTotal summarizes a player's leg so far.
type PlayerTotal struct {
	Remaining int  `json:"remaining"`
	LastScore *int `json:"lastScore"`
	DartsUsed int  `json:"dartsUsed"`
}

type Table struct {
	SetNumber int                          `json:"setNumber"`
	LegNumber int                          `json:"legNumber"`
	Columns   []Column                     `json:"columns"`
	Rows      []Row                        `json:"rows"`
	Totals    match.PlayerMap[PlayerTotal] `json:"totals"`
}

// Params carries everything about the leg's context that Build needs.
type Params struct {
	SetNumber int
	LegNumber int
	X01       int
	Players   []match.Player
	Progress  match.MatchProgress
	Policy    RemainingPolicy
}

// Build derives the table of a leg. Every round counts three darts except the
// last round of a won leg, which counts checkoutDartsUsed. A nil leg yields nil.
func Build(leg *match.Leg, p Params) *Table {
	if leg == nil {
		return nil
	}
	policy := p.Policy
	if policy == nil {
		policy = TrustBackend{}
	}

	rounds := slices.Clone(leg.Rounds)
	slices.SortStableFunc(rounds, func(a, b match.RoundEntry) int { return a.RoundNumber - b.RoundNumber })

	totals := match.NewPlayerMap[PlayerTotal](len(p.Players))
	for _, pl := range p.Players {
		totals.Set(pl.ID, PlayerTotal{Remaining: p.X01})
	}

	t := &Table{
		SetNumber: p.SetNumber,
		LegNumber: p.LegNumber,
		Columns:   Columns(p.Players),
		Rows:      make([]Row, 0, len(rounds)),
	}
	darts := 0
	for i, r := range rounds {
		final := i == len(rounds)-1
		darts += roundDarts(leg, final)

		row := Row{
			RoundNumber: r.RoundNumber,
			DartsThrown: darts,
			Scores:      match.NewPlayerMap[Cell](len(p.Players)),
		}
		for _, pl := range p.Players {
			total, _ := totals.Get(pl.ID)
			s, ok := r.Round.Scores[pl.ID]
			if !ok {
				row.Scores.Set(pl.ID, Cell{Remaining: total.Remaining})
				continue
			}
			score := s.Score
			total.Remaining = policy.Remaining(total.Remaining, s)
			total.LastScore = &score
			total.DartsUsed += playerRoundDarts(leg, pl.ID, final)
			totals.Set(pl.ID, total)
			row.Scores.Set(pl.ID, Cell{Score: &score, Remaining: total.Remaining, DoublesMissed: s.DoublesMissed})
		}
		if isActive(p, r.RoundNumber) {
			thrower := *p.Progress.CurrentThrower
			row.CurrentThrower = &thrower
		}
		t.Rows = append(t.Rows, row)
	}
	t.Totals = totals
	return t
}

func roundDarts(leg *match.Leg, final bool) int {
	if final && leg.Winner != nil && leg.CheckoutDartsUsed != nil {
		return *leg.CheckoutDartsUsed
	}
	return dartsPerRound
}

func playerRoundDarts(leg *match.Leg, playerID string, final bool) int {
	if final && leg.Winner != nil && *leg.Winner == playerID && leg.CheckoutDartsUsed != nil {
		return *leg.CheckoutDartsUsed
	}
	return dartsPerRound
}

func isActive(p Params, roundNumber int) bool {
	pr := p.Progress
	if pr.CurrentSet == nil || pr.CurrentLeg == nil || pr.CurrentRound == nil || pr.CurrentThrower == nil {
		return false
	}
	return *pr.CurrentSet == p.SetNumber && *pr.CurrentLeg == p.LegNumber && *pr.CurrentRound == roundNumber
}

// ForMatch builds the table for a leg of the match, or nil when the match,
// set or leg does not exist.
func ForMatch(m *match.Match, setNumber, legNumber int, policy RemainingPolicy) *Table {
	leg := m.Set(setNumber).Leg(legNumber)
	if leg == nil {
		return nil
	}
	return Build(leg, Params{
		SetNumber: setNumber,
		LegNumber: legNumber,
		X01:       m.MatchSettings.X01,
		Players:   m.Players,
		Progress:  m.MatchProgress,
		Policy:    policy,
	})
}

// Current builds the table of the leg in play.
func Current(m *match.Match, policy RemainingPolicy) *Table {
	if m == nil || m.MatchProgress.CurrentSet == nil || m.MatchProgress.CurrentLeg == nil {
		return nil
	}
	return ForMatch(m, *m.MatchProgress.CurrentSet, *m.MatchProgress.CurrentLeg, policy)
}
