// Package matchtest builds Match snapshots for tests.
package matchtest

import (
	"fmt"

	"github.com/mauv0809/dart-scoreboard/internal/match"
)

func IntPtr(v int) *int { return &v }

func StrPtr(s string) *string { return &s }

func ResultPtr(r match.ResultType) *match.ResultType { return &r }

// NewMatch returns an in-play match with the given x01 start value and players.
func NewMatch(x01 int, playerIDs ...string) *match.Match {
	m := &match.Match{
		ID:     "match-1",
		Status: match.StatusInPlay,
		MatchSettings: match.MatchSettings{
			X01:    x01,
			BestOf: match.BestOf{Type: match.BestOfSets, Sets: 3, Legs: 3},
		},
	}
	for _, id := range playerIDs {
		m.Players = append(m.Players, match.Player{
			ID:   id,
			Name: fmt.Sprintf("Player %s", id),
			Type: match.PlayerTypeHuman,
		})
	}
	return m
}

// Rounds turns per-round score maps into round entries, filling in the
// backend-computed remaining value and three darts per turn.
func Rounds(x01 int, turns ...map[string]int) []match.RoundEntry {
	remaining := make(map[string]int)
	rounds := make([]match.RoundEntry, 0, len(turns))
	for i, turn := range turns {
		scores := make(map[string]match.RoundScore, len(turn))
		for pid, score := range turn {
			prev, ok := remaining[pid]
			if !ok {
				prev = x01
			}
			remaining[pid] = prev - score
			scores[pid] = match.RoundScore{
				Score:         score,
				Remaining:     IntPtr(prev - score),
				DartsUsed:     3,
				DoublesMissed: IntPtr(0),
			}
		}
		rounds = append(rounds, match.RoundEntry{
			RoundNumber: i + 1,
			Round:       match.Round{Scores: scores},
		})
	}
	return rounds
}

// AddLeg appends a leg to the given set, creating the set when needed. An empty
// winner leaves the leg unfinished.
func AddLeg(m *match.Match, setNumber int, rounds []match.RoundEntry, winner string, checkoutDarts int) *match.Leg {
	set := m.Set(setNumber)
	if set == nil {
		m.Sets = append(m.Sets, match.SetEntry{
			SetNumber: setNumber,
			Set:       match.Set{ThrowsFirst: m.Players[0].ID},
		})
		set = &m.Sets[len(m.Sets)-1].Set
	}
	leg := match.Leg{Rounds: rounds, ThrowsFirst: m.Players[0].ID}
	if winner != "" {
		leg.Winner = StrPtr(winner)
		leg.CheckoutDartsUsed = IntPtr(checkoutDarts)
	}
	set.Legs = append(set.Legs, match.LegEntry{LegNumber: len(set.Legs) + 1, Leg: leg})
	return &set.Legs[len(set.Legs)-1].Leg
}

// FinishSet records a final result for every player in the set.
func FinishSet(m *match.Match, setNumber int, results map[string]match.ResultType) {
	set := m.Set(setNumber)
	if set == nil {
		return
	}
	set.Result = make(map[string]*match.ResultType, len(results))
	for pid, r := range results {
		set.Result[pid] = ResultPtr(r)
	}
}

// SetProgress points the match progress at the given turn.
func SetProgress(m *match.Match, set, leg, round int, thrower string) {
	m.MatchProgress = match.MatchProgress{
		CurrentSet:     IntPtr(set),
		CurrentLeg:     IntPtr(leg),
		CurrentRound:   IntPtr(round),
		CurrentThrower: StrPtr(thrower),
	}
}
