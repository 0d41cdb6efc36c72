// Package timeline replays the legs and sets of a match to produce the
// standings as they stood at the end of every leg.
package timeline

import (
	"slices"

	"github.com/mauv0809/dart-scoreboard/internal/match"
)

// Standing is a player's scoreboard position at a point in time.
type Standing struct {
	SetsWon      int `json:"setsWon"`
	LegsWonInSet int `json:"legsWonInSet"`
}

// Snapshot holds every player's standing at the end of one leg.
type Snapshot struct {
	SetNumber int                       `json:"setNumber"`
	LegNumber int                       `json:"legNumber"`
	Standings match.PlayerMap[Standing] `json:"standings"`
}

type SetTimeline struct {
	SetNumber int        `json:"setNumber"`
	Legs      []Snapshot `json:"legs"`
}

// Timeline is ordered by set number, then leg number.
type Timeline struct {
	Sets []SetTimeline `json:"sets"`
}

// accumulator is the state carried from one leg to the next.
type accumulator struct {
	setNumber int
	standings match.PlayerMap[Standing]
}

// FromMatch reconstructs the timeline of a match. A nil match yields an empty timeline.
func FromMatch(m *match.Match) Timeline {
	if m == nil {
		return Timeline{}
	}
	return Reconstruct(m.Sets, m.Players)
}

// Reconstruct folds sets and legs in ascending order. Each leg starts from the
// previous leg's standings; legsWonInSet resets when the set changes and the
// leg winner gets one more leg. Once a set has a final result, players that won
// or drew it are credited a set on that set's last snapshot.
func Reconstruct(sets []match.SetEntry, players []match.Player) Timeline {
	acc := accumulator{standings: match.NewPlayerMap[Standing](len(players))}
	for _, p := range players {
		acc.standings.Set(p.ID, Standing{})
	}
	if len(sets) > 0 {
		acc.setNumber = sortedSets(sets)[0].SetNumber
	}

	out := Timeline{Sets: make([]SetTimeline, 0, len(sets))}
	for _, entry := range sortedSets(sets) {
		st, next := foldSet(acc, entry)
		acc = next
		if len(st.Legs) == 0 {
			continue
		}
		out.Sets = append(out.Sets, st)
	}
	return out
}

func foldSet(acc accumulator, entry match.SetEntry) (SetTimeline, accumulator) {
	st := SetTimeline{SetNumber: entry.SetNumber}
	for _, leg := range sortedLegs(entry.Set.Legs) {
		var snap Snapshot
		snap, acc = foldLeg(acc, entry.SetNumber, leg)
		st.Legs = append(st.Legs, snap)
	}
	if len(st.Legs) == 0 || !entry.Set.IsFinalized() {
		return st, acc
	}

	last := st.Legs[len(st.Legs)-1]
	credited := last.Standings.Clone()
	credited.Each(func(id string, s Standing) {
		r, ok := entry.Set.Result[id]
		if !ok || r == nil {
			return
		}
		if *r == match.ResultWin || *r == match.ResultDraw {
			s.SetsWon++
			credited.Set(id, s)
		}
	})
	last.Standings = credited
	st.Legs[len(st.Legs)-1] = last
	acc.standings = credited
	return st, acc
}

func foldLeg(acc accumulator, setNumber int, entry match.LegEntry) (Snapshot, accumulator) {
	standings := acc.standings.Clone()
	if acc.setNumber != setNumber {
		standings.Each(func(id string, s Standing) {
			s.LegsWonInSet = 0
			standings.Set(id, s)
		})
	}
	if w := entry.Leg.Winner; w != nil {
		if s, ok := standings.Get(*w); ok {
			s.LegsWonInSet++
			standings.Set(*w, s)
		}
	}
	snap := Snapshot{SetNumber: setNumber, LegNumber: entry.LegNumber, Standings: standings}
	return snap, accumulator{setNumber: setNumber, standings: standings}
}

func sortedSets(sets []match.SetEntry) []match.SetEntry {
	out := slices.Clone(sets)
	slices.SortStableFunc(out, func(a, b match.SetEntry) int { return a.SetNumber - b.SetNumber })
	return out
}

func sortedLegs(legs []match.LegEntry) []match.LegEntry {
	out := slices.Clone(legs)
	slices.SortStableFunc(out, func(a, b match.LegEntry) int { return a.LegNumber - b.LegNumber })
	return out
}

// Lookup returns the snapshot taken at the end of the given leg.
func (t Timeline) Lookup(setNumber, legNumber int) (Snapshot, bool) {
	for _, st := range t.Sets {
		if st.SetNumber != setNumber {
			continue
		}
		for _, snap := range st.Legs {
			if snap.LegNumber == legNumber {
				return snap, true
			}
		}
	}
	return Snapshot{}, false
}

// Last returns the most recent snapshot.
func (t Timeline) Last() (Snapshot, bool) {
	if len(t.Sets) == 0 {
		return Snapshot{}, false
	}
	legs := t.Sets[len(t.Sets)-1].Legs
	return legs[len(legs)-1], true
}

// Len returns the number of snapshots.
func (t Timeline) Len() int {
	n := 0
	for _, st := range t.Sets {
		n += len(st.Legs)
	}
	return n
}
