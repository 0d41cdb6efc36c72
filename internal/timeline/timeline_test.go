package timeline_test

import (
	"testing"

	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/match/matchtest"
	"github.com/mauv0809/dart-scoreboard/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoSetMatch: A wins legs 1 and 2 of set 1 and the set, set 2 leg 1 is in play.
func twoSetMatch() *match.Match {
	m := matchtest.NewMatch(501, "A", "B")
	matchtest.AddLeg(m, 1, nil, "A", 3)
	matchtest.AddLeg(m, 1, nil, "A", 2)
	matchtest.FinishSet(m, 1, map[string]match.ResultType{"A": match.ResultWin, "B": match.ResultLose})
	matchtest.AddLeg(m, 2, matchtest.Rounds(501, map[string]int{"A": 60, "B": 60}), "", 0)
	return m
}

func standing(t *testing.T, tl timeline.Timeline, set, leg int, player string) timeline.Standing {
	t.Helper()
	snap, ok := tl.Lookup(set, leg)
	require.True(t, ok, "snapshot %d/%d should exist", set, leg)
	s, ok := snap.Standings.Get(player)
	require.True(t, ok, "player %s should have a standing", player)
	return s
}

func TestReconstruct_TwoSetScenario(t *testing.T) {
	tl := timeline.FromMatch(twoSetMatch())

	require.Len(t, tl.Sets, 2)
	assert.Equal(t, timeline.Standing{SetsWon: 0, LegsWonInSet: 1}, standing(t, tl, 1, 1, "A"))
	assert.Equal(t, timeline.Standing{SetsWon: 1, LegsWonInSet: 2}, standing(t, tl, 1, 2, "A"), "set credit attaches to the last leg of the set")
	assert.Equal(t, timeline.Standing{SetsWon: 0, LegsWonInSet: 0}, standing(t, tl, 1, 2, "B"))
	assert.Equal(t, timeline.Standing{SetsWon: 1, LegsWonInSet: 0}, standing(t, tl, 2, 1, "A"))
	assert.Equal(t, timeline.Standing{SetsWon: 0, LegsWonInSet: 0}, standing(t, tl, 2, 1, "B"))
}

func TestReconstruct_CarryForwardProperties(t *testing.T) {
	m := matchtest.NewMatch(301, "A", "B", "C")
	matchtest.AddLeg(m, 1, nil, "B", 1)
	matchtest.AddLeg(m, 1, nil, "C", 3)
	matchtest.AddLeg(m, 1, nil, "B", 2)
	matchtest.FinishSet(m, 1, map[string]match.ResultType{"A": match.ResultLose, "B": match.ResultWin, "C": match.ResultLose})
	matchtest.AddLeg(m, 2, nil, "A", 2)
	matchtest.AddLeg(m, 2, nil, "A", 2)
	matchtest.FinishSet(m, 2, map[string]match.ResultType{"A": match.ResultWin, "B": match.ResultLose, "C": match.ResultLose})
	matchtest.AddLeg(m, 3, nil, "C", 3)

	tl := timeline.FromMatch(m)
	assert.Equal(t, 6, tl.Len())

	lastSetsWon := map[string]int{}
	for _, st := range tl.Sets {
		for i, snap := range st.Legs {
			assert.Equal(t, []string{"A", "B", "C"}, snap.Standings.Keys(), "player order follows the match")
			snap.Standings.Each(func(id string, s timeline.Standing) {
				assert.GreaterOrEqual(t, s.SetsWon, lastSetsWon[id], "setsWon never decreases")
				lastSetsWon[id] = s.SetsWon
				if i == 0 {
					assert.LessOrEqual(t, s.LegsWonInSet, 1, "first leg of a set starts from zero")
				}
			})
		}
	}

	assert.Equal(t, timeline.Standing{SetsWon: 1, LegsWonInSet: 0}, standing(t, tl, 3, 1, "A"))
	assert.Equal(t, timeline.Standing{SetsWon: 1, LegsWonInSet: 0}, standing(t, tl, 3, 1, "B"))
	assert.Equal(t, timeline.Standing{SetsWon: 0, LegsWonInSet: 1}, standing(t, tl, 3, 1, "C"))
}

func TestReconstruct_DrawCreditsBothPlayers(t *testing.T) {
	m := matchtest.NewMatch(501, "A", "B")
	matchtest.AddLeg(m, 1, nil, "A", 3)
	matchtest.AddLeg(m, 1, nil, "B", 3)
	matchtest.FinishSet(m, 1, map[string]match.ResultType{"A": match.ResultDraw, "B": match.ResultDraw})

	tl := timeline.FromMatch(m)
	assert.Equal(t, 1, standing(t, tl, 1, 2, "A").SetsWon)
	assert.Equal(t, 1, standing(t, tl, 1, 2, "B").SetsWon)
	assert.Equal(t, 0, standing(t, tl, 1, 1, "A").SetsWon)
}

func TestReconstruct_UnfinalizedSetGivesNoCredit(t *testing.T) {
	m := matchtest.NewMatch(501, "A", "B")
	matchtest.AddLeg(m, 1, nil, "A", 3)
	matchtest.AddLeg(m, 1, nil, "A", 3)
	m.Set(1).Result = map[string]*match.ResultType{"A": nil, "B": nil}

	tl := timeline.FromMatch(m)
	assert.Equal(t, timeline.Standing{SetsWon: 0, LegsWonInSet: 2}, standing(t, tl, 1, 2, "A"))
}

func TestReconstruct_EdgeCases(t *testing.T) {
	t.Run("nil match gives empty timeline", func(t *testing.T) {
		tl := timeline.FromMatch(nil)
		assert.Empty(t, tl.Sets)
		_, ok := tl.Last()
		assert.False(t, ok)
	})

	t.Run("set without legs is skipped", func(t *testing.T) {
		m := matchtest.NewMatch(501, "A", "B")
		matchtest.AddLeg(m, 1, nil, "A", 3)
		m.Sets = append(m.Sets, match.SetEntry{SetNumber: 2})
		tl := timeline.FromMatch(m)
		require.Len(t, tl.Sets, 1)
		_, ok := tl.Lookup(2, 1)
		assert.False(t, ok)
	})

	t.Run("out of order input is replayed in numeric order", func(t *testing.T) {
		ordered := twoSetMatch()
		shuffled := twoSetMatch()
		shuffled.Sets[0], shuffled.Sets[1] = shuffled.Sets[1], shuffled.Sets[0]
		legs := shuffled.Set(1).Legs
		legs[0], legs[1] = legs[1], legs[0]

		assert.Equal(t, timeline.FromMatch(ordered), timeline.FromMatch(shuffled))
		assert.Equal(t, 2, shuffled.Sets[0].SetNumber, "input is not reordered in place")
	})

	t.Run("unknown leg winner is ignored", func(t *testing.T) {
		m := matchtest.NewMatch(501, "A", "B")
		matchtest.AddLeg(m, 1, nil, "ghost", 3)
		tl := timeline.FromMatch(m)
		assert.Equal(t, timeline.Standing{}, standing(t, tl, 1, 1, "A"))
	})
}

func TestReconstruct_IsIdempotent(t *testing.T) {
	m := twoSetMatch()
	first := timeline.FromMatch(m)
	second := timeline.FromMatch(m)
	assert.Equal(t, first, second)

	last, ok := second.Last()
	require.True(t, ok)
	assert.Equal(t, 2, last.SetNumber)
	assert.Equal(t, 1, last.LegNumber)
}

func TestEventsAndDiff(t *testing.T) {
	before := matchtest.NewMatch(501, "A", "B")
	matchtest.AddLeg(before, 1, nil, "A", 3)
	matchtest.AddLeg(before, 1, nil, "", 0)

	after := twoSetMatch()

	events := timeline.FromMatch(after).Events()
	assert.Equal(t, []timeline.Event{
		{Kind: timeline.LegWon, SetNumber: 1, LegNumber: 1, PlayerID: "A"},
		{Kind: timeline.LegWon, SetNumber: 1, LegNumber: 2, PlayerID: "A"},
		{Kind: timeline.SetWon, SetNumber: 1, LegNumber: 2, PlayerID: "A"},
	}, events)

	fresh := timeline.Diff(timeline.FromMatch(before), timeline.FromMatch(after))
	assert.Equal(t, []timeline.Event{
		{Kind: timeline.LegWon, SetNumber: 1, LegNumber: 2, PlayerID: "A"},
		{Kind: timeline.SetWon, SetNumber: 1, LegNumber: 2, PlayerID: "A"},
	}, fresh)

	assert.Empty(t, timeline.Diff(timeline.FromMatch(after), timeline.FromMatch(after)))
}
