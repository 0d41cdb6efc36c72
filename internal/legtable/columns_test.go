package legtable

import (
	"testing"

	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/stretchr/testify/assert"
)

func keys(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Key
	}
	return out
}

func TestColumns_SplitsPlayersAroundRoundColumns(t *testing.T) {
	t.Run("two players", func(t *testing.T) {
		cols := Columns([]match.Player{{ID: "a", Name: "Anna"}, {ID: "b", Name: "Bo"}})
		assert.Equal(t, []string{"a.score", "a.remaining", "round", "darts", "b.score", "b.remaining"}, keys(cols))
	})

	t.Run("three players put the extra one left", func(t *testing.T) {
		cols := Columns([]match.Player{{ID: "a"}, {ID: "b"}, {ID: "c"}})
		assert.Equal(t, []string{
			"a.score", "a.remaining", "b.score", "b.remaining",
			"round", "darts",
			"c.score", "c.remaining",
		}, keys(cols))
	})

	t.Run("single player", func(t *testing.T) {
		cols := Columns([]match.Player{{ID: "a"}})
		assert.Equal(t, []string{"a.score", "a.remaining", "round", "darts"}, keys(cols))
	})

	t.Run("no players", func(t *testing.T) {
		assert.Equal(t, []string{"round", "darts"}, keys(Columns(nil)))
	})
}

func TestInitials_Deduplicates(t *testing.T) {
	got := Initials([]match.Player{
		{ID: "1", Name: "John Doe"},
		{ID: "2", Name: "jane doe"},
		{ID: "3", Name: "Anna Maria de Vries"},
		{ID: "4", Name: ""},
		{ID: "5", Name: "Jim Dean"},
	})
	assert.Equal(t, map[string]string{
		"1": "JD",
		"2": "JD2",
		"3": "AMD",
		"4": "4",
		"5": "JD3",
	}, got)
}

func TestColumns_HeadersUseInitials(t *testing.T) {
	cols := Columns([]match.Player{{ID: "a", Name: "Anna Berg"}, {ID: "b", Name: "Alex Brown"}})
	assert.Equal(t, "AB", cols[0].Header)
	assert.Equal(t, "AB2", cols[4].Header)
	assert.Equal(t, ColumnRemaining, cols[1].Kind)
	assert.Equal(t, "a", cols[1].PlayerID)
}
