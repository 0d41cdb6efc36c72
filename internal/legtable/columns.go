package legtable

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/mauv0809/dart-scoreboard/internal/match"
)

type ColumnKind string

const (
	ColumnRound     ColumnKind = "round"
	ColumnDarts     ColumnKind = "darts"
	ColumnScore     ColumnKind = "score"
	ColumnRemaining ColumnKind = "remaining"
)

type Column struct {
	Key      string     `json:"key"`
	Header   string     `json:"header"`
	Kind     ColumnKind `json:"kind"`
	PlayerID string     `json:"playerId,omitempty"`
}

// Columns lays out a score and a remaining column per player, with the first
// half of the players left of the round/darts columns and the rest right of them.
func Columns(players []match.Player) []Column {
	initials := Initials(players)
	split := (len(players) + 1) / 2

	cols := make([]Column, 0, 2+2*len(players))
	for _, p := range players[:split] {
		cols = append(cols, playerColumns(p.ID, initials[p.ID])...)
	}
	cols = append(cols,
		Column{Key: "round", Header: "Round", Kind: ColumnRound},
		Column{Key: "darts", Header: "Darts", Kind: ColumnDarts},
	)
	for _, p := range players[split:] {
		cols = append(cols, playerColumns(p.ID, initials[p.ID])...)
	}
	return cols
}

func playerColumns(playerID, header string) []Column {
	return []Column{
		{Key: playerID + ".score", Header: header, Kind: ColumnScore, PlayerID: playerID},
		{Key: playerID + ".remaining", Header: "To go", Kind: ColumnRemaining, PlayerID: playerID},
	}
}

// Initials returns up to three upper-case initials per player. Players that
// share initials get a counter suffix in player order: "JD", "JD2".
func Initials(players []match.Player) map[string]string {
	out := make(map[string]string, len(players))
	seen := make(map[string]int, len(players))
	for _, p := range players {
		base := initialsOf(p.Name)
		if base == "" {
			base = initialsOf(p.ID)
		}
		seen[base]++
		if n := seen[base]; n > 1 {
			out[p.ID] = base + strconv.Itoa(n)
		} else {
			out[p.ID] = base
		}
	}
	return out
}

func initialsOf(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(name) {
		if n == 3 {
			break
		}
		for _, r := range word {
			b.WriteRune(unicode.ToUpper(r))
			n++
			break
		}
	}
	return b.String()
}
