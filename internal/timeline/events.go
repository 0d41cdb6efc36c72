package timeline

// EventKind says what a timeline event records.
type EventKind string

const (
	LegWon EventKind = "LEG_WON"
	SetWon EventKind = "SET_WON"
)

// Event is a leg or set credit that shows up in a snapshot.
type Event struct {
	Kind      EventKind `json:"kind"`
	SetNumber int       `json:"setNumber"`
	LegNumber int       `json:"legNumber"`
	PlayerID  string    `json:"playerId"`
}

// Events lists, in timeline order, every leg win and set credit that the
// snapshots record. Both are recovered by comparing a snapshot with the one
// before it.
func (t Timeline) Events() []Event {
	var events []Event
	var prev *Snapshot
	for _, st := range t.Sets {
		for i := range st.Legs {
			snap := st.Legs[i]
			snap.Standings.Each(func(id string, cur Standing) {
				var before Standing
				if prev != nil {
					before, _ = prev.Standings.Get(id)
					if prev.SetNumber != snap.SetNumber {
						before.LegsWonInSet = 0
					}
				}
				if cur.LegsWonInSet > before.LegsWonInSet {
					events = append(events, Event{Kind: LegWon, SetNumber: snap.SetNumber, LegNumber: snap.LegNumber, PlayerID: id})
				}
				if cur.SetsWon > before.SetsWon {
					events = append(events, Event{Kind: SetWon, SetNumber: snap.SetNumber, LegNumber: snap.LegNumber, PlayerID: id})
				}
			})
			prev = &st.Legs[i]
		}
	}
	return events
}

// Diff returns the events of next that prev does not have yet.
func Diff(prev, next Timeline) []Event {
	seen := make(map[Event]struct{})
	for _, e := range prev.Events() {
		seen[e] = struct{}{}
	}
	var fresh []Event
	for _, e := range next.Events() {
		if _, ok := seen[e]; !ok {
			fresh = append(fresh, e)
		}
	}
	return fresh
}
