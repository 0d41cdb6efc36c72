package match

// Accessors are linear scans; sets, legs and rounds never grow past a few dozen
// entries. All of them accept nil receivers and report "not found" as nil.

// Set returns the set with the given number.
func (m *Match) Set(setNumber int) *Set {
	if m == nil {
		return nil
	}
	for i := range m.Sets {
		if m.Sets[i].SetNumber == setNumber {
			return &m.Sets[i].Set
		}
	}
	return nil
}

// Leg returns the leg with the given number within the set.
func (s *Set) Leg(legNumber int) *Leg {
	if s == nil {
		return nil
	}
	for i := range s.Legs {
		if s.Legs[i].LegNumber == legNumber {
			return &s.Legs[i].Leg
		}
	}
	return nil
}

// Round returns the round with the given number within the leg.
func (l *Leg) Round(roundNumber int) *Round {
	if l == nil {
		return nil
	}
	for i := range l.Rounds {
		if l.Rounds[i].RoundNumber == roundNumber {
			return &l.Rounds[i].Round
		}
	}
	return nil
}

// CurrentSet returns the set referenced by the match progress.
func (m *Match) CurrentSet() *Set {
	if m == nil || m.MatchProgress.CurrentSet == nil {
		return nil
	}
	return m.Set(*m.MatchProgress.CurrentSet)
}

// CurrentLeg returns the leg referenced by the match progress.
func (m *Match) CurrentLeg() *Leg {
	if m == nil || m.MatchProgress.CurrentLeg == nil {
		return nil
	}
	return m.CurrentSet().Leg(*m.MatchProgress.CurrentLeg)
}

// CurrentRound returns the round referenced by the match progress.
func (m *Match) CurrentRound() *Round {
	if m == nil || m.MatchProgress.CurrentRound == nil {
		return nil
	}
	return m.CurrentLeg().Round(*m.MatchProgress.CurrentRound)
}

// Player returns the player with the given id.
func (m *Match) Player(id string) *Player {
	if m == nil {
		return nil
	}
	for i := range m.Players {
		if m.Players[i].ID == id {
			return &m.Players[i]
		}
	}
	return nil
}

// CurrentThrower returns the player whose turn it is.
func (m *Match) CurrentThrower() *Player {
	if m == nil || m.MatchProgress.CurrentThrower == nil {
		return nil
	}
	return m.Player(*m.MatchProgress.CurrentThrower)
}

// PlayerIDs returns the player ids in match order.
func (m *Match) PlayerIDs() []string {
	if m == nil {
		return nil
	}
	ids := make([]string, len(m.Players))
	for i, p := range m.Players {
		ids[i] = p.ID
	}
	return ids
}

// RemainingFor returns x01 minus every score the player recorded in the leg.
func (m *Match) RemainingFor(leg *Leg, playerID string) int {
	if m == nil {
		return 0
	}
	remaining := m.MatchSettings.X01
	if leg == nil {
		return remaining
	}
	for _, r := range leg.Rounds {
		if s, ok := r.Round.Scores[playerID]; ok {
			remaining -= s.Score
		}
	}
	return remaining
}

// LastScore returns the player's most recent score in the leg, scanning backward.
func (l *Leg) LastScore(playerID string) *int {
	if l == nil {
		return nil
	}
	for i := len(l.Rounds) - 1; i >= 0; i-- {
		if s, ok := l.Rounds[i].Round.Scores[playerID]; ok {
			score := s.Score
			return &score
		}
	}
	return nil
}

// IsFinished reports whether the leg has a recorded winner.
func (l *Leg) IsFinished() bool {
	return l != nil && l.Winner != nil
}

// IsFinalized reports whether every player in the set has a result.
func (s *Set) IsFinalized() bool {
	if s == nil || len(s.Result) == 0 {
		return false
	}
	for _, r := range s.Result {
		if r == nil {
			return false
		}
	}
	return true
}
