package stat

// Record is one computed statistic. Scope is exactly one of: a player
// (PlayerID set), a team (TeamID set), or the whole match (neither).
type Record struct {
	ID               string
	MatchID          string
	VideoID          string
	CalculatorID     string
	PlayerID         string
	TeamID           string
	Version          string
	Value            float64
	Metadata         map[string]any
	MergedFromHalves bool
}

// Key identifies a mergeable stat group. A value type rather than a
// concatenated string, so differently-typed ids can never collide.
type Key struct {
	CalculatorID string
	PlayerID     string
	TeamID       string
}

func (r Record) Key() Key {
	playerID := r.PlayerID
	if playerID == "" {
		playerID = "match"
	}
	teamID := r.TeamID
	if teamID == "" {
		teamID = "none"
	}
	return Key{CalculatorID: r.CalculatorID, PlayerID: playerID, TeamID: teamID}
}

// SameScope reports whether two records describe the same calculator
// and subject and may therefore be merged.
func (r Record) SameScope(other Record) bool {
	return r.CalculatorID == other.CalculatorID &&
		r.PlayerID == other.PlayerID &&
		r.TeamID == other.TeamID
}
