package event

import (
	"math"
	"strings"
)

type Type string

const (
	TypePass     Type = "pass"
	TypeCarry    Type = "carry"
	TypeTurnover Type = "turnover"
	TypeShot     Type = "shot"
	TypeSetPiece Type = "set_piece"
)

// Types lists every event collection in a fixed order. Merge and
// persistence code iterates this slice so output ordering is stable.
var Types = []Type{TypePass, TypeCarry, TypeTurnover, TypeShot, TypeSetPiece}

type Team string

const (
	TeamHome    Team = "home"
	TeamAway    Team = "away"
	TeamUnknown Team = "unknown"
)

const (
	PassOutcomeComplete   = "complete"
	PassOutcomeIncomplete = "incomplete"

	ShotResultGoal    = "goal"
	ShotResultSaved   = "saved"
	ShotResultMissed  = "missed"
	ShotResultBlocked = "blocked"
)

// Event is one detected match event. Point events carry Timestamp;
// interval events (carries, some set pieces) carry StartTime/EndTime.
// All times are seconds from the start of the source video until the
// event is merged across halves, after which they are match-relative
// and MergedFromHalves is true. Frame numbers always stay relative to
// the source video and are never shifted.
type Event struct {
	ID               string
	MatchID          string
	VideoID          string
	Type             Type
	Team             Team
	Confidence       float64
	Version          string
	Timestamp        *float64
	StartTime        *float64
	EndTime          *float64
	FrameNumber      *int
	StartFrame       *int
	EndFrame         *int
	MergedFromHalves bool

	Pass     *PassDetail
	Carry    *CarryDetail
	Turnover *TurnoverDetail
	Shot     *ShotDetail
	SetPiece *SetPieceDetail
}

type PassDetail struct {
	KickerID   string
	ReceiverID string
	// Outcome is "complete", "incomplete", or empty when the upstream
	// detector did not judge the outcome.
	Outcome string
}

type CarryDetail struct {
	PlayerID       string
	DistanceMeters float64
}

type TurnoverDetail struct {
	LosingPlayerID  string
	GainingPlayerID string
}

type ShotDetail struct {
	PlayerID string
	Result   string
	OnTarget bool
}

type SetPieceDetail struct {
	Kind    string
	TakerID string
}

func NormalizeTeam(value string) Team {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "home":
		return TeamHome
	case "away":
		return TeamAway
	default:
		return TeamUnknown
	}
}

// IsGoal reports whether the event is a shot that resulted in a goal.
func (e Event) IsGoal() bool {
	return e.Type == TypeShot && e.Shot != nil && e.Shot.Result == ShotResultGoal
}

// IsCompletedPass reports whether the event is a pass that reached a
// teammate. A pass with no recorded outcome is treated as complete.
func (e Event) IsCompletedPass() bool {
	if e.Type != TypePass || e.Pass == nil {
		return false
	}
	return e.Pass.Outcome == "" || e.Pass.Outcome == PassOutcomeComplete
}

// EffectiveTimestamp returns the single point in time that best locates
// the event: Timestamp for point events, StartTime for interval events.
func (e Event) EffectiveTimestamp() (float64, bool) {
	if e.Timestamp != nil {
		return *e.Timestamp, true
	}
	if e.StartTime != nil {
		return *e.StartTime, true
	}
	return 0, false
}

// HasFiniteTimes reports whether every populated time field is a real
// number. Events failing this check cannot be shifted safely.
func (e Event) HasFiniteTimes() bool {
	for _, v := range []*float64{e.Timestamp, e.StartTime, e.EndTime} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return false
		}
	}
	return true
}
