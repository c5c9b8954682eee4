package assist

import "github.com/pitchlens/match-engine/internal/domain/event"

// Assist links a completed pass to the goal it set up. TimeDelta is
// goal timestamp minus pass timestamp, in seconds, always positive.
type Assist struct {
	ID             string
	MatchID        string
	Version        string
	PassEventID    string
	ShotEventID    string
	TimeDelta      float64
	Confidence     float64
	Team           event.Team
	AssistPlayerID string
	ScorerPlayerID string
}
