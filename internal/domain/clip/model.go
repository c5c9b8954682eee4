package clip

import (
	"fmt"
	"math"

	"github.com/pitchlens/match-engine/internal/domain/event"
)

type Reason string

const (
	ReasonMotionPeak      Reason = "motion_peak"
	ReasonAudioPeak       Reason = "audio_peak"
	ReasonManual          Reason = "manual"
	ReasonEventSupplement Reason = "event_supplement"
	ReasonOther           Reason = "other"
)

// Clip is highlight-clip metadata over a time range of the source
// video (match-relative once merged). Frame extraction happens
// downstream; this record only describes the window.
type Clip struct {
	ID               string
	MatchID          string
	VideoID          string
	Version          string
	StartTime        float64
	EndTime          float64
	Reason           Reason
	Labels           map[string]any
	SourceEvent      *SourceEventRef
	MergedFromHalves bool
}

// SourceEventRef denormalizes the event a supplementary clip was cut
// for, so the clip stays interpretable without a join.
type SourceEventRef struct {
	EventID    string
	EventType  event.Type
	Timestamp  float64
	Confidence float64
	Team       event.Team
}

func (c Clip) Validate() error {
	if math.IsNaN(c.StartTime) || math.IsInf(c.StartTime, 0) ||
		math.IsNaN(c.EndTime) || math.IsInf(c.EndTime, 0) {
		return fmt.Errorf("clip %s has non-finite time range", c.ID)
	}
	if c.StartTime >= c.EndTime {
		return fmt.Errorf("clip %s has invalid range [%v, %v]", c.ID, c.StartTime, c.EndTime)
	}
	return nil
}

// Covers reports whether ts falls inside the clip range widened by
// tolerance seconds on both sides.
func (c Clip) Covers(ts, tolerance float64) bool {
	return ts >= c.StartTime-tolerance && ts <= c.EndTime+tolerance
}
