package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/pitchlens/match-engine/internal/domain/clip"
	"github.com/pitchlens/match-engine/internal/domain/event"
	"github.com/pitchlens/match-engine/internal/domain/summary"
	"github.com/pitchlens/match-engine/internal/domain/tactical"
)

// shiftEvent returns a copy of ev with every populated time field moved
// by offset seconds. Frame numbers stay untouched: they index the
// source video, not the match timeline. A non-finite time field cannot
// be shifted safely and is a data-integrity error.
func shiftEvent(ev event.Event, offset float64) (event.Event, error) {
	if !ev.HasFiniteTimes() {
		return event.Event{}, fmt.Errorf("%w: event %s has a non-finite time field", ErrDataIntegrity, ev.ID)
	}
	ev.Timestamp = shiftTimePtr(ev.Timestamp, offset)
	ev.StartTime = shiftTimePtr(ev.StartTime, offset)
	ev.EndTime = shiftTimePtr(ev.EndTime, offset)
	return ev, nil
}

func shiftClip(c clip.Clip, offset float64) (clip.Clip, error) {
	if err := c.Validate(); err != nil {
		return clip.Clip{}, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}
	c.StartTime += offset
	c.EndTime += offset
	if c.SourceEvent != nil {
		ref := *c.SourceEvent
		ref.Timestamp += offset
		c.SourceEvent = &ref
	}
	return c, nil
}

// shiftKeyMoments moves finite timestamps by offset. Non-finite values
// pass through unchanged so the caller can still sort them NaN-safely
// without inventing a timestamp.
func shiftKeyMoments(moments []summary.KeyMoment, offset float64) []summary.KeyMoment {
	out := make([]summary.KeyMoment, len(moments))
	for i, m := range moments {
		if isFinite(m.Timestamp) {
			m.Timestamp += offset
		}
		out[i] = m
	}
	return out
}

func shiftFormationTimeline(tl tactical.FormationTimeline, offset float64) tactical.FormationTimeline {
	states := make([]tactical.FormationState, len(tl.States))
	for i, s := range tl.States {
		if isFinite(s.Timestamp) {
			s.Timestamp += offset
		}
		states[i] = s
	}
	changes := make([]tactical.FormationChange, len(tl.Changes))
	for i, c := range tl.Changes {
		if isFinite(c.Timestamp) {
			c.Timestamp += offset
		}
		changes[i] = c
	}
	tl.States = states
	tl.Changes = changes
	return tl
}

// sortableTime treats any non-finite timestamp as 0 for ordering only;
// the stored value is never rewritten.
func sortableTime(ts float64) float64 {
	if !isFinite(ts) {
		return 0
	}
	return ts
}

func sortStatesByTime(states []tactical.FormationState) {
	sort.SliceStable(states, func(i, j int) bool {
		return sortableTime(states[i].Timestamp) < sortableTime(states[j].Timestamp)
	})
}

func sortChangesByTime(changes []tactical.FormationChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		return sortableTime(changes[i].Timestamp) < sortableTime(changes[j].Timestamp)
	})
}

func sortKeyMomentsByTime(moments []summary.KeyMoment) {
	sort.SliceStable(moments, func(i, j int) bool {
		return sortableTime(moments[i].Timestamp) < sortableTime(moments[j].Timestamp)
	})
}

func shiftTimePtr(v *float64, offset float64) *float64 {
	if v == nil {
		return nil
	}
	shifted := *v + offset
	return &shifted
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
