package usecase

import (
	"errors"
	"math"
	"testing"

	"github.com/pitchlens/match-engine/internal/domain/clip"
	"github.com/pitchlens/match-engine/internal/domain/event"
	"github.com/pitchlens/match-engine/internal/domain/tactical"
)

func TestShiftEvent_MovesTimesNotFrames(t *testing.T) {
	ev := event.Event{
		ID:          "carry-1",
		Type:        event.TypeCarry,
		StartTime:   fptr(5),
		EndTime:     fptr(9),
		StartFrame:  intptr(125),
		EndFrame:    intptr(225),
		FrameNumber: intptr(150),
	}

	shifted, err := shiftEvent(ev, 2700)
	if err != nil {
		t.Fatalf("shift event: %v", err)
	}
	if *shifted.StartTime != 2705 || *shifted.EndTime != 2709 {
		t.Fatalf("expected times [2705, 2709], got [%v, %v]", *shifted.StartTime, *shifted.EndTime)
	}
	if shifted.Timestamp != nil {
		t.Fatalf("nil timestamp must stay nil, got %v", *shifted.Timestamp)
	}
	if *shifted.StartFrame != 125 || *shifted.EndFrame != 225 || *shifted.FrameNumber != 150 {
		t.Fatalf("frame numbers must not move: %+v", shifted)
	}
	// The input must not be mutated.
	if *ev.StartTime != 5 {
		t.Fatalf("shift mutated the source event, start=%v", *ev.StartTime)
	}
}

func TestShiftEvent_RejectsNonFiniteTimes(t *testing.T) {
	for _, ts := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		ev := event.Event{ID: "pass-1", Type: event.TypePass, Timestamp: fptr(ts)}
		if _, err := shiftEvent(ev, 2700); !errors.Is(err, ErrDataIntegrity) {
			t.Fatalf("timestamp %v: expected ErrDataIntegrity, got %v", ts, err)
		}
	}
}

func TestShiftClip_ShiftsRangeAndSourceEvent(t *testing.T) {
	original := clip.Clip{
		ID:        "clip-1",
		StartTime: 10,
		EndTime:   20,
		SourceEvent: &clip.SourceEventRef{
			EventID:   "shot-1",
			EventType: event.TypeShot,
			Timestamp: 14,
		},
	}

	shifted, err := shiftClip(original, 2700)
	if err != nil {
		t.Fatalf("shift clip: %v", err)
	}
	if shifted.StartTime != 2710 || shifted.EndTime != 2720 {
		t.Fatalf("expected range [2710, 2720], got [%v, %v]", shifted.StartTime, shifted.EndTime)
	}
	if shifted.SourceEvent.Timestamp != 2714 {
		t.Fatalf("expected source event shifted to 2714, got %v", shifted.SourceEvent.Timestamp)
	}
	if original.SourceEvent.Timestamp != 14 {
		t.Fatalf("shift mutated the source clip's event reference")
	}
}

func TestShiftClip_RejectsInvalidRange(t *testing.T) {
	_, err := shiftClip(clip.Clip{ID: "clip-1", StartTime: 20, EndTime: 10}, 2700)
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity for inverted range, got %v", err)
	}
	_, err = shiftClip(clip.Clip{ID: "clip-2", StartTime: math.NaN(), EndTime: 10}, 2700)
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity for NaN start, got %v", err)
	}
}

func TestShiftFormationTimeline_LeavesNonFiniteTimestamps(t *testing.T) {
	tl := tactical.FormationTimeline{
		States: []tactical.FormationState{
			{Formation: "4-4-2", Timestamp: 100},
			{Formation: "4-3-3", Timestamp: math.NaN()},
		},
		Changes: []tactical.FormationChange{
			{FromFormation: "4-4-2", ToFormation: "4-3-3", Timestamp: 200},
		},
	}

	shifted := shiftFormationTimeline(tl, 2700)
	if shifted.States[0].Timestamp != 2800 {
		t.Fatalf("expected finite state shifted to 2800, got %v", shifted.States[0].Timestamp)
	}
	if !math.IsNaN(shifted.States[1].Timestamp) {
		t.Fatalf("non-finite timestamp must pass through, got %v", shifted.States[1].Timestamp)
	}
	if shifted.Changes[0].Timestamp != 2900 {
		t.Fatalf("expected change shifted to 2900, got %v", shifted.Changes[0].Timestamp)
	}
	if tl.States[0].Timestamp != 100 {
		t.Fatalf("shift mutated the source timeline")
	}
}

func TestSortStatesByTime_NaNOrdersAsZero(t *testing.T) {
	states := []tactical.FormationState{
		{Formation: "a", Timestamp: 50},
		{Formation: "b", Timestamp: math.NaN()},
		{Formation: "c", Timestamp: -10},
		{Formation: "d", Timestamp: 5},
	}
	sortStatesByTime(states)

	order := make([]string, 0, len(states))
	for _, s := range states {
		order = append(order, s.Formation)
	}
	// NaN sorts as 0: after -10, before 5 and 50.
	want := []string{"c", "b", "d", "a"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
	if !math.IsNaN(states[1].Timestamp) {
		t.Fatalf("sorting must not rewrite the stored NaN")
	}
}
