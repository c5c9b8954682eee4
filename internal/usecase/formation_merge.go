package usecase

import (
	"github.com/pitchlens/match-engine/internal/domain/tactical"
)

// mergeTactical combines both halves' tactical analyses into one match
// analysis: shifted concatenation of the overall timeline, per-phase
// merges where both halves produced phase data, and a half comparison.
func mergeTactical(matchID, version string, firstHalf, secondHalf tactical.Analysis, offset float64) tactical.Analysis {
	merged := tactical.Analysis{
		MatchID:          matchID,
		Version:          version,
		Overall:          mergeFormationTimelines(firstHalf.Overall, secondHalf.Overall, offset),
		MergedFromHalves: true,
	}

	merged.HalfComparison = &tactical.HalfComparison{
		FirstHalfDominant:     firstHalf.Overall.DominantFormation,
		SecondHalfDominant:    secondHalf.Overall.DominantFormation,
		FormationChanged:      firstHalf.Overall.DominantFormation != secondHalf.Overall.DominantFormation,
		FirstHalfVariability:  firstHalf.Overall.FormationVariability,
		SecondHalfVariability: secondHalf.Overall.FormationVariability,
	}

	if len(firstHalf.Phases) == 0 && len(secondHalf.Phases) == 0 {
		return merged
	}

	merged.Phases = make(map[tactical.Phase]tactical.FormationTimeline, len(tactical.Phases))
	for _, phase := range tactical.Phases {
		firstTL, firstOK := firstHalf.Phases[phase]
		secondTL, secondOK := secondHalf.Phases[phase]
		switch {
		case firstOK && secondOK:
			merged.Phases[phase] = mergeFormationTimelines(firstTL, secondTL, offset)
		case firstOK:
			merged.Phases[phase] = firstTL
		case secondOK:
			merged.Phases[phase] = shiftFormationTimeline(secondTL, offset)
		}
	}
	return merged
}

// mergeFormationTimelines shifts the second half by offset, concatenates
// and sorts chronologically. Sorting never trips over NaN or missing
// timestamps: those order as 0 but keep their stored value.
func mergeFormationTimelines(first, second tactical.FormationTimeline, offset float64) tactical.FormationTimeline {
	shifted := shiftFormationTimeline(second, offset)

	states := make([]tactical.FormationState, 0, len(first.States)+len(shifted.States))
	states = append(states, first.States...)
	states = append(states, shifted.States...)
	sortStatesByTime(states)

	changes := make([]tactical.FormationChange, 0, len(first.Changes)+len(shifted.Changes))
	changes = append(changes, first.Changes...)
	changes = append(changes, shifted.Changes...)
	sortChangesByTime(changes)

	// The second half's shape is the conclusive one for the match.
	dominant := second.DominantFormation
	if dominant == "" {
		dominant = first.DominantFormation
	}
	if dominant == "" {
		dominant = tactical.DefaultFormation
	}

	return tactical.FormationTimeline{
		States:               states,
		Changes:              changes,
		DominantFormation:    dominant,
		FormationVariability: (first.FormationVariability + second.FormationVariability) / 2,
	}
}
