package usecase

import (
	"sort"
	"strings"

	"github.com/pitchlens/match-engine/internal/domain/summary"
)

// mergeSummaries combines both halves' narrative summaries. The second
// half's headline, score and MVP are treated as conclusive; first-half
// values are fallbacks.
func mergeSummaries(matchID, version string, firstHalf, secondHalf summary.Summary, offset float64) summary.Summary {
	merged := summary.Summary{
		MatchID:          matchID,
		Version:          version,
		Headline:         preferSecond(secondHalf.Headline, firstHalf.Headline),
		MVP:              preferSecond(secondHalf.MVP, firstHalf.MVP),
		MergedFromHalves: true,
	}

	merged.Narrative = summary.Narrative{
		FirstHalf:  firstHalf.Narrative.FirstHalf,
		SecondHalf: secondHalf.Narrative.SecondHalf,
		Overall:    joinNarrative(firstHalf.Narrative.FirstHalf, secondHalf.Narrative.SecondHalf),
	}
	if merged.Narrative.FirstHalf == "" {
		merged.Narrative.FirstHalf = firstHalf.Narrative.Overall
	}
	if merged.Narrative.SecondHalf == "" {
		merged.Narrative.SecondHalf = secondHalf.Narrative.Overall
	}
	if merged.Narrative.Overall == "" {
		merged.Narrative.Overall = joinNarrative(firstHalf.Narrative.Overall, secondHalf.Narrative.Overall)
	}

	moments := make([]summary.KeyMoment, 0, len(firstHalf.KeyMoments)+len(secondHalf.KeyMoments))
	moments = append(moments, firstHalf.KeyMoments...)
	moments = append(moments, shiftKeyMoments(secondHalf.KeyMoments, offset)...)
	sortKeyMomentsByTime(moments)
	merged.KeyMoments = moments

	highlights := make([]summary.PlayerHighlight, 0, len(firstHalf.PlayerHighlights)+len(secondHalf.PlayerHighlights))
	highlights = append(highlights, firstHalf.PlayerHighlights...)
	highlights = append(highlights, secondHalf.PlayerHighlights...)
	merged.PlayerHighlights = highlights

	if secondHalf.Score != nil {
		score := *secondHalf.Score
		merged.Score = &score
	} else if firstHalf.Score != nil {
		score := *firstHalf.Score
		merged.Score = &score
	}

	merged.Tags = unionTags(firstHalf.Tags, secondHalf.Tags)
	return merged
}

func preferSecond(second, first string) string {
	if strings.TrimSpace(second) != "" {
		return second
	}
	return first
}

func joinNarrative(first, second string) string {
	first = strings.TrimSpace(first)
	second = strings.TrimSpace(second)
	switch {
	case first == "":
		return second
	case second == "":
		return first
	default:
		return first + "\n\n" + second
	}
}

func unionTags(first, second []string) []string {
	seen := make(map[string]struct{}, len(first)+len(second))
	out := make([]string, 0, len(first)+len(second))
	for _, tag := range append(append([]string{}, first...), second...) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
