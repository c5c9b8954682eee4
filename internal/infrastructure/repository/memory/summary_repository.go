package memory

import (
	"context"
	"sync"

	"github.com/pitchlens/match-engine/internal/domain/summary"
)

type SummaryRepository struct {
	mu        sync.RWMutex
	summaries []summary.Summary
}

func NewSummaryRepository(summaries []summary.Summary) *SummaryRepository {
	return &SummaryRepository{summaries: append([]summary.Summary(nil), summaries...)}
}

func (r *SummaryRepository) GetByVideo(_ context.Context, matchID, videoID, version string) (summary.Summary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.summaries {
		if s.MatchID == matchID && s.VideoID == videoID && s.Version == version && !s.MergedFromHalves {
			return s, true, nil
		}
	}
	return summary.Summary{}, false, nil
}

func (r *SummaryRepository) GetMerged(_ context.Context, matchID, version string) (summary.Summary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.summaries {
		if s.MatchID == matchID && s.Version == version && s.MergedFromHalves {
			return s, true, nil
		}
	}
	return summary.Summary{}, false, nil
}
