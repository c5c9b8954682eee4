package memory

import (
	"context"
	"sync"

	"github.com/pitchlens/match-engine/internal/domain/tactical"
)

type TacticalRepository struct {
	mu       sync.RWMutex
	analyses []tactical.Analysis
}

func NewTacticalRepository(analyses []tactical.Analysis) *TacticalRepository {
	return &TacticalRepository{analyses: append([]tactical.Analysis(nil), analyses...)}
}

func (r *TacticalRepository) GetByVideo(_ context.Context, matchID, videoID, version string) (tactical.Analysis, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.analyses {
		if a.MatchID == matchID && a.VideoID == videoID && a.Version == version && !a.MergedFromHalves {
			return a, true, nil
		}
	}
	return tactical.Analysis{}, false, nil
}

func (r *TacticalRepository) GetMerged(_ context.Context, matchID, version string) (tactical.Analysis, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.analyses {
		if a.MatchID == matchID && a.Version == version && a.MergedFromHalves {
			return a, true, nil
		}
	}
	return tactical.Analysis{}, false, nil
}
