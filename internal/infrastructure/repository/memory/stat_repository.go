package memory

import (
	"context"
	"sync"

	"github.com/pitchlens/match-engine/internal/domain/stat"
)

type StatRepository struct {
	mu      sync.RWMutex
	records []stat.Record
}

func NewStatRepository(records []stat.Record) *StatRepository {
	return &StatRepository{records: append([]stat.Record(nil), records...)}
}

func (r *StatRepository) ListByVideo(_ context.Context, matchID, videoID, version string) ([]stat.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stat.Record, 0)
	for _, rec := range r.records {
		if rec.MatchID != matchID || rec.VideoID != videoID || rec.Version != version || rec.MergedFromHalves {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *StatRepository) ListMerged(_ context.Context, matchID, version string) ([]stat.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stat.Record, 0)
	for _, rec := range r.records {
		if rec.MatchID != matchID || rec.Version != version || !rec.MergedFromHalves {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
