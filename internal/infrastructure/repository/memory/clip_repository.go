package memory

import (
	"context"
	"sync"

	"github.com/pitchlens/match-engine/internal/domain/clip"
)

type ClipRepository struct {
	mu    sync.RWMutex
	clips []clip.Clip
}

func NewClipRepository(clips []clip.Clip) *ClipRepository {
	return &ClipRepository{clips: append([]clip.Clip(nil), clips...)}
}

func (r *ClipRepository) Add(clips ...clip.Clip) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clips = append(r.clips, clips...)
}

func (r *ClipRepository) ListByVideo(_ context.Context, matchID, videoID, version string) ([]clip.Clip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clip.Clip, 0)
	for _, c := range r.clips {
		if c.MatchID != matchID || c.VideoID != videoID || c.Version != version || c.MergedFromHalves {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ClipRepository) ListByMatch(_ context.Context, matchID, version string) ([]clip.Clip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clip.Clip, 0)
	for _, c := range r.clips {
		if c.MatchID != matchID || c.Version != version {
			continue
		}
		if !c.MergedFromHalves && c.VideoID != "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
