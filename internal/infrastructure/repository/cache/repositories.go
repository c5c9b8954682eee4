package cache

import (
	"context"

	"github.com/pitchlens/match-engine/internal/domain/video"
	basecache "github.com/pitchlens/match-engine/internal/platform/cache"
)

// VideoRepository caches half and match lookups. A full reconciliation
// reads the same half records for every stage, so the second and third
// lookups come from memory instead of the store.
type VideoRepository struct {
	next  video.Repository
	cache *basecache.Store
}

func NewVideoRepository(next video.Repository, cache *basecache.Store) *VideoRepository {
	return &VideoRepository{next: next, cache: cache}
}

func (r *VideoRepository) GetHalves(ctx context.Context, matchID string) (video.Video, video.Video, error) {
	key := "video:halves:" + matchID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		first, second, err := r.next.GetHalves(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedHalves{first: first, second: second}, nil
	})
	if err != nil {
		return video.Video{}, video.Video{}, err
	}

	cached, _ := v.(cachedHalves)
	return cached.first, cached.second, nil
}

func (r *VideoRepository) GetMatch(ctx context.Context, matchID string) (video.Match, bool, error) {
	key := "video:match:" + matchID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		match, exists, err := r.next.GetMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatch{value: match, exists: exists}, nil
	})
	if err != nil {
		return video.Match{}, false, err
	}

	cached, _ := v.(cachedMatch)
	return cached.value, cached.exists, nil
}

// Invalidate drops every cached record for a match, so a lookup after
// reconciliation sees the committed state.
func (r *VideoRepository) Invalidate(ctx context.Context, matchID string) {
	r.cache.Delete(ctx, "video:halves:"+matchID)
	r.cache.Delete(ctx, "video:match:"+matchID)
}

type cachedHalves struct {
	first  video.Video
	second video.Video
}

type cachedMatch struct {
	value  video.Match
	exists bool
}
