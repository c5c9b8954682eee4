package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pitchlens/match-engine/internal/domain/video"
)

type VideoRepository struct {
	mu      sync.RWMutex
	videos  []video.Video
	matches map[string]video.Match
}

func NewVideoRepository(videos []video.Video, matches []video.Match) *VideoRepository {
	byID := make(map[string]video.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}

	return &VideoRepository{videos: append([]video.Video(nil), videos...), matches: byID}
}

func (r *VideoRepository) GetHalves(_ context.Context, matchID string) (video.Video, video.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var first, second video.Video
	var haveFirst, haveSecond bool
	for _, v := range r.videos {
		if v.MatchID != matchID {
			continue
		}
		switch v.Kind {
		case video.KindFirstHalf:
			first, haveFirst = v, true
		case video.KindSecondHalf:
			second, haveSecond = v, true
		}
	}

	if !haveFirst {
		return video.Video{}, video.Video{}, fmt.Errorf("%w: firstHalf of match %s", video.ErrHalfMissing, matchID)
	}
	if !haveSecond {
		return video.Video{}, video.Video{}, fmt.Errorf("%w: secondHalf of match %s", video.ErrHalfMissing, matchID)
	}

	return first, second, nil
}

func (r *VideoRepository) GetMatch(_ context.Context, matchID string) (video.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[matchID]
	return m, ok, nil
}
