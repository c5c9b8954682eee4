package cache

import (
	"context"
	"testing"
	"time"

	"github.com/pitchlens/match-engine/internal/domain/video"
	basecache "github.com/pitchlens/match-engine/internal/platform/cache"
)

type countingVideoRepo struct {
	halvesCalls int
	matchCalls  int
	first       video.Video
	second      video.Video
	match       video.Match
	matchExists bool
}

func (r *countingVideoRepo) GetHalves(_ context.Context, _ string) (video.Video, video.Video, error) {
	r.halvesCalls++
	return r.first, r.second, nil
}

func (r *countingVideoRepo) GetMatch(_ context.Context, _ string) (video.Match, bool, error) {
	r.matchCalls++
	return r.match, r.matchExists, nil
}

func TestVideoRepository_CachesHalves(t *testing.T) {
	next := &countingVideoRepo{
		first:  video.Video{ID: "vid-1", MatchID: "match-1", Kind: video.KindFirstHalf, DurationSec: 2700},
		second: video.Video{ID: "vid-2", MatchID: "match-1", Kind: video.KindSecondHalf, DurationSec: 2800},
	}
	repo := NewVideoRepository(next, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		first, second, err := repo.GetHalves(t.Context(), "match-1")
		if err != nil {
			t.Fatalf("get halves: %v", err)
		}
		if first.ID != "vid-1" || second.ID != "vid-2" {
			t.Fatalf("unexpected halves %q/%q", first.ID, second.ID)
		}
	}
	if next.halvesCalls != 1 {
		t.Fatalf("expected one store read, got %d", next.halvesCalls)
	}
}

func TestVideoRepository_InvalidateForcesReload(t *testing.T) {
	next := &countingVideoRepo{
		match:       video.Match{ID: "match-1", AnalysisStatus: video.StatusProcessing},
		matchExists: true,
	}
	repo := NewVideoRepository(next, basecache.NewStore(time.Minute))

	match, exists, err := repo.GetMatch(t.Context(), "match-1")
	if err != nil || !exists {
		t.Fatalf("get match: exists=%v err=%v", exists, err)
	}
	if match.AnalysisStatus != video.StatusProcessing {
		t.Fatalf("unexpected status %q", match.AnalysisStatus)
	}

	next.match.AnalysisStatus = video.StatusDone
	next.match.ActiveVersion = "v1"

	match, _, err = repo.GetMatch(t.Context(), "match-1")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if match.AnalysisStatus != video.StatusProcessing {
		t.Fatalf("expected cached pre-merge status, got %q", match.AnalysisStatus)
	}

	repo.Invalidate(t.Context(), "match-1")

	match, _, err = repo.GetMatch(t.Context(), "match-1")
	if err != nil {
		t.Fatalf("get match after invalidate: %v", err)
	}
	if match.AnalysisStatus != video.StatusDone || match.ActiveVersion != "v1" {
		t.Fatalf("invalidate must force a reload, got %+v", match)
	}
	if next.matchCalls != 2 {
		t.Fatalf("expected two store reads, got %d", next.matchCalls)
	}
}
