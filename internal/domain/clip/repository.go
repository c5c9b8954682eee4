package clip

import "context"

type Repository interface {
	ListByVideo(ctx context.Context, matchID, videoID, version string) ([]Clip, error)
	ListByMatch(ctx context.Context, matchID, version string) ([]Clip, error)
}
