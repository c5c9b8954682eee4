package stat

import "context"

type Repository interface {
	ListByVideo(ctx context.Context, matchID, videoID, version string) ([]Record, error)
	ListMerged(ctx context.Context, matchID, version string) ([]Record, error)
}
