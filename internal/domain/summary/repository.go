package summary

import "context"

// Repository reads per-video narrative summaries. GetByVideo returns
// exists=false (not an error) when a half produced no summary.
type Repository interface {
	GetByVideo(ctx context.Context, matchID, videoID, version string) (Summary, bool, error)
	GetMerged(ctx context.Context, matchID, version string) (Summary, bool, error)
}
