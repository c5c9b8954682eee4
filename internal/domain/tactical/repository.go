package tactical

import "context"

// Repository reads per-video tactical analyses. GetByVideo returns
// exists=false (not an error) when a half produced no analysis.
type Repository interface {
	GetByVideo(ctx context.Context, matchID, videoID, version string) (Analysis, bool, error)
	GetMerged(ctx context.Context, matchID, version string) (Analysis, bool, error)
}
