package event

import "context"

// Repository exposes typed event reads. Per-half reads filter by
// videoID; match-level reads pass an empty videoID and return only
// merged documents.
type Repository interface {
	ListByTypeAndVideo(ctx context.Context, matchID string, eventType Type, videoID, version string) ([]Event, error)
	ListMergedByType(ctx context.Context, matchID string, eventType Type, version string) ([]Event, error)
}
