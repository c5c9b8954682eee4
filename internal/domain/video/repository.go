package video

import (
	"context"
	"errors"
)

// ErrHalfMissing reports that a match does not have both half
// recordings on record.
var ErrHalfMissing = errors.New("half video missing")

type Repository interface {
	// GetHalves returns the firstHalf and secondHalf video records for
	// a match. Missing either record is an error for reconciliation.
	GetHalves(ctx context.Context, matchID string) (Video, Video, error)
	GetMatch(ctx context.Context, matchID string) (Match, bool, error)
}
