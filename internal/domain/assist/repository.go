package assist

import "context"

type Repository interface {
	ListByMatch(ctx context.Context, matchID, version string) ([]Assist, error)
}
