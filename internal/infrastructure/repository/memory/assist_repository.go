package memory

import (
	"context"
	"sync"

	"github.com/pitchlens/match-engine/internal/domain/assist"
)

type AssistRepository struct {
	mu      sync.RWMutex
	assists []assist.Assist
}

func NewAssistRepository(assists []assist.Assist) *AssistRepository {
	return &AssistRepository{assists: append([]assist.Assist(nil), assists...)}
}

func (r *AssistRepository) ListByMatch(_ context.Context, matchID, version string) ([]assist.Assist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]assist.Assist, 0, len(r.assists))
	for _, a := range r.assists {
		if a.MatchID == matchID && a.Version == version {
			out = append(out, a)
		}
	}
	return out, nil
}

// Add appends assists after the fact, so batch output can be fed back
// for rerun tests.
func (r *AssistRepository) Add(assists ...assist.Assist) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assists = append(r.assists, assists...)
}
