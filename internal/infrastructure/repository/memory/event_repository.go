package memory

import (
	"context"
	"sync"

	"github.com/pitchlens/match-engine/internal/domain/event"
)

type EventRepository struct {
	mu     sync.RWMutex
	events []event.Event
}

func NewEventRepository(events []event.Event) *EventRepository {
	return &EventRepository{events: append([]event.Event(nil), events...)}
}

// Add appends events after construction, e.g. to feed merged output
// from a recorded batch back into the match-level space.
func (r *EventRepository) Add(events ...event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *EventRepository) ListByTypeAndVideo(_ context.Context, matchID string, eventType event.Type, videoID, version string) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0)
	for _, ev := range r.events {
		if ev.MatchID != matchID || ev.Type != eventType || ev.VideoID != videoID || ev.Version != version {
			continue
		}
		if ev.MergedFromHalves {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r *EventRepository) ListMergedByType(_ context.Context, matchID string, eventType event.Type, version string) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0)
	for _, ev := range r.events {
		if ev.MatchID != matchID || ev.Type != eventType || ev.Version != version {
			continue
		}
		// Match-level space: merged documents, or docs written without
		// a video scope (single unsplit video analyses).
		if !ev.MergedFromHalves && ev.VideoID != "" {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
