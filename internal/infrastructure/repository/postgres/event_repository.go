package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchlens/match-engine/internal/domain/event"
	qb "github.com/pitchlens/match-engine/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) ListByTypeAndVideo(ctx context.Context, matchID string, eventType event.Type, videoID, version string) ([]event.Event, error) {
	query, args, err := qb.Select("payload").From("match_events").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("event_type", string(eventType)),
			qb.Eq("video_id", videoID),
			qb.Eq("version", version),
			qb.Expr("merged_from_halves = FALSE"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select events by video query: %w", err)
	}

	return r.selectEvents(ctx, query, args)
}

func (r *EventRepository) ListMergedByType(ctx context.Context, matchID string, eventType event.Type, version string) ([]event.Event, error) {
	query, args, err := qb.Select("payload").From("match_events").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("event_type", string(eventType)),
			qb.Eq("version", version),
			qb.Expr("(merged_from_halves = TRUE OR video_id IS NULL)"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select merged events query: %w", err)
	}

	return r.selectEvents(ctx, query, args)
}

func (r *EventRepository) selectEvents(ctx context.Context, query string, args []any) ([]event.Event, error) {
	var payloads []string
	if err := r.db.SelectContext(ctx, &payloads, query, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	out := make([]event.Event, 0, len(payloads))
	for _, payload := range payloads {
		doc, err := unmarshalPayload[eventDoc](payload)
		if err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, nil
}
