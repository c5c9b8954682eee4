package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchlens/match-engine/internal/domain/stat"
	qb "github.com/pitchlens/match-engine/internal/platform/querybuilder"
)

type StatRepository struct {
	db *sqlx.DB
}

func NewStatRepository(db *sqlx.DB) *StatRepository {
	return &StatRepository{db: db}
}

func (r *StatRepository) ListByVideo(ctx context.Context, matchID, videoID, version string) ([]stat.Record, error) {
	query, args, err := qb.Select("payload").From("stats").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("video_id", videoID),
			qb.Eq("version", version),
			qb.Expr("merged_from_halves = FALSE"),
		).
		OrderBy("calculator_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stats by video query: %w", err)
	}

	return r.selectStats(ctx, query, args)
}

func (r *StatRepository) ListMerged(ctx context.Context, matchID, version string) ([]stat.Record, error) {
	query, args, err := qb.Select("payload").From("stats").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("version", version),
			qb.Expr("merged_from_halves = TRUE"),
		).
		OrderBy("calculator_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select merged stats query: %w", err)
	}

	return r.selectStats(ctx, query, args)
}

func (r *StatRepository) selectStats(ctx context.Context, query string, args []any) ([]stat.Record, error) {
	var payloads []string
	if err := r.db.SelectContext(ctx, &payloads, query, args...); err != nil {
		return nil, fmt.Errorf("select stats: %w", err)
	}

	out := make([]stat.Record, 0, len(payloads))
	for _, payload := range payloads {
		doc, err := unmarshalPayload[statDoc](payload)
		if err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, nil
}
