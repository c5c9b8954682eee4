package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchlens/match-engine/internal/domain/clip"
	qb "github.com/pitchlens/match-engine/internal/platform/querybuilder"
)

type ClipRepository struct {
	db *sqlx.DB
}

func NewClipRepository(db *sqlx.DB) *ClipRepository {
	return &ClipRepository{db: db}
}

func (r *ClipRepository) ListByVideo(ctx context.Context, matchID, videoID, version string) ([]clip.Clip, error) {
	query, args, err := qb.Select("payload").From("clips").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("video_id", videoID),
			qb.Eq("version", version),
			qb.Expr("merged_from_halves = FALSE"),
		).
		OrderBy("start_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select clips by video query: %w", err)
	}

	return r.selectClips(ctx, query, args)
}

func (r *ClipRepository) ListByMatch(ctx context.Context, matchID, version string) ([]clip.Clip, error) {
	query, args, err := qb.Select("payload").From("clips").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("version", version),
			qb.Expr("(merged_from_halves = TRUE OR video_id IS NULL)"),
		).
		OrderBy("start_time", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select clips by match query: %w", err)
	}

	return r.selectClips(ctx, query, args)
}

func (r *ClipRepository) selectClips(ctx context.Context, query string, args []any) ([]clip.Clip, error) {
	var payloads []string
	if err := r.db.SelectContext(ctx, &payloads, query, args...); err != nil {
		return nil, fmt.Errorf("select clips: %w", err)
	}

	out := make([]clip.Clip, 0, len(payloads))
	for _, payload := range payloads {
		doc, err := unmarshalPayload[clipDoc](payload)
		if err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, nil
}
