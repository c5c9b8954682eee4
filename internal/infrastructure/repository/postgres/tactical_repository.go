package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchlens/match-engine/internal/domain/tactical"
	qb "github.com/pitchlens/match-engine/internal/platform/querybuilder"
)

type TacticalRepository struct {
	db *sqlx.DB
}

func NewTacticalRepository(db *sqlx.DB) *TacticalRepository {
	return &TacticalRepository{db: db}
}

func (r *TacticalRepository) GetByVideo(ctx context.Context, matchID, videoID, version string) (tactical.Analysis, bool, error) {
	query, args, err := qb.Select("payload").From("tactical_analyses").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("video_id", videoID),
			qb.Eq("version", version),
			qb.Expr("merged_from_halves = FALSE"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return tactical.Analysis{}, false, fmt.Errorf("build select tactical analysis by video query: %w", err)
	}

	return r.getAnalysis(ctx, query, args)
}

func (r *TacticalRepository) GetMerged(ctx context.Context, matchID, version string) (tactical.Analysis, bool, error) {
	query, args, err := qb.Select("payload").From("tactical_analyses").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("version", version),
			qb.Expr("merged_from_halves = TRUE"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return tactical.Analysis{}, false, fmt.Errorf("build select merged tactical analysis query: %w", err)
	}

	return r.getAnalysis(ctx, query, args)
}

func (r *TacticalRepository) getAnalysis(ctx context.Context, query string, args []any) (tactical.Analysis, bool, error) {
	var payload string
	if err := r.db.GetContext(ctx, &payload, query, args...); err != nil {
		if isNotFound(err) {
			return tactical.Analysis{}, false, nil
		}
		return tactical.Analysis{}, false, fmt.Errorf("select tactical analysis: %w", err)
	}

	doc, err := unmarshalPayload[tacticalDoc](payload)
	if err != nil {
		return tactical.Analysis{}, false, err
	}
	return doc.toDomain(), true, nil
}
