package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchlens/match-engine/internal/domain/summary"
	qb "github.com/pitchlens/match-engine/internal/platform/querybuilder"
)

type SummaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) GetByVideo(ctx context.Context, matchID, videoID, version string) (summary.Summary, bool, error) {
	query, args, err := qb.Select("payload").From("summaries").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("video_id", videoID),
			qb.Eq("version", version),
			qb.Expr("merged_from_halves = FALSE"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return summary.Summary{}, false, fmt.Errorf("build select summary by video query: %w", err)
	}

	return r.getSummary(ctx, query, args)
}

func (r *SummaryRepository) GetMerged(ctx context.Context, matchID, version string) (summary.Summary, bool, error) {
	query, args, err := qb.Select("payload").From("summaries").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("version", version),
			qb.Expr("merged_from_halves = TRUE"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return summary.Summary{}, false, fmt.Errorf("build select merged summary query: %w", err)
	}

	return r.getSummary(ctx, query, args)
}

func (r *SummaryRepository) getSummary(ctx context.Context, query string, args []any) (summary.Summary, bool, error) {
	var payload string
	if err := r.db.GetContext(ctx, &payload, query, args...); err != nil {
		if isNotFound(err) {
			return summary.Summary{}, false, nil
		}
		return summary.Summary{}, false, fmt.Errorf("select summary: %w", err)
	}

	doc, err := unmarshalPayload[summaryDoc](payload)
	if err != nil {
		return summary.Summary{}, false, err
	}
	return doc.toDomain(), true, nil
}
