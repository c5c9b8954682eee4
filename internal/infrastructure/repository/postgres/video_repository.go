package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchlens/match-engine/internal/domain/video"
	qb "github.com/pitchlens/match-engine/internal/platform/querybuilder"
)

type VideoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) GetHalves(ctx context.Context, matchID string) (video.Video, video.Video, error) {
	query, args, err := qb.Select("id", "match_id", "kind", "active_version", "duration_sec").
		From("videos").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("kind").
		ToSQL()
	if err != nil {
		return video.Video{}, video.Video{}, fmt.Errorf("build select videos by match query: %w", err)
	}

	var rows []videoTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return video.Video{}, video.Video{}, fmt.Errorf("select videos by match: %w", err)
	}

	var first, second video.Video
	var haveFirst, haveSecond bool
	for _, row := range rows {
		v := row.toDomain()
		switch v.Kind {
		case video.KindFirstHalf:
			first, haveFirst = v, true
		case video.KindSecondHalf:
			second, haveSecond = v, true
		}
	}

	if !haveFirst {
		return video.Video{}, video.Video{}, fmt.Errorf("%w: firstHalf of match %s", video.ErrHalfMissing, matchID)
	}
	if !haveSecond {
		return video.Video{}, video.Video{}, fmt.Errorf("%w: secondHalf of match %s", video.ErrHalfMissing, matchID)
	}

	return first, second, nil
}

func (r *VideoRepository) GetMatch(ctx context.Context, matchID string) (video.Match, bool, error) {
	query, args, err := qb.Select("id", "analysis_status", "active_version").
		From("matches").
		Where(qb.Eq("id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return video.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return video.Match{}, false, nil
		}
		return video.Match{}, false, fmt.Errorf("select match: %w", err)
	}

	return row.toDomain(), true, nil
}
