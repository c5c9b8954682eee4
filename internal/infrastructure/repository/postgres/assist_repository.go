package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchlens/match-engine/internal/domain/assist"
	qb "github.com/pitchlens/match-engine/internal/platform/querybuilder"
)

type AssistRepository struct {
	db *sqlx.DB
}

func NewAssistRepository(db *sqlx.DB) *AssistRepository {
	return &AssistRepository{db: db}
}

func (r *AssistRepository) ListByMatch(ctx context.Context, matchID, version string) ([]assist.Assist, error) {
	query, args, err := qb.Select("payload").From("assists").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("version", version),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select assists by match query: %w", err)
	}

	var payloads []string
	if err := r.db.SelectContext(ctx, &payloads, query, args...); err != nil {
		return nil, fmt.Errorf("select assists: %w", err)
	}

	out := make([]assist.Assist, 0, len(payloads))
	for _, payload := range payloads {
		doc, err := unmarshalPayload[assistDoc](payload)
		if err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, nil
}
