package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchlens/match-engine/internal/domain/assist"
	"github.com/pitchlens/match-engine/internal/domain/clip"
	"github.com/pitchlens/match-engine/internal/domain/event"
	"github.com/pitchlens/match-engine/internal/domain/stat"
	"github.com/pitchlens/match-engine/internal/domain/store"
	"github.com/pitchlens/match-engine/internal/domain/summary"
	"github.com/pitchlens/match-engine/internal/domain/tactical"
	"github.com/pitchlens/match-engine/internal/domain/video"
	qb "github.com/pitchlens/match-engine/internal/platform/querybuilder"
)

const eventUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    match_id = EXCLUDED.match_id,
    video_id = EXCLUDED.video_id,
    event_type = EXCLUDED.event_type,
    version = EXCLUDED.version,
    team = EXCLUDED.team,
    confidence = EXCLUDED.confidence,
    event_timestamp = EXCLUDED.event_timestamp,
    merged_from_halves = EXCLUDED.merged_from_halves,
    payload = EXCLUDED.payload,
    updated_at = NOW()`

const clipUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    match_id = EXCLUDED.match_id,
    video_id = EXCLUDED.video_id,
    version = EXCLUDED.version,
    start_time = EXCLUDED.start_time,
    end_time = EXCLUDED.end_time,
    reason = EXCLUDED.reason,
    merged_from_halves = EXCLUDED.merged_from_halves,
    payload = EXCLUDED.payload,
    updated_at = NOW()`

const statUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    match_id = EXCLUDED.match_id,
    video_id = EXCLUDED.video_id,
    version = EXCLUDED.version,
    calculator_id = EXCLUDED.calculator_id,
    player_id = EXCLUDED.player_id,
    team_id = EXCLUDED.team_id,
    value = EXCLUDED.value,
    merged_from_halves = EXCLUDED.merged_from_halves,
    payload = EXCLUDED.payload,
    updated_at = NOW()`

const docUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    match_id = EXCLUDED.match_id,
    video_id = EXCLUDED.video_id,
    version = EXCLUDED.version,
    merged_from_halves = EXCLUDED.merged_from_halves,
    payload = EXCLUDED.payload,
    updated_at = NOW()`

const assistUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    match_id = EXCLUDED.match_id,
    version = EXCLUDED.version,
    payload = EXCLUDED.payload,
    updated_at = NOW()`

const matchUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    analysis_status = EXCLUDED.analysis_status,
    active_version = EXCLUDED.active_version,
    updated_at = NOW()`

// BatchWriter commits write ops against the document tables in chunks
// of at most store.MaxOpsPerBatch statements, one transaction per
// chunk. A failed chunk rolls back only itself; earlier chunks stay
// committed and the caller re-runs the whole operation to converge.
type BatchWriter struct {
	db *sqlx.DB
}

func NewBatchWriter(db *sqlx.DB) *BatchWriter {
	return &BatchWriter{db: db}
}

func (w *BatchWriter) WriteAll(ctx context.Context, matchID string, ops []store.WriteOp) error {
	for index, chunk := range store.Chunk(ops) {
		if err := w.commitChunk(ctx, chunk); err != nil {
			return store.NewBatchError(matchID, index, chunk, err)
		}
	}
	return nil
}

func (w *BatchWriter) commitChunk(ctx context.Context, chunk []store.WriteOp) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}

	for _, op := range chunk {
		query, args, err := buildUpsert(op)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s/%s: %w", op.Collection, op.DocID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch transaction: %w", err)
	}
	return nil
}

func buildUpsert(op store.WriteOp) (string, []any, error) {
	switch doc := op.Doc.(type) {
	case event.Event:
		model, err := eventRowModel(op.DocID, doc)
		if err != nil {
			return "", nil, err
		}
		return qb.InsertModel("match_events", model, eventUpsertSuffix)
	case clip.Clip:
		model, err := clipRowModel(op.DocID, doc)
		if err != nil {
			return "", nil, err
		}
		return qb.InsertModel("clips", model, clipUpsertSuffix)
	case stat.Record:
		model, err := statRowModel(op.DocID, doc)
		if err != nil {
			return "", nil, err
		}
		return qb.InsertModel("stats", model, statUpsertSuffix)
	case tactical.Analysis:
		model, err := tacticalRowModel(op.DocID, doc)
		if err != nil {
			return "", nil, err
		}
		return qb.InsertModel("tactical_analyses", model, docUpsertSuffix)
	case summary.Summary:
		model, err := summaryRowModel(op.DocID, doc)
		if err != nil {
			return "", nil, err
		}
		return qb.InsertModel("summaries", model, docUpsertSuffix)
	case assist.Assist:
		model, err := assistRowModel(op.DocID, doc)
		if err != nil {
			return "", nil, err
		}
		return qb.InsertModel("assists", model, assistUpsertSuffix)
	case video.Match:
		return qb.InsertModel("matches", matchRowModel(doc), matchUpsertSuffix)
	default:
		return "", nil, fmt.Errorf("unsupported document type %T for collection %s", op.Doc, op.Collection)
	}
}
