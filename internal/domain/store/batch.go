package store

import (
	"context"
	"fmt"
	"strings"
)

type Collection string

const (
	CollectionPassEvents     Collection = "passEvents"
	CollectionCarryEvents    Collection = "carryEvents"
	CollectionTurnoverEvents Collection = "turnoverEvents"
	CollectionShotEvents     Collection = "shotEvents"
	CollectionSetPieceEvents Collection = "setPieceEvents"
	CollectionClips          Collection = "clips"
	CollectionStats          Collection = "stats"
	CollectionTactical       Collection = "tactical"
	CollectionSummary        Collection = "summary"
	CollectionAssists        Collection = "assists"
	CollectionMatches        Collection = "matches"
)

// MaxOpsPerBatch caps one committed chunk. The backing store limits a
// transaction to 500 operations; 450 leaves headroom for bookkeeping
// writes issued alongside the documents.
const MaxOpsPerBatch = 450

// WriteOp upserts one document by id. Re-writing the same id with the
// same content is a no-op, which is what makes reconciliation safe to
// re-run end to end.
type WriteOp struct {
	Collection Collection
	DocID      string
	Doc        any
}

// BatchWriter persists ops in chunks of at most MaxOpsPerBatch, each
// chunk atomic. A failed chunk rolls back only itself; the caller's
// remediation is to re-run the whole reconciliation.
type BatchWriter interface {
	WriteAll(ctx context.Context, matchID string, ops []WriteOp) error
}

// Chunk splits ops into commit-sized groups preserving order.
func Chunk(ops []WriteOp) [][]WriteOp {
	if len(ops) == 0 {
		return nil
	}
	out := make([][]WriteOp, 0, (len(ops)+MaxOpsPerBatch-1)/MaxOpsPerBatch)
	for start := 0; start < len(ops); start += MaxOpsPerBatch {
		end := start + MaxOpsPerBatch
		if end > len(ops) {
			end = len(ops)
		}
		out = append(out, ops[start:end])
	}
	return out
}

// BatchError describes a failed chunk commit with enough context for a
// targeted retry decision upstream.
type BatchError struct {
	MatchID     string
	BatchIndex  int
	Collections []Collection
	DocIDs      []string
	Err         error
}

func NewBatchError(matchID string, batchIndex int, ops []WriteOp, err error) *BatchError {
	seen := make(map[Collection]struct{}, 4)
	collections := make([]Collection, 0, 4)
	docIDs := make([]string, 0, len(ops))
	for _, op := range ops {
		if _, ok := seen[op.Collection]; !ok {
			seen[op.Collection] = struct{}{}
			collections = append(collections, op.Collection)
		}
		docIDs = append(docIDs, op.DocID)
	}
	return &BatchError{
		MatchID:     matchID,
		BatchIndex:  batchIndex,
		Collections: collections,
		DocIDs:      docIDs,
		Err:         err,
	}
}

func (e *BatchError) Error() string {
	names := make([]string, 0, len(e.Collections))
	for _, c := range e.Collections {
		names = append(names, string(c))
	}
	return fmt.Sprintf("commit batch %d for match %s (collections: %s, %d docs): %v",
		e.BatchIndex, e.MatchID, strings.Join(names, ", "), len(e.DocIDs), e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
