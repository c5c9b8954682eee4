package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestChunk(t *testing.T) {
	if got := Chunk(nil); got != nil {
		t.Fatalf("expected no chunks for empty input, got %v", got)
	}

	ops := make([]WriteOp, 1000)
	for i := range ops {
		ops[i] = WriteOp{Collection: CollectionPassEvents, DocID: fmt.Sprintf("doc-%d", i)}
	}

	chunks := Chunk(ops)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 1000 ops, got %d", len(chunks))
	}
	if len(chunks[0]) != MaxOpsPerBatch || len(chunks[1]) != MaxOpsPerBatch || len(chunks[2]) != 100 {
		t.Fatalf("unexpected chunk sizes %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
	if chunks[0][0].DocID != "doc-0" || chunks[2][99].DocID != "doc-999" {
		t.Fatalf("chunking must preserve order")
	}
}

func TestChunk_ExactBoundary(t *testing.T) {
	ops := make([]WriteOp, MaxOpsPerBatch)
	for i := range ops {
		ops[i] = WriteOp{Collection: CollectionClips, DocID: fmt.Sprintf("doc-%d", i)}
	}

	chunks := Chunk(ops)
	if len(chunks) != 1 || len(chunks[0]) != MaxOpsPerBatch {
		t.Fatalf("expected one full chunk, got %d chunks", len(chunks))
	}
}

func TestNewBatchError(t *testing.T) {
	cause := errors.New("store unavailable")
	ops := []WriteOp{
		{Collection: CollectionPassEvents, DocID: "merged_pass-1"},
		{Collection: CollectionPassEvents, DocID: "merged_pass-2"},
		{Collection: CollectionClips, DocID: "merged_clip-1"},
	}

	batchErr := NewBatchError("match-1", 2, ops, cause)
	if batchErr.MatchID != "match-1" || batchErr.BatchIndex != 2 {
		t.Fatalf("unexpected error context: %+v", batchErr)
	}
	if len(batchErr.Collections) != 2 {
		t.Fatalf("expected deduplicated collections, got %v", batchErr.Collections)
	}
	if len(batchErr.DocIDs) != 3 {
		t.Fatalf("expected all doc ids, got %v", batchErr.DocIDs)
	}
	if !errors.Is(batchErr, cause) {
		t.Fatalf("batch error must unwrap to its cause")
	}

	msg := batchErr.Error()
	for _, fragment := range []string{"batch 2", "match-1", "passEvents", "clips", "3 docs", "store unavailable"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("error message missing %q: %s", fragment, msg)
		}
	}
}
