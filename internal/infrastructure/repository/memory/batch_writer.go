package memory

import (
	"context"
	"sync"

	"github.com/pitchlens/match-engine/internal/domain/store"
)

// BatchWriter applies write batches to an in-memory document table.
// Chunks commit atomically: a failing chunk leaves nothing of itself
// behind, while earlier chunks stay committed.
type BatchWriter struct {
	mu          sync.Mutex
	docs        map[store.Collection]map[string]any
	batches     int
	failOnBatch int
	failErr     error
}

func NewBatchWriter() *BatchWriter {
	return &BatchWriter{
		docs:        make(map[store.Collection]map[string]any),
		failOnBatch: -1,
	}
}

// FailOnBatch makes the writer reject the chunk with the given
// zero-based index across all WriteAll calls.
func (w *BatchWriter) FailOnBatch(index int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failOnBatch = index
	w.failErr = err
}

func (w *BatchWriter) WriteAll(_ context.Context, matchID string, ops []store.WriteOp) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, chunk := range store.Chunk(ops) {
		index := w.batches
		w.batches++
		if index == w.failOnBatch {
			return store.NewBatchError(matchID, index, chunk, w.failErr)
		}
		for _, op := range chunk {
			table := w.docs[op.Collection]
			if table == nil {
				table = make(map[string]any)
				w.docs[op.Collection] = table
			}
			table[op.DocID] = op.Doc
		}
	}
	return nil
}

// Doc returns the stored document for a collection and id.
func (w *BatchWriter) Doc(collection store.Collection, docID string) (any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc, ok := w.docs[collection][docID]
	return doc, ok
}

// Docs returns every stored document in a collection keyed by id.
func (w *BatchWriter) Docs(collection store.Collection) map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]any, len(w.docs[collection]))
	for id, doc := range w.docs[collection] {
		out[id] = doc
	}
	return out
}

// Batches reports how many chunks have been committed or attempted.
func (w *BatchWriter) Batches() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.batches
}
