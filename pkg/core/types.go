package core

import (
	"time"

	"github.com/google/uuid"
)

// Chunk is an atomic unit of text plus its embedding. Embedding length is
// invariant after creation and must equal the model dimension D for every
// chunk indexed together.
type Chunk struct {
	ID        uuid.UUID      `json:"id"`
	Text      string         `json:"text"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Document is an ordered grouping of chunks within a library. It has no
// embedding of its own.
type Document struct {
	ID       uuid.UUID      `json:"id"`
	Title    string         `json:"title"`
	ChunkIDs []uuid.UUID    `json:"chunk_ids"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Library is the top-level unit of indexing: it owns Documents by
// identifier, which in turn own Chunks by identifier.
type Library struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	DocumentIDs []uuid.UUID `json:"document_ids"`
	CreatedAt   time.Time   `json:"created_at"`
}
