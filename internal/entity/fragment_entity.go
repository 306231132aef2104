package entity

import (
	"time"

	"github.com/google/uuid"
)

// FragmentEmbedding is one pre-indexed corpus snippet with its vector.
// The corpus is read-only at runtime; rows are written only by the seeder.
type FragmentEmbedding struct {
	Id             uuid.UUID
	ChunkIndex     int
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}

// ScoredFragment pairs a fragment with the cosine similarity the index
// reported for a query vector.
type ScoredFragment struct {
	Fragment   *FragmentEmbedding
	Similarity float64
}
