package contract

import (
	"context"

	"medrag-be/internal/entity"
	"medrag-be/internal/repository/specification"
)

type FragmentRepository interface {
	CreateBulk(ctx context.Context, fragments []*entity.FragmentEmbedding) error
	// SearchSimilar returns the k fragments nearest to the query vector by
	// cosine similarity, highest similarity first.
	SearchSimilar(ctx context.Context, vector []float32, k int) ([]*entity.ScoredFragment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
