package bootstrap

import (
	"context"

	"medrag-be/internal/repository/contract"
	"medrag-be/pkg/store"
)

// fragmentIndex adapts the pgvector fragment repository to the retrieval
// client's VectorIndex contract.
type fragmentIndex struct {
	repo contract.FragmentRepository
}

func newFragmentIndex(repo contract.FragmentRepository) *fragmentIndex {
	return &fragmentIndex{repo: repo}
}

func (idx *fragmentIndex) Search(ctx context.Context, vector []float32, k int) ([]store.Fragment, error) {
	scored, err := idx.repo.SearchSimilar(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	fragments := make([]store.Fragment, len(scored))
	for i, s := range scored {
		fragments[i] = store.Fragment{
			Index: s.Fragment.ChunkIndex,
			Text:  s.Fragment.Document,
			Score: s.Similarity,
		}
	}
	return fragments, nil
}
