package retrieval

import (
	"context"
	"errors"
	"fmt"

	"medrag-be/internal/constant"
	"medrag-be/pkg/embedding"
	"medrag-be/pkg/store"
)

// ErrUnavailable marks a failure of the embedding or index service. It is
// surfaced to the caller as-is; the pipeline never retries within a request.
var ErrUnavailable = errors.New("retrieval service unavailable")

// VectorIndex is the nearest-neighbor search contract. Implementations must
// return fragments ordered by non-increasing similarity, with ties broken by
// corpus index order.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, k int) ([]store.Fragment, error)
}

// Client wraps query embedding and index search into a single retrieve call.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	embedder embedding.EmbeddingProvider
	index    VectorIndex
}

func NewClient(embedder embedding.EmbeddingProvider, index VectorIndex) *Client {
	return &Client{
		embedder: embedder,
		index:    index,
	}
}

// Retrieve embeds the query and returns up to k fragments ranked by
// similarity. k must be at least 1; values above MaxRetrievalK are clamped
// (not rejected) to bound latency and memory.
func (c *Client) Retrieve(ctx context.Context, query string, k int) ([]store.Fragment, error) {
	if k < 1 {
		return nil, fmt.Errorf("retrieval k must be >= 1, got %d", k)
	}
	if k > constant.MaxRetrievalK {
		k = constant.MaxRetrievalK
	}

	emb, err := c.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrUnavailable, err)
	}

	fragments, err := c.index.Search(ctx, emb.Embedding.Values, k)
	if err != nil {
		return nil, fmt.Errorf("%w: index search: %v", ErrUnavailable, err)
	}

	return fragments, nil
}
