package retrieval

import (
	"context"
	"errors"
	"testing"

	"medrag-be/internal/constant"
	"medrag-be/pkg/embedding"
	"medrag-be/pkg/store"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: []float32{0.1, 0.2, 0.3},
		},
	}, nil
}

type fakeIndex struct {
	err   error
	gotK  int
	hits  []store.Fragment
	calls int
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, k int) ([]store.Fragment, error) {
	f.calls++
	f.gotK = k
	if f.err != nil {
		return nil, f.err
	}
	if k > len(f.hits) {
		k = len(f.hits)
	}
	return f.hits[:k], nil
}

func rankedHits(n int) []store.Fragment {
	out := make([]store.Fragment, n)
	for i := range out {
		out[i] = store.Fragment{Index: i, Text: "t", Score: 1.0 - float64(i)*0.01}
	}
	return out
}

func TestRetrieveRejectsKBelowOne(t *testing.T) {
	client := NewClient(&fakeEmbedder{}, &fakeIndex{hits: rankedHits(5)})

	for _, k := range []int{0, -1} {
		if _, err := client.Retrieve(context.Background(), "q", k); err == nil {
			t.Errorf("Retrieve(k=%d) should fail", k)
		}
	}
}

func TestRetrieveClampsK(t *testing.T) {
	idx := &fakeIndex{hits: rankedHits(100)}
	client := NewClient(&fakeEmbedder{}, idx)

	if _, err := client.Retrieve(context.Background(), "q", 200); err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if idx.gotK != constant.MaxRetrievalK {
		t.Errorf("index received k=%d, want clamp to %d", idx.gotK, constant.MaxRetrievalK)
	}
}

func TestRetrievePreservesIndexOrder(t *testing.T) {
	idx := &fakeIndex{hits: rankedHits(5)}
	client := NewClient(&fakeEmbedder{}, idx)

	fragments, err := client.Retrieve(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(fragments) != 5 {
		t.Fatalf("got %d fragments, want 5", len(fragments))
	}
	for i := 1; i < len(fragments); i++ {
		if fragments[i].Score > fragments[i-1].Score {
			t.Errorf("fragments out of similarity order at %d", i)
		}
	}
}

func TestRetrieveWrapsFailuresAsUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		client *Client
	}{
		{
			name:   "embedder failure",
			client: NewClient(&fakeEmbedder{err: errors.New("boom")}, &fakeIndex{hits: rankedHits(5)}),
		},
		{
			name:   "index failure",
			client: NewClient(&fakeEmbedder{}, &fakeIndex{err: errors.New("down")}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.client.Retrieve(context.Background(), "q", 5)
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("error = %v, want ErrUnavailable", err)
			}
		})
	}
}
