package mapper

import (
	"medrag-be/internal/entity"
	"medrag-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type FragmentMapper struct{}

func NewFragmentMapper() *FragmentMapper {
	return &FragmentMapper{}
}

func (m *FragmentMapper) ToEntity(f *model.FragmentEmbedding) *entity.FragmentEmbedding {
	if f == nil {
		return nil
	}
	return &entity.FragmentEmbedding{
		Id:             f.Id,
		ChunkIndex:     f.ChunkIndex,
		Document:       f.Document,
		EmbeddingValue: f.EmbeddingValue.Slice(),
		CreatedAt:      f.CreatedAt,
	}
}

func (m *FragmentMapper) ToModel(f *entity.FragmentEmbedding) *model.FragmentEmbedding {
	if f == nil {
		return nil
	}
	return &model.FragmentEmbedding{
		Id:             f.Id,
		ChunkIndex:     f.ChunkIndex,
		Document:       f.Document,
		EmbeddingValue: pgvector.NewVector(f.EmbeddingValue),
		CreatedAt:      f.CreatedAt,
	}
}
