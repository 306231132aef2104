package implementation

import (
	"context"

	"medrag-be/internal/entity"
	"medrag-be/internal/mapper"
	"medrag-be/internal/model"
	"medrag-be/internal/repository/contract"
	"medrag-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type FragmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FragmentMapper
}

func NewFragmentRepository(db *gorm.DB) contract.FragmentRepository {
	return &FragmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewFragmentMapper(),
	}
}

func (r *FragmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FragmentRepositoryImpl) CreateBulk(ctx context.Context, fragments []*entity.FragmentEmbedding) error {
	models := make([]*model.FragmentEmbedding, len(fragments))
	for i, f := range fragments {
		models[i] = r.mapper.ToModel(f)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}

	for i, m := range models {
		*fragments[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

// SearchSimilar ranks the corpus by cosine similarity to the query vector.
// Cosine distance in pgvector is 1 - cosine_similarity, so the score is
// computed as 1 - (embedding_value <=> query_vector). Ties fall back to
// chunk_index so equal-score results come back in a stable order.
func (r *FragmentRepositoryImpl) SearchSimilar(ctx context.Context, vector []float32, k int) ([]*entity.ScoredFragment, error) {
	type result struct {
		model.FragmentEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("fragment_embeddings").
		Select("fragment_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC, chunk_index ASC").
		Limit(k).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredFragment, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredFragment{
			Fragment:   r.mapper.ToEntity(&res.FragmentEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *FragmentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.FragmentEmbedding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
