package contract

import (
	"context"

	"medrag-be/internal/entity"
	"medrag-be/internal/repository/specification"
)

type CaseRepository interface {
	Create(ctx context.Context, c *entity.Case) error
	Update(ctx context.Context, c *entity.Case) error
	// UpdateDiagnosis replaces the diagnosis fields of a case as a unit and
	// marks it diagnosed. Prior diagnosis content is overwritten.
	UpdateDiagnosis(ctx context.Context, caseId string, record *entity.DiagnosisRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Case, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Case, error)
	FindWithPatient(ctx context.Context, caseId string) (*entity.CaseWithPatient, error)
	ListWithPatients(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseWithPatient, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
