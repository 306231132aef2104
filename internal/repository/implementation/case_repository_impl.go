package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"medrag-be/internal/constant"
	"medrag-be/internal/entity"
	"medrag-be/internal/mapper"
	"medrag-be/internal/model"
	"medrag-be/internal/repository/contract"
	"medrag-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CaseRepositoryImpl struct {
	db            *gorm.DB
	mapper        *mapper.CaseMapper
	patientMapper *mapper.PatientMapper
}

func NewCaseRepository(db *gorm.DB) contract.CaseRepository {
	return &CaseRepositoryImpl{
		db:            db,
		mapper:        mapper.NewCaseMapper(),
		patientMapper: mapper.NewPatientMapper(),
	}
}

func (r *CaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CaseRepositoryImpl) Create(ctx context.Context, c *entity.Case) error {
	m := r.mapper.ToModel(c)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*c = *r.mapper.ToEntity(m)
	return nil
}

func (r *CaseRepositoryImpl) Update(ctx context.Context, c *entity.Case) error {
	m := r.mapper.ToModel(c)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*c = *r.mapper.ToEntity(m)
	return nil
}

func (r *CaseRepositoryImpl) UpdateDiagnosis(ctx context.Context, caseId string, record *entity.DiagnosisRecord) error {
	matches, err := json.Marshal(record.Matches)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&model.Case{}).
		Where("id = ?", caseId).
		Updates(map[string]interface{}{
			"diagnosis":  record.Label,
			"reasoning":  record.Rationale,
			"confidence": record.Confidence,
			"matches":    datatypes.JSON(matches),
			"status":     constant.CaseStatusDiagnosed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Case, error) {
	var m model.Case
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Case, error) {
	var models []*model.Case
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Case, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

type caseWithPatientRow struct {
	model.Case
	Patient model.Patient `gorm:"embedded;embeddedPrefix:patient__"`
}

func (r *CaseRepositoryImpl) FindWithPatient(ctx context.Context, caseId string) (*entity.CaseWithPatient, error) {
	var row caseWithPatientRow
	err := r.db.WithContext(ctx).
		Table("cases").
		Select(caseWithPatientColumns).
		Joins("JOIN patients ON patients.id = cases.patient_id").
		Where("cases.id = ?", caseId).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.rowToEntity(&row), nil
}

func (r *CaseRepositoryImpl) ListWithPatients(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseWithPatient, error) {
	var rows []*caseWithPatientRow
	query := r.db.WithContext(ctx).
		Table("cases").
		Select(caseWithPatientColumns).
		Joins("JOIN patients ON patients.id = cases.patient_id")
	query = r.applySpecifications(query, specs...)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.CaseWithPatient, len(rows))
	for i, row := range rows {
		out[i] = r.rowToEntity(row)
	}
	return out, nil
}

const caseWithPatientColumns = "cases.*, " +
	"patients.id as patient__id, patients.full_name as patient__full_name, " +
	"patients.age as patient__age, patients.gender as patient__gender, " +
	"patients.phone as patient__phone, patients.email as patient__email, " +
	"patients.created_at as patient__created_at"

func (r *CaseRepositoryImpl) rowToEntity(row *caseWithPatientRow) *entity.CaseWithPatient {
	return &entity.CaseWithPatient{
		Case:    *r.mapper.ToEntity(&row.Case),
		Patient: *r.patientMapper.ToEntity(&row.Patient),
	}
}

func (r *CaseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Case{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
