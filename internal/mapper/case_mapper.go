package mapper

import (
	"encoding/json"

	"medrag-be/internal/entity"
	"medrag-be/internal/model"

	"gorm.io/datatypes"
)

type CaseMapper struct{}

func NewCaseMapper() *CaseMapper {
	return &CaseMapper{}
}

func (m *CaseMapper) ToEntity(c *model.Case) *entity.Case {
	if c == nil {
		return nil
	}

	var diagnosis, reasoning string
	if c.Diagnosis != nil {
		diagnosis = *c.Diagnosis
	}
	if c.Reasoning != nil {
		reasoning = *c.Reasoning
	}

	var confidence float64
	if c.Confidence != nil {
		confidence = *c.Confidence
	}

	return &entity.Case{
		Id:         c.Id,
		PatientId:  c.PatientId,
		Complaint:  c.Complaint,
		Symptoms:   jsonToStrings(c.Symptoms),
		History:    c.History,
		Diagnosis:  diagnosis,
		Confidence: confidence,
		Status:     c.Status,
		Reasoning:  reasoning,
		Matches:    jsonToStrings(c.Matches),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (m *CaseMapper) ToModel(c *entity.Case) *model.Case {
	if c == nil {
		return nil
	}

	var diagnosis, reasoning *string
	if c.Diagnosis != "" {
		diagnosis = &c.Diagnosis
	}
	if c.Reasoning != "" {
		reasoning = &c.Reasoning
	}

	var confidence *float64
	if c.Confidence != 0 {
		confidence = &c.Confidence
	}

	return &model.Case{
		Id:         c.Id,
		PatientId:  c.PatientId,
		Complaint:  c.Complaint,
		Symptoms:   stringsToJSON(c.Symptoms),
		History:    c.History,
		Diagnosis:  diagnosis,
		Confidence: confidence,
		Status:     c.Status,
		Reasoning:  reasoning,
		Matches:    stringsToJSON(c.Matches),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func jsonToStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

func stringsToJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}
