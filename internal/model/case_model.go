package model

import (
	"time"

	"gorm.io/datatypes"
)

type Case struct {
	Id         string         `gorm:"type:varchar(64);primaryKey"`
	PatientId  int            `gorm:"not null;index"`
	Complaint  string         `gorm:"type:text"`
	Symptoms   datatypes.JSON `gorm:"type:jsonb"`
	History    *string        `gorm:"type:text"`
	Diagnosis  *string        `gorm:"type:text"`
	Confidence *float64
	Status     string         `gorm:"type:varchar(50);not null;default:'pending';index"`
	Reasoning  *string        `gorm:"type:text"`
	Matches    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Case) TableName() string {
	return "cases"
}
