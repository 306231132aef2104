package model

import (
	"time"
)

type Feedback struct {
	Id        string    `gorm:"type:varchar(64);primaryKey"`
	CaseId    *string   `gorm:"type:varchar(64);index"`
	Rating    int       `gorm:"default:0"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedback"
}
