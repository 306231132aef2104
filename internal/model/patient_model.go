package model

import (
	"time"
)

type Patient struct {
	Id        int     `gorm:"primaryKey;autoIncrement"`
	FullName  string  `gorm:"type:varchar(255);not null"`
	Age       int     `gorm:"not null"`
	Gender    string  `gorm:"type:varchar(50);not null"`
	Phone     *string `gorm:"type:varchar(50)"`
	Email     *string `gorm:"type:varchar(255);index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Patient) TableName() string {
	return "patients"
}
