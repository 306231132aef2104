package entity

import (
	"time"
)

type Feedback struct {
	Id        string
	CaseId    *string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
