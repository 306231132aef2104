package entity

import (
	"time"
)

type Patient struct {
	Id        int
	FullName  string
	Age       int
	Gender    string
	Phone     *string
	Email     *string
	CreatedAt time.Time
}
