package entity

import (
	"time"
)

// Case is one diagnostic case. A case holds at most one diagnosis record;
// regeneration replaces that record wholesale, never appends to it.
type Case struct {
	Id         string
	PatientId  int
	Complaint  string
	Symptoms   []string
	History    *string
	Diagnosis  string
	Confidence float64
	Status     string
	Reasoning  string
	Matches    []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DiagnosisRecord is the structured outcome of one reasoning pass, written
// onto a case as a unit.
type DiagnosisRecord struct {
	Label      string
	Rationale  string
	Confidence float64
	Matches    []string
}

// CaseWithPatient joins a case with its patient for list/detail reads.
type CaseWithPatient struct {
	Case    Case
	Patient Patient
}
