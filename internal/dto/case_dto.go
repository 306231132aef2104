package dto

import "time"

// FragmentDTO is one matched corpus snippet echoed back to the client.
type FragmentDTO struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type DiagnoseRequest struct {
	Query string `json:"query" validate:"required"`
	K     int    `json:"k" validate:"omitempty,min=1"`
}

type DiagnoseResponse struct {
	Diagnosis  string        `json:"diagnosis"`
	Confidence float64       `json:"confidence"`
	Reasoning  string        `json:"reasoning"`
	Matches    []FragmentDTO `json:"matches"`
}

type PatientInput struct {
	FullName string  `json:"full_name" validate:"required"`
	Age      int     `json:"age" validate:"required,min=0,max=130"`
	Gender   string  `json:"gender" validate:"required"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

type SubmitCaseRequest struct {
	Patient   PatientInput `json:"patient" validate:"required"`
	Complaint string       `json:"complaint" validate:"required"`
	Symptoms  []string     `json:"symptoms" validate:"required,min=1,dive,required"`
	History   *string      `json:"history,omitempty"`
}

type PatientResponse struct {
	Id       int     `json:"id"`
	FullName string  `json:"full_name"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type CaseResponse struct {
	Id         string           `json:"id"`
	Patient    *PatientResponse `json:"patient,omitempty"`
	Complaint  string           `json:"complaint"`
	Symptoms   []string         `json:"symptoms"`
	History    *string          `json:"history,omitempty"`
	Diagnosis  string           `json:"diagnosis"`
	Confidence float64          `json:"confidence"`
	Status     string           `json:"status"`
	Reasoning  string           `json:"reasoning"`
	Matches    []string         `json:"matches"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type ListCasesRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Status string `query:"status" validate:"omitempty,oneof=pending diagnosed"`
}

type ListCasesResponse struct {
	Cases []*CaseResponse `json:"cases"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type DashboardStatsResponse struct {
	TotalCases     int64 `json:"total_cases"`
	PendingCases   int64 `json:"pending_cases"`
	DiagnosedCases int64 `json:"diagnosed_cases"`
	TotalPatients  int64 `json:"total_patients"`
	CorpusSize     int64 `json:"corpus_size"`
}
