package unitofwork

import (
	"context"

	"medrag-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PatientRepository() contract.PatientRepository
	CaseRepository() contract.CaseRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatTurnRepository() contract.ChatTurnRepository
	FragmentRepository() contract.FragmentRepository
	FeedbackRepository() contract.FeedbackRepository
}
