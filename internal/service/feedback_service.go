package service

import (
	"context"

	"medrag-be/internal/dto"
	"medrag-be/internal/entity"
	"medrag-be/internal/repository/unitofwork"
)

type IFeedbackService interface {
	Submit(ctx context.Context, req *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error)
}

type feedbackService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFeedbackService(uowFactory unitofwork.RepositoryFactory) IFeedbackService {
	return &feedbackService{
		uowFactory: uowFactory,
	}
}

func (s *feedbackService) Submit(ctx context.Context, req *dto.SubmitFeedbackRequest) (*dto.SubmitFeedbackResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	feedback := &entity.Feedback{
		Id:      newFeedbackId(),
		CaseId:  req.CaseId,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := uow.FeedbackRepository().Create(ctx, feedback); err != nil {
		return nil, err
	}

	return &dto.SubmitFeedbackResponse{Id: feedback.Id}, nil
}
