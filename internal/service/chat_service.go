package service

import (
	"context"
	"errors"
	"fmt"

	"medrag-be/internal/constant"
	"medrag-be/internal/dto"
	"medrag-be/internal/entity"
	"medrag-be/internal/pkg/logger"
	"medrag-be/internal/repository/specification"
	"medrag-be/internal/repository/unitofwork"
	"medrag-be/pkg/llm"
	ragcontext "medrag-be/pkg/rag/context"
	"medrag-be/pkg/rag/prompt"
	"medrag-be/pkg/rag/retrieval"
	"medrag-be/pkg/store"
)

var ErrSessionNotFound = errors.New("chat session not found")

type IChatService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	Send(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	History(ctx context.Context, sessionId string) (*dto.ChatHistoryResponse, error)
	Clear(ctx context.Context, sessionId string) error
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	retriever   *retrieval.Client
	assembler   *ragcontext.Assembler
	llmProvider llm.LLMProvider
	logger      logger.ILogger

	sessionLocks *keyedMutex
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	retriever *retrieval.Client,
	assembler *ragcontext.Assembler,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		retriever:    retriever,
		assembler:    assembler,
		llmProvider:  llmProvider,
		logger:       log,
		sessionLocks: newKeyedMutex(),
	}
}

func (s *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session := &entity.ChatSession{Id: newSessionId()}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{SessionId: session.Id}, nil
}

// Send runs one conversational turn. An unknown or empty session id creates
// the session implicitly. Turns for the same session are serialized in
// completion order; interleaved clients see a consistent history even if
// their replies land out of send order.
func (s *chatService) Send(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = newSessionId()
	}

	s.sessionLocks.Lock(sessionId)
	defer s.sessionLocks.Unlock(sessionId)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = &entity.ChatSession{Id: sessionId}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
	}

	recent, err := uow.ChatTurnRepository().FindRecent(ctx, sessionId, constant.HistoryWindowSize)
	if err != nil {
		return nil, err
	}
	history := make([]store.Turn, len(recent))
	for i, t := range recent {
		history[i] = store.Turn{User: t.UserMessage, Assistant: t.AssistantMessage}
	}

	k := req.K
	if k < 1 {
		k = constant.DefaultRetrievalK
	}
	fragments, err := s.retriever.Retrieve(ctx, req.Query, k)
	if err != nil {
		return nil, err
	}

	contextText := s.assembler.Assemble(fragments)
	chatPrompt := prompt.BuildConversational(req.Query, contextText, history)

	reply, err := s.llmProvider.Generate(ctx, chatPrompt,
		llm.WithMaxTokens(constant.ChatMaxOutputTokens))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamGeneration, err)
	}

	turn := &entity.ChatTurn{
		ChatSessionId:    sessionId,
		UserMessage:      req.Query,
		AssistantMessage: reply,
	}
	if err := uow.ChatTurnRepository().Create(ctx, turn); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, sessionId); err != nil {
		s.logger.Warn("chat", "failed to touch session", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	return &dto.SendChatResponse{
		SessionId: sessionId,
		Response:  reply,
		Matches:   fragmentsToDTO(ragcontext.TopMatches(fragments)),
	}, nil
}

func (s *chatService) History(ctx context.Context, sessionId string) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	turns, err := uow.ChatTurnRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatTurnDTO, len(turns))
	for i, t := range turns {
		out[i] = dto.ChatTurnDTO{
			User:      t.UserMessage,
			Assistant: t.AssistantMessage,
			CreatedAt: t.CreatedAt,
		}
	}

	return &dto.ChatHistoryResponse{
		SessionId: sessionId,
		Turns:     out,
	}, nil
}

// Clear deletes a session's turns but keeps the session row, so the same id
// keeps working with a fresh history.
func (s *chatService) Clear(ctx context.Context, sessionId string) error {
	s.sessionLocks.Lock(sessionId)
	defer s.sessionLocks.Unlock(sessionId)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}

	return uow.ChatTurnRepository().DeleteBySessionId(ctx, sessionId)
}
