package contract

import (
	"context"

	"medrag-be/internal/entity"
	"medrag-be/internal/repository/specification"
)

type ChatTurnRepository interface {
	Create(ctx context.Context, turn *entity.ChatTurn) error
	// FindRecent returns the newest n turns of a session in chronological
	// order (oldest first).
	FindRecent(ctx context.Context, sessionId string, n int) ([]*entity.ChatTurn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error)
	DeleteBySessionId(ctx context.Context, sessionId string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
