package websocket

import (
	"context"

	"medrag-be/internal/dto"
	"medrag-be/internal/pkg/logger"
	"medrag-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatHandler serves the streaming chat endpoint. Each connection is bound
// to one session; every inbound frame is one query, every outbound frame one
// reply with its matched fragments.
type ChatHandler struct {
	chatService service.IChatService
	logger      logger.ILogger
}

func NewChatHandler(chatService service.IChatService, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      log,
	}
}

type inboundFrame struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type errorFrame struct {
	Error string `json:"error"`
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chat/:session_id/ws", h.Serve)
}

func (h *ChatHandler) Serve(c *fiber.Ctx) error {
	sessionId := c.Params("session_id")

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("websocket", "chat session connected", map[string]interface{}{
			"session_id": sessionId,
		})
		h.loop(conn, sessionId)
		h.logger.Info("websocket", "chat session disconnected", map[string]interface{}{
			"session_id": sessionId,
		})
	})(c)
}

func (h *ChatHandler) loop(conn *websocket.Conn, sessionId string) {
	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			// Read failure means the peer is gone or sent garbage; either
			// way the connection is done.
			return
		}

		// The request owns its own context: a disconnect mid-generation
		// discards the result, it does not cancel upstream work already
		// committed by the service.
		res, err := h.chatService.Send(context.Background(), &dto.SendChatRequest{
			SessionId: sessionId,
			Query:     frame.Query,
			K:         frame.K,
		})
		if err != nil {
			h.logger.Warn("websocket", "chat turn failed", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
			if werr := conn.WriteJSON(errorFrame{Error: err.Error()}); werr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(res); err != nil {
			return
		}
	}
}
