package handler

import (
	"context"
	"encoding/json"
	"errors"

	"cubie-assistant/internal/dto"
	"cubie-assistant/internal/pkg/logger"
	"cubie-assistant/internal/pkg/serverutils"
	"cubie-assistant/internal/service"
	internalWS "cubie-assistant/internal/websocket"
	"cubie-assistant/pkg/analytics"
	"cubie-assistant/pkg/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatHandler serves the streaming chat channel. Each text frame is a query
// request and is answered by exactly one reply or error frame.
type ChatHandler struct {
	service service.IAssistantService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewChatHandler(service service.IAssistantService, hub *internalWS.Hub, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Get("/assistant/v1/ws", auth, h.upgrade, websocket.New(h.serve))
}

func (h *ChatHandler) upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *ChatHandler) serve(c *websocket.Conn) {
	identity := analytics.Identity{}
	identity.UserID, _ = c.Locals(serverutils.LocalUserID).(string)
	identity.UserName, _ = c.Locals(serverutils.LocalUserName).(string)
	identity.Email, _ = c.Locals(serverutils.LocalEmail).(string)

	h.logger.Info("WEBSOCKET", "Chat session started", map[string]interface{}{"user_id": identity.UserID})
	client := internalWS.NewClient(h.hub, c, identity.UserID, func(ctx context.Context, _ string, payload []byte) []byte {
		return h.Handle(ctx, identity, payload)
	}, h.logger)
	client.Serve(context.Background())
	h.logger.Info("WEBSOCKET", "Chat session ended", map[string]interface{}{"user_id": identity.UserID})
}

// Handle answers one frame.
func (h *ChatHandler) Handle(ctx context.Context, identity analytics.Identity, payload []byte) []byte {
	var req dto.AssistantQueryRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return frame(internalWS.Frame{Type: "error", Message: "Invalid request body"})
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return frame(internalWS.Frame{Type: "error", Message: err.Error()})
	}

	res, err := h.service.Query(ctx, identity, &req)
	if err != nil {
		msg := errs.UserMessage(err)
		if errors.Is(err, service.ErrSessionNotOwned) {
			msg = "Session not found"
		}
		h.logger.Warn("WEBSOCKET", "Query failed", map[string]interface{}{"user_id": identity.UserID, "error": err})
		return frame(internalWS.Frame{Type: "error", Message: msg})
	}
	return frame(internalWS.Frame{Type: "reply", Data: res})
}

func frame(f internalWS.Frame) []byte {
	data, _ := json.Marshal(f)
	return data
}
