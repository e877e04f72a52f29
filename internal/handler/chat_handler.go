package handler

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/jal-rakshak/internal/logging"
	"github.com/arturoeanton/jal-rakshak/internal/service"
)

// MsgChatFailed is the only error a chat client ever sees.
const MsgChatFailed = "Failed to get response from AI."

// ChatHandler proxies questions to the completion gateway.
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Register sets up chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/chat", h.Chat)
}

// Chat answers a single message. No authentication, no history. The message
// is not validated: whatever the client sent is forwarded.
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	message, err := chatMessage(c.Body())
	if err != nil {
		logging.ReportError(c.Context(), "chat request body unreadable", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": MsgChatFailed})
	}

	reply, err := h.chatService.Reply(c.Context(), message)
	if err != nil {
		logging.ReportError(c.Context(), "chat completion failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": MsgChatFailed})
	}

	return c.JSON(fiber.Map{"reply": reply})
}

// chatMessage extracts the "message" field. An empty body, a missing field and
// null all yield ""; a non-string value is forwarded as its JSON text.
func chatMessage(body []byte) (string, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", nil
	}

	var req struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}

	raw := strings.TrimSpace(string(req.Message))
	if raw == "" || raw == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(req.Message, &s); err == nil {
		return s, nil
	}
	return raw, nil
}
