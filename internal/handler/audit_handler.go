package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/jal-rakshak/internal/logging"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// AuditHandler handles audit log endpoints.
type AuditHandler struct {
	reader port.AuditReader
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(reader port.AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// Register sets up audit routes behind gate.
func (h *AuditHandler) Register(router fiber.Router, gate fiber.Handler) {
	audit := router.Group("/audit", gate)
	audit.Get("/logs", h.ListLogs)
}

// ListLogs returns audit logs with optional filtering by action.
func (h *AuditHandler) ListLogs(c fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultAuditLimit)))
	if err != nil || limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	action := c.Query("action", "")

	logs, err := h.reader.ListAuditLogs(c.Context(), limit, action)
	if err != nil {
		logging.ReportError(c.Context(), "list audit logs failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list audit logs"})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}
