package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

const (
	auditWriteTimeout    = 5 * time.Second
	auditActionLocalsKey = "audit_action"
)

// SetAuditAction overrides the action recorded for the current request.
func SetAuditAction(c fiber.Ctx, action string) {
	c.Locals(auditActionLocalsKey, action)
}

// AuditMiddleware records every request through writer. Records are written
// in the background; a failed write is logged and never affects the response.
func AuditMiddleware(writer port.AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Fiber reuses context buffers once the handler returns, so copy
		// everything the goroutine below needs.
		method := strings.Clone(c.Method())
		path := strings.Clone(c.Path())
		ip := strings.Clone(c.IP())
		userAgent := strings.Clone(c.Get(fiber.HeaderUserAgent))

		err := c.Next()

		userID := domain.AnonymousUser
		if uc := GetUserContext(c); uc != nil {
			userID = uc.UserID
		}

		action := domain.AuditActionHTTPRequest
		if a, ok := c.Locals(auditActionLocalsKey).(string); ok && a != "" {
			action = a
		}

		details := map[string]interface{}{
			"method":      method,
			"path":        path,
			"status":      responseStatus(c, err),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		detailsJSON, _ := json.Marshal(details)

		entry := &domain.AuditLog{
			ID:         uuid.NewString(),
			UserID:     userID,
			Action:     action,
			Resource:   "api",
			ResourceID: path,
			Details:    string(detailsJSON),
			IP:         ip,
			UserAgent:  userAgent,
			CreatedAt:  start.UTC(),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
			defer cancel()
			if writeErr := writer.WriteAudit(ctx, entry); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}
