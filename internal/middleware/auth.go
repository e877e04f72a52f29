package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

const userLocalsKey = "user"

// Plain-text bodies of the gate's 401 responses. They carry no detail about
// why verification failed.
const (
	MsgNoToken      = "Unauthorized: No token provided"
	MsgInvalidToken = "Unauthorized: Invalid token"
)

// TokenGate verifies the bearer token of every request it guards and injects
// the decoded claims as a UserContext. A request without a token is rejected
// before the verifier is called. Nothing is cached: each request is verified.
func TokenGate(verifier port.TokenVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).SendString(MsgNoToken)
		}

		uc, err := verifier.VerifyIDToken(c.Context(), token)
		if err != nil {
			slog.DebugContext(c.Context(), "token verification failed", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusUnauthorized).SendString(MsgInvalidToken)
		}

		c.Locals(userLocalsKey, uc)
		return c.Next()
	}
}

// BearerToken extracts the credential from an Authorization header value.
// It returns "" unless the header has the form "Bearer <token>".
func BearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserContext extracts the UserContext from Fiber locals.
func GetUserContext(c fiber.Ctx) *domain.UserContext {
	u, ok := c.Locals(userLocalsKey).(*domain.UserContext)
	if !ok {
		return nil
	}
	return u
}
