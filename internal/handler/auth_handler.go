package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/logging"
	"github.com/arturoeanton/jal-rakshak/internal/middleware"
	"github.com/arturoeanton/jal-rakshak/internal/port"
	"github.com/arturoeanton/jal-rakshak/internal/service"
)

// Response messages of the auth endpoints.
const (
	MsgRegistered         = "User registered successfully!"
	MsgProfileWriteFailed = "Failed to create user profile."
	MsgInvalidRequestBody = "Invalid request body."
	MsgSocialLoginHandled = "Social login handled."
	MsgSocialLoginFailed  = "Failed to handle social login."
)

// AuthHandler handles registration and social login.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register sets up auth routes. gate guards the social login route.
func (h *AuthHandler) Register(router fiber.Router, gate fiber.Handler) {
	router.Post("/register", h.RegisterUser)
	router.Post("/handle-social-login", gate, h.HandleSocialLogin)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// RegisterUser creates an email/password account and its profile.
func (h *AuthHandler) RegisterUser(c fiber.Ctx) error {
	middleware.SetAuditAction(c, domain.AuditActionRegister)

	var body registerRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgInvalidRequestBody})
	}

	uid, err := h.authService.Register(c.Context(), service.RegisterInput{
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": registerErrorMessage(err)})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": MsgRegistered,
		"uid":     uid,
	})
}

// registerErrorMessage picks the client-facing message for a failed
// registration: the provider's own wording, or a fixed profile message.
func registerErrorMessage(err error) string {
	var perr *port.ProviderError
	switch {
	case errors.As(err, &perr):
		return perr.Error()
	case errors.Is(err, port.ErrProfileWrite):
		return MsgProfileWriteFailed
	default:
		slog.Error("unexpected registration error", "error", err)
		return err.Error()
	}
}

// HandleSocialLogin creates the profile of a verified federated user on
// first sign-in. Repeat sign-ins leave the stored profile unchanged.
func (h *AuthHandler) HandleSocialLogin(c fiber.Ctx) error {
	middleware.SetAuditAction(c, domain.AuditActionSocialLogin)

	uc := middleware.GetUserContext(c)
	if uc == nil {
		return c.Status(fiber.StatusUnauthorized).SendString(middleware.MsgInvalidToken)
	}

	if _, err := h.authService.HandleSocialLogin(c.Context(), uc); err != nil {
		logging.ReportError(c.Context(), "social login failed", err, "uid", uc.UserID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": MsgSocialLoginFailed})
	}

	return c.JSON(fiber.Map{"message": MsgSocialLoginHandled})
}
