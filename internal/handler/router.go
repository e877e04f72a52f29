package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/arturoeanton/jal-rakshak/internal/logging"
	"github.com/arturoeanton/jal-rakshak/internal/metrics"
	"github.com/arturoeanton/jal-rakshak/internal/middleware"
	"github.com/arturoeanton/jal-rakshak/internal/port"
	"github.com/arturoeanton/jal-rakshak/internal/service"
)

// Deps are the collaborators of the HTTP surface. Audit, AuditReader and
// Metrics are optional.
type Deps struct {
	AppName     string
	Auth        *service.AuthService
	Chat        *service.ChatService
	Verifier    port.TokenVerifier
	Store       port.ProfileStore
	Audit       port.AuditWriter
	AuditReader port.AuditReader
	Metrics     *metrics.Collector
	AccessLog   bool
}

// NewRouter builds the Fiber app with global middleware and all routes.
func NewRouter(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      d.AppName,
		ReadTimeout:  30 * time.Second,
		ErrorHandler: errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	if d.AccessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))
	if d.Metrics != nil {
		app.Use(middleware.Metrics(d.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}
	if d.Audit != nil {
		app.Use(middleware.AuditMiddleware(d.Audit))
	}

	gate := middleware.TokenGate(d.Verifier)
	api := app.Group("/api")

	NewHealthHandler(d.AppName, d.Store).Register(api)
	NewAuthHandler(d.Auth).Register(api, gate)
	NewChatHandler(d.Chat).Register(api)
	if d.AuditReader != nil {
		NewAuditHandler(d.AuditReader).Register(api, gate)
	}

	return app
}

// errorHandler renders errors that escaped a handler. Only fiber.Error
// messages reach the client.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		logging.ReportError(c.Context(), "unhandled error", err, "path", c.Path())
	}

	return c.Status(code).JSON(fiber.Map{"error": msg})
}
