package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/jal-rakshak/internal/metrics"
)

// Metrics reports method, matched route, status and latency of every request.
func Metrics(rec metrics.Recorder) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		method := strings.Clone(c.Method())

		err := c.Next()

		rec.ObserveRequest(method, strings.Clone(c.Route().Path), responseStatus(c, err), time.Since(start))
		return err
	}
}

// responseStatus is the status the client will see. When the chain returned
// an error the ErrorHandler has not written the response yet.
func responseStatus(c fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
