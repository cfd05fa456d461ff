package middleware

import (
	"go-inventory-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestID tags every request with a unique ID, echoed in the response
// headers and attached to a request-scoped logger.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("X-Request-ID", requestID)
		c.Locals("request_id", requestID)
		c.Locals("logger", logger.GetLogger().With(zap.String("request_id", requestID)))

		return c.Next()
	}
}
