package middleware

import (
	"strconv"
	"time"

	"go-inventory-api/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency per method/route/status.
// The route pattern is used rather than the raw path to keep label
// cardinality bounded.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
		}

		method := c.Method()
		path := c.Route().Path
		code := strconv.Itoa(status)

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(time.Since(start).Seconds())

		return err
	}
}
