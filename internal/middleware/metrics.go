package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type HTTPMetricsRecorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Metrics records the status and latency of every request by route pattern.
func Metrics(recorder HTTPMetricsRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		recorder.RecordHTTPRequest(c.Method(), c.Route().Path, statusCode(c, err), time.Since(start))
		return err
	}
}
