package middleware

import (
	"time"

	"vending/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RequestLogger attaches a logger carrying the request id and trace id to the
// request context and logs every completed request.
func RequestLogger(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		ctx := c.UserContext()

		fields := []zap.Field{zap.String("method", c.Method()), zap.String("path", c.Path())}
		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		log := base.With(fields...)
		c.SetUserContext(logger.ContextWithLogger(ctx, log))

		err := c.Next()

		log.Info("request completed",
			zap.Int("status", statusCode(c, err)),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}

// statusCode returns the status that will be written for the request.
func statusCode(c *fiber.Ctx, err error) int {
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
	return c.Response().StatusCode()
}
