package middleware

import (
	"time"

	"brand-plan/internal/logger"
	"brand-plan/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// RequestIDKey is the fiber locals key holding the request ID.
const RequestIDKey = "requestID"

// RequestID tags every request with a ULID, echoed in X-Request-ID unless
// the client already sent one.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Generator:  util.NewULID,
		ContextKey: RequestIDKey,
	})
}

func requestFields(c *fiber.Ctx) []zap.Field {
	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
	}
	if id, ok := c.Locals(RequestIDKey).(string); ok && id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	return fields
}

// RequestLogger is a middleware that logs HTTP requests
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			// Let the error handler write the response so the status is logged.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Get().Info("HTTP Request", append(requestFields(c),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get(fiber.HeaderUserAgent)),
		)...)

		return nil
	}
}
