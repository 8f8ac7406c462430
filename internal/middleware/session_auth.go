package middleware

import (
	"strings"

	"brand-plan/internal/logger"
	"brand-plan/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer"
	SessionIDKey        = "sessionID" // Key for storing the session ID in fiber.Ctx locals
	SessionIDParam      = "id"
)

// RequireSession protects session routes with the bearer token issued at
// session creation. When the route carries an :id parameter it must match
// the session the token was issued for.
func RequireSession(tokens service.SessionTokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		scheme, tokenString, _ := strings.Cut(strings.TrimSpace(authHeader), " ")
		if !strings.EqualFold(scheme, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			logger.Get().Debug("Session token rejected", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Session token is invalid or expired",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if id := c.Params(SessionIDParam); id != "" && id != claims.SessionID {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "SESSION_MISMATCH",
				Message: "Token was not issued for this session",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(SessionIDKey, claims.SessionID)

		return c.Next()
	}
}

// SessionID returns the authenticated session ID stored by RequireSession.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionIDKey).(string)
	return id
}
