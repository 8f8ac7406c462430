package middleware

import (
	"brand-plan/internal/domain"
	"brand-plan/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RequireULIDParams rejects the request with 400 when any of the named path
// parameters is not a ULID, reporting every bad parameter at once.
func RequireULIDParams(params ...string) fiber.Handler {
	validator := validation.NewValidator()
	return func(c *fiber.Ctx) error {
		var errs domain.ValidationErrors
		for _, param := range params {
			errs = append(errs, validator.ValidateID(param, c.Params(param))...)
		}
		if len(errs) > 0 {
			return errs
		}
		return c.Next()
	}
}
