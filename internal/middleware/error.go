package middleware

import (
	"errors"
	"net/http"

	"brand-plan/internal/domain"
	"brand-plan/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse represents validation error response
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

var statusByCode = map[domain.ErrorCode]int{
	domain.CodeNotFound:             http.StatusNotFound,
	domain.CodeSessionNotFound:      http.StatusNotFound,
	domain.CodePlanNotFound:         http.StatusNotFound,
	domain.CodeTaskNotFound:         http.StatusNotFound,
	domain.CodeInvalidInput:         http.StatusBadRequest,
	domain.CodeValidation:           http.StatusBadRequest,
	domain.CodeUnauthorized:         http.StatusUnauthorized,
	domain.CodeCredentialInvalid:    http.StatusUnauthorized,
	domain.CodeInvalidState:         http.StatusConflict,
	domain.CodeGenerationInProgress: http.StatusConflict,
	domain.CodeDraftInProgress:      http.StatusConflict,
	domain.CodeRateLimited:          http.StatusTooManyRequests,
	domain.CodeLLMServiceError:      http.StatusServiceUnavailable,
}

// StatusForCode returns the HTTP status of a domain error code; unknown
// codes are server errors.
func StatusForCode(code domain.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders every error returned by a handler. It is installed
// through fiber.Config.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			domainErr      *domain.DomainError
			validationErrs domain.ValidationErrors
			fiberErr       *fiber.Error
		)

		switch {
		case errors.As(err, &domainErr):
			return writeDomainError(c, domainErr)
		case errors.As(err, &validationErrs):
			logger.Get().Warn("Request validation failed",
				append(requestFields(c), zap.Int("error_count", len(validationErrs)))...)
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  validationErrs,
			})
		case errors.As(err, &fiberErr):
			logger.Get().Warn("HTTP error",
				append(requestFields(c), zap.Int("status", fiberErr.Code), zap.String("message", fiberErr.Message))...)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		default:
			logger.Get().Error("Unhandled error", append(requestFields(c), zap.Error(err))...)
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Code:    string(domain.CodeInternal),
				Message: "Internal server error",
				Status:  http.StatusInternalServerError,
			})
		}
	}
}

func writeDomainError(c *fiber.Ctx, domainErr *domain.DomainError) error {
	status := StatusForCode(domainErr.Code)

	fields := append(requestFields(c),
		zap.String("code", string(domainErr.Code)),
		zap.Int("status", status),
		zap.Error(domainErr.Cause),
	)
	if status >= http.StatusInternalServerError {
		logger.Get().Error(domainErr.Message, fields...)
	} else {
		logger.Get().Warn(domainErr.Message, fields...)
	}

	resp := ErrorResponse{
		Code:    string(domainErr.Code),
		Message: domainErr.Message,
		Status:  status,
	}
	if len(domainErr.Context) > 0 {
		resp.Details = domainErr.Context
	}
	return c.Status(status).JSON(resp)
}
