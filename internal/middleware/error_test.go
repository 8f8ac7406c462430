package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"brand-plan/internal/domain"
	"brand-plan/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"Session not found", domain.NewSessionNotFoundError("x"), http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"Plan not found", domain.NewPlanNotFoundError("x"), http.StatusNotFound, "PLAN_NOT_FOUND"},
		{"Task not found", domain.NewTaskNotFoundError("x"), http.StatusNotFound, "TASK_NOT_FOUND"},
		{"Invalid input", domain.NewInvalidInputError("bad"), http.StatusBadRequest, "INVALID_INPUT"},
		{"Invalid state", domain.NewInvalidStateError(domain.StateIdle, "toggle a task"), http.StatusConflict, "INVALID_STATE"},
		{"Generation in progress", domain.NewGenerationInProgressError(), http.StatusConflict, "GENERATION_IN_PROGRESS"},
		{"Draft in progress", domain.NewDraftInProgressError("x"), http.StatusConflict, "DRAFT_IN_PROGRESS"},
		{"Rate limited", domain.NewError(domain.CodeRateLimited, "wait", nil), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"Credential invalid", domain.NewError(domain.CodeCredentialInvalid, "renew", nil), http.StatusUnauthorized, "CREDENTIAL_INVALID"},
		{"LLM failure", domain.NewLLMServiceError(errors.New("boom")), http.StatusServiceUnavailable, "LLM_SERVICE_ERROR"},
		{"Internal", domain.NewInternalError("oops", errors.New("db")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"Fiber error", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "HTTP_ERROR"},
		{"Unknown", errors.New("plain"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newErrorApp(tt.err).Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestErrorHandler_Details(t *testing.T) {
	err := domain.NewError(domain.CodeCredentialInvalid, "renew", nil).WithContext("reauth", true)
	resp, reqErr := newErrorApp(err).Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, reqErr)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body.Details["reauth"])
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	errs := domain.ValidationErrors{domain.NewMissingFieldError("niche")}

	t.Run("Bare", func(t *testing.T) {
		resp, err := newErrorApp(errs).Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "niche", body.Errors[0].Field)
	})

	t.Run("Wrapped in a domain error", func(t *testing.T) {
		resp, err := newErrorApp(domain.NewValidationFailedError(errs)).Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body middleware.ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		assert.Contains(t, string(raw), `"field":"niche"`)
	})
}

func TestStatusForCode_UnknownIsServerError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, middleware.StatusForCode("SOMETHING_NEW"))
	assert.Equal(t, http.StatusConflict, middleware.StatusForCode(domain.CodeDraftInProgress))
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.RequestIDKey).(string))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Len(t, string(body), 26)
	assert.Equal(t, string(body), resp.Header.Get(fiber.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "client-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "client-id", resp.Header.Get(fiber.HeaderXRequestID))
}
