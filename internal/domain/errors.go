package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Session and plan errors
	CodeSessionNotFound      ErrorCode = "SESSION_NOT_FOUND"
	CodePlanNotFound         ErrorCode = "PLAN_NOT_FOUND"
	CodeInvalidState         ErrorCode = "INVALID_STATE"
	CodeGenerationInProgress ErrorCode = "GENERATION_IN_PROGRESS"
	CodeDraftInProgress      ErrorCode = "DRAFT_IN_PROGRESS"
	CodeTaskNotFound         ErrorCode = "TASK_NOT_FOUND"

	// Generation boundary errors
	CodeRateLimited       ErrorCode = "RATE_LIMITED"
	CodeCredentialInvalid ErrorCode = "CREDENTIAL_INVALID"
	CodeLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a key/value pair that is exposed to API clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Session not found with ID: %s", sessionID), nil)
}

func NewPlanNotFoundError(planID string) *DomainError {
	return NewError(CodePlanNotFound, fmt.Sprintf("Plan not found with ID: %s", planID), nil)
}

func NewInvalidStateError(from State, action string) *DomainError {
	return NewError(CodeInvalidState, fmt.Sprintf("cannot %s while session is %s", action, from), nil).
		WithContext("state", string(from))
}

func NewGenerationInProgressError() *DomainError {
	return NewError(CodeGenerationInProgress, "a plan generation is already in progress for this session", nil)
}

func NewDraftInProgressError(task string) *DomainError {
	return NewError(CodeDraftInProgress, "a draft is already being generated for this task", nil).
		WithContext("task", task)
}

func NewTaskNotFoundError(task string) *DomainError {
	return NewError(CodeTaskNotFound, "task is not part of the current plan", nil).
		WithContext("task", task)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", err)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field error of a request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	if len(v) == 1 {
		return v[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", v[0].Error(), len(v)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeValidation, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Code: CodeValidation, Message: "field has an invalid format", Value: value}
}

func NewInvalidChoiceError(field string, value interface{}, allowed []string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeValidation,
		Message: fmt.Sprintf("must be one of %q", allowed),
		Value:   value,
	}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeValidation,
		Message: fmt.Sprintf("length must be between %d and %d", min, max),
		Value:   value,
	}
}

// NewValidationFailedError wraps field errors into a single API error.
func NewValidationFailedError(errs ValidationErrors) *DomainError {
	return NewError(CodeValidation, "request validation failed", errs).
		WithContext("errors", []ValidationError(errs))
}
