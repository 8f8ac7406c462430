package domain

import (
	"context"
	"errors"
)

// GenerationErrorKind classifies a failure of the text generation service.
type GenerationErrorKind string

const (
	// KindRateLimited means the provider quota was exhausted; wait and retry.
	KindRateLimited GenerationErrorKind = "rate_limited"
	// KindCredentialInvalid means the API credential was rejected; the session
	// must be re-authenticated before generating again.
	KindCredentialInvalid GenerationErrorKind = "credential_invalid"
	// KindGeneric is any other failure; the message is shown verbatim.
	KindGeneric GenerationErrorKind = "generic"
)

// GenericGenerationMessage is shown when a failure carries no usable text.
const GenericGenerationMessage = "Falha na comunicação com a Inteligência Artificial."

// DraftFailedMessage is shown for every draft failure other than a rate limit.
const DraftFailedMessage = "Erro ao gerar legenda automática."

// AsDraftError narrows a draft failure to the two kinds a draft can report.
// Drafts are a local convenience: only a rate limit keeps its kind, anything
// else (credential rejections included) becomes a generic failure so it never
// asks the client to re-authenticate.
func AsDraftError(err error) *GenerationError {
	genErr := AsGenerationError(err)
	if genErr.Kind == KindRateLimited {
		return genErr
	}
	return NewGenerationError(KindGeneric, DraftFailedMessage, err)
}

// GenerationError is returned by PlanGenerator and DraftGenerator.
type GenerationError struct {
	Kind    GenerationErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func NewGenerationError(kind GenerationErrorKind, message string, err error) *GenerationError {
	return &GenerationError{Kind: kind, Message: message, Err: err}
}

// GenerationKindOf returns the kind of err, KindGeneric for anything that is
// not a GenerationError.
func GenerationKindOf(err error) GenerationErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return KindGeneric
}

// AsGenerationError returns err as a GenerationError, wrapping anything
// unclassified as KindGeneric.
func AsGenerationError(err error) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	msg := GenericGenerationMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return NewGenerationError(KindGeneric, msg, err)
}

// ToDomainError maps a generation failure to the API error taxonomy.
func (e *GenerationError) ToDomainError() *DomainError {
	switch e.Kind {
	case KindRateLimited:
		return NewError(CodeRateLimited, e.Message, e.Err)
	case KindCredentialInvalid:
		return NewError(CodeCredentialInvalid, e.Message, e.Err).WithContext("reauth", true)
	default:
		return NewError(CodeLLMServiceError, e.Message, e.Err)
	}
}

// PlanGenerator produces the marketing plan text for a quiz input.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, input QuizInput) (string, error)
}

// DraftGenerator produces a social media post draft for a single plan task.
type DraftGenerator interface {
	GenerateDraft(ctx context.Context, task string, input QuizInput) (string, error)
}
