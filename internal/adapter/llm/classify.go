package llm

import (
	"context"
	"errors"
	"strings"

	"brand-plan/internal/domain"
)

const (
	RateLimitedMessage       = "Limite de uso da IA atingido. Por favor, aguarde um minuto e tente novamente."
	CredentialInvalidMessage = "A chave de acesso da IA foi recusada. Atualize a credencial e tente novamente."
	GenericMessage           = domain.GenericGenerationMessage
	TimeoutMessage           = "A Inteligência Artificial demorou demais para responder. Tente novamente."
	CanceledMessage          = "A geração foi cancelada."

	draftRateLimitedMessage = "Limite de cota atingido para gerar legendas. Tente em instantes."
	draftGenericMessage     = domain.DraftFailedMessage
)

// Provider SDKs do not expose a common error type for quota or credential
// failures, so these markers are matched against the error text.
var (
	rateLimitMarkers = []string{"429", "quota", "resource_exhausted", "rate limit"}

	credentialMarkers = []string{
		"401",
		"403",
		"api key not valid",
		"api_key_invalid",
		"permission_denied",
		"requested entity was not found",
		"unauthorized",
	}
)

// Classify maps a provider error to a GenerationError. Errors that are
// already classified are returned unchanged.
func Classify(err error) *domain.GenerationError {
	if err == nil {
		return nil
	}

	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewGenerationError(domain.KindGeneric, TimeoutMessage, err)
	}
	if errors.Is(err, context.Canceled) {
		return domain.NewGenerationError(domain.KindGeneric, CanceledMessage, err)
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, rateLimitMarkers):
		return domain.NewGenerationError(domain.KindRateLimited, RateLimitedMessage, err)
	case containsAny(lower, credentialMarkers):
		return domain.NewGenerationError(domain.KindCredentialInvalid, CredentialInvalidMessage, err)
	}

	if strings.TrimSpace(msg) == "" {
		msg = GenericMessage
	}
	return domain.NewGenerationError(domain.KindGeneric, msg, err)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
