package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"brand-plan/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    domain.GenerationErrorKind
		message string
	}{
		{"http 429", errors.New("googleapi: Error 429: Too Many Requests"), domain.KindRateLimited, RateLimitedMessage},
		{"quota", errors.New("You exceeded your current quota"), domain.KindRateLimited, RateLimitedMessage},
		{"resource exhausted", errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), domain.KindRateLimited, RateLimitedMessage},
		{"rate limit", errors.New("Rate limit reached for requests"), domain.KindRateLimited, RateLimitedMessage},
		{"invalid key", errors.New("API key not valid. Please pass a valid API key."), domain.KindCredentialInvalid, CredentialInvalidMessage},
		{"api key invalid reason", errors.New("reason: API_KEY_INVALID"), domain.KindCredentialInvalid, CredentialInvalidMessage},
		{"permission denied", errors.New("rpc error: code = PermissionDenied desc = PERMISSION_DENIED"), domain.KindCredentialInvalid, CredentialInvalidMessage},
		{"entity not found", errors.New("Requested entity was not found."), domain.KindCredentialInvalid, CredentialInvalidMessage},
		{"http 401", errors.New("status code: 401, Unauthorized"), domain.KindCredentialInvalid, CredentialInvalidMessage},
		{"http 403", errors.New("status code: 403"), domain.KindCredentialInvalid, CredentialInvalidMessage},
		{"generic verbatim", errors.New("model is overloaded"), domain.KindGeneric, "model is overloaded"},
		{"generic empty", errors.New(""), domain.KindGeneric, GenericMessage},
		{"deadline", fmt.Errorf("call failed: %w", context.DeadlineExceeded), domain.KindGeneric, TimeoutMessage},
		{"canceled", context.Canceled, domain.KindGeneric, CanceledMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genErr := Classify(tt.err)
			assert.Equal(t, tt.kind, genErr.Kind)
			assert.Equal(t, tt.message, genErr.Message)
			assert.ErrorIs(t, genErr, tt.err)
		})
	}
}

func TestClassify_NilAndAlreadyClassified(t *testing.T) {
	assert.Nil(t, Classify(nil))

	original := domain.NewGenerationError(domain.KindCredentialInvalid, "custom", nil)
	assert.Same(t, original, Classify(fmt.Errorf("wrapped: %w", original)))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abcdef", 3))
	assert.Equal(t, "çã", truncateRunes("çãõ", 2))
	assert.Equal(t, "short", truncateRunes("short", 10))
	assert.Equal(t, "all", truncateRunes("all", 0))
}
