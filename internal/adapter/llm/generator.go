package llm

import (
	"context"
	"errors"
	"strings"
	"sync"

	"brand-plan/internal/config"
	"brand-plan/internal/domain"
	"brand-plan/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const (
	emptyPlanFallback  = "Erro ao gerar conteúdo."
	emptyDraftFallback = "Não foi possível gerar a legenda."
)

// Generator implements domain.PlanGenerator and domain.DraftGenerator on a
// langchaingo model. The model is rebuilt when the API key changes.
type Generator struct {
	mu      sync.RWMutex
	model   llms.Model
	cfg     config.LLMConfig
	factory ModelFactory
}

// NewGenerator creates a generator. A model that cannot be built yet (for
// example because the API key is missing) is not an error: generation calls
// fail as credential errors until Reload succeeds.
func NewGenerator(ctx context.Context, cfg config.LLMConfig, factory ModelFactory) *Generator {
	if factory == nil {
		factory = NewModel
	}
	g := &Generator{cfg: cfg, factory: factory}

	model, err := factory(ctx, cfg)
	if err != nil {
		logger.Get().Warn("LLM model not available yet",
			zap.String("provider", cfg.Provider),
			zap.String("model", cfg.Model),
			zap.Error(err))
		return g
	}
	g.model = model
	logger.Get().Info("LLM model initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))
	return g
}

// Reload rebuilds the model with a new API key.
func (g *Generator) Reload(ctx context.Context, apiKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	cfg := g.cfg
	cfg.APIKey = apiKey
	model, err := g.factory(ctx, cfg)
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.model = model
	logger.Get().Info("LLM model reloaded with new credentials", zap.String("provider", cfg.Provider))
	return nil
}

// Ready reports whether a model is available.
func (g *Generator) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.model != nil
}

// GeneratePlan implements domain.PlanGenerator.
func (g *Generator) GeneratePlan(ctx context.Context, input domain.QuizInput) (string, error) {
	model, cfg := g.snapshot()
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, planPrompt(input)),
	}

	text, err := generate(ctx, model, cfg, messages, cfg.PlanTemperature)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		logger.Get().Warn("LLM returned an empty plan")
		return emptyPlanFallback, nil
	}
	return text, nil
}

// GenerateDraft implements domain.DraftGenerator.
func (g *Generator) GenerateDraft(ctx context.Context, task string, input domain.QuizInput) (string, error) {
	model, cfg := g.snapshot()
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, draftPrompt(task, input, cfg.DraftCVCharacters)),
	}

	text, err := generate(ctx, model, cfg, messages, cfg.DraftTemperature)
	if err != nil {
		// Drafts report a rate limit or a generic failure, never a credential
		// problem; the session keeps its state either way.
		genErr := Classify(err)
		if genErr.Kind == domain.KindRateLimited {
			return "", domain.NewGenerationError(genErr.Kind, draftRateLimitedMessage, genErr.Err)
		}
		return "", domain.NewGenerationError(domain.KindGeneric, draftGenericMessage, genErr.Err)
	}
	if strings.TrimSpace(text) == "" {
		return emptyDraftFallback, nil
	}
	return strings.TrimSpace(text), nil
}

func (g *Generator) snapshot() (llms.Model, config.LLMConfig) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.model, g.cfg
}

func generate(ctx context.Context, model llms.Model, cfg config.LLMConfig, messages []llms.MessageContent, temperature float64) (string, error) {
	l := logger.Get()

	if model == nil {
		return "", domain.NewGenerationError(domain.KindCredentialInvalid, CredentialInvalidMessage, nil)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	opts := []llms.CallOption{llms.WithTemperature(temperature)}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		// Some SDKs flatten the context error into a transport error.
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(ctxErr, err)
		}
		genErr := Classify(err)
		l.Error("LLM generation failed",
			zap.String("provider", cfg.Provider),
			zap.String("kind", string(genErr.Kind)),
			zap.Error(err))
		return "", genErr
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}

	l.Debug("LLM response received",
		zap.String("provider", cfg.Provider),
		zap.Int("length", len(resp.Choices[0].Content)))
	return resp.Choices[0].Content, nil
}

var (
	_ domain.PlanGenerator  = (*Generator)(nil)
	_ domain.DraftGenerator = (*Generator)(nil)
)
