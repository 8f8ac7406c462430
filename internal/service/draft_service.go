package service

import (
	"context"
	"errors"
	"time"

	"brand-plan/internal/cache"
	"brand-plan/internal/domain"
	"brand-plan/internal/dto"
	"brand-plan/internal/logger"
	"brand-plan/internal/util"
	"brand-plan/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DraftService generates post drafts for single plan tasks. It reads the
// session but never changes it, so a failed draft leaves the plan as it is.
type DraftService interface {
	GenerateDraft(ctx context.Context, sessionID string, req *dto.DraftRequest) (*dto.DraftResponse, error)
}

// DraftServiceConfig holds draft generation timings.
type DraftServiceConfig struct {
	Timeout  time.Duration
	LockTTL  time.Duration
	CacheTTL time.Duration
}

type draftService struct {
	repo      domain.SessionRepository
	generator domain.DraftGenerator
	cache     domain.Cache
	validator *validation.Validator
	cfg       DraftServiceConfig
	group     singleflight.Group
}

// NewDraftService creates a new instance of draftService
func NewDraftService(
	repo domain.SessionRepository,
	generator domain.DraftGenerator,
	cache domain.Cache,
	cfg DraftServiceConfig,
) DraftService {
	return &draftService{
		repo:      repo,
		generator: generator,
		cache:     cache,
		validator: validation.NewValidator(),
		cfg:       cfg,
	}
}

func (s *draftService) GenerateDraft(ctx context.Context, sessionID string, req *dto.DraftRequest) (*dto.DraftResponse, error) {
	if errs := s.validator.ValidateTask(req.Task); len(errs) > 0 {
		return nil, domain.NewValidationFailedError(errs)
	}

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Plan == nil {
		return nil, domain.NewInvalidStateError(session.State, "draft a post without a plan")
	}
	if !session.HasTask(req.Task) {
		return nil, domain.NewTaskNotFoundError(req.Task)
	}

	planID := session.Plan.ID
	draftKey := cache.DraftKey(sessionID, planID, req.Task)
	if !req.Regenerate {
		text, err := s.cache.Get(ctx, draftKey)
		if err == nil {
			logger.Get().Debug("Draft cache hit", zap.String("sessionID", sessionID))
			return &dto.DraftResponse{Task: req.Task, Text: text, Cached: true}, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read draft cache", zap.String("key", draftKey), zap.Error(err))
		}
	}

	// The draft is written for the input the plan was generated from.
	input := session.Plan.Input
	v, err, shared := s.group.Do(draftKey, func() (interface{}, error) {
		return s.generate(context.WithoutCancel(ctx), sessionID, planID, req.Task, input, draftKey)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Draft request coalesced", zap.String("sessionID", sessionID))
	}
	return &dto.DraftResponse{Task: req.Task, Text: v.(string)}, nil
}

// generate runs detached from the request so a coalesced caller is not
// failed by another caller disconnecting.
func (s *draftService) generate(ctx context.Context, sessionID, planID, task string, input domain.QuizInput, draftKey string) (string, error) {
	l := logger.Get().With(zap.String("sessionID", sessionID), zap.String("planID", planID))

	lockKey := cache.DraftLockKey(sessionID, planID, task)
	owner := util.NewULID()
	acquired, err := s.cache.SetNX(ctx, lockKey, owner, s.cfg.LockTTL)
	if err != nil {
		return "", domain.NewInternalError("Failed to acquire draft lock", err)
	}
	if !acquired {
		return "", domain.NewDraftInProgressError(task)
	}
	defer func() {
		if _, err := s.cache.CompareAndDelete(ctx, lockKey, owner); err != nil {
			l.Warn("Failed to release draft lock", zap.Error(err))
		}
	}()

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	text, err := s.generator.GenerateDraft(genCtx, task, input)
	if err != nil {
		genErr := domain.AsDraftError(err)
		l.Warn("Draft generation failed",
			zap.String("kind", string(domain.GenerationKindOf(err))), zap.Error(err))
		return "", genErr.ToDomainError()
	}

	if err := s.cache.Set(ctx, draftKey, text, s.cfg.CacheTTL); err != nil {
		l.Warn("Failed to cache draft", zap.String("key", draftKey), zap.Error(err))
	}
	l.Info("Draft generated", zap.Int("length", len(text)))
	return text, nil
}
