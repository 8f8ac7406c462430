package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"brand-plan/internal/cache"
	"brand-plan/internal/domain"
	"brand-plan/internal/dto"
	"brand-plan/internal/logger"
	"brand-plan/internal/util"
	"brand-plan/internal/validation"

	"go.uber.org/zap"
)

// errStaleResult aborts a session update whose generation token is no
// longer current.
var errStaleResult = errors.New("stale generation result")

// PlanService drives the session state machine and plan generation.
type PlanService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	SaveInput(ctx context.Context, sessionID string, req *dto.QuizInputRequest) (*dto.SessionResponse, error)
	// Submit starts a plan generation in the background. A nil req submits
	// the answers already stored on the session.
	Submit(ctx context.Context, sessionID string, req *dto.QuizInputRequest) (*dto.SessionResponse, error)
	Restart(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	ToggleTask(ctx context.Context, sessionID, task string) (*dto.ToggleTaskResponse, error)
	ResolveCredentials(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	GetArchivedPlan(ctx context.Context, sessionID, planID string) (*dto.ArchivedPlanResponse, error)
	ListArchivedPlans(ctx context.Context, sessionID string) (*dto.PlanHistoryResponse, error)
	Options() *dto.OptionsResponse
	// Shutdown stops accepting results and waits for running generations.
	Shutdown(ctx context.Context) error
}

// PlanServiceConfig holds the timing knobs of plan generation.
type PlanServiceConfig struct {
	GenerationTimeout time.Duration
	// LockTTL must outlive GenerationTimeout so the lock cannot expire
	// under a running generation.
	LockTTL      time.Duration
	HistoryLimit int
}

// readiness is implemented by generators that can report whether a usable
// credential is loaded.
type readiness interface {
	Ready() bool
}

type planService struct {
	repo      domain.SessionRepository
	archive   domain.PlanArchive
	generator domain.PlanGenerator
	cache     domain.Cache
	tokens    SessionTokenService
	validator *validation.Validator
	cfg       PlanServiceConfig
	now       func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewPlanService creates a new instance of planService. archive may be nil,
// in which case generated plans are not archived.
func NewPlanService(
	repo domain.SessionRepository,
	archive domain.PlanArchive,
	generator domain.PlanGenerator,
	cache domain.Cache,
	tokens SessionTokenService,
	cfg PlanServiceConfig,
) PlanService {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &planService{
		repo:      repo,
		archive:   archive,
		generator: generator,
		cache:     cache,
		tokens:    tokens,
		validator: validation.NewValidator(),
		cfg:       cfg,
		now:       time.Now,
		baseCtx:   baseCtx,
		cancel:    cancel,
	}
}

func (s *planService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := domain.NewSession(util.NewULID(), s.now())
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, domain.NewInternalError("Failed to create session", err)
	}

	token, expiresAt, err := s.tokens.Issue(session.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to issue session token", err)
	}

	logger.Get().Info("Session created", zap.String("sessionID", session.ID))
	return &dto.CreateSessionResponse{
		Session:   toSessionResponse(session),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *planService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *planService) SaveInput(ctx context.Context, sessionID string, req *dto.QuizInputRequest) (*dto.SessionResponse, error) {
	input := toQuizInput(req)
	if errs := s.validator.ValidateQuizDraft(input); len(errs) > 0 {
		return nil, domain.NewValidationFailedError(errs)
	}

	session, err := s.repo.Update(ctx, sessionID, func(sess *domain.Session) error {
		return sess.SaveInput(input)
	})
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *planService) Submit(ctx context.Context, sessionID string, req *dto.QuizInputRequest) (*dto.SessionResponse, error) {
	var input domain.QuizInput
	if req != nil {
		input = toQuizInput(req)
	} else {
		session, err := s.repo.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		input = session.Input
	}
	if errs := s.validator.ValidateQuizInput(input); len(errs) > 0 {
		return nil, domain.NewValidationFailedError(errs)
	}

	lockKey := cache.GenerationLockKey(sessionID)
	owner := util.NewULID()
	acquired, err := s.cache.SetNX(ctx, lockKey, owner, s.cfg.LockTTL)
	if err != nil {
		return nil, domain.NewInternalError("Failed to acquire generation lock", err)
	}
	if !acquired {
		return nil, domain.NewGenerationInProgressError()
	}

	var token uint64
	session, err := s.repo.Update(ctx, sessionID, func(sess *domain.Session) error {
		t, err := sess.BeginSubmit(input)
		token = t
		return err
	})
	if err != nil {
		s.releaseLock(context.WithoutCancel(ctx), lockKey, owner)
		return nil, err
	}

	logger.Get().Info("Plan generation started",
		zap.String("sessionID", sessionID),
		zap.Uint64("token", token),
		zap.String("network", string(input.SocialNetwork)))

	s.wg.Add(1)
	go s.runGeneration(sessionID, token, input, lockKey, owner)

	return toSessionResponse(session), nil
}

// runGeneration calls the generator and applies the result only if token is
// still the session's current generation token.
func (s *planService) runGeneration(sessionID string, token uint64, input domain.QuizInput, lockKey, owner string) {
	defer s.wg.Done()
	l := logger.Get().With(zap.String("sessionID", sessionID), zap.Uint64("token", token))

	ctx, cancel := context.WithTimeout(s.baseCtx, s.cfg.GenerationTimeout)
	defer cancel()
	// Store writes must land even when the generation context is done.
	storeCtx := context.WithoutCancel(ctx)
	defer s.releaseLock(storeCtx, lockKey, owner)

	text, err := s.generator.GeneratePlan(ctx, input)
	if err != nil {
		genErr := domain.AsGenerationError(err)
		_, updateErr := s.repo.Update(storeCtx, sessionID, func(sess *domain.Session) error {
			if !sess.FailGeneration(token, genErr) {
				return errStaleResult
			}
			return nil
		})
		switch {
		case errors.Is(updateErr, errStaleResult):
			l.Info("Dropped stale generation failure", zap.Error(err))
		case updateErr != nil:
			l.Error("Failed to record generation failure", zap.Error(updateErr))
		default:
			l.Warn("Plan generation failed", zap.String("kind", string(genErr.Kind)), zap.Error(err))
		}
		return
	}

	plan := &domain.Plan{
		ID:        util.NewULID(),
		SessionID: sessionID,
		Markdown:  text,
		Input:     input,
		CreatedAt: s.now(),
	}
	_, err = s.repo.Update(storeCtx, sessionID, func(sess *domain.Session) error {
		if !sess.CompletePlan(token, plan) {
			return errStaleResult
		}
		return nil
	})
	if errors.Is(err, errStaleResult) {
		l.Info("Dropped stale plan", zap.String("planID", plan.ID))
		return
	}
	if err != nil {
		l.Error("Failed to install plan", zap.Error(err))
		return
	}
	l.Info("Plan installed", zap.String("planID", plan.ID), zap.Int("tasks", len(plan.Tasks())))

	if s.archive != nil {
		if err := s.archive.SavePlan(storeCtx, plan); err != nil {
			l.Error("Failed to archive plan", zap.String("planID", plan.ID), zap.Error(err))
		}
	}
}

func (s *planService) releaseLock(ctx context.Context, key, owner string) {
	if _, err := s.cache.CompareAndDelete(ctx, key, owner); err != nil {
		logger.Get().Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
	}
}

func (s *planService) Restart(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.repo.Update(ctx, sessionID, func(sess *domain.Session) error {
		return sess.Restart()
	})
	if err != nil {
		return nil, err
	}

	// The bumped token already discards any running generation, so its lock
	// must not block the next submit.
	if err := s.cache.Delete(ctx, cache.GenerationLockKey(sessionID)); err != nil {
		logger.Get().Warn("Failed to clear generation lock", zap.String("sessionID", sessionID), zap.Error(err))
	}

	logger.Get().Info("Session restarted", zap.String("sessionID", sessionID))
	return toSessionResponse(session), nil
}

func (s *planService) ToggleTask(ctx context.Context, sessionID, task string) (*dto.ToggleTaskResponse, error) {
	if errs := s.validator.ValidateTask(task); len(errs) > 0 {
		return nil, domain.NewValidationFailedError(errs)
	}

	var done bool
	session, err := s.repo.Update(ctx, sessionID, func(sess *domain.Session) error {
		d, err := sess.ToggleTask(task)
		done = d
		return err
	})
	if err != nil {
		return nil, err
	}

	return &dto.ToggleTaskResponse{
		Task:     task,
		Done:     done,
		Tasks:    toTaskItems(session),
		Progress: session.Progress(),
	}, nil
}

func (s *planService) ResolveCredentials(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	if r, ok := s.generator.(readiness); ok && !r.Ready() {
		return nil, domain.NewError(domain.CodeCredentialInvalid, "no usable AI credential is configured yet", nil).
			WithContext("reauth", true)
	}

	session, err := s.repo.Update(ctx, sessionID, func(sess *domain.Session) error {
		return sess.ResolveCredentials()
	})
	if err != nil {
		return nil, err
	}
	logger.Get().Info("Session credentials resolved", zap.String("sessionID", sessionID))
	return toSessionResponse(session), nil
}

func (s *planService) GetArchivedPlan(ctx context.Context, sessionID, planID string) (*dto.ArchivedPlanResponse, error) {
	if errs := s.validator.ValidateID("planId", planID); len(errs) > 0 {
		return nil, domain.NewValidationFailedError(errs)
	}
	if s.archive == nil {
		return nil, domain.NewPlanNotFoundError(planID)
	}

	plan, err := s.archive.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	// Plans of other sessions are reported as missing.
	if plan.SessionID != sessionID {
		return nil, domain.NewPlanNotFoundError(planID)
	}

	resp := toArchivedPlanResponse(plan)
	return &resp, nil
}

func (s *planService) ListArchivedPlans(ctx context.Context, sessionID string) (*dto.PlanHistoryResponse, error) {
	resp := &dto.PlanHistoryResponse{Plans: []dto.ArchivedPlanResponse{}}
	if s.archive == nil {
		return resp, nil
	}

	plans, err := s.archive.ListPlansBySession(ctx, sessionID, s.cfg.HistoryLimit)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list archived plans", err)
	}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, toArchivedPlanResponse(p))
	}
	return resp, nil
}

func (s *planService) Options() *dto.OptionsResponse {
	return toOptionsResponse()
}

func (s *planService) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
