package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"brand-plan/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, expiration)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) CompareAndDelete(ctx context.Context, key string, value string) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockPlanGenerator ---
type MockPlanGenerator struct {
	mock.Mock
}

func (m *MockPlanGenerator) GeneratePlan(ctx context.Context, input domain.QuizInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

// readyPlanGenerator also reports credential readiness.
type readyPlanGenerator struct {
	MockPlanGenerator
	ready bool
}

func (g *readyPlanGenerator) Ready() bool {
	return g.ready
}

// --- MockDraftGenerator ---
type MockDraftGenerator struct {
	mock.Mock
}

func (m *MockDraftGenerator) GenerateDraft(ctx context.Context, task string, input domain.QuizInput) (string, error) {
	args := m.Called(ctx, task, input)
	return args.String(0), args.Error(1)
}

// --- MockPlanArchive ---
type MockPlanArchive struct {
	mock.Mock
}

func (m *MockPlanArchive) SavePlan(ctx context.Context, plan *domain.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanArchive) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *MockPlanArchive) ListPlansBySession(ctx context.Context, sessionID string, limit int) ([]*domain.Plan, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Plan), args.Error(1)
}

// memorySessionRepo is an in-memory domain.SessionRepository. Sessions are
// stored as JSON so callers never share state with the store.
type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string][]byte
	updates  int
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string][]byte)}
}

func (r *memorySessionRepo) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; ok {
		return domain.NewInvalidInputError("session already exists")
	}
	return r.store(session)
}

func (r *memorySessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(id)
}

func (r *memorySessionRepo) Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, err := r.load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	r.updates++
	if err := r.store(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *memorySessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memorySessionRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

func (r *memorySessionRepo) load(id string) (*domain.Session, error) {
	data, ok := r.sessions[id]
	if !ok {
		return nil, domain.NewSessionNotFoundError(id)
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	if session.Completed == nil {
		session.Completed = domain.NewCompletionSet()
	}
	return &session, nil
}

func (r *memorySessionRepo) store(session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	r.sessions[session.ID] = data
	return nil
}

var (
	_ domain.Cache             = (*MockCache)(nil)
	_ domain.PlanGenerator     = (*MockPlanGenerator)(nil)
	_ domain.DraftGenerator    = (*MockDraftGenerator)(nil)
	_ domain.PlanArchive       = (*MockPlanArchive)(nil)
	_ domain.SessionRepository = (*memorySessionRepo)(nil)
)
