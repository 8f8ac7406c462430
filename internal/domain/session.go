package domain

import (
	"context"
	"time"
)

// State is the session-level generation state.
type State string

const (
	StateIdle        State = "idle"
	StateSubmitting  State = "submitting"
	StateReady       State = "ready"
	StateFailed      State = "failed"
	StateNeedsReauth State = "needs_reauth"
)

// Step is the wizard screen a client should show for the current state.
type Step string

const (
	StepLanding    Step = "landing"
	StepQuiz       Step = "quiz"
	StepProcessing Step = "processing"
	StepResult     Step = "result"
)

// SessionError is the last generation failure shown to the user.
type SessionError struct {
	Kind    GenerationErrorKind `json:"kind"`
	Message string              `json:"message"`
}

// Session owns the wizard input, the installed plan and its completion set.
// All mutation goes through the methods below; callers get copies through
// the repository.
type Session struct {
	ID              string         `json:"id"`
	State           State          `json:"state"`
	QuizStarted     bool           `json:"quiz_started"`
	Input           QuizInput      `json:"input"`
	Plan            *Plan          `json:"plan,omitempty"`
	Completed       *CompletionSet `json:"completed"`
	GenerationToken uint64         `json:"generation_token"`
	Error           *SessionError  `json:"error,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateIdle,
		Input:     DefaultQuizInput(),
		Completed: NewCompletionSet(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Step derives the wizard screen from the state.
func (s *Session) Step() Step {
	switch s.State {
	case StateSubmitting:
		return StepProcessing
	case StateReady:
		return StepResult
	case StateFailed, StateNeedsReauth:
		return StepQuiz
	default:
		if s.QuizStarted {
			return StepQuiz
		}
		return StepLanding
	}
}

// SaveInput stores wizard answers without starting a generation.
func (s *Session) SaveInput(input QuizInput) error {
	if s.State == StateSubmitting {
		return NewGenerationInProgressError()
	}
	s.Input = input
	s.QuizStarted = true
	return nil
}

// BeginSubmit moves the session to submitting and returns the token the
// generation result must carry to be accepted.
func (s *Session) BeginSubmit(input QuizInput) (uint64, error) {
	switch s.State {
	case StateSubmitting:
		return 0, NewGenerationInProgressError()
	case StateNeedsReauth:
		return 0, NewError(CodeCredentialInvalid, "credentials must be renewed before generating a new plan", nil).
			WithContext("reauth", true)
	}
	s.Input = input
	s.QuizStarted = true
	s.State = StateSubmitting
	s.Error = nil
	s.GenerationToken++
	return s.GenerationToken, nil
}

// CompletePlan installs plan if token is still current. The completion set
// is cleared. It reports whether the result was applied.
func (s *Session) CompletePlan(token uint64, plan *Plan) bool {
	if s.State != StateSubmitting || token != s.GenerationToken {
		return false
	}
	s.Plan = plan
	s.Completed = NewCompletionSet()
	s.State = StateReady
	s.Error = nil
	return true
}

// FailGeneration records a failure for token. Plan and completion set are
// left untouched. Credential failures park the session in needs_reauth.
func (s *Session) FailGeneration(token uint64, genErr *GenerationError) bool {
	if s.State != StateSubmitting || token != s.GenerationToken {
		return false
	}
	if genErr.Kind == KindCredentialInvalid {
		s.State = StateNeedsReauth
	} else {
		s.State = StateFailed
	}
	s.Error = &SessionError{Kind: genErr.Kind, Message: genErr.Message}
	return true
}

// Restart discards the plan and completion set and returns to idle. The
// token is bumped so a generation still in flight can no longer land.
// The last input is kept to prefill the wizard.
func (s *Session) Restart() error {
	if s.State == StateNeedsReauth {
		return NewInvalidStateError(s.State, "restart")
	}
	s.State = StateIdle
	s.QuizStarted = false
	s.Plan = nil
	s.Completed = NewCompletionSet()
	s.Error = nil
	s.GenerationToken++
	return nil
}

// ResolveCredentials leaves needs_reauth once the credential was renewed,
// returning to the plan view if a plan is still installed.
func (s *Session) ResolveCredentials() error {
	if s.State != StateNeedsReauth {
		return NewInvalidStateError(s.State, "resolve credentials")
	}
	s.Error = nil
	if s.Plan != nil {
		s.State = StateReady
	} else {
		s.State = StateIdle
	}
	return nil
}

// ToggleTask flips the done flag of a task of the installed plan.
func (s *Session) ToggleTask(task string) (bool, error) {
	if s.State != StateReady || s.Plan == nil {
		return false, NewInvalidStateError(s.State, "toggle a task")
	}
	if !s.HasTask(task) {
		return false, NewTaskNotFoundError(task)
	}
	if s.Completed == nil {
		s.Completed = NewCompletionSet()
	}
	return s.Completed.Toggle(task), nil
}

// HasTask reports whether task is a checklist item of the installed plan.
func (s *Session) HasTask(task string) bool {
	for _, t := range s.Plan.Tasks() {
		if t == task {
			return true
		}
	}
	return false
}

// Tasks returns the checklist items of the installed plan.
func (s *Session) Tasks() []string {
	return s.Plan.Tasks()
}

// Progress is the completion percentage of the installed plan.
func (s *Session) Progress() int {
	return s.Completed.Progress(s.Tasks())
}

// SessionRepository persists sessions. Update applies fn atomically with
// respect to other Updates of the same session.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// PlanArchive keeps every generated plan for later retrieval and export.
type PlanArchive interface {
	SavePlan(ctx context.Context, plan *Plan) error
	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlansBySession(ctx context.Context, sessionID string, limit int) ([]*Plan, error)
}
