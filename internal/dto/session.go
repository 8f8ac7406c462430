package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims of a session token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// QuizInputRequest carries the wizard answers
// @Description Questionnaire answers used to generate a plan
type QuizInputRequest struct {
	Objective     string `json:"objective" example:"Autoridade"`
	SocialNetwork string `json:"social_network" example:"LinkedIn"`
	DailyTime     string `json:"daily_time" example:"1 hora"`
	Niche         string `json:"niche" example:"Engenharia de Dados"`
	ProfileURL    string `json:"profile_url" example:"https://linkedin.com/in/exemplo"`
	CVText        string `json:"cv_text"`
	CVFileName    string `json:"cv_file_name,omitempty"`
}

// QuizInputResponse echoes the stored answers
type QuizInputResponse struct {
	Objective     string `json:"objective"`
	SocialNetwork string `json:"social_network"`
	DailyTime     string `json:"daily_time"`
	Niche         string `json:"niche"`
	ProfileURL    string `json:"profile_url"`
	CVText        string `json:"cv_text"`
	CVFileName    string `json:"cv_file_name,omitempty"`
}

// CreateSessionResponse is returned once per session; the token must be
// sent as a bearer token on every session route.
type CreateSessionResponse struct {
	Session   *SessionResponse `json:"session"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// SessionResponse is the full view a client renders from
// @Description Session state, installed plan and checklist progress
type SessionResponse struct {
	ID          string                   `json:"id"`
	State       string                   `json:"state" example:"ready"`
	Step        string                   `json:"step" example:"result"`
	QuizStarted bool                     `json:"quiz_started"`
	Input       QuizInputResponse        `json:"input"`
	Plan        *PlanResponse            `json:"plan,omitempty"`
	Tasks       []TaskItemResponse       `json:"tasks"`
	Progress    int                      `json:"progress" example:"67"`
	Error       *GenerationErrorResponse `json:"error,omitempty"`
	Insights    *InsightsResponse        `json:"insights,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// PlanResponse is the installed plan
type PlanResponse struct {
	ID        string    `json:"id"`
	Markdown  string    `json:"markdown"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskItemResponse is one checklist line of the plan
type TaskItemResponse struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// GenerationErrorResponse is the last generation failure of a session
type GenerationErrorResponse struct {
	Kind    string `json:"kind" example:"rate_limited"`
	Message string `json:"message"`
}

// InsightsResponse holds the consultant tips shown next to the plan
type InsightsResponse struct {
	NetworkFocus string `json:"network_focus"`
	NicheTip     string `json:"niche_tip"`
}

// TaskRequest names a checklist item
type TaskRequest struct {
	Task string `json:"task" example:"Atualizar a foto de perfil"`
}

// DraftRequest asks for a post draft for one task
type DraftRequest struct {
	Task       string `json:"task" example:"Publicar um case de sucesso"`
	Regenerate bool   `json:"regenerate"`
}

// ToggleTaskResponse is the checklist after a toggle
type ToggleTaskResponse struct {
	Task     string             `json:"task"`
	Done     bool               `json:"done"`
	Tasks    []TaskItemResponse `json:"tasks"`
	Progress int                `json:"progress"`
}

// DraftResponse is a generated post caption
type DraftResponse struct {
	Task   string `json:"task"`
	Text   string `json:"text"`
	Cached bool   `json:"cached"`
}

// ArchivedPlanResponse is a plan read back from the archive
type ArchivedPlanResponse struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	Markdown  string            `json:"markdown"`
	Input     QuizInputResponse `json:"input"`
	Tasks     []string          `json:"tasks"`
	CreatedAt time.Time         `json:"created_at"`
}

// PlanHistoryResponse lists the archived plans of a session
type PlanHistoryResponse struct {
	Plans []ArchivedPlanResponse `json:"plans"`
}

// OptionsResponse lists the wizard choices and their defaults
type OptionsResponse struct {
	Objectives     []string          `json:"objectives"`
	SocialNetworks []string          `json:"social_networks"`
	DailyTimes     []string          `json:"daily_times"`
	Defaults       QuizInputResponse `json:"defaults"`
}

// HealthResponse reports dependency health
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
