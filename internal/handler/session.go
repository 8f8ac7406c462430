package handler

import (
	"brand-plan/internal/domain"
	"brand-plan/internal/dto"
	"brand-plan/internal/logger"
	"brand-plan/internal/middleware"
	"brand-plan/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler handles the wizard session HTTP requests
type SessionHandler struct {
	plans  service.PlanService
	drafts service.DraftService
	export service.ExportService
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(plans service.PlanService, drafts service.DraftService, export service.ExportService) *SessionHandler {
	return &SessionHandler{
		plans:  plans,
		drafts: drafts,
		export: export,
	}
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		logger.Get().Debug("Failed to parse request body", zap.String("path", c.Path()), zap.Error(err))
		return domain.NewInvalidInputError("invalid request body")
	}
	return nil
}

// CreateSession godoc
// @Summary Start a wizard session
// @Description Creates a session and returns the bearer token for its routes
// @Tags sessions
// @Produce json
// @Success 201 {object} dto.CreateSessionResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	resp, err := h.plans.CreateSession(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get a session
// @Description Returns state, wizard step, input, plan, tasks and progress
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.plans.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SaveQuiz godoc
// @Summary Save wizard answers
// @Description Stores possibly incomplete answers without generating a plan
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param input body dto.QuizInputRequest true "Wizard answers"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/quiz [put]
func (h *SessionHandler) SaveQuiz(c *fiber.Ctx) error {
	var req dto.QuizInputRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.plans.SaveInput(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitPlan godoc
// @Summary Generate a plan
// @Description Starts plan generation in the background. Without a body the stored answers are used. Poll the session for the result.
// @Tags plans
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param input body dto.QuizInputRequest false "Wizard answers"
// @Success 202 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/plan [post]
func (h *SessionHandler) SubmitPlan(c *fiber.Ctx) error {
	var req *dto.QuizInputRequest
	if len(c.Body()) > 0 {
		req = new(dto.QuizInputRequest)
		if err := parseBody(c, req); err != nil {
			return err
		}
	}
	resp, err := h.plans.Submit(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// RestartPlan godoc
// @Summary Restart the wizard
// @Description Discards the plan and its progress and returns to the landing step
// @Tags plans
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/plan [delete]
func (h *SessionHandler) RestartPlan(c *fiber.Ctx) error {
	resp, err := h.plans.Restart(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ToggleTask godoc
// @Summary Toggle a checklist item
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param task body dto.TaskRequest true "Task"
// @Success 200 {object} dto.ToggleTaskResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/tasks/toggle [post]
func (h *SessionHandler) ToggleTask(c *fiber.Ctx) error {
	var req dto.TaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.plans.ToggleTask(c.UserContext(), c.Params("id"), req.Task)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GenerateDraft godoc
// @Summary Draft a post for a task
// @Description Returns the cached draft unless regenerate is set
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param draft body dto.DraftRequest true "Draft request"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /sessions/{id}/tasks/draft [post]
func (h *SessionHandler) GenerateDraft(c *fiber.Ctx) error {
	var req dto.DraftRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.drafts.GenerateDraft(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ResolveCredentials godoc
// @Summary Leave the re-authentication state
// @Description Call after the AI credential was renewed
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/credentials/resolve [post]
func (h *SessionHandler) ResolveCredentials(c *fiber.Ctx) error {
	resp, err := h.plans.ResolveCredentials(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ExportPlan godoc
// @Summary Download the plan
// @Description Renders the installed plan as an HTML document
// @Tags plans
// @Produce html
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {string} string "HTML document"
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/export [get]
func (h *SessionHandler) ExportPlan(c *fiber.Ctx) error {
	doc, err := h.export.Export(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Attachment(doc.FileName)
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.Send(doc.Body)
}

// ListPlans godoc
// @Summary List archived plans of a session
// @Tags plans
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.PlanHistoryResponse
// @Router /sessions/{id}/plans [get]
func (h *SessionHandler) ListPlans(c *fiber.Ctx) error {
	resp, err := h.plans.ListArchivedPlans(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetArchivedPlan godoc
// @Summary Get an archived plan
// @Tags plans
// @Produce json
// @Security ApiKeyAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} dto.ArchivedPlanResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /plans/{planId} [get]
func (h *SessionHandler) GetArchivedPlan(c *fiber.Ctx) error {
	resp, err := h.plans.GetArchivedPlan(c.UserContext(), middleware.SessionID(c), c.Params("planId"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetOptions godoc
// @Summary Wizard options
// @Description Lists the allowed wizard choices and their defaults
// @Tags options
// @Produce json
// @Success 200 {object} dto.OptionsResponse
// @Router /options [get]
func (h *SessionHandler) GetOptions(c *fiber.Ctx) error {
	return c.JSON(h.plans.Options())
}
