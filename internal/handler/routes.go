package handler

import (
	"brand-plan/internal/middleware"
	"brand-plan/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API on app. Session routes require the bearer
// token issued by CreateSession.
func RegisterRoutes(app *fiber.App, sessions *SessionHandler, health *HealthHandler, tokens service.SessionTokenService) {
	auth := middleware.RequireSession(tokens)

	app.Get("/health", health.Health)

	api := app.Group("/api")
	api.Get("/options", sessions.GetOptions)
	api.Post("/sessions", sessions.CreateSession)

	session := api.Group("/sessions/:id", middleware.RequireULIDParams("id"), auth)
	session.Get("/", sessions.GetSession)
	session.Put("/quiz", sessions.SaveQuiz)
	session.Post("/plan", sessions.SubmitPlan)
	session.Delete("/plan", sessions.RestartPlan)
	session.Get("/plans", sessions.ListPlans)
	session.Post("/tasks/toggle", sessions.ToggleTask)
	session.Post("/tasks/draft", sessions.GenerateDraft)
	session.Post("/credentials/resolve", sessions.ResolveCredentials)
	session.Get("/export", sessions.ExportPlan)

	api.Get("/plans/:planId", auth, sessions.GetArchivedPlan)
}
