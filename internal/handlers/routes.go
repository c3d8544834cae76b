package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hrseeker/resume-matcher/internal/middleware"
	"hrseeker/resume-matcher/internal/services"
)

type Handlers struct {
	Auth      *AuthHandler
	Match     *MatchHandler
	Dashboard *DashboardHandler
	Talent    *TalentHandler
}

func RegisterRoutes(app *fiber.App, h Handlers, tokens services.TokenManager) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/login", h.Auth.HandleLogin)
	api.Post("/analyze-student-resume", h.Match.HandleAnalyzeStudentResume)

	auth := middleware.RequireAuth(tokens)
	api.Get("/profile", auth, h.Auth.HandleProfile)
	api.Delete("/delete-account", auth, h.Auth.HandleDeleteAccount)
	api.Post("/match-resumes", auth, h.Match.HandleMatchResumes)
	api.Get("/upload-history", auth, h.Dashboard.HandleUploadHistory)
	api.Get("/candidates/:uploadId", auth, h.Dashboard.HandleCandidates)
	api.Get("/dashboard-stats", auth, h.Dashboard.HandleStats)
	api.Get("/talent-search", auth, h.Talent.HandleSearch)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HR Seeker Resume Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/login",
				"GET /api/profile",
				"DELETE /api/delete-account",
				"POST /api/match-resumes",
				"POST /api/analyze-student-resume",
				"GET /api/upload-history",
				"GET /api/candidates/:uploadId",
				"GET /api/dashboard-stats",
				"GET /api/talent-search",
			},
		})
	})
}
