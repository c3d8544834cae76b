package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hrseeker/resume-matcher/internal/middleware"
	"hrseeker/resume-matcher/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) HandleUploadHistory(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}

	history, err := h.dashboardService.History(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(history)
}

func (h *DashboardHandler) HandleCandidates(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}

	// A malformed id cannot name an upload the caller owns.
	uploadID, err := uuid.Parse(c.Params("uploadId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Upload not found",
		})
	}

	resp, err := h.dashboardService.CandidatesForUpload(c.UserContext(), userID, uploadID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *DashboardHandler) HandleStats(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}

	stats, err := h.dashboardService.Stats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(stats)
}

func callerID(c *fiber.Ctx) (uuid.UUID, bool) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := claims.ParsedUserID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
