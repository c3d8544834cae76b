package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"hrseeker/resume-matcher/internal/models"
	"hrseeker/resume-matcher/internal/services"
)

type MatchHandler struct {
	matchingService services.MatchingService
}

func NewMatchHandler(matchingService services.MatchingService) *MatchHandler {
	return &MatchHandler{matchingService: matchingService}
}

// HandleMatchResumes accepts a batch of resumes with a job posting and
// returns the ranked shortlist.
func (h *MatchHandler) HandleMatchResumes(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}

	// A request without a multipart body carries no files and fails the
	// batch size check.
	var files []*multipart.FileHeader
	var req models.MatchRequest
	if form, err := c.MultipartForm(); err == nil {
		files = form.File["files"]
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid form fields",
			})
		}
	}

	outcome, err := h.matchingService.SubmitBatch(c.UserContext(), userID, req, files)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.MatchResponse{
		Success:  true,
		UploadID: outcome.UploadID.String(),
		Results:  outcome.Results,
	})
}

// HandleAnalyzeStudentResume relays one resume for analysis.
func (h *MatchHandler) HandleAnalyzeStudentResume(c *fiber.Ctx) error {
	// A missing file part is reported by the service.
	file, _ := c.FormFile("file")

	result, err := h.matchingService.AnalyzeResume(c.UserContext(), file)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(result)
}
