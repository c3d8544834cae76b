package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hrseeker/resume-matcher/internal/services"
)

type TalentHandler struct {
	talentIndex services.TalentIndexer
}

func NewTalentHandler(talentIndex services.TalentIndexer) *TalentHandler {
	return &TalentHandler{talentIndex: talentIndex}
}

// HandleSearch runs a semantic search over the caller's stored candidates.
func (h *TalentHandler) HandleSearch(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}

	results, err := h.talentIndex.Search(
		c.UserContext(),
		userID,
		c.Query("q"),
		c.QueryInt("limit", services.DefaultTalentSearchLimit),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(results)
}
