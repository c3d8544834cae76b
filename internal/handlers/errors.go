package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"hrseeker/resume-matcher/internal/apperrors"
	"hrseeker/resume-matcher/internal/services"
)

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindBadRequest:
		return fiber.StatusBadRequest
	case apperrors.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as {"error": message}. Details of upstream and
// internal failures are logged, never returned.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindUpstream {
			log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
		}
		return c.Status(statusFor(appErr.Kind)).JSON(fiber.Map{
			"error": appErr.Message,
		})
	}

	if errors.Is(err, services.ErrTalentIndexDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Talent search is not available",
		})
	}

	log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// ErrorHandler is the fiber fallback for errors returned from any handler or
// middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}
	return respondError(c, err)
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "missing token",
	})
}
