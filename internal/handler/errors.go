package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
)

// respondError maps domain sentinels to HTTP status codes. Anything
// unrecognized is a server fault and gets a generic body; details stay in the
// logs, never in production-facing responses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": domain.ErrInvalidCredentials.Error()})
	case errors.Is(err, domain.ErrReuseDetected):
		// Same surface as any other 401: the client just has to log in again.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "refresh token not recognized, please login again"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": domain.ErrForbidden.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": domain.ErrNotFound.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": domain.ErrEmailTaken.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": domain.ErrRateLimited.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
