package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"pedefood/internal/errs"
)

// respondError classifies err by its sentinel and writes the matching HTTP
// status. Unrecognized errors are logged in full and surface as a generic
// 500 so internals never leak to the caller.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"erro": err.Error()})
	case errors.Is(err, errs.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"erro": err.Error()})
	case errors.Is(err, errs.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"erro": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"erro": err.Error()})
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrStaleStatus),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrCheckoutInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"erro": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"erro": "internal error"})
	}
}
