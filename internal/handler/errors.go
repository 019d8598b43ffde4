package handler

import (
	"errors"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps the error taxonomy onto HTTP statuses in one place
// so handlers stay thin.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status := fiber.StatusInternalServerError
		switch appErr.Kind {
		case apperr.KindNotFound:
			status = fiber.StatusNotFound
		case apperr.KindInvalidInput:
			status = fiber.StatusBadRequest
		case apperr.KindInsufficientStock, apperr.KindDuplicate:
			status = fiber.StatusConflict
		case apperr.KindBusy:
			status = fiber.StatusServiceUnavailable
		case apperr.KindStorage:
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{
			"error":  appErr.Message,
			"kind":   appErr.Kind,
			"entity": appErr.Entity,
			"id":     appErr.ID,
		})
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInactiveAccount):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

// Helper to pull the acting user id from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals("user_id").(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// Helper to parse path UUIDs
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
