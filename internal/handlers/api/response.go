package api

import (
	"github.com/gofiber/fiber/v3"

	"dganalyzer/internal/models"
)

// jsonOK returns the plain success envelope.
func jsonOK(c fiber.Ctx) error {
	return c.JSON(models.StatusResponse{Status: models.StatusOK})
}

// jsonError returns an error envelope with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message, details string) error {
	return c.Status(status).JSON(models.StatusResponse{
		Status:  models.StatusError,
		Message: message,
		Details: details,
	})
}
