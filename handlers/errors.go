package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"alarmclock/database"
	"alarmclock/logger"
	"alarmclock/models"
)

// ErrorHandler renders every error returned by a handler as
// {"message": ...} with the matching status code.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": ve.Message,
		})
	}

	if errors.Is(err, database.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"message": fe.Message,
		})
	}

	logger.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid alarm ID")
	}
	return uint(id), nil
}

func alarmNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Alarm not found")
	}
	return err
}

var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
