package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alarmclock/database"
	"alarmclock/logger"
	"alarmclock/models"
	"alarmclock/services"
)

type ProHandler struct {
	Verifier services.ProVerifier
}

func NewProHandler(verifier services.ProVerifier) *ProHandler {
	return &ProHandler{Verifier: verifier}
}

// Verify checks a payment reference and unlocks Pro when it is approved.
func (h *ProHandler) Verify(c *fiber.Ctx) error {
	var input models.ProVerifyInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}
	if err := input.Validate(); err != nil {
		return err
	}

	ctx := c.UserContext()
	result, err := h.Verifier.Verify(ctx, input.TransactionHash)
	if err != nil {
		return err
	}

	var settings *models.Settings
	if result.Approved {
		settings, err = database.EnablePro(ctx)
	} else {
		settings, err = database.GetSettings(ctx)
	}
	if err != nil {
		return err
	}

	if result.Approved {
		services.LogEvent(nil, models.EventProVerified, input.TransactionHash)
		logger.Info("pro unlocked")
	} else {
		services.LogEvent(nil, models.EventProRejected, result.Reason)
	}

	return c.JSON(fiber.Map{
		"approved": result.Approved,
		"reason":   result.Reason,
		"settings": settings,
	})
}
