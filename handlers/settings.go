package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alarmclock/database"
	"alarmclock/models"
)

// GetSettings returns the settings, creating the defaults on first use
func GetSettings(c *fiber.Ctx) error {
	settings, err := database.GetSettings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

// UpdateSettings patches theme, language or isPro
func UpdateSettings(c *fiber.Ctx) error {
	var input models.SettingsInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}
	if err := input.Validate(); err != nil {
		return err
	}

	settings, err := database.UpdateSettings(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(settings)
}
