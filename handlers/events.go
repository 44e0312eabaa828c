package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"alarmclock/models"
	"alarmclock/services"
)

// ListEvents returns the event log, newest first
func ListEvents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	filter := services.EventFilter{
		Action: models.EventAction(c.Query("action")),
		Page:   page,
		Limit:  limit,
	}
	if v := c.Query("alarm_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid alarm_id")
		}
		alarmID := uint(id)
		filter.AlarmID = &alarmID
	}

	result, err := services.ListEvents(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// ListEventActions returns the available actions for filtering
func ListEventActions(c *fiber.Ctx) error {
	return c.JSON(models.EventActions)
}
