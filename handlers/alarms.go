package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alarmclock/database"
	"alarmclock/models"
	"alarmclock/services"
)

// ListAlarms returns all alarms in creation order
func ListAlarms(c *fiber.Ctx) error {
	alarms, err := database.ListAlarms(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(alarms)
}

func GetAlarm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	alarm, err := database.GetAlarm(c.UserContext(), id)
	if err != nil {
		return alarmNotFound(err)
	}
	return c.JSON(alarm)
}

func CreateAlarm(c *fiber.Ctx) error {
	var input models.AlarmInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}
	if err := input.ValidateCreate(); err != nil {
		return err
	}

	alarm, err := database.CreateAlarm(c.UserContext(), input)
	if err != nil {
		return err
	}
	services.LogEvent(&alarm.ID, models.EventAlarmCreated, alarm.Time)

	return c.Status(fiber.StatusCreated).JSON(alarm)
}

// UpdateAlarm applies a partial update; absent fields are left untouched
func UpdateAlarm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var input models.AlarmInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}
	if err := input.ValidateUpdate(); err != nil {
		return err
	}

	alarm, err := database.UpdateAlarm(c.UserContext(), id, input)
	if err != nil {
		return alarmNotFound(err)
	}
	services.LogEvent(&alarm.ID, models.EventAlarmUpdated, "")

	return c.JSON(alarm)
}

// DeleteAlarm succeeds whether or not the alarm exists
func DeleteAlarm(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := database.DeleteAlarm(c.UserContext(), id); err != nil {
		return err
	}
	services.LogEvent(&id, models.EventAlarmDeleted, "")

	return c.SendStatus(fiber.StatusNoContent)
}

// NextOccurrence reports when the alarm rings next. Optional query
// parameters: after (RFC 3339, default now) and tz (IANA zone, default
// server local time).
func NextOccurrence(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	after := time.Now()
	if v := c.Query("after"); v != "" {
		after, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid after timestamp")
		}
	}

	loc := time.Local
	if tz := c.Query("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid time zone")
		}
	}

	alarm, err := database.GetAlarm(c.UserContext(), id)
	if err != nil {
		return alarmNotFound(err)
	}

	next, err := services.NextOccurrence(*alarm, after, loc)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"next": next,
	})
}
