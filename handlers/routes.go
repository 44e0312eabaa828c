package handlers

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"alarmclock/middleware"
)

type Routes struct {
	Overlay *OverlayHandler
	Pro     *ProHandler
	// VerifyLimiter guards the Pro verification endpoint. Nil means the
	// default of 5 requests per minute per IP.
	VerifyLimiter fiber.Handler
}

// Register mounts the API under router (normally the /api group).
func Register(api fiber.Router, r Routes) {
	verifyLimiter := r.VerifyLimiter
	if verifyLimiter == nil {
		verifyLimiter = middleware.ProVerifyLimiter(5, 1*time.Minute)
	}

	alarms := api.Group("/alarms")
	alarms.Get("/", ListAlarms)
	alarms.Post("/", CreateAlarm)
	alarms.Get("/:id", GetAlarm)
	alarms.Put("/:id", UpdateAlarm)
	alarms.Delete("/:id", DeleteAlarm)
	alarms.Get("/:id/next", NextOccurrence)

	// Dismiss flow
	alarms.Post("/:id/challenge", r.Overlay.Challenge)
	alarms.Post("/:id/dismiss", r.Overlay.Dismiss)
	alarms.Post("/:id/snooze", r.Overlay.Snooze)
	alarms.Get("/:id/ring", middleware.WebSocketUpgrade(), r.Overlay.RingUpgrade, websocket.New(r.Overlay.Ring))

	settings := api.Group("/settings")
	settings.Get("/", GetSettings)
	settings.Patch("/", UpdateSettings)
	settings.Post("/pro/verify", verifyLimiter, r.Pro.Verify)

	events := api.Group("/events")
	events.Get("/", ListEvents)
	events.Get("/actions", ListEventActions)
}
