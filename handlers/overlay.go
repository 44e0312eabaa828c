package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"alarmclock/database"
	"alarmclock/logger"
	"alarmclock/models"
	"alarmclock/overlay"
	"alarmclock/services"
)

// WebSocket message types
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type AnswerData struct {
	Answer string `json:"answer"`
}

type ResultData struct {
	Correct bool `json:"correct"`
}

type CountdownData struct {
	Remaining int `json:"remaining"`
}

type ErrorData struct {
	Error string `json:"error"`
}

// OverlayHandler serves the dismiss/snooze flow of a ringing alarm, both as
// stateless REST calls and as a live websocket session.
type OverlayHandler struct {
	Signer  *services.ChallengeSigner
	Manager *overlay.Manager
	Store   overlay.AlarmStore
	// Tick is the ad countdown interval of websocket sessions.
	Tick time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewOverlayHandler(signer *services.ChallengeSigner, manager *overlay.Manager, store overlay.AlarmStore) *OverlayHandler {
	return &OverlayHandler{
		Signer:  signer,
		Manager: manager,
		Store:   store,
		Tick:    time.Second,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (h *OverlayHandler) newChallenge(settings models.Settings) overlay.Challenge {
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return overlay.NewChallenge(h.rng, settings)
}

func loadRinging(c *fiber.Ctx) (*models.Alarm, *models.Settings, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, nil, err
	}
	alarm, err := database.GetAlarm(c.UserContext(), id)
	if err != nil {
		return nil, nil, alarmNotFound(err)
	}
	if !alarm.IsActive {
		return nil, nil, fiber.NewError(fiber.StatusConflict, "Alarm is not active")
	}
	settings, err := database.GetSettings(c.UserContext())
	if err != nil {
		return nil, nil, err
	}
	return alarm, settings, nil
}

// Challenge issues a puzzle for an active alarm. The answer is sealed in
// the returned token and never sent in clear.
func (h *OverlayHandler) Challenge(c *fiber.Ctx) error {
	alarm, settings, err := loadRinging(c)
	if err != nil {
		return err
	}

	challenge := h.newChallenge(*settings)
	token, err := h.Signer.Issue(alarm.ID, challenge)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"kind":     challenge.Kind,
		"question": challenge.Question,
		"token":    token,
	})
}

type dismissInput struct {
	Token  string `json:"token"`
	Answer string `json:"answer"`
}

// Dismiss checks an answer against a challenge token and turns the alarm off
// when it matches.
func (h *OverlayHandler) Dismiss(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var input dismissInput
	if err := c.BodyParser(&input); err != nil {
		return errInvalidBody
	}
	if input.Token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token is required")
	}

	ok, err := h.Signer.Check(input.Token, id, input.Answer)
	if err != nil {
		if errors.Is(err, services.ErrInvalidChallenge) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired challenge")
		}
		return err
	}
	if !ok {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "incorrect answer")
	}

	alarm, err := database.SetAlarmActive(c.UserContext(), id, false)
	if err != nil {
		return alarmNotFound(err)
	}
	services.LogEvent(&alarm.ID, models.EventAlarmDismissed, "")

	return c.JSON(fiber.Map{
		"dismissed": true,
		"alarm":     alarm,
	})
}

// Snooze is advisory: it records the snooze request and tells the client how
// many ad ticks to show first (0 for Pro). Clients that need the server to
// run the countdown use the /ring websocket, which signals the snooze only
// once the countdown ends.
func (h *OverlayHandler) Snooze(c *fiber.Ctx) error {
	alarm, settings, err := loadRinging(c)
	if err != nil {
		return err
	}

	countdown := overlay.AdCountdown
	if settings.IsPro {
		countdown = 0
	}
	services.LogEvent(&alarm.ID, models.EventAlarmSnoozed, fmt.Sprintf("requested, countdown %d", countdown))

	return c.JSON(fiber.Map{
		"countdown": countdown,
	})
}

// RingUpgrade loads the alarm and settings before the websocket handshake so
// unknown or inactive alarms are refused with a plain HTTP error.
func (h *OverlayHandler) RingUpgrade(c *fiber.Ctx) error {
	alarm, settings, err := loadRinging(c)
	if err != nil {
		return err
	}
	c.Locals("alarm", alarm)
	c.Locals("settings", settings)
	return c.Next()
}

// Ring runs a live overlay session for one alarm over a websocket.
func (h *OverlayHandler) Ring(conn *websocket.Conn) {
	alarm, _ := conn.Locals("alarm").(*models.Alarm)
	settings, _ := conn.Locals("settings").(*models.Settings)
	if alarm == nil || settings == nil {
		sendWSError(conn, "No active alarm")
		return
	}

	var writeMu sync.Mutex
	send := func(msgType string, data interface{}) {
		writeMu.Lock()
		defer writeMu.Unlock()
		sendWSMessage(conn, msgType, data)
	}

	hooks := overlay.Hooks{
		OnDismiss: func(a models.Alarm) {
			services.LogEvent(&a.ID, models.EventAlarmDismissed, "overlay")
			send("dismissed", a)
		},
		OnSnooze: func(a models.Alarm) {
			services.LogEvent(&a.ID, models.EventAlarmSnoozed, "overlay")
			send("snoozed", a)
		},
		OnCountdown: func(remaining int) {
			send("countdown", CountdownData{Remaining: remaining})
		},
	}

	h.rngMu.Lock()
	seed := h.rng.Int63()
	h.rngMu.Unlock()

	var wg sync.WaitGroup
	defer wg.Wait()

	m, ctx := h.Manager.Start(context.Background(), *alarm, *settings, h.Store,
		overlay.WithHooks(hooks),
		overlay.WithTick(h.Tick),
		overlay.WithRand(rand.New(rand.NewSource(seed))),
	)
	defer h.Manager.End(alarm.ID, m)

	// A newer session for the same alarm cancels ctx; close this socket then
	// instead of waiting for the client's next message.
	closed := make(chan struct{})
	defer close(closed)
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-closed:
		case <-ctx.Done():
			select {
			case <-closed:
				return
			default:
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			sendWSError(conn, "Session replaced")
		}
	}()

	logger.Debug("overlay session started", "alarm_id", alarm.ID)
	send("state", m.Snapshot())

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			logger.Debug("overlay session closed", "alarm_id", alarm.ID, "error", err)
			return
		}
		if ctx.Err() != nil {
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			send("error", ErrorData{Error: "Invalid message"})
			continue
		}

		switch msg.Type {
		case "dismiss":
			challenge, err := m.StartPuzzle()
			if err != nil {
				send("error", ErrorData{Error: err.Error()})
				continue
			}
			send("challenge", challenge)

		case "answer":
			var data AnswerData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				send("error", ErrorData{Error: "Invalid answer"})
				continue
			}
			correct, err := m.Submit(ctx, data.Answer)
			if err != nil {
				send("error", ErrorData{Error: err.Error()})
				continue
			}
			send("result", ResultData{Correct: correct})

		case "snooze":
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := m.Snooze(ctx); err != nil && !errors.Is(err, context.Canceled) {
					send("error", ErrorData{Error: err.Error()})
				}
			}()

		case "state":
			send("state", m.Snapshot())

		case "ping":
			send("pong", nil)

		default:
			send("error", ErrorData{Error: "Unknown message type"})
		}
	}
}

func sendWSMessage(c *websocket.Conn, msgType string, data interface{}) {
	dataBytes, _ := json.Marshal(data)
	msg := WSMessage{
		Type: msgType,
		Data: dataBytes,
	}
	msgBytes, _ := json.Marshal(msg)
	c.WriteMessage(websocket.TextMessage, msgBytes)
}

func sendWSError(c *websocket.Conn, errMsg string) {
	sendWSMessage(c, "error", ErrorData{Error: errMsg})
	time.Sleep(100 * time.Millisecond)
	c.Close()
}
