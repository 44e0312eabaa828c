// Package overlay implements the alarm dismiss flow: a ringing alarm is
// either dismissed by solving a puzzle or snoozed, with non-Pro users sitting
// through a short ad countdown first.
package overlay

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"alarmclock/models"
)

type Mode string

const (
	ModeIdle      Mode = "idle"
	ModeRing      Mode = "ring"
	ModePuzzle    Mode = "puzzle"
	ModeAd        Mode = "ad"
	ModeDismissed Mode = "dismissed"
	ModeSnoozed   Mode = "snoozed"
)

const (
	// AdCountdown is the number of ticks a non-Pro snooze waits.
	AdCountdown = 3
	// ErrorDisplay is how long a wrong answer stays flagged.
	ErrorDisplay = time.Second
)

var (
	ErrNoActiveAlarm     = errors.New("no active alarm")
	ErrInvalidTransition = errors.New("invalid overlay transition")
)

// AlarmStore persists the dismissal of an alarm.
type AlarmStore interface {
	Deactivate(ctx context.Context, id uint) error
}

// Hooks are invoked outside the machine lock. Any of them may be nil.
type Hooks struct {
	OnDismiss   func(alarm models.Alarm)
	OnSnooze    func(alarm models.Alarm)
	OnCountdown func(remaining int)
}

// Snapshot is the renderable state of a machine.
type Snapshot struct {
	Mode        Mode       `json:"mode"`
	AlarmID     uint       `json:"alarmId,omitempty"`
	Time        string     `json:"time,omitempty"`
	Label       *string    `json:"label,omitempty"`
	Challenge   *Challenge `json:"challenge,omitempty"`
	Countdown   int        `json:"countdown,omitempty"`
	WrongAnswer bool       `json:"wrongAnswer"`
	IsPro       bool       `json:"isPro"`
	Language    string     `json:"language"`
}

type Machine struct {
	mu sync.Mutex

	alarm    *models.Alarm
	settings models.Settings
	store    AlarmStore
	hooks    Hooks

	rng  *rand.Rand
	now  func() time.Time
	tick time.Duration

	mode       Mode
	challenge  *Challenge
	wrongUntil time.Time
	countdown  int
}

type Option func(*Machine)

func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *Machine) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithTick sets the countdown tick interval (one second by default).
func WithTick(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.tick = d
		}
	}
}

func WithHooks(h Hooks) Option {
	return func(m *Machine) {
		m.hooks = h
	}
}

// New starts a machine ringing for alarm. A nil alarm yields an idle machine
// on which every operation is a no-op.
func New(alarm *models.Alarm, settings models.Settings, store AlarmStore, opts ...Option) *Machine {
	m := &Machine{
		settings: settings,
		store:    store,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		tick:     time.Second,
		mode:     ModeIdle,
	}
	if alarm != nil {
		a := *alarm
		m.alarm = &a
		m.mode = ModeRing
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Mode:        m.mode,
		Countdown:   m.countdown,
		WrongAnswer: m.now().Before(m.wrongUntil),
		IsPro:       m.settings.IsPro,
		Language:    m.settings.Language,
	}
	if m.alarm != nil {
		snap.AlarmID = m.alarm.ID
		snap.Time = m.alarm.Time
		snap.Label = m.alarm.Label
	}
	if m.mode == ModePuzzle && m.challenge != nil {
		c := *m.challenge
		snap.Challenge = &c
	}
	if m.mode != ModeAd {
		snap.Countdown = 0
	}
	return snap
}

// StartPuzzle moves ring -> puzzle and returns the challenge to solve.
func (m *Machine) StartPuzzle() (Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == ModeIdle {
		return Challenge{}, ErrNoActiveAlarm
	}
	if m.mode != ModeRing {
		return Challenge{}, ErrInvalidTransition
	}
	c := NewChallenge(m.rng, m.settings)
	m.challenge = &c
	m.mode = ModePuzzle
	return c, nil
}

// Submit checks an answer in puzzle mode. A correct answer deactivates the
// alarm and dismisses; a wrong one flags the error and keeps the puzzle.
func (m *Machine) Submit(ctx context.Context, answer string) (bool, error) {
	m.mu.Lock()
	if m.mode == ModeIdle {
		m.mu.Unlock()
		return false, ErrNoActiveAlarm
	}
	if m.mode != ModePuzzle || m.challenge == nil {
		m.mu.Unlock()
		return false, ErrInvalidTransition
	}
	if !MatchAnswer(answer, m.challenge.Answer) {
		m.wrongUntil = m.now().Add(ErrorDisplay)
		m.mu.Unlock()
		return false, nil
	}

	if m.store != nil {
		// stay in puzzle on failure so the user can submit again
		if err := m.store.Deactivate(ctx, m.alarm.ID); err != nil {
			m.mu.Unlock()
			return false, err
		}
	}
	m.alarm.IsActive = false
	m.mode = ModeDismissed
	m.wrongUntil = time.Time{}
	alarm := *m.alarm
	onDismiss := m.hooks.OnDismiss
	m.mu.Unlock()

	if onDismiss != nil {
		onDismiss(alarm)
	}
	return true, nil
}

// Snooze leaves ring mode. Pro users snooze at once; everyone else goes
// through the ad countdown, and Snooze blocks until it finishes. Cancelling
// ctx abandons the countdown without signalling a snooze.
func (m *Machine) Snooze(ctx context.Context) error {
	m.mu.Lock()
	if m.mode == ModeIdle {
		m.mu.Unlock()
		return ErrNoActiveAlarm
	}
	if m.mode != ModeRing {
		m.mu.Unlock()
		return ErrInvalidTransition
	}
	alarm := *m.alarm
	hooks := m.hooks

	if m.settings.IsPro {
		m.mode = ModeSnoozed
		m.mu.Unlock()
		if hooks.OnSnooze != nil {
			hooks.OnSnooze(alarm)
		}
		return nil
	}

	m.mode = ModeAd
	m.countdown = AdCountdown
	tick := m.tick
	m.mu.Unlock()

	if hooks.OnCountdown != nil {
		hooks.OnCountdown(AdCountdown)
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	remaining := AdCountdown
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			remaining--
			m.mu.Lock()
			m.countdown = remaining
			if remaining <= 0 {
				m.mode = ModeSnoozed
				m.mu.Unlock()
				if hooks.OnSnooze != nil {
					hooks.OnSnooze(alarm)
				}
				return nil
			}
			m.mu.Unlock()
			if hooks.OnCountdown != nil {
				hooks.OnCountdown(remaining)
			}
		}
	}
}

// Done reports whether the machine reached a terminal mode.
func (m *Machine) Done() bool {
	switch m.Mode() {
	case ModeDismissed, ModeSnoozed:
		return true
	}
	return false
}
