package overlay

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"alarmclock/models"
)

type fakeStore struct {
	mu    sync.Mutex
	calls []uint
	err   error
}

func (f *fakeStore) Deactivate(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, id)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recorder struct {
	mu        sync.Mutex
	dismissed []uint
	snoozed   []uint
	countdown []int
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnDismiss: func(a models.Alarm) {
			r.mu.Lock()
			r.dismissed = append(r.dismissed, a.ID)
			r.mu.Unlock()
		},
		OnSnooze: func(a models.Alarm) {
			r.mu.Lock()
			r.snoozed = append(r.snoozed, a.ID)
			r.mu.Unlock()
		},
		OnCountdown: func(n int) {
			r.mu.Lock()
			r.countdown = append(r.countdown, n)
			r.mu.Unlock()
		},
	}
}

func testAlarm() *models.Alarm {
	label := "Gym"
	return &models.Alarm{ID: 4, Time: "07:00", Label: &label, IsActive: true}
}

var freeSettings = models.Settings{Theme: models.ThemeDarkSpace, Language: models.LanguageEnglish}

func TestDismissWithCorrectAnswer(t *testing.T) {
	store := &fakeStore{}
	rec := &recorder{}
	m := New(testAlarm(), freeSettings, store, WithRand(rand.New(rand.NewSource(3))), WithHooks(rec.hooks()))

	if m.Mode() != ModeRing {
		t.Fatalf("initial mode = %q, want ring", m.Mode())
	}
	c, err := m.StartPuzzle()
	if err != nil {
		t.Fatalf("StartPuzzle returned error: %v", err)
	}
	if m.Mode() != ModePuzzle {
		t.Fatalf("mode = %q, want puzzle", m.Mode())
	}
	if snap := m.Snapshot(); snap.Challenge == nil || snap.Challenge.Question != c.Question {
		t.Fatalf("snapshot missing challenge: %+v", snap)
	}

	ok, err := m.Submit(context.Background(), "  "+c.Answer+" ")
	if err != nil || !ok {
		t.Fatalf("Submit = %v, %v; want true, nil", ok, err)
	}
	if m.Mode() != ModeDismissed || !m.Done() {
		t.Fatalf("mode = %q, want dismissed", m.Mode())
	}
	if store.count() != 1 {
		t.Fatalf("Deactivate called %d times, want 1", store.count())
	}
	if len(rec.dismissed) != 1 || rec.dismissed[0] != 4 {
		t.Fatalf("dismiss hook calls = %v", rec.dismissed)
	}
}

func TestWrongAnswerKeepsPuzzle(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := &fakeStore{}
	m := New(testAlarm(), freeSettings, store, WithClock(clock))

	if _, err := m.StartPuzzle(); err != nil {
		t.Fatalf("StartPuzzle returned error: %v", err)
	}
	ok, err := m.Submit(context.Background(), "definitely wrong")
	if err != nil || ok {
		t.Fatalf("Submit = %v, %v; want false, nil", ok, err)
	}
	if m.Mode() != ModePuzzle {
		t.Fatalf("mode = %q, want puzzle", m.Mode())
	}
	if !m.Snapshot().WrongAnswer {
		t.Fatal("expected wrong-answer flag right after a miss")
	}
	now = now.Add(ErrorDisplay + time.Millisecond)
	if m.Snapshot().WrongAnswer {
		t.Fatal("wrong-answer flag should clear after the display window")
	}
	if store.count() != 0 {
		t.Fatal("alarm should not be deactivated on a wrong answer")
	}
}

func TestSubmitStoreFailureStaysInPuzzle(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	m := New(testAlarm(), freeSettings, store)
	c, _ := m.StartPuzzle()

	if _, err := m.Submit(context.Background(), c.Answer); err == nil {
		t.Fatal("expected store error")
	}
	if m.Mode() != ModePuzzle {
		t.Fatalf("mode = %q, want puzzle after failed persist", m.Mode())
	}
}

func TestProSnoozeIsImmediate(t *testing.T) {
	rec := &recorder{}
	pro := models.Settings{Theme: models.ThemeSunset, Language: models.LanguageEnglish, IsPro: true}
	m := New(testAlarm(), pro, &fakeStore{}, WithHooks(rec.hooks()))

	if err := m.Snooze(context.Background()); err != nil {
		t.Fatalf("Snooze returned error: %v", err)
	}
	if m.Mode() != ModeSnoozed {
		t.Fatalf("mode = %q, want snoozed", m.Mode())
	}
	if len(rec.countdown) != 0 {
		t.Fatalf("Pro snooze should skip the ad, got countdown %v", rec.countdown)
	}
	if len(rec.snoozed) != 1 {
		t.Fatalf("snooze hook calls = %v", rec.snoozed)
	}
}

func TestFreeSnoozeCountsDown(t *testing.T) {
	rec := &recorder{}
	store := &fakeStore{}
	m := New(testAlarm(), freeSettings, store, WithTick(time.Millisecond), WithHooks(rec.hooks()))

	if err := m.Snooze(context.Background()); err != nil {
		t.Fatalf("Snooze returned error: %v", err)
	}
	if m.Mode() != ModeSnoozed {
		t.Fatalf("mode = %q, want snoozed", m.Mode())
	}
	want := []int{3, 2, 1}
	if len(rec.countdown) != len(want) {
		t.Fatalf("countdown = %v, want %v", rec.countdown, want)
	}
	for i := range want {
		if rec.countdown[i] != want[i] {
			t.Fatalf("countdown = %v, want %v", rec.countdown, want)
		}
	}
	if len(rec.snoozed) != 1 {
		t.Fatalf("snooze hook calls = %v", rec.snoozed)
	}
	if store.count() != 0 {
		t.Fatal("snooze must not deactivate the alarm")
	}
}

func TestSnoozeCancelledDuringAd(t *testing.T) {
	rec := &recorder{}
	m := New(testAlarm(), freeSettings, &fakeStore{}, WithTick(time.Hour), WithHooks(rec.hooks()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Snooze(ctx) }()

	deadline := time.Now().Add(time.Second)
	for m.Mode() != ModeAd && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if m.Mode() != ModeAd {
		t.Fatalf("mode = %q, want ad", m.Mode())
	}
	if snap := m.Snapshot(); snap.Countdown != AdCountdown {
		t.Fatalf("countdown = %d, want %d", snap.Countdown, AdCountdown)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Snooze error = %v, want context.Canceled", err)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.snoozed) != 0 {
		t.Fatal("cancelled countdown must not signal a snooze")
	}
}

func TestInvalidTransitions(t *testing.T) {
	m := New(testAlarm(), freeSettings, &fakeStore{})

	if _, err := m.Submit(context.Background(), "x"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Submit in ring: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := m.StartPuzzle(); err != nil {
		t.Fatalf("StartPuzzle returned error: %v", err)
	}
	if _, err := m.StartPuzzle(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second StartPuzzle: err = %v, want ErrInvalidTransition", err)
	}
	if err := m.Snooze(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Snooze in puzzle: err = %v, want ErrInvalidTransition", err)
	}
	if m.Mode() != ModePuzzle {
		t.Fatalf("rejected transitions changed mode to %q", m.Mode())
	}
}

func TestIdleMachineIsNoop(t *testing.T) {
	store := &fakeStore{}
	rec := &recorder{}
	m := New(nil, freeSettings, store, WithHooks(rec.hooks()))

	if m.Mode() != ModeIdle {
		t.Fatalf("mode = %q, want idle", m.Mode())
	}
	if _, err := m.StartPuzzle(); !errors.Is(err, ErrNoActiveAlarm) {
		t.Fatalf("StartPuzzle err = %v", err)
	}
	if _, err := m.Submit(context.Background(), "42"); !errors.Is(err, ErrNoActiveAlarm) {
		t.Fatalf("Submit err = %v", err)
	}
	if err := m.Snooze(context.Background()); !errors.Is(err, ErrNoActiveAlarm) {
		t.Fatalf("Snooze err = %v", err)
	}
	if store.count() != 0 || len(rec.dismissed)+len(rec.snoozed)+len(rec.countdown) != 0 {
		t.Fatal("idle machine produced side effects")
	}
}

func TestManagerReplacesSession(t *testing.T) {
	mg := NewManager()
	alarm := *testAlarm()

	first, firstCtx := mg.Start(context.Background(), alarm, freeSettings, nil)
	second, secondCtx := mg.Start(context.Background(), alarm, freeSettings, nil)

	if first == second {
		t.Fatal("expected a fresh machine")
	}
	select {
	case <-firstCtx.Done():
	default:
		t.Fatal("replaced session was not cancelled")
	}
	if mg.Get(alarm.ID) != second {
		t.Fatal("Get should return the newest machine")
	}

	// ending a stale machine leaves the live one alone
	mg.End(alarm.ID, first)
	if mg.Get(alarm.ID) != second {
		t.Fatal("stale End removed the live session")
	}

	mg.End(alarm.ID, second)
	if mg.Get(alarm.ID) != nil {
		t.Fatal("session should be gone after End")
	}
	if secondCtx.Err() == nil {
		t.Fatal("ended session context should be cancelled")
	}
	if ids := mg.Active(); len(ids) != 0 {
		t.Fatalf("Active = %v, want none", ids)
	}
}
