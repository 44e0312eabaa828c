package overlay

import (
	"context"
	"sort"
	"sync"

	"alarmclock/models"
)

type session struct {
	machine *Machine
	cancel  context.CancelFunc
}

// Manager keeps at most one live overlay per alarm.
type Manager struct {
	mu       sync.Mutex
	sessions map[uint]*session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uint]*session)}
}

// Start creates a ringing machine for alarm, replacing and cancelling any
// overlay already open for the same alarm. The returned context is
// cancelled when the session ends.
func (mg *Manager) Start(parent context.Context, alarm models.Alarm, settings models.Settings, store AlarmStore, opts ...Option) (*Machine, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	m := New(&alarm, settings, store, opts...)

	mg.mu.Lock()
	old := mg.sessions[alarm.ID]
	mg.sessions[alarm.ID] = &session{machine: m, cancel: cancel}
	mg.mu.Unlock()

	if old != nil {
		old.cancel()
	}
	return m, ctx
}

func (mg *Manager) Get(alarmID uint) *Machine {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	if s, ok := mg.sessions[alarmID]; ok {
		return s.machine
	}
	return nil
}

// End tears down the session for alarmID if m still owns it.
func (mg *Manager) End(alarmID uint, m *Machine) {
	mg.mu.Lock()
	s, ok := mg.sessions[alarmID]
	if ok && s.machine == m {
		delete(mg.sessions, alarmID)
	}
	mg.mu.Unlock()

	if ok && s.machine == m {
		s.cancel()
	}
}

// Active lists alarm ids with an open overlay.
func (mg *Manager) Active() []uint {
	mg.mu.Lock()
	ids := make([]uint, 0, len(mg.sessions))
	for id := range mg.sessions {
		ids = append(ids, id)
	}
	mg.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
