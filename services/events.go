package services

import (
	"context"
	"sync"

	"alarmclock/database"
	"alarmclock/logger"
	"alarmclock/models"
)

var pending sync.WaitGroup

func newEvent(alarmID *uint, action models.EventAction, details string) models.AlarmEvent {
	return models.AlarmEvent{
		AlarmID: alarmID,
		Action:  action,
		Details: details,
	}
}

// LogEvent records an event without blocking the caller.
func LogEvent(alarmID *uint, action models.EventAction, details string) {
	ev := newEvent(alarmID, action, details)
	db := database.DB

	pending.Add(1)
	go func() {
		defer pending.Done()
		if err := db.Create(&ev).Error; err != nil {
			logger.Error("failed to record event", "action", action, "error", err)
		}
	}()
}

// LogEventSync records an event and returns the insert error.
func LogEventSync(ctx context.Context, alarmID *uint, action models.EventAction, details string) error {
	ev := newEvent(alarmID, action, details)
	return database.DB.WithContext(ctx).Create(&ev).Error
}

// FlushEvents waits for in-flight LogEvent writes.
func FlushEvents() {
	pending.Wait()
}

type EventFilter struct {
	AlarmID *uint
	Action  models.EventAction
	Page    int
	Limit   int
}

type EventPage struct {
	Events []models.AlarmEvent `json:"events"`
	Total  int64               `json:"total"`
	Page   int                 `json:"page"`
	Limit  int                 `json:"limit"`
}

// ListEvents returns the newest events first.
func ListEvents(ctx context.Context, f EventFilter) (*EventPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 50
	}
	offset := (f.Page - 1) * f.Limit

	query := database.DB.WithContext(ctx).Model(&models.AlarmEvent{})
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.AlarmID != nil {
		query = query.Where("alarm_id = ?", *f.AlarmID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	events := []models.AlarmEvent{}
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(f.Limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return &EventPage{
		Events: events,
		Total:  total,
		Page:   f.Page,
		Limit:  f.Limit,
	}, nil
}
