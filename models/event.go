package models

import "time"

type EventAction string

const (
	EventAlarmCreated   EventAction = "alarm_created"
	EventAlarmUpdated   EventAction = "alarm_updated"
	EventAlarmDeleted   EventAction = "alarm_deleted"
	EventAlarmDismissed EventAction = "alarm_dismissed"
	EventAlarmSnoozed   EventAction = "alarm_snoozed"
	EventProVerified    EventAction = "pro_verified"
	EventProRejected    EventAction = "pro_rejected"
)

// EventActions lists every action, for the events filter UI.
var EventActions = []EventAction{
	EventAlarmCreated,
	EventAlarmUpdated,
	EventAlarmDeleted,
	EventAlarmDismissed,
	EventAlarmSnoozed,
	EventProVerified,
	EventProRejected,
}

// AlarmEvent is an append-only history of alarm and Pro activity.
type AlarmEvent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	AlarmID   *uint       `gorm:"index" json:"alarmId,omitempty"`
	Action    EventAction `gorm:"size:32;index;not null" json:"action"`
	Details   string      `json:"details,omitempty"`
	CreatedAt time.Time   `gorm:"index" json:"createdAt"`
}
