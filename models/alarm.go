package models

import (
	"time"

	"gorm.io/datatypes"
)

// Weekday tokens accepted in Alarm.Days, in canonical week order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type Alarm struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	Time      string                      `gorm:"size:5;not null" json:"time"` // HH:MM, local wall clock
	Label     *string                     `gorm:"size:100" json:"label"`
	IsActive  bool                        `gorm:"not null" json:"isActive"`
	Days      datatypes.JSONSlice[string] `gorm:"not null" json:"days"`
	CreatedAt time.Time                   `json:"-"`
	UpdatedAt time.Time                   `json:"-"`
}

// AlarmInput is the body of create and partial update requests. Nil fields
// were absent from the request.
type AlarmInput struct {
	Time     *string   `json:"time" validate:"omitnil,alarmtime"`
	Label    *string   `json:"label" validate:"omitnil,max=100"`
	IsActive *bool     `json:"isActive"`
	Days     *[]string `json:"days" validate:"omitnil,unique,dive,weekday"`
}

// ValidateCreate requires time; everything else falls back to defaults.
func (in *AlarmInput) ValidateCreate() error {
	if in.Time == nil {
		return &ValidationError{Message: "time is required", Fields: map[string]string{"time": "required"}}
	}
	return validateStruct(in)
}

func (in *AlarmInput) ValidateUpdate() error {
	return validateStruct(in)
}

// NormalizeDays orders day tokens by weekday so equal sets compare equal.
func NormalizeDays(days []string) []string {
	present := make(map[string]bool, len(days))
	for _, d := range days {
		present[d] = true
	}
	out := make([]string, 0, len(days))
	for _, d := range Weekdays {
		if present[d] {
			out = append(out, d)
		}
	}
	return out
}
