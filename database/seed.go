package database

import (
	"context"

	"alarmclock/logger"
	"alarmclock/models"
)

type seedAlarm struct {
	time  string
	label string
	days  []string
}

var defaultAlarms = []seedAlarm{
	{time: "07:00", label: "Morning Wake Up", days: []string{"Mon", "Tue", "Wed", "Thu", "Fri"}},
	{time: "08:30", label: "Weekend Sleep In", days: []string{"Sat", "Sun"}},
}

// SeedAlarms inserts the starter alarms when the table is empty.
func SeedAlarms(ctx context.Context) error {
	var count int64
	if err := DB.WithContext(ctx).Model(&models.Alarm{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, s := range defaultAlarms {
		t, label, days := s.time, s.label, s.days
		if _, err := CreateAlarm(ctx, models.AlarmInput{Time: &t, Label: &label, Days: &days}); err != nil {
			return err
		}
	}
	logger.Info("seeded starter alarms", "count", len(defaultAlarms))
	return nil
}
