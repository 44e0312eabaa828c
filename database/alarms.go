package database

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alarmclock/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ListAlarms returns every alarm in creation order.
func ListAlarms(ctx context.Context) ([]models.Alarm, error) {
	alarms := []models.Alarm{}
	if err := DB.WithContext(ctx).Order("id").Find(&alarms).Error; err != nil {
		return nil, err
	}
	return alarms, nil
}

func GetAlarm(ctx context.Context, id uint) (*models.Alarm, error) {
	var alarm models.Alarm
	if err := DB.WithContext(ctx).First(&alarm, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &alarm, nil
}

// CreateAlarm inserts a validated create request. isActive defaults to true
// and days to an empty set.
func CreateAlarm(ctx context.Context, in models.AlarmInput) (*models.Alarm, error) {
	alarm := models.Alarm{
		Time:     *in.Time,
		Label:    in.Label,
		IsActive: true,
		Days:     datatypes.JSONSlice[string]{},
	}
	if in.IsActive != nil {
		alarm.IsActive = *in.IsActive
	}
	if in.Days != nil {
		alarm.Days = models.NormalizeDays(*in.Days)
	}

	if err := DB.WithContext(ctx).Create(&alarm).Error; err != nil {
		return nil, err
	}
	return &alarm, nil
}

// UpdateAlarm applies only the fields present in the request.
func UpdateAlarm(ctx context.Context, id uint, in models.AlarmInput) (*models.Alarm, error) {
	alarm, err := GetAlarm(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Time != nil {
		updates["time"] = *in.Time
	}
	if in.Label != nil {
		updates["label"] = *in.Label
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.Days != nil {
		updates["days"] = datatypes.JSONSlice[string](models.NormalizeDays(*in.Days))
	}
	if len(updates) == 0 {
		return alarm, nil
	}

	if err := DB.WithContext(ctx).Model(&models.Alarm{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	// a concurrent delete surfaces here as ErrNotFound
	return GetAlarm(ctx, id)
}

func SetAlarmActive(ctx context.Context, id uint, active bool) (*models.Alarm, error) {
	return UpdateAlarm(ctx, id, models.AlarmInput{IsActive: &active})
}

// DeleteAlarm removes an alarm. Deleting a missing id is not an error.
func DeleteAlarm(ctx context.Context, id uint) error {
	return DB.WithContext(ctx).Delete(&models.Alarm{}, id).Error
}

// AlarmStore exposes the alarm table to the dismiss overlay.
type AlarmStore struct{}

func (AlarmStore) Deactivate(ctx context.Context, id uint) error {
	_, err := SetAlarmActive(ctx, id, false)
	return err
}
