package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alarmclock/models"
)

// GetSettings returns the singleton settings row, creating it with defaults
// on first use. The insert targets a fixed primary key and ignores
// conflicts, so concurrent first reads converge on one row.
func GetSettings(ctx context.Context) (*models.Settings, error) {
	db := DB.WithContext(ctx)

	var s models.Settings
	err := db.First(&s, models.SettingsID).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := EnsureSettings(ctx); err != nil {
		return nil, err
	}
	if err := db.First(&s, models.SettingsID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// EnsureSettings inserts the default row unless one already exists. It is
// safe to call concurrently and never overwrites stored settings.
func EnsureSettings(ctx context.Context) error {
	defaults := models.DefaultSettings()
	return DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error
}

// UpdateSettings applies the present fields of a patch to the singleton.
func UpdateSettings(ctx context.Context, in models.SettingsInput) (*models.Settings, error) {
	current, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Theme != nil {
		updates["theme"] = *in.Theme
	}
	if in.Language != nil {
		updates["language"] = *in.Language
	}
	if in.IsPro != nil {
		updates["is_pro"] = *in.IsPro
	}
	if len(updates) == 0 {
		return current, nil
	}

	if err := DB.WithContext(ctx).Model(&models.Settings{}).Where("id = ?", models.SettingsID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetSettings(ctx)
}

func EnablePro(ctx context.Context) (*models.Settings, error) {
	pro := true
	return UpdateSettings(ctx, models.SettingsInput{IsPro: &pro})
}
