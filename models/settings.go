package models

import "time"

const (
	ThemeDarkSpace = "dark_space"
	ThemeSunset    = "sunset"
	ThemeRoyalGold = "royal_gold"

	LanguageEnglish = "en"
	LanguageArabic  = "ar"
)

// SettingsID is the primary key of the only settings row.
const SettingsID uint = 1

type Settings struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Theme     string    `gorm:"size:20;not null;default:dark_space" json:"theme"`
	Language  string    `gorm:"size:5;not null;default:en" json:"language"`
	IsPro     bool      `gorm:"not null;default:false" json:"isPro"`
	UpdatedAt time.Time `json:"-"`
}

func (Settings) TableName() string { return "settings" }

// DefaultSettings is the row created on first read.
func DefaultSettings() Settings {
	return Settings{
		ID:       SettingsID,
		Theme:    ThemeDarkSpace,
		Language: LanguageEnglish,
		IsPro:    false,
	}
}

type SettingsInput struct {
	Theme    *string `json:"theme" validate:"omitnil,oneof=dark_space sunset royal_gold"`
	Language *string `json:"language" validate:"omitnil,oneof=en ar"`
	IsPro    *bool   `json:"isPro"`
}

func (in *SettingsInput) Validate() error {
	return validateStruct(in)
}

// ProVerifyInput carries the payment reference submitted for a Pro unlock.
type ProVerifyInput struct {
	TransactionHash string `json:"transactionHash" validate:"required,max=200"`
}

func (in *ProVerifyInput) Validate() error {
	return validateStruct(in)
}
