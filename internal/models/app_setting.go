package models

import "time"

// AppSetting stores admin-configurable key/value settings, one row per key.
type AppSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SettingKey   string    `gorm:"uniqueIndex;size:100;not null" json:"setting_key"`
	SettingValue string    `gorm:"type:text;not null" json:"setting_value"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (AppSetting) TableName() string { return "app_settings" }
