package models

import (
	"time"
)

// PlatformSetting is a global key-value configuration row, e.g. the flat
// click commission amount. Values are stored as text and parsed by typed
// repository accessors.
type PlatformSetting struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Key   string `gorm:"size:100;not null;uniqueIndex:uk_platform_settings_key" json:"key"`
	Value string `gorm:"type:text;not null" json:"value"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName returns the table name for PlatformSetting
func (PlatformSetting) TableName() string { return "platform_settings" }

// PlatformSettingFilter provides filter fields for repository queries
type PlatformSettingFilter struct {
	ID  *uint   `json:"id,omitempty"`
	Key *string `json:"key,omitempty"`
}
