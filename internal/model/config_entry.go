package model

import "time"

// ConfigEntry is a key/value application setting, last-writer-wins.
type ConfigEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (ConfigEntry) TableName() string { return "config_entries" }
