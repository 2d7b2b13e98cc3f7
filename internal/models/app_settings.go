package models

import "time"

// AppSettings is the single-row (ID=1) table of tool-wide settings.
type AppSettings struct {
	ID              uint   `gorm:"primaryKey"`
	Version         int    `gorm:"not null;default:1"`
	DefaultProvider string `gorm:"size:32;not null;default:openai"` // "openai" | "anthropic" | "gemini"
	MirrorDir       string `gorm:"size:512"`
	GenWorkers      int    `gorm:"not null;default:3"`
	UpdatedAt       time.Time
}
