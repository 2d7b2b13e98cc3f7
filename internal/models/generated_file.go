package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// GeneratedFile is a complete file produced by the generator for one run.
type GeneratedFile struct {
	ID          uint   `gorm:"primaryKey"`
	ProjectID   uint   `gorm:"not null;index"`
	PlanID      uint   `gorm:"index:idx_file_plan_path,unique"`
	Path        string `gorm:"size:512;not null;index:idx_file_plan_path,unique"`
	Content     string `gorm:"type:text"`
	ContentHash string `gorm:"size:64;not null"`
	CreatedAt   time.Time
}

// HashContent returns the hex sha256 of file content, stored in ContentHash
// so regenerated output can be detected as changed or identical.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
