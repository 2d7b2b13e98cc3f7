package models

import "time"

// PlanEntryStatus tracks one planned file through the pipeline.
type PlanEntryStatus string

const (
	EntryPending   PlanEntryStatus = "pending"
	EntryGenerated PlanEntryStatus = "generated"
	EntryPublished PlanEntryStatus = "published"
	EntryFailed    PlanEntryStatus = "failed"
)

// FilePlan is the file layout proposed for one generation run. Plans are
// never mutated in place; a new run for the same project supersedes the
// previous plan, which is kept for history.
type FilePlan struct {
	ID        uint   `gorm:"primaryKey"`
	ProjectID uint   `gorm:"not null;index"`
	RunID     string `gorm:"size:36;not null"`
	Entries   []FilePlanEntry `gorm:"foreignKey:PlanID"`
	CreatedAt time.Time
}

// FilePlanEntry is a single planned file. Path is unique within a plan.
type FilePlanEntry struct {
	ID       uint   `gorm:"primaryKey"`
	PlanID   uint   `gorm:"not null;index:idx_entry_plan_path,unique"`
	Position int    `gorm:"not null"`
	Path     string `gorm:"size:512;not null;index:idx_entry_plan_path,unique"`
	Purpose  string `gorm:"size:512"`
	Status   PlanEntryStatus `gorm:"size:16;not null;default:pending"`
}
