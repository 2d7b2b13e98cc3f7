package models

import "time"

// Turn roles mirror the generator's chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is one message in a project's conversation log. Turns are
// append-only; Seq is strictly increasing per project and never reused.
type ConversationTurn struct {
	ID        uint   `gorm:"primaryKey"`
	ProjectID uint   `gorm:"not null;index:idx_turn_project_seq,unique"`
	Seq       uint   `gorm:"not null;index:idx_turn_project_seq,unique"`
	Role      string `gorm:"size:16;not null"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
}
