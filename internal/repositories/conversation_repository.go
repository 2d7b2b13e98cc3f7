package repositories

import (
	"fmt"

	"devforge/internal/models"

	"gorm.io/gorm"
)

type ConversationRepository interface {
	Append(projectID uint, role, content string) (*models.ConversationTurn, error)
	ListByProject(projectID uint) ([]models.ConversationTurn, error)
	DeleteByProject(projectID uint) error
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// Append assigns the next sequence number inside a transaction so that
// concurrent appenders can never reuse a sequence number. The unique index on
// (project_id, seq) backs this up at the schema level.
func (r *conversationRepository) Append(projectID uint, role, content string) (*models.ConversationTurn, error) {
	if projectID == 0 {
		return nil, fmt.Errorf("projectID is required")
	}
	switch role {
	case models.RoleUser, models.RoleAssistant, models.RoleSystem:
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	turn := models.ConversationTurn{
		ProjectID: projectID,
		Role:      role,
		Content:   content,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxSeq uint
		row := tx.Model(&models.ConversationTurn{}).
			Where("project_id = ?", projectID).
			Select("COALESCE(MAX(seq), 0)").
			Row()
		if err := row.Scan(&maxSeq); err != nil {
			return fmt.Errorf("read max seq: %w", err)
		}
		turn.Seq = maxSeq + 1
		return tx.Create(&turn).Error
	})
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

func (r *conversationRepository) ListByProject(projectID uint) ([]models.ConversationTurn, error) {
	var turns []models.ConversationTurn
	res := r.db.Where("project_id = ?", projectID).Order("seq asc").Find(&turns)
	if res.Error != nil {
		return nil, res.Error
	}
	return turns, nil
}

func (r *conversationRepository) DeleteByProject(projectID uint) error {
	return r.db.Where("project_id = ?", projectID).Delete(&models.ConversationTurn{}).Error
}
