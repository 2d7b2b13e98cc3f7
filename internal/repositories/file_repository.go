package repositories

import (
	"fmt"

	"devforge/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FileRepository interface {
	Save(file *models.GeneratedFile) error
	ListByPlan(planID uint) ([]models.GeneratedFile, error)
	ListByProject(projectID uint) ([]models.GeneratedFile, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

// Save upserts on (plan_id, path) so a resumed run that regenerates a file
// replaces the previous content instead of erroring.
func (r *fileRepository) Save(file *models.GeneratedFile) error {
	if file.ProjectID == 0 {
		return fmt.Errorf("projectID is required")
	}
	if file.Path == "" {
		return fmt.Errorf("path is required")
	}
	if file.ContentHash == "" {
		file.ContentHash = models.HashContent(file.Content)
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plan_id"}, {Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "content_hash", "created_at"}),
	}).Create(file).Error
}

func (r *fileRepository) ListByPlan(planID uint) ([]models.GeneratedFile, error) {
	var files []models.GeneratedFile
	res := r.db.Where("plan_id = ?", planID).Order("id asc").Find(&files)
	if res.Error != nil {
		return nil, res.Error
	}
	return files, nil
}

func (r *fileRepository) ListByProject(projectID uint) ([]models.GeneratedFile, error) {
	var files []models.GeneratedFile
	res := r.db.Where("project_id = ?", projectID).Order("id asc").Find(&files)
	if res.Error != nil {
		return nil, res.Error
	}
	return files, nil
}
