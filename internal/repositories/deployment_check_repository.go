package repositories

import (
	"fmt"

	"devforge/internal/models"

	"gorm.io/gorm"
)

type DeploymentCheckRepository interface {
	Append(check *models.DeploymentCheck) error
	ListByProject(projectID uint) ([]models.DeploymentCheck, error)
	Latest(projectID uint) (*models.DeploymentCheck, error)
}

type deploymentCheckRepository struct {
	db *gorm.DB
}

func NewDeploymentCheckRepository(db *gorm.DB) DeploymentCheckRepository {
	return &deploymentCheckRepository{db: db}
}

func (r *deploymentCheckRepository) Append(check *models.DeploymentCheck) error {
	if check.ProjectID == 0 {
		return fmt.Errorf("projectID is required")
	}
	if check.Attempt <= 0 {
		return fmt.Errorf("attempt must be positive")
	}
	return r.db.Create(check).Error
}

func (r *deploymentCheckRepository) ListByProject(projectID uint) ([]models.DeploymentCheck, error) {
	var checks []models.DeploymentCheck
	res := r.db.Where("project_id = ?", projectID).Order("id asc").Find(&checks)
	if res.Error != nil {
		return nil, res.Error
	}
	return checks, nil
}

func (r *deploymentCheckRepository) Latest(projectID uint) (*models.DeploymentCheck, error) {
	var checks []models.DeploymentCheck
	res := r.db.Where("project_id = ?", projectID).Order("id desc").Limit(1).Find(&checks)
	if res.Error != nil {
		return nil, res.Error
	}
	if len(checks) == 0 {
		return nil, nil
	}
	return &checks[0], nil
}
