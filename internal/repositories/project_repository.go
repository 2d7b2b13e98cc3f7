package repositories

import (
	"errors"
	"fmt"

	"devforge/internal/models"

	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(project *models.Project) error
	Get(projectID uint) (*models.Project, error)
	GetByName(name string) (*models.Project, error)
	List() ([]models.Project, error)
	UpdateStatus(projectID uint, status models.ProjectStatus) error
	MarkFailed(projectID uint, reason, detail string) error
	SetRemote(projectID uint, owner, name, url string) error
	SetDeployURL(projectID uint, url string) error
	SetStack(projectID uint, stack models.TargetStack) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *models.Project) error {
	if project.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if project.Status == "" {
		project.Status = models.StatusDraft
	}
	return r.db.Create(project).Error
}

func (r *projectRepository) Get(projectID uint) (*models.Project, error) {
	var project models.Project
	res := r.db.Take(&project, projectID)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, res.Error
	}
	return &project, nil
}

func (r *projectRepository) GetByName(name string) (*models.Project, error) {
	var project models.Project
	res := r.db.Where("name = ?", name).Take(&project)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, res.Error
	}
	return &project, nil
}

func (r *projectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	res := r.db.Order("updated_at desc").Find(&projects)
	if res.Error != nil {
		return nil, res.Error
	}
	return projects, nil
}

func (r *projectRepository) UpdateStatus(projectID uint, status models.ProjectStatus) error {
	return r.db.Model(&models.Project{}).Where("id = ?", projectID).
		Update("status", status).Error
}

func (r *projectRepository) MarkFailed(projectID uint, reason, detail string) error {
	return r.db.Model(&models.Project{}).Where("id = ?", projectID).Updates(map[string]interface{}{
		"status":      models.StatusFailed,
		"fail_reason": reason,
		"fail_detail": detail,
	}).Error
}

func (r *projectRepository) SetRemote(projectID uint, owner, name, url string) error {
	return r.db.Model(&models.Project{}).Where("id = ?", projectID).Updates(map[string]interface{}{
		"repo_owner": owner,
		"repo_name":  name,
		"repo_url":   url,
	}).Error
}

func (r *projectRepository) SetDeployURL(projectID uint, url string) error {
	return r.db.Model(&models.Project{}).Where("id = ?", projectID).
		Update("deploy_url", url).Error
}

func (r *projectRepository) SetStack(projectID uint, stack models.TargetStack) error {
	return r.db.Model(&models.Project{}).Where("id = ?", projectID).
		Update("stack", stack).Error
}
