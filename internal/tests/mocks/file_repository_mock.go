package mocks

import (
	"devforge/internal/models"
)

type FileRepositoryMock struct {
	SaveFunc          func(file *models.GeneratedFile) error
	ListByPlanFunc    func(planID uint) ([]models.GeneratedFile, error)
	ListByProjectFunc func(projectID uint) ([]models.GeneratedFile, error)
}

func (m *FileRepositoryMock) Save(file *models.GeneratedFile) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(file)
	}
	return nil
}

func (m *FileRepositoryMock) ListByPlan(planID uint) ([]models.GeneratedFile, error) {
	if m.ListByPlanFunc != nil {
		return m.ListByPlanFunc(planID)
	}
	return nil, nil
}

func (m *FileRepositoryMock) ListByProject(projectID uint) ([]models.GeneratedFile, error) {
	if m.ListByProjectFunc != nil {
		return m.ListByProjectFunc(projectID)
	}
	return nil, nil
}
