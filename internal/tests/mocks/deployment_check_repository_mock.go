package mocks

import (
	"devforge/internal/models"
)

type DeploymentCheckRepositoryMock struct {
	AppendFunc        func(check *models.DeploymentCheck) error
	ListByProjectFunc func(projectID uint) ([]models.DeploymentCheck, error)
	LatestFunc        func(projectID uint) (*models.DeploymentCheck, error)
}

func (m *DeploymentCheckRepositoryMock) Append(check *models.DeploymentCheck) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(check)
	}
	return nil
}

func (m *DeploymentCheckRepositoryMock) ListByProject(projectID uint) ([]models.DeploymentCheck, error) {
	if m.ListByProjectFunc != nil {
		return m.ListByProjectFunc(projectID)
	}
	return nil, nil
}

func (m *DeploymentCheckRepositoryMock) Latest(projectID uint) (*models.DeploymentCheck, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(projectID)
	}
	return nil, nil
}
