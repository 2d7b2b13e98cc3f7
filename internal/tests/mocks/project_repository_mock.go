package mocks

import (
	"devforge/internal/models"
)

type ProjectRepositoryMock struct {
	CreateFunc       func(project *models.Project) error
	GetFunc          func(projectID uint) (*models.Project, error)
	GetByNameFunc    func(name string) (*models.Project, error)
	ListFunc         func() ([]models.Project, error)
	UpdateStatusFunc func(projectID uint, status models.ProjectStatus) error
	MarkFailedFunc   func(projectID uint, reason, detail string) error
	SetRemoteFunc    func(projectID uint, owner, name, url string) error
	SetDeployURLFunc func(projectID uint, url string) error
	SetStackFunc     func(projectID uint, stack models.TargetStack) error
}

func (m *ProjectRepositoryMock) Create(project *models.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(project)
	}
	return nil
}

func (m *ProjectRepositoryMock) Get(projectID uint) (*models.Project, error) {
	if m.GetFunc != nil {
		return m.GetFunc(projectID)
	}
	return &models.Project{ID: projectID, Name: "demo", Stack: models.StackStatic, Status: models.StatusDraft}, nil
}

func (m *ProjectRepositoryMock) GetByName(name string) (*models.Project, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(name)
	}
	return nil, nil
}

func (m *ProjectRepositoryMock) List() ([]models.Project, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

func (m *ProjectRepositoryMock) UpdateStatus(projectID uint, status models.ProjectStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(projectID, status)
	}
	return nil
}

func (m *ProjectRepositoryMock) MarkFailed(projectID uint, reason, detail string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(projectID, reason, detail)
	}
	return nil
}

func (m *ProjectRepositoryMock) SetRemote(projectID uint, owner, name, url string) error {
	if m.SetRemoteFunc != nil {
		return m.SetRemoteFunc(projectID, owner, name, url)
	}
	return nil
}

func (m *ProjectRepositoryMock) SetDeployURL(projectID uint, url string) error {
	if m.SetDeployURLFunc != nil {
		return m.SetDeployURLFunc(projectID, url)
	}
	return nil
}

func (m *ProjectRepositoryMock) SetStack(projectID uint, stack models.TargetStack) error {
	if m.SetStackFunc != nil {
		return m.SetStackFunc(projectID, stack)
	}
	return nil
}
