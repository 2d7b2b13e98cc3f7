package mocks

import (
	"devforge/internal/models"
)

type PlanRepositoryMock struct {
	CreateFunc            func(plan *models.FilePlan) error
	LatestFunc            func(projectID uint) (*models.FilePlan, error)
	GetFunc               func(planID uint) (*models.FilePlan, error)
	UpdateEntryStatusFunc func(planID uint, path string, status models.PlanEntryStatus) error
}

func (m *PlanRepositoryMock) Create(plan *models.FilePlan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(plan)
	}
	plan.ID = 1
	return nil
}

func (m *PlanRepositoryMock) Latest(projectID uint) (*models.FilePlan, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(projectID)
	}
	return nil, nil
}

func (m *PlanRepositoryMock) Get(planID uint) (*models.FilePlan, error) {
	if m.GetFunc != nil {
		return m.GetFunc(planID)
	}
	return nil, nil
}

func (m *PlanRepositoryMock) UpdateEntryStatus(planID uint, path string, status models.PlanEntryStatus) error {
	if m.UpdateEntryStatusFunc != nil {
		return m.UpdateEntryStatusFunc(planID, path, status)
	}
	return nil
}
