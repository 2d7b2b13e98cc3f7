package mocks

import (
	"devforge/internal/models"
)

type ConversationRepositoryMock struct {
	AppendFunc          func(projectID uint, role, content string) (*models.ConversationTurn, error)
	ListByProjectFunc   func(projectID uint) ([]models.ConversationTurn, error)
	DeleteByProjectFunc func(projectID uint) error
}

func (m *ConversationRepositoryMock) Append(projectID uint, role, content string) (*models.ConversationTurn, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(projectID, role, content)
	}
	return &models.ConversationTurn{ProjectID: projectID, Role: role, Content: content, Seq: 1}, nil
}

func (m *ConversationRepositoryMock) ListByProject(projectID uint) ([]models.ConversationTurn, error) {
	if m.ListByProjectFunc != nil {
		return m.ListByProjectFunc(projectID)
	}
	return nil, nil
}

func (m *ConversationRepositoryMock) DeleteByProject(projectID uint) error {
	if m.DeleteByProjectFunc != nil {
		return m.DeleteByProjectFunc(projectID)
	}
	return nil
}
