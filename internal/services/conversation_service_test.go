package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devforge/internal/models"
	"devforge/internal/tests/mocks"
)

func TestRecordTurn(t *testing.T) {
	var appended []models.ConversationTurn
	turns := &mocks.ConversationRepositoryMock{
		AppendFunc: func(projectID uint, role, content string) (*models.ConversationTurn, error) {
			turn := models.ConversationTurn{ProjectID: projectID, Role: role, Content: content, Seq: uint(len(appended) + 1)}
			appended = append(appended, turn)
			return &turn, nil
		},
	}
	service := NewConversationService(&mocks.ProjectRepositoryMock{}, turns)

	turn, err := service.RecordTurn(7, models.RoleUser, "  build me an api  ")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), turn.ProjectID)
	assert.Equal(t, "build me an api", turn.Content)
}

func TestRecordTurn_EmptyContent(t *testing.T) {
	service := NewConversationService(&mocks.ProjectRepositoryMock{}, &mocks.ConversationRepositoryMock{})

	_, err := service.RecordTurn(7, models.RoleUser, "   ")
	assert.Error(t, err)
}

func TestRecordTurn_MissingProject(t *testing.T) {
	projects := &mocks.ProjectRepositoryMock{
		GetFunc: func(projectID uint) (*models.Project, error) { return nil, nil },
	}
	service := NewConversationService(projects, &mocks.ConversationRepositoryMock{})

	_, err := service.RecordTurn(99, models.RoleUser, "hello")
	assert.ErrorIs(t, err, ErrContextUnavailable)
}

func TestRecordExchange(t *testing.T) {
	var recorded []string
	turns := &mocks.ConversationRepositoryMock{
		AppendFunc: func(projectID uint, role, content string) (*models.ConversationTurn, error) {
			recorded = append(recorded, role)
			return &models.ConversationTurn{ProjectID: projectID, Role: role, Content: content, Seq: uint(len(recorded))}, nil
		},
	}
	service := NewConversationService(&mocks.ProjectRepositoryMock{}, turns)

	err := service.RecordExchange(7, "make a blog", "planned 4 files")
	assert.NoError(t, err)
	assert.Equal(t, []string{models.RoleUser, models.RoleAssistant}, recorded)
}
