package services

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"

	"devforge/internal/models"
	"devforge/internal/tests/mocks"
)

func TestBuildContext_AssemblesWindow(t *testing.T) {
	projects := &mocks.ProjectRepositoryMock{
		GetFunc: func(projectID uint) (*models.Project, error) {
			return &models.Project{
				ID:          projectID,
				Name:        "bakery",
				Description: "a bakery site",
				Stack:       models.StackStatic,
			}, nil
		},
	}
	turns := &mocks.ConversationRepositoryMock{
		ListByProjectFunc: func(projectID uint) ([]models.ConversationTurn, error) {
			return []models.ConversationTurn{
				{Seq: 1, Role: models.RoleUser, Content: "make a landing page"},
				{Seq: 2, Role: models.RoleAssistant, Content: "Generated 1 file(s)"},
			}, nil
		},
	}
	plans := &mocks.PlanRepositoryMock{
		LatestFunc: func(projectID uint) (*models.FilePlan, error) {
			return &models.FilePlan{ID: 2, Entries: []models.FilePlanEntry{
				{Path: "index.html", Purpose: "entry page"},
			}}, nil
		},
	}

	window, err := NewContextService(projects, turns, plans).BuildContext(4)
	assert.NoError(t, err)
	assert.Equal(t, uint(4), window.Project.ID)
	assert.Equal(t, uint(2), window.LatestPlan.ID)
	assert.Equal(t, 0, window.Truncated)

	// System preamble first, then the turns in order.
	assert.Len(t, window.Messages, 3)
	assert.Equal(t, schema.System, window.Messages[0].Role)
	assert.Contains(t, window.Messages[0].Content, "bakery")
	assert.Contains(t, window.Messages[0].Content, "index.html: entry page")
	assert.Equal(t, schema.User, window.Messages[1].Role)
	assert.Equal(t, schema.Assistant, window.Messages[2].Role)
}

func TestBuildContext_MissingProject(t *testing.T) {
	projects := &mocks.ProjectRepositoryMock{
		GetFunc: func(projectID uint) (*models.Project, error) { return nil, nil },
	}
	_, err := NewContextService(projects, &mocks.ConversationRepositoryMock{}, &mocks.PlanRepositoryMock{}).BuildContext(99)
	assert.ErrorIs(t, err, ErrContextUnavailable)
}

func TestFitBudget_DropsOldestKeepsRecent(t *testing.T) {
	s := &contextService{budgetBytes: 100, minRecentTurns: 2}

	var turns []models.ConversationTurn
	for i := 0; i < 6; i++ {
		turns = append(turns, models.ConversationTurn{Seq: uint(i + 1), Content: strings.Repeat("x", 40)})
	}

	kept, truncated := s.fitBudget(turns)
	assert.Equal(t, 4, truncated)
	assert.Len(t, kept, 2)
	assert.Equal(t, uint(5), kept[0].Seq)
	assert.Equal(t, uint(6), kept[1].Seq)
}

func TestFitBudget_RecentTurnsSurviveOverBudget(t *testing.T) {
	s := &contextService{budgetBytes: 10, minRecentTurns: 3}

	var turns []models.ConversationTurn
	for i := 0; i < 4; i++ {
		turns = append(turns, models.ConversationTurn{Seq: uint(i + 1), Content: strings.Repeat("x", 40)})
	}

	kept, truncated := s.fitBudget(turns)
	assert.Len(t, kept, 3)
	assert.Equal(t, 1, truncated)
}
