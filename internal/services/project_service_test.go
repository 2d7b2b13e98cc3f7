package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devforge/internal/models"
	"devforge/internal/tests/mocks"
)

func TestProjectCreate_ValidatesName(t *testing.T) {
	s := NewProjectService(&mocks.ProjectRepositoryMock{})

	for _, name := range []string{"", "  ", "has space", "-leading", "semi;colon"} {
		_, err := s.Create(name, "", "")
		assert.Error(t, err, name)
	}

	project, err := s.Create("My-Site", "a site", "")
	assert.NoError(t, err)
	assert.Equal(t, "my-site", project.Name)
	assert.Equal(t, models.StatusDraft, project.Status)
}

func TestProjectCreate_RejectsDuplicate(t *testing.T) {
	projects := &mocks.ProjectRepositoryMock{
		GetByNameFunc: func(name string) (*models.Project, error) {
			return &models.Project{ID: 1, Name: name}, nil
		},
	}
	_, err := NewProjectService(projects).Create("taken", "", "")
	assert.Error(t, err)
}

func TestProjectCreate_InfersStackFromRequest(t *testing.T) {
	s := NewProjectService(&mocks.ProjectRepositoryMock{})

	project, err := s.Create("api", "", "a fastapi service that returns weather data")
	assert.NoError(t, err)
	assert.Equal(t, models.StackFastAPI, project.Stack)
}

func TestInferStack(t *testing.T) {
	assert.Equal(t, models.StackFastAPI, InferStack("a FastAPI backend"))
	assert.Equal(t, models.StackReact, InferStack("a react dashboard"))
	assert.Equal(t, models.StackNode, InferStack("an express server"))
	assert.Equal(t, models.StackPython, InferStack("a flask app"))
	assert.Equal(t, models.StackStatic, InferStack("a landing page for my bakery"))
	assert.Equal(t, models.StackStatic, InferStack(""))
}

func TestSetStack_RejectsUnknown(t *testing.T) {
	s := NewProjectService(&mocks.ProjectRepositoryMock{})
	assert.Error(t, s.SetStack(1, "cobol"))
	assert.NoError(t, s.SetStack(1, models.StackNode))
}
