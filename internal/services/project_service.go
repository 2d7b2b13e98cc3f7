package services

import (
	"fmt"
	"regexp"
	"strings"

	"devforge/internal/models"
	"devforge/internal/repositories"
)

var repoNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

type ProjectService interface {
	Create(name, description, request string) (*models.Project, error)
	Get(projectID uint) (*models.Project, error)
	GetByName(name string) (*models.Project, error)
	List() ([]models.Project, error)
	SetDeployURL(projectID uint, url string) error
	SetStack(projectID uint, stack models.TargetStack) error
}

type projectService struct {
	projects repositories.ProjectRepository
}

func NewProjectService(projects repositories.ProjectRepository) ProjectService {
	return &projectService{projects: projects}
}

// Create validates the name, infers a stack from the request text and
// persists the project in draft.
func (s *projectService) Create(name, description, request string) (*models.Project, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if !repoNamePattern.MatchString(name) {
		return nil, fmt.Errorf("project name %q is not a valid repository name", name)
	}

	existing, err := s.projects.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("project %q already exists", name)
	}

	project := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(description),
		Stack:       InferStack(request),
		Status:      models.StatusDraft,
	}
	if err := s.projects.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Get(projectID uint) (*models.Project, error) {
	return s.projects.Get(projectID)
}

func (s *projectService) GetByName(name string) (*models.Project, error) {
	return s.projects.GetByName(strings.ToLower(strings.TrimSpace(name)))
}

func (s *projectService) List() ([]models.Project, error) {
	return s.projects.List()
}

func (s *projectService) SetDeployURL(projectID uint, url string) error {
	return s.projects.SetDeployURL(projectID, strings.TrimSpace(url))
}

func (s *projectService) SetStack(projectID uint, stack models.TargetStack) error {
	for _, known := range models.KnownStacks() {
		if stack == known {
			return s.projects.SetStack(projectID, stack)
		}
	}
	return fmt.Errorf("unknown stack %q", stack)
}

// stackHints maps request keywords to stacks, most specific first.
var stackHints = []struct {
	keyword string
	stack   models.TargetStack
}{
	{"fastapi", models.StackFastAPI},
	{"react", models.StackReact},
	{"next.js", models.StackReact},
	{"express", models.StackNode},
	{"node", models.StackNode},
	{"flask", models.StackPython},
	{"django", models.StackPython},
	{"python", models.StackPython},
	{"api", models.StackFastAPI},
}

// InferStack guesses the target stack from request wording. Anything that
// names no backend technology is treated as a static site.
func InferStack(request string) models.TargetStack {
	lower := strings.ToLower(request)
	for _, hint := range stackHints {
		if strings.Contains(lower, hint.keyword) {
			return hint.stack
		}
	}
	return models.StackStatic
}
