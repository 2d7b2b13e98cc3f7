package services

import (
	"errors"
	"fmt"
	"strings"

	"devforge/internal/models"
	"devforge/internal/repositories"

	"github.com/cloudwego/eino/schema"
)

// ErrContextUnavailable is returned when a context window is requested for a
// project that does not exist. Fatal to the request, not to the system.
var ErrContextUnavailable = errors.New("project context unavailable")

// ContextWindow is the bounded slice of project history sent to the generator.
type ContextWindow struct {
	Project    *models.Project
	LatestPlan *models.FilePlan
	Messages   []*schema.Message
	// Truncated counts turns evicted to fit the byte budget.
	Truncated int
}

type ContextService interface {
	BuildContext(projectID uint) (*ContextWindow, error)
}

type contextService struct {
	projects repositories.ProjectRepository
	turns    repositories.ConversationRepository
	plans    repositories.PlanRepository

	// budgetBytes bounds the serialized conversation; minRecentTurns are
	// never evicted regardless of budget.
	budgetBytes    int
	minRecentTurns int
}

const (
	defaultContextBudgetBytes = 48 * 1024
	defaultMinRecentTurns     = 6
)

func NewContextService(projects repositories.ProjectRepository, turns repositories.ConversationRepository, plans repositories.PlanRepository) ContextService {
	return &contextService{
		projects:       projects,
		turns:          turns,
		plans:          plans,
		budgetBytes:    defaultContextBudgetBytes,
		minRecentTurns: defaultMinRecentTurns,
	}
}

// BuildContext reads all turns in sequence order plus the latest plan and the
// project metadata, then truncates from the oldest turn until the window fits
// the budget. The project description and the most recent turns survive
// truncation unconditionally. Read-only.
func (s *contextService) BuildContext(projectID uint) (*ContextWindow, error) {
	project, err := s.projects.Get(projectID)
	if err != nil {
		return nil, fmt.Errorf("load project %d: %w", projectID, err)
	}
	if project == nil {
		return nil, fmt.Errorf("project %d: %w", projectID, ErrContextUnavailable)
	}

	turns, err := s.turns.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("load turns for project %d: %w", projectID, err)
	}

	plan, err := s.plans.Latest(projectID)
	if err != nil {
		return nil, fmt.Errorf("load latest plan for project %d: %w", projectID, err)
	}

	window := &ContextWindow{Project: project, LatestPlan: plan}
	window.Messages = append(window.Messages, schema.SystemMessage(s.systemPreamble(project, plan)))

	kept, truncated := s.fitBudget(turns)
	window.Truncated = truncated
	for _, turn := range kept {
		switch turn.Role {
		case models.RoleAssistant:
			window.Messages = append(window.Messages, schema.AssistantMessage(turn.Content, nil))
		case models.RoleSystem:
			window.Messages = append(window.Messages, schema.SystemMessage(turn.Content))
		default:
			window.Messages = append(window.Messages, schema.UserMessage(turn.Content))
		}
	}
	return window, nil
}

func (s *contextService) systemPreamble(project *models.Project, plan *models.FilePlan) string {
	var b strings.Builder
	b.WriteString("You are assisting with the software project \"")
	b.WriteString(project.Name)
	b.WriteString("\".\n")
	if project.Description != "" {
		b.WriteString("Project description: ")
		b.WriteString(project.Description)
		b.WriteString("\n")
	}
	if project.Stack != "" {
		b.WriteString("Target stack: ")
		b.WriteString(string(project.Stack))
		b.WriteString("\n")
	}
	if plan != nil && len(plan.Entries) > 0 {
		b.WriteString("Current file plan:\n")
		for _, entry := range plan.Entries {
			b.WriteString("  - ")
			b.WriteString(entry.Path)
			if entry.Purpose != "" {
				b.WriteString(": ")
				b.WriteString(entry.Purpose)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// fitBudget drops turns, oldest first, until the remainder fits budgetBytes.
// The last minRecentTurns turns are always kept.
func (s *contextService) fitBudget(turns []models.ConversationTurn) ([]models.ConversationTurn, int) {
	total := 0
	for _, t := range turns {
		total += len(t.Content)
	}

	start := 0
	for total > s.budgetBytes && start < len(turns)-s.minRecentTurns {
		total -= len(turns[start].Content)
		start++
	}
	return turns[start:], start
}
