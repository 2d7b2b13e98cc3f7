package services

import (
	"fmt"
	"strings"

	"devforge/internal/models"
	"devforge/internal/repositories"
)

// ConversationService records exchanges into a project's append-only turn log.
// It is the write half of the conversation; ContextService is the read half.
type ConversationService interface {
	RecordTurn(projectID uint, role, content string) (*models.ConversationTurn, error)
	RecordExchange(projectID uint, userContent, assistantContent string) error
	History(projectID uint) ([]models.ConversationTurn, error)
}

type conversationService struct {
	projects repositories.ProjectRepository
	turns    repositories.ConversationRepository
}

func NewConversationService(projects repositories.ProjectRepository, turns repositories.ConversationRepository) ConversationService {
	return &conversationService{projects: projects, turns: turns}
}

func (s *conversationService) RecordTurn(projectID uint, role, content string) (*models.ConversationTurn, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	project, err := s.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %d: %w", projectID, ErrContextUnavailable)
	}
	return s.turns.Append(projectID, role, content)
}

// RecordExchange appends a user turn followed by the assistant turn. The two
// turns get consecutive sequence numbers.
func (s *conversationService) RecordExchange(projectID uint, userContent, assistantContent string) error {
	if _, err := s.RecordTurn(projectID, models.RoleUser, userContent); err != nil {
		return err
	}
	if _, err := s.RecordTurn(projectID, models.RoleAssistant, assistantContent); err != nil {
		return err
	}
	return nil
}

func (s *conversationService) History(projectID uint) ([]models.ConversationTurn, error) {
	return s.turns.ListByProject(projectID)
}
