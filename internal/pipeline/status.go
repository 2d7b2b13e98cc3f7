package pipeline

import (
	"fmt"

	"devforge/internal/models"
)

// StatusReport is a read-only snapshot of where a project stands.
type StatusReport struct {
	Project     *models.Project
	LatestPlan  *models.FilePlan
	LatestCheck *models.DeploymentCheck
	Busy        bool
}

// Status reports a project's persisted state without touching the pipeline.
func (c *Controller) Status(projectID uint) (*StatusReport, error) {
	project, err := c.projects.Get(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("project %d not found", projectID)
	}

	plan, err := c.plans.Latest(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	var check *models.DeploymentCheck
	if c.checks != nil {
		check, err = c.checks.Latest(projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to load deployment checks: %w", err)
		}
	}

	c.mu.Lock()
	busy := c.inUse[projectID]
	c.mu.Unlock()

	return &StatusReport{Project: project, LatestPlan: plan, LatestCheck: check, Busy: busy}, nil
}
