package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"

	"devforge/internal/models"
	"devforge/internal/planner"
	"devforge/internal/publisher"
	"devforge/internal/services"
	"devforge/internal/synth"
	"devforge/internal/tests/mocks"
	"devforge/internal/validator"
)

type plannerFake struct {
	PlanFunc func(ctx context.Context, request string, window *services.ContextWindow) (*models.FilePlan, error)
}

func (f *plannerFake) Plan(ctx context.Context, request string, window *services.ContextWindow) (*models.FilePlan, error) {
	if f.PlanFunc != nil {
		return f.PlanFunc(ctx, request, window)
	}
	return nil, nil
}

type synthFake struct {
	GenerateFunc func(ctx context.Context, plan *models.FilePlan, request string, window *services.ContextWindow) ([]models.GeneratedFile, []synth.FileFailure, error)
}

func (f *synthFake) Generate(ctx context.Context, plan *models.FilePlan, request string, window *services.ContextWindow) ([]models.GeneratedFile, []synth.FileFailure, error) {
	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, plan, request, window)
	}
	return []models.GeneratedFile{{Path: "index.html", Content: "<html></html>"}}, nil, nil
}

type publisherFake struct {
	PublishFunc func(ctx context.Context, repoName, description string, files []publisher.FileContent) (*publisher.PublishResult, error)
}

func (f *publisherFake) Publish(ctx context.Context, repoName, description string, files []publisher.FileContent) (*publisher.PublishResult, error) {
	if f.PublishFunc != nil {
		return f.PublishFunc(ctx, repoName, description, files)
	}
	pushed := make([]string, len(files))
	for i, file := range files {
		pushed[i] = file.Path
	}
	return &publisher.PublishResult{
		Repo:   &publisher.RemoteRepo{Owner: "tester", Name: repoName, URL: "https://example.com/tester/" + repoName},
		Pushed: pushed,
	}, nil
}

type validatorFake struct {
	ValidateFunc func(ctx context.Context, projectID uint, targetURL string) (*validator.Result, error)
}

func (f *validatorFake) Validate(ctx context.Context, projectID uint, targetURL string) (*validator.Result, error) {
	if f.ValidateFunc != nil {
		return f.ValidateFunc(ctx, projectID, targetURL)
	}
	return &validator.Result{Verdict: models.VerdictPass, Attempts: 1}, nil
}

type conversationFake struct {
	turns []models.ConversationTurn
}

func (f *conversationFake) RecordTurn(projectID uint, role, content string) (*models.ConversationTurn, error) {
	turn := models.ConversationTurn{ProjectID: projectID, Role: role, Content: content, Seq: uint(len(f.turns) + 1)}
	f.turns = append(f.turns, turn)
	return &turn, nil
}

func (f *conversationFake) RecordExchange(projectID uint, userContent, assistantContent string) error {
	f.RecordTurn(projectID, models.RoleUser, userContent)
	f.RecordTurn(projectID, models.RoleAssistant, assistantContent)
	return nil
}

func (f *conversationFake) History(projectID uint) ([]models.ConversationTurn, error) {
	return f.turns, nil
}

type contextFake struct{}

func (f *contextFake) BuildContext(projectID uint) (*services.ContextWindow, error) {
	return &services.ContextWindow{
		Project:  &models.Project{ID: projectID, Name: "demo", Stack: models.StackStatic},
		Messages: []*schema.Message{schema.SystemMessage("system")},
	}, nil
}

type fixture struct {
	project    *models.Project
	projects   *mocks.ProjectRepositoryMock
	plans      *mocks.PlanRepositoryMock
	files      *mocks.FileRepositoryMock
	statuses   []models.ProjectStatus
	failReason string
	deps       Deps
}

func newFixture() *fixture {
	f := &fixture{
		project: &models.Project{ID: 1, Name: "demo", Stack: models.StackStatic, Status: models.StatusDraft},
	}
	f.projects = &mocks.ProjectRepositoryMock{
		GetFunc: func(projectID uint) (*models.Project, error) { return f.project, nil },
		UpdateStatusFunc: func(projectID uint, status models.ProjectStatus) error {
			f.statuses = append(f.statuses, status)
			f.project.Status = status
			return nil
		},
		MarkFailedFunc: func(projectID uint, reason, detail string) error {
			f.failReason = reason
			f.project.Status = models.StatusFailed
			return nil
		},
	}
	f.plans = &mocks.PlanRepositoryMock{}
	f.files = &mocks.FileRepositoryMock{}
	f.deps = Deps{
		Projects:     f.projects,
		Plans:        f.plans,
		Files:        f.files,
		Checks:       &mocks.DeploymentCheckRepositoryMock{},
		Conversation: &conversationFake{},
		Contexts:     &contextFake{},
		Planner:      &plannerFake{},
		Synth:        &synthFake{},
		Publisher:    &publisherFake{},
		Validator:    &validatorFake{},
	}
	return f
}

func TestRun_TrivialRequestEndToEnd(t *testing.T) {
	f := newFixture()
	c := NewController(f.deps)

	result, err := c.Run(context.Background(), 1, "a simple landing page")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusValidated, result.Status)
	assert.Equal(t, 0, result.Planned)
	assert.Equal(t, 1, result.Generated)
	// With no deploy URL the project never enters deploying.
	assert.Equal(t, []models.ProjectStatus{
		models.StatusPlanning,
		models.StatusGenerating,
		models.StatusPublishing,
		models.StatusValidated,
	}, f.statuses)
	assert.Contains(t, result.Detail, "no deploy URL")
}

func TestRun_InvalidPlanDegradesToUnplannedGeneration(t *testing.T) {
	f := newFixture()
	f.deps.Planner = &plannerFake{
		PlanFunc: func(ctx context.Context, request string, window *services.ContextWindow) (*models.FilePlan, error) {
			return nil, &planner.PlanInvalidError{Reason: "plan proposes 40 files, limit is 24"}
		},
	}
	var seenPlan *models.FilePlan
	synthCalled := false
	f.deps.Synth = &synthFake{
		GenerateFunc: func(ctx context.Context, plan *models.FilePlan, request string, window *services.ContextWindow) ([]models.GeneratedFile, []synth.FileFailure, error) {
			synthCalled = true
			seenPlan = plan
			return []models.GeneratedFile{{Path: "index.html", Content: "<html></html>"}}, nil, nil
		},
	}
	c := NewController(f.deps)

	result, err := c.Run(context.Background(), 1, "a portfolio site with a blog section and an rss feed")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusValidated, result.Status)
	assert.True(t, synthCalled)
	assert.Nil(t, seenPlan)
	assert.Equal(t, 0, result.Planned)
	assert.Equal(t, 1, result.Generated)
	assert.Empty(t, f.failReason)
}

func TestRun_DeployURLEntersDeploying(t *testing.T) {
	f := newFixture()
	f.project.DeployURL = "https://demo.example.com"
	c := NewController(f.deps)

	result, err := c.Run(context.Background(), 1, "a landing page")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusValidated, result.Status)
	assert.Contains(t, f.statuses, models.StatusDeploying)
}

func TestRun_PlannedRequestPersistsPlan(t *testing.T) {
	f := newFixture()
	var created *models.FilePlan
	f.plans.CreateFunc = func(plan *models.FilePlan) error {
		plan.ID = 11
		created = plan
		return nil
	}
	f.deps.Planner = &plannerFake{
		PlanFunc: func(ctx context.Context, request string, window *services.ContextWindow) (*models.FilePlan, error) {
			return &models.FilePlan{ProjectID: 1, Entries: []models.FilePlanEntry{
				{Path: "index.html"}, {Path: "style.css"},
			}}, nil
		},
	}
	f.deps.Synth = &synthFake{
		GenerateFunc: func(ctx context.Context, plan *models.FilePlan, request string, window *services.ContextWindow) ([]models.GeneratedFile, []synth.FileFailure, error) {
			assert.Equal(t, uint(11), plan.ID)
			return []models.GeneratedFile{
				{PlanID: plan.ID, Path: "index.html", Content: "a"},
				{PlanID: plan.ID, Path: "style.css", Content: "b"},
			}, nil, nil
		},
	}
	c := NewController(f.deps)

	result, err := c.Run(context.Background(), 1, "a portfolio site with a blog section and an rss feed")
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, 2, result.Planned)
	assert.Equal(t, 2, result.Generated)
	assert.Equal(t, uint(11), result.PlanID)
}

func TestRun_ProjectBusy(t *testing.T) {
	f := newFixture()
	c := NewController(f.deps)

	started := make(chan struct{})
	release := make(chan struct{})
	var startOnce, waitOnce sync.Once
	f.deps.Synth = &synthFake{
		GenerateFunc: func(ctx context.Context, plan *models.FilePlan, request string, window *services.ContextWindow) ([]models.GeneratedFile, []synth.FileFailure, error) {
			startOnce.Do(func() { close(started) })
			waitOnce.Do(func() { <-release })
			return []models.GeneratedFile{{Path: "index.html", Content: "x"}}, nil, nil
		},
	}
	c = NewController(f.deps)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Run(context.Background(), 1, "a landing page")
	}()
	<-started

	_, err := c.Run(context.Background(), 1, "another request")
	assert.ErrorIs(t, err, ErrProjectBusy)

	close(release)
	wg.Wait()

	// After the first run finishes the lock is released.
	f.project.Status = models.StatusDraft
	_, err = c.Run(context.Background(), 1, "a landing page")
	assert.NoError(t, err)
}

func TestRun_GenerationExhausted(t *testing.T) {
	f := newFixture()
	f.deps.Synth = &synthFake{
		GenerateFunc: func(ctx context.Context, plan *models.FilePlan, request string, window *services.ContextWindow) ([]models.GeneratedFile, []synth.FileFailure, error) {
			return nil, []synth.FileFailure{{Path: "index.html", Reason: synth.ReasonIncomplete}}, nil
		},
	}
	c := NewController(f.deps)

	result, err := c.Run(context.Background(), 1, "a landing page")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), ReasonGenerationExhausted)
	assert.Equal(t, ReasonGenerationExhausted, f.failReason)
	assert.Equal(t, models.StatusFailed, result.Status)
}

func TestRun_PublishFatalFailsProject(t *testing.T) {
	f := newFixture()
	f.deps.Publisher = &publisherFake{
		PublishFunc: func(ctx context.Context, repoName, description string, files []publisher.FileContent) (*publisher.PublishResult, error) {
			return nil, &publisher.FatalError{Op: "create repo", Err: errors.New("401"), Hint: "check GITHUB_TOKEN"}
		},
	}
	c := NewController(f.deps)

	_, err := c.Run(context.Background(), 1, "a landing page")
	assert.Error(t, err)
	assert.Equal(t, ReasonPublishFatal, f.failReason)
}

func TestRun_PublishTransientLeavesStatusForResume(t *testing.T) {
	f := newFixture()
	f.deps.Publisher = &publisherFake{
		PublishFunc: func(ctx context.Context, repoName, description string, files []publisher.FileContent) (*publisher.PublishResult, error) {
			return &publisher.PublishResult{}, &publisher.TransientError{Op: "put index.html", Err: errors.New("503")}
		},
	}
	c := NewController(f.deps)

	_, err := c.Run(context.Background(), 1, "a landing page")
	assert.Error(t, err)
	assert.Empty(t, f.failReason)
	assert.Equal(t, models.StatusPublishing, f.project.Status)
}

func TestRun_ResumeFromPublishing(t *testing.T) {
	f := newFixture()
	f.project.Status = models.StatusPublishing
	conversation := &conversationFake{turns: []models.ConversationTurn{
		{ProjectID: 1, Role: models.RoleUser, Content: "a landing page", Seq: 1},
	}}
	f.deps.Conversation = conversation
	f.files.ListByProjectFunc = func(projectID uint) ([]models.GeneratedFile, error) {
		return []models.GeneratedFile{{ProjectID: 1, Path: "index.html", Content: "<html></html>"}}, nil
	}
	f.deps.Planner = &plannerFake{
		PlanFunc: func(ctx context.Context, request string, window *services.ContextWindow) (*models.FilePlan, error) {
			t.Fatal("planner must not run on resume")
			return nil, nil
		},
	}
	f.deps.Synth = &synthFake{
		GenerateFunc: func(ctx context.Context, plan *models.FilePlan, request string, window *services.ContextWindow) ([]models.GeneratedFile, []synth.FileFailure, error) {
			t.Fatal("generator must not run on resume from publishing")
			return nil, nil, nil
		},
	}
	c := NewController(f.deps)

	result, err := c.Run(context.Background(), 1, "")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusValidated, result.Status)
	assert.NotNil(t, result.Publish)
}

func TestRun_ValidationFailMarksFailed(t *testing.T) {
	f := newFixture()
	f.project.DeployURL = "https://demo.example.com"
	f.deps.Validator = &validatorFake{
		ValidateFunc: func(ctx context.Context, projectID uint, targetURL string) (*validator.Result, error) {
			assert.Equal(t, "https://demo.example.com", targetURL)
			return &validator.Result{Verdict: models.VerdictFail, Attempts: 2, Detail: "server error 500"}, nil
		},
	}
	c := NewController(f.deps)

	_, err := c.Run(context.Background(), 1, "a landing page")
	assert.Error(t, err)
	assert.Equal(t, ReasonValidationFailed, f.failReason)
}

func TestRun_ValidationUnknownStillCompletes(t *testing.T) {
	f := newFixture()
	f.project.DeployURL = "https://demo.example.com"
	f.deps.Validator = &validatorFake{
		ValidateFunc: func(ctx context.Context, projectID uint, targetURL string) (*validator.Result, error) {
			return &validator.Result{Verdict: models.VerdictUnknown, Attempts: 8, Detail: "no response"}, nil
		},
	}
	c := NewController(f.deps)

	result, err := c.Run(context.Background(), 1, "a landing page")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusValidated, result.Status)
	assert.Contains(t, result.Detail, "inconclusive")
}

func TestRun_TerminalStatusNeedsNewRequest(t *testing.T) {
	f := newFixture()
	f.project.Status = models.StatusValidated
	c := NewController(f.deps)

	_, err := c.Run(context.Background(), 1, "")
	assert.Error(t, err)

	f.project.Status = models.StatusFailed
	_, err = c.Run(context.Background(), 1, "")
	assert.Error(t, err)
}

func TestStatusReport(t *testing.T) {
	f := newFixture()
	f.project.Status = models.StatusDeploying
	f.plans.LatestFunc = func(projectID uint) (*models.FilePlan, error) {
		return &models.FilePlan{ID: 4, ProjectID: 1}, nil
	}
	checks := &mocks.DeploymentCheckRepositoryMock{
		LatestFunc: func(projectID uint) (*models.DeploymentCheck, error) {
			return &models.DeploymentCheck{ProjectID: 1, Attempt: 2, Verdict: models.VerdictUnknown}, nil
		},
	}
	f.deps.Checks = checks
	c := NewController(f.deps)

	report, err := c.Status(1)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusDeploying, report.Project.Status)
	assert.Equal(t, uint(4), report.LatestPlan.ID)
	assert.Equal(t, 2, report.LatestCheck.Attempt)
	assert.False(t, report.Busy)
}
