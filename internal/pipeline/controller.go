package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"devforge/internal/models"
	"devforge/internal/planner"
	"devforge/internal/publisher"
	"devforge/internal/repositories"
	"devforge/internal/services"
	"devforge/internal/synth"
	"devforge/internal/validator"
)

// ErrProjectBusy means a run is already in flight for the project. Callers
// should surface it rather than queue behind the running pipeline.
var ErrProjectBusy = errors.New("a run is already in progress for this project")

// Failure reasons persisted on the project when a run dies.
const (
	ReasonGenerationExhausted = "GenerationExhausted"
	ReasonPublishFatal        = "PublishFatal"
	ReasonValidationFailed    = "ValidationFailed"
)

// FilePlanner produces a file plan from a request, or nil for requests small
// enough to skip planning.
type FilePlanner interface {
	Plan(ctx context.Context, request string, window *services.ContextWindow) (*models.FilePlan, error)
}

// Synthesizer turns a plan into file contents.
type Synthesizer interface {
	Generate(ctx context.Context, plan *models.FilePlan, request string, window *services.ContextWindow) ([]models.GeneratedFile, []synth.FileFailure, error)
}

// RepoPublisher pushes files to the repository host.
type RepoPublisher interface {
	Publish(ctx context.Context, repoName, description string, files []publisher.FileContent) (*publisher.PublishResult, error)
}

// DeployValidator polls a deployed URL for a verdict.
type DeployValidator interface {
	Validate(ctx context.Context, projectID uint, targetURL string) (*validator.Result, error)
}

// RunResult summarizes one pipeline run end to end.
type RunResult struct {
	ProjectID   uint
	Status      models.ProjectStatus
	PlanID      uint
	Planned     int
	Generated   int
	GenFailures []synth.FileFailure
	Publish     *publisher.PublishResult
	Validation  *validator.Result
	Detail      string
}

// Controller drives a project through planning, generation, publishing and
// validation, persisting status at every transition so a crashed run can be
// resumed from the last completed stage.
type Controller struct {
	projects     repositories.ProjectRepository
	plans        repositories.PlanRepository
	files        repositories.FileRepository
	checks       repositories.DeploymentCheckRepository
	conversation services.ConversationService
	contexts     services.ContextService
	planner      FilePlanner
	synth        Synthesizer
	publisher    RepoPublisher
	validator    DeployValidator
	mirror       *publisher.Mirror

	mu    sync.Mutex
	inUse map[uint]bool
}

type Deps struct {
	Projects     repositories.ProjectRepository
	Plans        repositories.PlanRepository
	Files        repositories.FileRepository
	Checks       repositories.DeploymentCheckRepository
	Conversation services.ConversationService
	Contexts     services.ContextService
	Planner      FilePlanner
	Synth        Synthesizer
	Publisher    RepoPublisher
	Validator    DeployValidator
	Mirror       *publisher.Mirror
}

func NewController(deps Deps) *Controller {
	return &Controller{
		projects:     deps.Projects,
		plans:        deps.Plans,
		files:        deps.Files,
		checks:       deps.Checks,
		conversation: deps.Conversation,
		contexts:     deps.Contexts,
		planner:      deps.Planner,
		synth:        deps.Synth,
		publisher:    deps.Publisher,
		validator:    deps.Validator,
		mirror:       deps.Mirror,
		inUse:        make(map[uint]bool),
	}
}

// acquire marks the project busy, or fails with ErrProjectBusy.
func (c *Controller) acquire(projectID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inUse[projectID] {
		return ErrProjectBusy
	}
	c.inUse[projectID] = true
	return nil
}

func (c *Controller) release(projectID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inUse, projectID)
}

// Run executes the pipeline for one request against a project. With an empty
// request it resumes the project from wherever its persisted status says the
// previous run stopped.
func (c *Controller) Run(ctx context.Context, projectID uint, request string) (*RunResult, error) {
	if err := c.acquire(projectID); err != nil {
		return nil, err
	}
	defer c.release(projectID)

	project, err := c.projects.Get(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("project %d not found", projectID)
	}

	result := &RunResult{ProjectID: projectID}

	start, err := c.startStage(project, request)
	if err != nil {
		return nil, err
	}
	log.Printf("Run: project %d (%s) starting at %s", projectID, project.Name, start)

	if request != "" {
		if _, err := c.conversation.RecordTurn(projectID, models.RoleUser, request); err != nil {
			return nil, fmt.Errorf("failed to record request: %w", err)
		}
	} else {
		request, err = c.lastUserRequest(projectID)
		if err != nil {
			return nil, err
		}
	}

	var plan *models.FilePlan
	var generated []models.GeneratedFile

	switch start {
	case models.StatusPlanning:
		plan, err = c.runPlanning(ctx, project, request, result)
		if err != nil {
			return result, err
		}
		fallthrough
	case models.StatusGenerating:
		if plan == nil && start == models.StatusGenerating {
			plan, err = c.plans.Latest(projectID)
			if err != nil {
				return result, fmt.Errorf("failed to load plan for resume: %w", err)
			}
		}
		generated, err = c.runGeneration(ctx, project, plan, request, result)
		if err != nil {
			return result, err
		}
		fallthrough
	case models.StatusPublishing:
		if generated == nil {
			generated, plan, err = c.loadGeneratedForResume(projectID)
			if err != nil {
				return result, err
			}
		}
		if err = c.runPublishing(ctx, project, plan, generated, result); err != nil {
			return result, err
		}
		fallthrough
	case models.StatusDeploying:
		if err = c.runValidation(ctx, project, result); err != nil {
			return result, err
		}
	}

	result.Status = models.StatusValidated

	summary := fmt.Sprintf("Generated %d file(s)", result.Generated)
	if result.Publish != nil && result.Publish.Repo != nil {
		summary += " and published to " + result.Publish.Repo.URL
	}
	if _, err := c.conversation.RecordTurn(projectID, models.RoleAssistant, summary); err != nil {
		log.Printf("Run: could not record outcome turn: %v", err)
	}
	return result, nil
}

// startStage decides where this run begins. A fresh request always replans;
// a resume with no new request picks up at the persisted status.
func (c *Controller) startStage(project *models.Project, request string) (models.ProjectStatus, error) {
	if request != "" {
		return models.StatusPlanning, nil
	}
	switch project.Status {
	case models.StatusPlanning, models.StatusDraft:
		return models.StatusPlanning, nil
	case models.StatusGenerating:
		return models.StatusGenerating, nil
	case models.StatusPublishing:
		return models.StatusPublishing, nil
	case models.StatusDeploying:
		return models.StatusDeploying, nil
	case models.StatusValidated:
		return "", fmt.Errorf("project %d is already validated; give it a new request", project.ID)
	case models.StatusFailed:
		return "", fmt.Errorf("project %d failed (%s); give it a new request to retry", project.ID, project.FailReason)
	default:
		return "", fmt.Errorf("project %d has unknown status %q", project.ID, project.Status)
	}
}

func (c *Controller) lastUserRequest(projectID uint) (string, error) {
	turns, err := c.conversation.History(projectID)
	if err != nil {
		return "", fmt.Errorf("failed to load conversation: %w", err)
	}
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == models.RoleUser {
			return turns[i].Content, nil
		}
	}
	return "", fmt.Errorf("project %d has no request to resume", projectID)
}

func (c *Controller) runPlanning(ctx context.Context, project *models.Project, request string, result *RunResult) (*models.FilePlan, error) {
	if err := c.projects.UpdateStatus(project.ID, models.StatusPlanning); err != nil {
		return nil, fmt.Errorf("failed to persist status: %w", err)
	}

	window, err := c.contexts.BuildContext(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to build context: %w", err)
	}

	plan, err := c.planner.Plan(ctx, request, window)
	if err != nil {
		var invalid *planner.PlanInvalidError
		if errors.As(err, &invalid) {
			// A plan that never validates is not fatal; generation proceeds
			// against the implicit single target instead.
			log.Printf("Run: project %d plan rejected, generating unplanned: %s", project.ID, invalid.Reason)
			return nil, nil
		}
		return nil, fmt.Errorf("planning failed: %w", err)
	}
	if plan != nil {
		if err := c.plans.Create(plan); err != nil {
			return nil, fmt.Errorf("failed to persist plan: %w", err)
		}
		result.PlanID = plan.ID
		result.Planned = len(plan.Entries)
		log.Printf("Run: project %d planned %d file(s)", project.ID, len(plan.Entries))
	} else {
		log.Printf("Run: project %d request is trivial, skipping plan", project.ID)
	}
	return plan, nil
}

func (c *Controller) runGeneration(ctx context.Context, project *models.Project, plan *models.FilePlan, request string, result *RunResult) ([]models.GeneratedFile, error) {
	if err := c.projects.UpdateStatus(project.ID, models.StatusGenerating); err != nil {
		return nil, fmt.Errorf("failed to persist status: %w", err)
	}

	window, err := c.contexts.BuildContext(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to build context: %w", err)
	}

	generated, failures, err := c.synth.Generate(ctx, plan, request, window)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	result.GenFailures = failures
	result.Generated = len(generated)

	if len(generated) == 0 {
		detail := "no files survived generation"
		if len(failures) > 0 {
			detail = fmt.Sprintf("all %d file(s) failed; first: %s (%s)", len(failures), failures[0].Path, failures[0].Reason)
		}
		return nil, c.fail(project.ID, result, ReasonGenerationExhausted, detail)
	}

	for i := range generated {
		if err := c.files.Save(&generated[i]); err != nil {
			return nil, fmt.Errorf("failed to persist generated file %s: %w", generated[i].Path, err)
		}
		if plan != nil {
			if err := c.plans.UpdateEntryStatus(plan.ID, generated[i].Path, models.EntryGenerated); err != nil {
				log.Printf("Run: could not mark plan entry %s generated: %v", generated[i].Path, err)
			}
		}
	}
	for _, failure := range failures {
		if plan != nil {
			if err := c.plans.UpdateEntryStatus(plan.ID, failure.Path, models.EntryFailed); err != nil {
				log.Printf("Run: could not mark plan entry %s failed: %v", failure.Path, err)
			}
		}
	}
	log.Printf("Run: project %d generated %d file(s), %d failed", project.ID, len(generated), len(failures))
	return generated, nil
}

// loadGeneratedForResume reloads persisted output when a run resumes at the
// publishing stage.
func (c *Controller) loadGeneratedForResume(projectID uint) ([]models.GeneratedFile, *models.FilePlan, error) {
	plan, err := c.plans.Latest(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load plan for resume: %w", err)
	}
	files, err := c.files.ListByProject(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load generated files: %w", err)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("project %d has nothing generated to publish", projectID)
	}
	return files, plan, nil
}

func (c *Controller) runPublishing(ctx context.Context, project *models.Project, plan *models.FilePlan, generated []models.GeneratedFile, result *RunResult) error {
	if err := c.projects.UpdateStatus(project.ID, models.StatusPublishing); err != nil {
		return fmt.Errorf("failed to persist status: %w", err)
	}

	contents := make([]publisher.FileContent, 0, len(generated))
	for _, file := range generated {
		contents = append(contents, publisher.FileContent{Path: file.Path, Content: file.Content})
	}
	contents = append(contents, publisher.DeploymentFiles(project.Name, project.Stack, contents)...)

	repoName := project.RepoName
	if repoName == "" {
		repoName = project.Name
	}
	pub, err := c.publisher.Publish(ctx, repoName, project.Description, contents)
	result.Publish = pub
	if err != nil {
		if publisher.IsTransient(err) {
			// Retries inside the publisher are exhausted; leave the status at
			// publishing so a later run resumes here.
			return fmt.Errorf("publishing stalled, rerun to resume: %w", err)
		}
		var fatal *publisher.FatalError
		if errors.As(err, &fatal) {
			detail := fatal.Error()
			if fatal.Hint != "" {
				detail += "; " + fatal.Hint
			}
			return c.fail(project.ID, result, ReasonPublishFatal, detail)
		}
		return fmt.Errorf("publishing failed: %w", err)
	}

	if err := c.projects.SetRemote(project.ID, pub.Repo.Owner, pub.Repo.Name, pub.Repo.URL); err != nil {
		return fmt.Errorf("failed to persist remote: %w", err)
	}
	if plan != nil {
		for _, path := range append(append([]string{}, pub.Pushed...), pub.Skipped...) {
			if err := c.plans.UpdateEntryStatus(plan.ID, path, models.EntryPublished); err != nil {
				log.Printf("Run: could not mark plan entry %s published: %v", path, err)
			}
		}
	}
	if c.mirror != nil {
		if err := c.mirror.Record(pub.Repo.Name, contents, "Publish "+project.Name); err != nil {
			log.Printf("Run: mirror commit failed: %v", err)
		}
	}
	return nil
}

func (c *Controller) runValidation(ctx context.Context, project *models.Project, result *RunResult) error {
	if project.DeployURL == "" {
		// Nothing is hosted yet; the push itself is the end of the line, and
		// the project never enters deploying.
		log.Printf("Run: project %d has no deploy URL, skipping validation", project.ID)
		result.Detail = "validation skipped: no deploy URL configured"
		return c.projects.UpdateStatus(project.ID, models.StatusValidated)
	}

	if err := c.projects.UpdateStatus(project.ID, models.StatusDeploying); err != nil {
		return fmt.Errorf("failed to persist status: %w", err)
	}

	verdict, err := c.validator.Validate(ctx, project.ID, project.DeployURL)
	if err != nil {
		return fmt.Errorf("validation failed to run: %w", err)
	}
	result.Validation = verdict

	switch verdict.Verdict {
	case models.VerdictPass:
		return c.projects.UpdateStatus(project.ID, models.StatusValidated)
	case models.VerdictFail:
		return c.fail(project.ID, result, ReasonValidationFailed, verdict.Detail)
	default:
		// Unknown keeps the project deployable: publishing succeeded, the
		// deployment just never answered decisively.
		result.Detail = "validation inconclusive: " + verdict.Detail
		return c.projects.UpdateStatus(project.ID, models.StatusValidated)
	}
}

// fail persists the failure and returns an error carrying the same reason.
func (c *Controller) fail(projectID uint, result *RunResult, reason, detail string) error {
	result.Status = models.StatusFailed
	result.Detail = detail
	if err := c.projects.MarkFailed(projectID, reason, detail); err != nil {
		return fmt.Errorf("failed to persist failure %s: %w", reason, err)
	}
	log.Printf("Run: project %d failed: %s (%s)", projectID, reason, detail)
	return fmt.Errorf("%s: %s", reason, detail)
}
