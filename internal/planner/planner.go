package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"devforge/internal/llm/client"
	"devforge/internal/models"
	"devforge/internal/services"

	"github.com/cloudwego/eino/schema"
)

// PlanInvalidError reports that the generator could not produce a valid file
// plan even after a corrective retry. Callers fall back to unplanned
// generation rather than aborting.
type PlanInvalidError struct {
	Reason string
}

func (e *PlanInvalidError) Error() string {
	return fmt.Sprintf("plan invalid: %s", e.Reason)
}

// MaxPlanFiles bounds the number of files a plan may propose. A plan above
// the bound is a runaway-generation signal, not a big project.
const MaxPlanFiles = 24

type Planner struct {
	generator client.Generator
}

func New(generator client.Generator) *Planner {
	return &Planner{generator: generator}
}

// planEntry is the structured output schema requested from the generator.
type planEntry struct {
	Path    string `json:"path"`
	Purpose string `json:"purpose"`
}

const planInstruction = `Propose the file layout for the request above.
Respond with ONLY a JSON array, no prose and no code fences, where each
element is {"path": "<relative file path>", "purpose": "<one line>"}.
Order files so that anything another file depends on comes first.`

// Plan asks the generator for a structured file plan. It returns (nil, nil)
// for requests classified as trivial, which skip planning entirely, and a
// *PlanInvalidError when validation fails twice.
func (p *Planner) Plan(ctx context.Context, request string, window *services.ContextWindow) (*models.FilePlan, error) {
	if IsTrivialRequest(request) {
		return nil, nil
	}

	messages := append([]*schema.Message{}, window.Messages...)
	messages = append(messages,
		schema.UserMessage(request),
		schema.UserMessage(planInstruction),
	)

	entries, parseErr := p.requestEntries(ctx, messages)
	if parseErr == nil {
		if err := ValidateEntries(entries); err == nil {
			return buildPlan(window.Project.ID, entries), nil
		} else {
			parseErr = err
		}
	}

	// One corrective retry describing exactly what was wrong.
	log.Printf("plan rejected for project %d, retrying: %v", window.Project.ID, parseErr)
	messages = append(messages, schema.UserMessage(fmt.Sprintf(
		"Your previous plan was rejected: %v. Respond again with ONLY the corrected JSON array.", parseErr)))

	entries, err := p.requestEntries(ctx, messages)
	if err != nil {
		return nil, &PlanInvalidError{Reason: err.Error()}
	}
	if err := ValidateEntries(entries); err != nil {
		return nil, &PlanInvalidError{Reason: err.Error()}
	}
	return buildPlan(window.Project.ID, entries), nil
}

func (p *Planner) requestEntries(ctx context.Context, messages []*schema.Message) ([]planEntry, error) {
	msg, err := p.generator.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parsePlanJSON(msg.Content)
}

func buildPlan(projectID uint, entries []planEntry) *models.FilePlan {
	plan := &models.FilePlan{ProjectID: projectID}
	for i, entry := range entries {
		plan.Entries = append(plan.Entries, models.FilePlanEntry{
			Position: i,
			Path:     normalizePath(entry.Path),
			Purpose:  strings.TrimSpace(entry.Purpose),
			Status:   models.EntryPending,
		})
	}
	return plan
}

// parsePlanJSON tolerates the JSON array being wrapped in code fences or
// surrounded by prose, which models produce even when told not to.
func parsePlanJSON(content string) ([]planEntry, error) {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("response contains no JSON array")
	}
	var entries []planEntry
	if err := json.Unmarshal([]byte(content[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("parse plan JSON: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("plan is empty")
	}
	return entries, nil
}

// ValidateEntries enforces the plan invariants: relative, non-empty, unique
// paths that stay inside the repository root, and a bounded entry count.
func ValidateEntries(entries []planEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("plan is empty")
	}
	if len(entries) > MaxPlanFiles {
		return fmt.Errorf("plan proposes %d files, limit is %d", len(entries), MaxPlanFiles)
	}
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		path := normalizePath(entry.Path)
		if path == "" {
			return fmt.Errorf("plan entry has an empty path")
		}
		if strings.HasPrefix(path, "/") {
			return fmt.Errorf("path %q is absolute, paths must be relative", entry.Path)
		}
		if escapesRoot(path) {
			return fmt.Errorf("path %q escapes the repository root", entry.Path)
		}
		if seen[path] {
			return fmt.Errorf("duplicate path %q", path)
		}
		seen[path] = true
	}
	return nil
}

func normalizePath(p string) string {
	return strings.TrimPrefix(strings.TrimSpace(strings.ReplaceAll(p, "\\", "/")), "./")
}

func escapesRoot(path string) bool {
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return true
			}
		default:
			depth++
		}
	}
	return false
}

var pathLikeRe = regexp.MustCompile(`[\w./-]+\.\w{1,8}`)

var editVerbs = []string{"fix", "change", "update", "rename", "adjust", "tweak", "edit", "correct"}

// singleFileHints mark requests whose natural result is one file.
var singleFileHints = []string{"landing page", "single page", "single file", "one file", "simple", "snippet", "script"}

// IsTrivialRequest classifies requests that should skip planning: short
// single-file edits or single-artifact asks. Everything else gets a plan.
func IsTrivialRequest(request string) bool {
	request = strings.TrimSpace(request)
	if request == "" {
		return true
	}
	lower := strings.ToLower(request)
	mentioned := pathLikeRe.FindAllString(lower, -1)
	if len(mentioned) == 1 {
		return true
	}
	if len(mentioned) > 1 {
		return false
	}
	if len(request) < 80 {
		for _, verb := range editVerbs {
			if strings.Contains(lower, verb) {
				return true
			}
		}
		for _, hint := range singleFileHints {
			if strings.Contains(lower, hint) {
				return true
			}
		}
	}
	return false
}
