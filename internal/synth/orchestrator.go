package synth

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"devforge/internal/llm/client"
	"devforge/internal/models"
	"devforge/internal/services"

	"github.com/cloudwego/eino/schema"
)

// ReasonIncomplete is the recorded failure code for a file the generator
// could not complete within the retry budget.
const ReasonIncomplete = "GenerationIncomplete"

// FileFailure records one planned file that could not be generated. Partial
// success is a first-class outcome: failures travel alongside results, they
// do not abort the set.
type FileFailure struct {
	Path   string
	Reason string
	Detail string
}

// Orchestrator drives the generator to produce complete file contents for
// each planned file. Files are independent by contract, so they are generated
// concurrently up to Workers and reassembled into plan order afterwards.
type Orchestrator struct {
	generator client.Generator
	workers   int
}

const defaultWorkers = 3

func New(generator client.Generator, workers int) *Orchestrator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Orchestrator{generator: generator, workers: workers}
}

// Generate produces content for every entry of plan, or for the single
// implicit target when plan is nil. The returned files are in plan order
// regardless of completion order. An error is returned only for whole-run
// problems; per-file trouble is reported in the failures slice.
func (o *Orchestrator) Generate(ctx context.Context, plan *models.FilePlan, request string, window *services.ContextWindow) ([]models.GeneratedFile, []FileFailure, error) {
	if window == nil || window.Project == nil {
		return nil, nil, fmt.Errorf("context window is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	project := window.Project

	if plan == nil || len(plan.Entries) == 0 {
		path := ImplicitTarget(request, project.Stack)
		file, failure := o.generateOne(ctx, project, 0, path, "", request, window)
		if failure != nil {
			return nil, []FileFailure{*failure}, nil
		}
		return []models.GeneratedFile{*file}, nil, nil
	}

	type slot struct {
		file    *models.GeneratedFile
		failure *FileFailure
	}
	slots := make([]slot, len(plan.Entries))

	indexes := make(chan int)
	var wg sync.WaitGroup
	workers := o.workers
	if workers > len(plan.Entries) {
		workers = len(plan.Entries)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				entry := plan.Entries[i]
				file, failure := o.generateOne(ctx, project, plan.ID, entry.Path, entry.Purpose, request, window)
				slots[i] = slot{file: file, failure: failure}
			}
		}()
	}

	cancelled := false
	for i := range plan.Entries {
		select {
		case <-ctx.Done():
			// Stop feeding work; in-flight calls finish on their own.
			cancelled = true
		case indexes <- i:
		}
		if cancelled {
			break
		}
	}
	close(indexes)
	wg.Wait()
	if cancelled {
		return nil, nil, ctx.Err()
	}

	var files []models.GeneratedFile
	var failures []FileFailure
	for _, s := range slots {
		if s.file != nil {
			files = append(files, *s.file)
		}
		if s.failure != nil {
			failures = append(failures, *s.failure)
		}
	}
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })
	return files, failures, nil
}

const noPlaceholderCorrection = `Your previous output was rejected: %s.
Regenerate the COMPLETE file. Do not use placeholders, TODO markers, or
comments that stand in for omitted code. Every function must be fully
implemented.`

// generateOne requests one complete file, retrying once with an explicit
// no-placeholders correction when the completeness check rejects the output.
func (o *Orchestrator) generateOne(ctx context.Context, project *models.Project, planID uint, path, purpose, request string, window *services.ContextWindow) (*models.GeneratedFile, *FileFailure) {
	messages := append([]*schema.Message{}, window.Messages...)
	messages = append(messages,
		schema.UserMessage(request),
		schema.UserMessage(fileInstruction(path, purpose)),
	)

	var lastReason string
	for attempt := 0; attempt < 2; attempt++ {
		msg, err := o.generator.Generate(ctx, messages)
		if err != nil {
			lastReason = err.Error()
			log.Printf("generate %s (attempt %d): %v", path, attempt+1, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		content := StripFence(msg.Content)
		if reason := CheckComplete(content); reason != "" {
			lastReason = reason
			log.Printf("generate %s (attempt %d) rejected: %s", path, attempt+1, reason)
			messages = append(messages,
				schema.AssistantMessage(msg.Content, nil),
				schema.UserMessage(fmt.Sprintf(noPlaceholderCorrection, reason)),
			)
			continue
		}
		return &models.GeneratedFile{
			ProjectID:   project.ID,
			PlanID:      planID,
			Path:        path,
			Content:     content,
			ContentHash: models.HashContent(content),
		}, nil
	}
	return nil, &FileFailure{Path: path, Reason: ReasonIncomplete, Detail: lastReason}
}

func fileInstruction(path, purpose string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the complete contents of the file %q.", path)
	if purpose != "" {
		fmt.Fprintf(&b, " Its purpose: %s.", purpose)
	}
	b.WriteString(" Respond with ONLY the raw file content. No explanations, no placeholders, no omissions.")
	return b.String()
}

// ImplicitTarget picks the single output path for unplanned generation based
// on the target stack.
func ImplicitTarget(request string, stack models.TargetStack) string {
	switch stack {
	case models.StackPython, models.StackFastAPI:
		return "main.py"
	case models.StackNode:
		return "index.js"
	case models.StackReact:
		return "src/App.jsx"
	default:
		return "index.html"
	}
}
