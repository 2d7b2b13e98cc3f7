package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"devforge/internal/models"
	"devforge/internal/pipeline"
)

var runProvider string

var runCmd = &cobra.Command{
	Use:   "run <name> <request...>",
	Short: "Run the pipeline for a request",
	Long: `Run plans the request, generates every planned file, publishes the
result to the repository host and, if a deploy URL is set, polls the
deployment until it answers.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		executeRun(args[0], strings.Join(args[1:], " "))
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <name>",
	Short: "Resume an interrupted run from the last completed stage",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		executeRun(args[0], "")
	},
}

func executeRun(name, request string) {
	a, err := newApp()
	if err != nil {
		exitError(err.Error())
	}
	project, err := a.svc.Projects.GetByName(name)
	if err != nil {
		exitError(err.Error())
	}
	if project == nil {
		exitError(fmt.Sprintf("project %q not found; create it with: devforge new %s", name, name))
	}

	ctx := contextWithInterrupt()
	controller, err := a.newController(ctx, runProvider)
	if err != nil {
		exitError(err.Error())
	}

	result, err := controller.Run(ctx, project.ID, request)
	if err != nil {
		if errors.Is(err, pipeline.ErrProjectBusy) {
			exitError(fmt.Sprintf("project %s is busy; wait for the running pipeline to finish", name))
		}
		if result != nil {
			printRunResult(result)
		}
		exitError(err.Error())
	}
	printRunResult(result)
}

func printRunResult(result *pipeline.RunResult) {
	fmt.Printf("Status: %s\n", result.Status)
	if result.Planned > 0 {
		fmt.Printf("Planned files: %d\n", result.Planned)
	}
	fmt.Printf("Generated files: %d\n", result.Generated)
	for _, failure := range result.GenFailures {
		fmt.Printf("  failed: %s (%s)\n", failure.Path, failure.Reason)
	}
	if pub := result.Publish; pub != nil && pub.Repo != nil {
		fmt.Printf("Repository: %s\n", pub.Repo.URL)
		fmt.Printf("  pushed %d, unchanged %d\n", len(pub.Pushed), len(pub.Skipped))
		for _, path := range pub.Conflicts {
			fmt.Printf("  overwrote remote change: %s\n", path)
		}
		for _, failure := range pub.Failed {
			fmt.Printf("  push failed: %s (%v)\n", failure.Path, failure.Err)
		}
	}
	if v := result.Validation; v != nil {
		fmt.Printf("Validation: %s after %d attempt(s)\n", v.Verdict, v.Attempts)
		if v.Verdict != models.VerdictPass && v.Detail != "" {
			fmt.Printf("  %s\n", v.Detail)
		}
	}
	if result.Detail != "" {
		fmt.Println(result.Detail)
	}
}

func init() {
	runCmd.Flags().StringVar(&runProvider, "provider", "", "LLM provider (openai, anthropic, gemini)")
	resumeCmd.Flags().StringVar(&runProvider, "provider", "", "LLM provider (openai, anthropic, gemini)")
	rootCmd.AddCommand(runCmd, resumeCmd)
}
