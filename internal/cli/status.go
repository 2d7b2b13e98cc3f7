package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"devforge/internal/models"
	"devforge/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status <name>",
	Short: "Show where a project stands",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitError(err.Error())
		}
		project, err := a.svc.Projects.GetByName(args[0])
		if err != nil {
			exitError(err.Error())
		}
		if project == nil {
			exitError(fmt.Sprintf("project %q not found", args[0]))
		}

		// Status is read-only, so the controller needs no generator or host.
		controller := pipeline.NewController(pipeline.Deps{
			Projects: a.svc.ProjectRepo,
			Plans:    a.svc.PlanRepo,
			Files:    a.svc.FileRepo,
			Checks:   a.svc.CheckRepo,
		})
		report, err := controller.Status(project.ID)
		if err != nil {
			exitError(err.Error())
		}
		printStatus(report)
	},
}

func printStatus(report *pipeline.StatusReport) {
	p := report.Project
	fmt.Printf("%s (id %d)\n", p.Name, p.ID)
	fmt.Printf("  status: %s\n", p.Status)
	fmt.Printf("  stack:  %s\n", p.Stack)
	if p.RepoURL != "" {
		fmt.Printf("  repo:   %s\n", p.RepoURL)
	}
	if p.DeployURL != "" {
		fmt.Printf("  deploy: %s\n", p.DeployURL)
	}
	if p.Status == models.StatusFailed {
		fmt.Printf("  failure: %s (%s)\n", p.FailReason, p.FailDetail)
	}
	if plan := report.LatestPlan; plan != nil {
		fmt.Printf("  plan %d (%d files):\n", plan.ID, len(plan.Entries))
		for _, entry := range plan.Entries {
			fmt.Printf("    %-10s %s\n", entry.Status, entry.Path)
		}
	}
	if check := report.LatestCheck; check != nil {
		fmt.Printf("  last check: attempt %d, http %d, verdict %s\n", check.Attempt, check.HTTPStatus, check.Verdict)
	}
	if report.Busy {
		fmt.Println("  a run is in progress")
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
