package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"devforge/internal/models"
)

var (
	newDescription string
	newRequest     string
	newStack       string
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitError(err.Error())
		}
		project, err := a.svc.Projects.Create(args[0], newDescription, newRequest)
		if err != nil {
			exitError(err.Error())
		}
		if newStack != "" {
			if err := a.svc.Projects.SetStack(project.ID, models.TargetStack(newStack)); err != nil {
				exitError(err.Error())
			}
			project.Stack = models.TargetStack(newStack)
		}
		fmt.Printf("Created project %s (id %d, stack %s)\n", project.Name, project.ID, project.Stack)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitError(err.Error())
		}
		projects, err := a.svc.Projects.List()
		if err != nil {
			exitError(err.Error())
		}
		if len(projects) == 0 {
			fmt.Println("No projects yet. Create one with: devforge new <name>")
			return
		}
		for _, p := range projects {
			line := fmt.Sprintf("%-4d %-24s %-12s %s", p.ID, p.Name, p.Status, p.Stack)
			if p.RepoURL != "" {
				line += "  " + p.RepoURL
			}
			fmt.Println(line)
		}
	},
}

var targetCmd = &cobra.Command{
	Use:   "target <name> <deploy-url>",
	Short: "Set the URL where the project's deployment is reachable",
	Args:  cobra.ExactArgs(2),
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
		if err := a.svc.Projects.SetDeployURL(project.ID, args[1]); err != nil {
			exitError(err.Error())
		}
		fmt.Printf("Project %s will be validated against %s\n", project.Name, args[1])
	},
}

func init() {
	newCmd.Flags().StringVar(&newDescription, "desc", "", "project description")
	newCmd.Flags().StringVar(&newRequest, "request", "", "initial request, used to infer the stack")
	newCmd.Flags().StringVar(&newStack, "stack", "", "target stack (static, python, fastapi, node, react)")
	rootCmd.AddCommand(newCmd, listCmd, targetCmd)
}
