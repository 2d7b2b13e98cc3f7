package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	settingsProvider string
	settingsMirror   string
	settingsWorkers  int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change tool-wide settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitError(err.Error())
		}
		current, err := a.svc.Settings.Get()
		if err != nil {
			exitError(err.Error())
		}

		if cmd.Flags().Changed("provider") || cmd.Flags().Changed("mirror") || cmd.Flags().Changed("workers") {
			provider := current.DefaultProvider
			if cmd.Flags().Changed("provider") {
				provider = settingsProvider
			}
			mirror := current.MirrorDir
			if cmd.Flags().Changed("mirror") {
				mirror = settingsMirror
			}
			workers := current.GenWorkers
			if cmd.Flags().Changed("workers") {
				workers = settingsWorkers
			}
			current, err = a.svc.Settings.Update(provider, mirror, workers)
			if err != nil {
				exitError(err.Error())
			}
		}

		fmt.Printf("default provider: %s\n", current.DefaultProvider)
		fmt.Printf("generation workers: %d\n", current.GenWorkers)
		if current.MirrorDir != "" {
			fmt.Printf("local mirror: %s\n", current.MirrorDir)
		} else {
			fmt.Println("local mirror: disabled")
		}
	},
}

func init() {
	settingsCmd.Flags().StringVar(&settingsProvider, "provider", "", "default LLM provider")
	settingsCmd.Flags().StringVar(&settingsMirror, "mirror", "", "directory for local git mirrors (empty disables)")
	settingsCmd.Flags().IntVar(&settingsWorkers, "workers", 0, "parallel generation workers")
	rootCmd.AddCommand(settingsCmd)
}
