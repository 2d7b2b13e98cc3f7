package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	enableModel     string
	disableModel    string
	enableProvider  string
	disableProvider string
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List or toggle catalog models",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitError(err.Error())
		}
		if enableModel != "" {
			if _, err := a.svc.Catalog.SetModelEnabled(enableModel, true); err != nil {
				exitError(err.Error())
			}
		}
		if disableModel != "" {
			if _, err := a.svc.Catalog.SetModelEnabled(disableModel, false); err != nil {
				exitError(err.Error())
			}
		}
		if enableProvider != "" {
			if err := a.svc.Catalog.SetProviderEnabled(enableProvider, true); err != nil {
				exitError(err.Error())
			}
		}
		if disableProvider != "" {
			if err := a.svc.Catalog.SetProviderEnabled(disableProvider, false); err != nil {
				exitError(err.Error())
			}
		}

		groups, err := a.svc.Catalog.ListModelGroups()
		if err != nil {
			exitError(err.Error())
		}
		for _, group := range groups {
			fmt.Printf("%s (%s)\n", group.ProviderName, group.ProviderID)
			for _, mdl := range group.Models {
				state := "enabled"
				if !mdl.Enabled {
					state = "disabled"
				}
				fmt.Printf("  %-40s %-24s %s\n", mdl.Key, mdl.DisplayName, state)
			}
		}
	},
}

func init() {
	modelsCmd.Flags().StringVar(&enableModel, "enable", "", "model key to enable")
	modelsCmd.Flags().StringVar(&disableModel, "disable", "", "model key to disable")
	modelsCmd.Flags().StringVar(&enableProvider, "enable-provider", "", "provider id to enable in full")
	modelsCmd.Flags().StringVar(&disableProvider, "disable-provider", "", "provider id to disable in full")
	rootCmd.AddCommand(modelsCmd)
}
