package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"devforge/internal/publisher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check credentials and connectivity",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitError(err.Error())
		}

		for _, provider := range []string{"openai", "anthropic", "gemini"} {
			key, err := a.svc.Keyring.GetApiKey(provider)
			switch {
			case err != nil:
				fmt.Printf("%-10s keyring error: %v\n", provider, err)
			case key == "":
				fmt.Printf("%-10s no key\n", provider)
			default:
				fmt.Printf("%-10s key present\n", provider)
			}
		}

		token, err := a.svc.Keyring.GetApiKey("github")
		if err != nil || token == "" {
			fmt.Println("github     no token")
			return
		}
		ctx := contextWithInterrupt()
		host, err := publisher.NewGitHubHost(ctx, token)
		if err != nil {
			fmt.Printf("github     %v\n", err)
			return
		}
		login, err := host.CheckAuth(ctx)
		if err != nil {
			fmt.Printf("github     token rejected: %v\n", err)
			return
		}
		fmt.Printf("github     authenticated as %s\n", login)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
