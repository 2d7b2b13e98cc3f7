package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys",
}

var keysSetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store an API key (openai, anthropic, gemini, github)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitError(err.Error())
		}
		fmt.Printf("Paste the %s key and press enter: ", args[0])
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			exitError(err.Error())
		}
		key := strings.TrimSpace(line)
		if key == "" {
			exitError("empty key")
		}
		if err := a.svc.Keyring.StoreApiKey(args[0], []byte(key)); err != nil {
			exitError(err.Error())
		}
		fmt.Printf("Stored %s key in the system keyring\n", args[0])
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			exitError(err.Error())
		}
		if err := a.svc.Keyring.DeleteApiKey(args[0]); err != nil {
			exitError(err.Error())
		}
		fmt.Printf("Removed %s key\n", args[0])
	},
}

func init() {
	keysCmd.AddCommand(keysSetCmd, keysDeleteCmd)
	rootCmd.AddCommand(keysCmd)
}
