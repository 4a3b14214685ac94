package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var validShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = newCompletionCmd(os.Getenv)

func newCompletionCmd(getenv func(string) string) *cobra.Command {
	cmd := LeafCommand{
		Use:   "completion [SHELL]",
		Short: "Print a shell completion script (default: detected from $SHELL)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := shellFromEnv(getenv)
			if len(args) > 0 {
				shell = args[0]
			}
			if shell == "" {
				return fmt.Errorf("could not detect shell from $SHELL; pass one of: %s", strings.Join(validShells, ", "))
			}
			return runCompletion(cmd, shell)
		},
	}.Build()
	cmd.ValidArgs = validShells
	return cmd
}

func shellFromEnv(getenv func(string) string) string {
	name := filepath.Base(getenv("SHELL"))
	for _, s := range validShells {
		if name == s {
			return s
		}
	}
	if name == "pwsh" {
		return "powershell"
	}
	return ""
}

func runCompletion(cmd *cobra.Command, shell string) error {
	root := cmd.Root()
	out := cmd.OutOrStdout()

	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletion(out)
	}
	return fmt.Errorf("unsupported shell: %s (valid: %s)", shell, strings.Join(validShells, ", "))
}
