package cli

import (
	"fmt"
	"os"

	"github.com/azzylc/gmt-app-main-sub000/internal/config"
	"github.com/spf13/cobra"
)

var configResetCmd = LeafCommand{
	Use:   "reset",
	Short: "Restore the default configuration",
	BoolFlags: []BoolFlag{
		{Name: "yes", Usage: "skip confirmation prompt"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")
		return runConfigReset(cmd, homeDir, ResolveConfirmFunc(yes))
	},
}.Build()

func runConfigReset(cmd *cobra.Command, homeDir string, confirm ConfirmFunc) error {
	if err := confirmed(confirm, fmt.Sprintf("Reset %s to defaults?", config.Path(homeDir))); err != nil {
		return err
	}
	if err := config.Write(homeDir, &config.Config{}); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), Text("configuration reset to defaults"))
	return nil
}
