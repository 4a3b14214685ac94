package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "studio",
	Short:         "Staff console for attendance, leave and tags",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetHelpFunc(styledHelp)
	rootCmd.AddCommand(attendanceCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(personnelCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
