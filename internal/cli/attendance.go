package cli

import "github.com/spf13/cobra"

var attendanceCmd = GroupCommand{
	Use:     "attendance",
	Short:   "Record check-ins and review daily attendance",
	Aliases: []string{"att"},
	Subcommands: []*cobra.Command{
		checkinCmd,
		checkoutCmd,
		attendanceDayCmd,
		attendanceWatchCmd,
	},
}.Build()
