package cli

import "github.com/spf13/cobra"

var personnelCmd = GroupCommand{
	Use:     "personnel",
	Short:   "Manage staff records",
	Aliases: []string{"staff"},
	Subcommands: []*cobra.Command{
		personnelListCmd,
		personnelAddCmd,
		personnelTagCmd,
	},
}.Build()
