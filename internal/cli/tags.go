package cli

import "github.com/spf13/cobra"

var tagsCmd = GroupCommand{
	Use:     "tags",
	Short:   "Manage the staff tag taxonomy",
	Aliases: []string{"tag"},
	Subcommands: []*cobra.Command{
		tagsListCmd,
		tagsAddCmd,
		tagsRenameCmd,
		tagsDeleteCmd,
		tagsRepairCmd,
		tagsResumeCmd,
	},
}.Build()
