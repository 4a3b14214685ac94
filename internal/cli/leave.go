package cli

import "github.com/spf13/cobra"

var leaveCmd = GroupCommand{
	Use:   "leave",
	Short: "Reconcile annual leave entitlements",
	Subcommands: []*cobra.Command{
		leaveGapsCmd,
		leaveApplyCmd,
		leaveHistoryCmd,
	},
}.Build()
