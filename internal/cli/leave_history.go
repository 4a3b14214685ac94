package cli

import (
	"fmt"

	"github.com/azzylc/gmt-app-main-sub000/internal/leave"
	"github.com/spf13/cobra"
)

var leaveHistoryCmd = LeafCommand{
	Use:   "history PERSON",
	Short: "Show entitlement corrections applied to a person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStudio(func(st *studio) error {
			return runLeaveHistory(cmd, st, args[0])
		})
	},
}.Build()

func runLeaveHistory(cmd *cobra.Command, st *studio, identifier string) error {
	p, err := st.findPerson(cmd, identifier)
	if err != nil {
		return err
	}
	records, err := leave.History(cmd.Context(), st.store, p.ID)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, Silent(fmt.Sprintf("No corrections recorded for %s.", p.Name)))
		return nil
	}
	for _, r := range records {
		_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
			Silent(r.CreatedAt.In(st.loc).Format("2006-01-02 15:04")),
			Text(fmt.Sprintf("%d -> %d (+%d)", r.Before, r.After, r.Delta)),
			Info(r.Actor))
	}
	return nil
}
