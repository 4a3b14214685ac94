package cli

import (
	"fmt"
	"strconv"

	"github.com/azzylc/gmt-app-main-sub000/internal/leave"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/spf13/cobra"
)

var leaveGapsCmd = LeafCommand{
	Use:   "gaps",
	Short: "List staff whose stored entitlement is below their tenure",
	BoolFlags: []BoolFlag{
		{Name: "surplus", Usage: "also list balances above the expected amount"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		surplus, _ := cmd.Flags().GetBool("surplus")
		return withStudio(func(st *studio) error {
			return runLeaveGaps(cmd, st, surplus)
		})
	},
}.Build()

func runLeaveGaps(cmd *cobra.Command, st *studio, surplus bool) error {
	people, err := personnel.List(cmd.Context(), st.store)
	if err != nil {
		return err
	}
	policy := st.cfg.Policy()
	today := st.today()
	w := cmd.OutOrStdout()

	gaps := policy.Gaps(people, today)
	if len(gaps) == 0 {
		_, _ = fmt.Fprintln(w, Silent("All entitlements are up to date."))
	} else {
		_, _ = fmt.Fprintln(w, renderTable(gapHeaders, gapRows(gaps)))
	}

	if surplus {
		over := policy.Surpluses(people, today)
		if len(over) > 0 {
			_, _ = fmt.Fprintf(w, "%s\n", Warning(fmt.Sprintf("%d balance(s) above expected, not corrected:", len(over))))
			_, _ = fmt.Fprintln(w, renderTable(gapHeaders, gapRows(over)))
		}
	}
	return nil
}

var gapHeaders = []string{"Name", "Tenure", "Expected", "Stored", "Gap"}

func gapRows(gaps []leave.Gap) [][]string {
	rows := make([][]string, 0, len(gaps))
	for _, g := range gaps {
		rows = append(rows, []string{
			g.PersonName,
			fmt.Sprintf("%dy", g.TenureYears),
			strconv.Itoa(g.ExpectedDays),
			strconv.Itoa(g.StoredDays),
			fmt.Sprintf("%+d", g.GapDays),
		})
	}
	return rows
}
