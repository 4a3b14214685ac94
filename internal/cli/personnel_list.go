package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/azzylc/gmt-app-main-sub000/internal/leave"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/spf13/cobra"
)

var personnelListCmd = LeafCommand{
	Use:   "list",
	Short: "List staff members",
	StrFlags: []StringFlag{
		{Name: "tag", Usage: "only staff carrying this tag"},
	},
	BoolFlags: []BoolFlag{
		{Name: "inactive", Usage: "include inactive staff"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		inactive, _ := cmd.Flags().GetBool("inactive")
		return withStudio(func(st *studio) error {
			return runPersonnelList(cmd, st, tag, inactive)
		})
	},
}.Build()

func runPersonnelList(cmd *cobra.Command, st *studio, tag string, inactive bool) error {
	st.ensureRepaired(cmd)

	var people []personnel.Personnel
	var err error
	if tag != "" {
		people, err = personnel.WithTag(cmd.Context(), st.store, tag)
	} else {
		people, err = personnel.List(cmd.Context(), st.store)
	}
	if err != nil {
		return err
	}

	today := st.today()
	rows := make([][]string, 0, len(people))
	for _, p := range people {
		if !p.Active && !inactive {
			continue
		}
		tenure := "-"
		if hire, ok := p.Hired(); ok {
			tenure = fmt.Sprintf("%dy", leave.TenureYears(hire, today))
		}
		shifts := "default"
		if len(p.Schedule) > 0 {
			parts := make([]string, len(p.Schedule))
			for i, e := range p.Schedule {
				parts[i] = schedule.FormatShiftEntry(e)
			}
			shifts = strings.Join(parts, "; ")
		}
		name := p.Name
		if !p.Active {
			name += " (inactive)"
		}
		rows = append(rows, []string{
			name,
			p.Role,
			tenure,
			strconv.Itoa(p.LeaveEntitlementDays),
			strings.Join(p.Tags, ", "),
			shifts,
		})
	}

	w := cmd.OutOrStdout()
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, Silent("No staff found."))
		return nil
	}
	_, _ = fmt.Fprintln(w, renderTable([]string{"Name", "Role", "Tenure", "Leave", "Tags", "Shift"}, rows))
	return nil
}
