package cli

import (
	"fmt"
	"strings"

	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/azzylc/gmt-app-main-sub000/internal/taxonomy"
	"github.com/spf13/cobra"
)

var personnelAddCmd = LeafCommand{
	Use:   "add NAME",
	Short: "Add a staff member",
	Args:  cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "hired", Usage: "hire date (YYYY-MM-DD)"},
		{Name: "role", Usage: "role, e.g. makeup, hair, manager"},
		{Name: "tags", Usage: "comma-separated existing tag names"},
		{Name: "from", Usage: "shift start (HH:MM) for a custom schedule"},
		{Name: "to", Usage: "shift end (HH:MM) for a custom schedule"},
		{Name: "days", Usage: "RRULE for the custom schedule", Default: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA"},
	},
	IntFlags: []IntFlag{
		{Name: "leave", Usage: "current leave entitlement in days"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := personnelAddOptions{name: args[0]}
		opts.hired, _ = cmd.Flags().GetString("hired")
		opts.role, _ = cmd.Flags().GetString("role")
		opts.tags, _ = cmd.Flags().GetString("tags")
		opts.from, _ = cmd.Flags().GetString("from")
		opts.to, _ = cmd.Flags().GetString("to")
		opts.days, _ = cmd.Flags().GetString("days")
		opts.leave, _ = cmd.Flags().GetInt("leave")
		return withStudio(func(st *studio) error {
			return runPersonnelAdd(cmd, st, opts)
		})
	},
}.Build()

type personnelAddOptions struct {
	name  string
	hired string
	role  string
	tags  string
	from  string
	to    string
	days  string
	leave int
}

func runPersonnelAdd(cmd *cobra.Command, st *studio, opts personnelAddOptions) error {
	p := personnel.Personnel{
		Name:                 opts.name,
		HireDate:             opts.hired,
		Role:                 opts.role,
		LeaveEntitlementDays: opts.leave,
		Active:               true,
	}
	if opts.from != "" || opts.to != "" {
		p.Schedule = []schedule.ShiftEntry{{
			Ranges: []schedule.TimeRange{{From: opts.from, To: opts.to}},
			RRule:  opts.days,
		}}
	}

	tags, err := taxonomy.List(cmd.Context(), st.store)
	if err != nil {
		return err
	}
	valid := taxonomy.ValidNames(tags)
	var names []string
	for _, name := range strings.Split(opts.tags, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !valid[name] {
			return fmt.Errorf("tag '%s' not found", name)
		}
		names = append(names, name)
	}

	p, err = personnel.Add(cmd.Context(), st.store, p)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := st.tags.Assign(cmd.Context(), p.ID, name); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("added %s (%s)", Primary(p.Name), Silent(p.ID))))
	return nil
}
