package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/attendance"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/spf13/cobra"
)

var attendanceDayCmd = LeafCommand{
	Use:   "day [DATE]",
	Short: "Show attendance for a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dayArg := ""
		if len(args) > 0 {
			dayArg = args[0]
		}
		return withStudio(func(st *studio) error {
			return runAttendanceDay(cmd, st, dayArg)
		})
	},
}.Build()

func runAttendanceDay(cmd *cobra.Command, st *studio, dayArg string) error {
	day, err := schedule.ParseDay(dayArg, st.today())
	if err != nil {
		return err
	}
	people, err := personnel.List(cmd.Context(), st.store)
	if err != nil {
		return err
	}

	statuses, err := attendance.LoadDay(cmd.Context(), st.store, day, st.shiftFunc(people))
	if err != nil {
		return err
	}
	printDay(cmd.OutOrStdout(), day, statuses, st.loc)
	return nil
}

func printDay(w io.Writer, day time.Time, statuses []attendance.DailyStatus, loc *time.Location) {
	_, _ = fmt.Fprintf(w, "%s\n", Primary(day.Format("Monday, 2 January 2006")))
	if len(statuses) == 0 {
		_, _ = fmt.Fprintln(w, Silent("No attendance recorded."))
		return
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		hours := "-"
		if h, ok := s.WorkedHours(); ok {
			hours = h.StringFixed(2)
		}
		rows = append(rows, []string{
			s.PersonName,
			clockOf(s.FirstCheckIn, loc),
			clockOf(s.LastCheckOut, loc),
			attendance.FormatOptionalMinutes(s.WorkedMinutes),
			hours,
			attendance.FormatOptionalMinutes(s.LateMinutes),
			attendance.FormatOptionalMinutes(s.EarlyLeaveMinutes),
			stateOf(s),
		})
	}
	_, _ = fmt.Fprintln(w, renderTable(
		[]string{"Name", "In", "Out", "Worked", "Hours", "Late", "Early", "State"},
		rows,
	))

	sum := attendance.Summarize(statuses)
	_, _ = fmt.Fprintf(w, "%s\n", Text(fmt.Sprintf("present %d · active %d · late %d · left early %d · worked %s (%s h)",
		sum.Present, sum.Active, sum.Late, sum.LeftEarly, attendance.FormatMinutes(sum.Minutes), sum.Hours().StringFixed(2))))
}

func clockOf(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("15:04")
}

func stateOf(s attendance.DailyStatus) string {
	switch {
	case s.Active:
		return "working"
	case s.FirstCheckIn == nil:
		return "no check-in"
	}
	return "done"
}
