package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/azzylc/gmt-app-main-sub000/internal/attendance"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var attendanceWatchCmd = LeafCommand{
	Use:   "watch [DATE]",
	Short: "Follow a day's attendance live until interrupted",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dayArg := ""
		if len(args) > 0 {
			dayArg = args[0]
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		cmd.SetContext(ctx)
		return withStudio(func(st *studio) error {
			return runAttendanceWatch(cmd, st, dayArg, stdoutIsTTY)
		})
	},
}.Build()

func stdoutIsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

const clearScreen = "\033[H\033[2J"

func runAttendanceWatch(cmd *cobra.Command, st *studio, dayArg string, isTTY func() bool) error {
	day, err := schedule.ParseDay(dayArg, st.today())
	if err != nil {
		return err
	}
	people, err := personnel.List(cmd.Context(), st.store)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	tty := isTTY()
	return attendance.Watch(cmd.Context(), st.store, day, st.shiftFunc(people), func(statuses []attendance.DailyStatus) {
		if tty {
			_, _ = io.WriteString(w, clearScreen)
		} else {
			_, _ = fmt.Fprintln(w)
		}
		printDay(w, day, statuses, st.loc)
	})
}
