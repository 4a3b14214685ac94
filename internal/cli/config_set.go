package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/azzylc/gmt-app-main-sub000/internal/config"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/spf13/cobra"
)

var configKeys = []string{"database", "timezone", "actor", "tag-color", "shift"}

var configSetCmd = LeafCommand{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value (" + strings.Join(configKeys, ", ") + ")",
	Long: `Set a configuration value.

The shift key takes a range such as 09:00-18:00 and replaces the default
schedule. Use --days to choose the days it applies to.`,
	Args: cobra.ExactArgs(2),
	StrFlags: []StringFlag{
		{Name: "days", Usage: "RRULE for the shift key", Default: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		days, _ := cmd.Flags().GetString("days")
		return runConfigSet(cmd, homeDir, args[0], args[1], days)
	},
}.Build()

func runConfigSet(cmd *cobra.Command, homeDir, key, value, days string) error {
	cfg, err := config.Read(homeDir)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	switch key {
	case "database":
		cfg.Database = value
	case "timezone":
		cfg.Timezone = value
	case "actor":
		cfg.Actor = value
	case "tag-color":
		cfg.TagColor = value
	case "shift":
		from, to, ok := strings.Cut(value, "-")
		if !ok {
			return fmt.Errorf("invalid shift %q (expected HH:MM-HH:MM)", value)
		}
		cfg.Shifts = []schedule.ShiftEntry{{
			Ranges: []schedule.TimeRange{{From: strings.TrimSpace(from), To: strings.TrimSpace(to)}},
			RRule:  days,
		}}
	default:
		return fmt.Errorf("unknown key '%s' (valid: %s)", key, strings.Join(configKeys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Write(homeDir, cfg); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("%s set to '%s'", Primary(key), value)))
	return nil
}
