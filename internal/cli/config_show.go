package cli

import (
	"fmt"
	"os"

	"github.com/azzylc/gmt-app-main-sub000/internal/config"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/azzylc/gmt-app-main-sub000/internal/taxonomy"
	"github.com/spf13/cobra"
)

var configShowCmd = LeafCommand{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		return runConfigShow(cmd, homeDir, os.LookupEnv)
	},
}.Build()

func runConfigShow(cmd *cobra.Command, homeDir string, lookup config.LookupFunc) error {
	cfg, err := config.Load(homeDir, lookup)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	field := func(label, value string) {
		_, _ = fmt.Fprintf(w, "%s %s\n", Silent(fmt.Sprintf("%-10s", label)), Text(value))
	}
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	field("file", config.Path(homeDir))
	field("database", cfg.DatabasePath(homeDir))
	field("timezone", orDefault(cfg.Timezone, "local"))
	field("actor", orDefault(cfg.Actor, "(prompt)"))
	color := orDefault(cfg.TagColor, taxonomy.DefaultColor)
	field("tag color", Swatch(color)+" "+color)

	_, _ = fmt.Fprintf(w, "%s\n", Info("Default shifts:"))
	for i, e := range cfg.DefaultShifts() {
		_, _ = fmt.Fprintf(w, "  %s\n", Text(fmt.Sprintf("%d. %s", i+1, schedule.FormatShiftEntry(e))))
	}

	policy := cfg.Policy()
	_, _ = fmt.Fprintf(w, "%s\n", Info("Leave tiers:"))
	for _, t := range policy.Tiers {
		_, _ = fmt.Fprintf(w, "  %s\n", Text(fmt.Sprintf("from year %d: %d days/year", t.FromYear, t.DaysPerYear)))
	}
	if len(policy.ExcludedRoles) > 0 {
		field("excluded", fmt.Sprintf("%v", policy.ExcludedRoles))
	}
	return nil
}
