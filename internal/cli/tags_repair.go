package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsRepairCmd = LeafCommand{
	Use:   "repair",
	Short: "Fill missing tag fields and strip unknown tags from staff",
	BoolFlags: []BoolFlag{
		{Name: "force", Usage: "run even if the store is marked as repaired"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return withStudio(func(st *studio) error {
			return runTagsRepair(cmd, st, force)
		})
	},
}.Build()

func runTagsRepair(cmd *cobra.Command, st *studio, force bool) error {
	repair := st.tags.Repair
	if force {
		repair = st.tags.Reconcile
	}
	res, err := repair(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch {
	case res.Skipped:
		_, _ = fmt.Fprintln(w, Silent("Tags already repaired (use --force to check again)."))
	case !res.Changed():
		_, _ = fmt.Fprintln(w, Silent("Nothing to repair."))
	default:
		_, _ = fmt.Fprintf(w, "%s\n", Success(fmt.Sprintf("repaired %d tag(s) and %d staff record(s)", res.TagsFixed, res.PersonnelFixed)))
	}
	return nil
}
