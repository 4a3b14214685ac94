package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var personnelTagCmd = LeafCommand{
	Use:   "tag PERSON TAG",
	Short: "Add a tag to a staff member, or remove it with --remove",
	Args:  cobra.ExactArgs(2),
	BoolFlags: []BoolFlag{
		{Name: "remove", Usage: "remove the tag instead of adding it"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		remove, _ := cmd.Flags().GetBool("remove")
		return withStudio(func(st *studio) error {
			return runPersonnelTag(cmd, st, args[0], args[1], remove)
		})
	},
}.Build()

func runPersonnelTag(cmd *cobra.Command, st *studio, identifier, tagName string, remove bool) error {
	p, err := st.findPerson(cmd, identifier)
	if err != nil {
		return err
	}
	if remove {
		if err := st.tags.Unassign(cmd.Context(), p.ID, tagName); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("'%s' removed from %s", tagName, Primary(p.Name))))
		return nil
	}
	if err := st.tags.Assign(cmd.Context(), p.ID, tagName); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("'%s' added to %s", tagName, Primary(p.Name))))
	return nil
}
