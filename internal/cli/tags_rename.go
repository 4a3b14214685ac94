package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsRenameCmd = LeafCommand{
	Use:   "rename TAG NEW_NAME",
	Short: "Rename a tag on every staff member carrying it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStudio(func(st *studio) error {
			return runTagsRename(cmd, st, args[0], args[1])
		})
	},
}.Build()

func runTagsRename(cmd *cobra.Command, st *studio, identifier, newName string) error {
	tag, err := st.findTag(cmd, identifier)
	if err != nil {
		return err
	}
	n, err := st.tags.Rename(cmd.Context(), tag.ID, newName)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Success(fmt.Sprintf("tag '%s' renamed to '%s' on %d staff record(s)", tag.Name, newName, n)))
	return nil
}
