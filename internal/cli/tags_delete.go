package cli

import (
	"fmt"

	"github.com/azzylc/gmt-app-main-sub000/internal/taxonomy"
	"github.com/spf13/cobra"
)

var tagsDeleteCmd = LeafCommand{
	Use:   "delete [TAG]",
	Short: "Remove a tag from every staff member, then delete it",
	Args:  cobra.MaximumNArgs(1),
	BoolFlags: []BoolFlag{
		{Name: "yes", Usage: "skip confirmation prompt"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		identifier := ""
		if len(args) > 0 {
			identifier = args[0]
		}
		yes, _ := cmd.Flags().GetBool("yes")
		return withStudio(func(st *studio) error {
			return runTagsDelete(cmd, st, identifier, NewPromptKit(yes))
		})
	},
}.Build()

func runTagsDelete(cmd *cobra.Command, st *studio, identifier string, kit PromptKit) error {
	var tag taxonomy.Tag
	if identifier == "" {
		tags, err := taxonomy.List(cmd.Context(), st.store)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			return fmt.Errorf("no tags to delete")
		}
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Name
		}
		idx, err := kit.Select("Tag to delete", names)
		if err != nil {
			return err
		}
		tag = tags[idx]
	} else {
		var err error
		tag, err = st.findTag(cmd, identifier)
		if err != nil {
			return err
		}
	}

	counts, err := tagCounts(cmd.Context(), st.store)
	if err != nil {
		return err
	}
	prompt := fmt.Sprintf("Delete tag '%s' and remove it from %d staff record(s)?", tag.Name, counts[tag.Name])
	if err := confirmed(kit.Confirm, prompt); err != nil {
		return err
	}

	res, err := st.tags.Delete(cmd.Context(), tag.ID)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", Warning("run 'studio tags resume' to finish an interrupted delete"))
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Success(fmt.Sprintf("tag '%s' deleted, removed from %d staff record(s)", res.Name, res.PersonnelUpdated)))
	return nil
}
