package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsAddCmd = LeafCommand{
	Use:   "add NAME",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "color", Usage: "hex colour (default from config)"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")
		return withStudio(func(st *studio) error {
			return runTagsAdd(cmd, st, args[0], color)
		})
	},
}.Build()

func runTagsAdd(cmd *cobra.Command, st *studio, name, color string) error {
	tag, err := st.tags.Create(cmd.Context(), name, color)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Text(fmt.Sprintf("tag '%s' created (%s)", Primary(tag.Name), Silent(tag.ID))))
	return nil
}
