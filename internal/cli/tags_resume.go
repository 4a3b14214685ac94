package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsResumeCmd = LeafCommand{
	Use:   "resume",
	Short: "Finish tag deletes that were interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStudio(func(st *studio) error {
			return runTagsResume(cmd, st)
		})
	},
}.Build()

func runTagsResume(cmd *cobra.Command, st *studio) error {
	done, err := st.tags.ResumePending(cmd.Context())
	w := cmd.OutOrStdout()
	for _, res := range done {
		_, _ = fmt.Fprintf(w, "%s\n", Success(fmt.Sprintf("tag '%s' deleted", res.Name)))
	}
	if err != nil {
		return err
	}
	if len(done) == 0 {
		_, _ = fmt.Fprintln(w, Silent("No interrupted deletes."))
	}
	return nil
}
