package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/azzylc/gmt-app-main-sub000/internal/taxonomy"
	"github.com/spf13/cobra"
)

var tagsListCmd = LeafCommand{
	Use:   "list",
	Short: "List tags with the number of staff carrying each",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStudio(func(st *studio) error {
			return runTagsList(cmd, st)
		})
	},
}.Build()

func runTagsList(cmd *cobra.Command, st *studio) error {
	st.ensureRepaired(cmd)

	tags, err := taxonomy.List(cmd.Context(), st.store)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(tags) == 0 {
		_, _ = fmt.Fprintln(w, Silent("No tags found."))
		return nil
	}

	counts, err := tagCounts(cmd.Context(), st.store)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		name := t.Name
		if t.PendingDelete {
			name += " (pending delete)"
		}
		order := "-"
		if t.SortOrder != nil {
			order = strconv.Itoa(*t.SortOrder)
		}
		rows = append(rows, []string{order, Swatch(t.Color) + " " + name, t.ID, strconv.Itoa(counts[t.Name])})
	}
	_, _ = fmt.Fprintln(w, renderTable([]string{"#", "Tag", "ID", "Staff"}, rows))
	return nil
}

func tagCounts(ctx context.Context, store docstore.Store) (map[string]int, error) {
	people, err := personnel.List(ctx, store)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, p := range people {
		for _, name := range p.Tags {
			counts[name]++
		}
	}
	return counts, nil
}
