package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafCommandBuild(t *testing.T) {
	cmd := LeafCommand{
		Use:   "rename TAG NAME",
		Short: "Rename a tag",
		Long:  "Rename a tag everywhere",
		Args:  cobra.ExactArgs(2),
		BoolFlags: []BoolFlag{
			{Name: "yes", Usage: "skip confirmation prompt"},
			{Name: "repair", Usage: "run repair first", Default: true},
		},
		StrFlags: []StringFlag{
			{Name: "color", Usage: "tag colour", Default: "#9CA3AF"},
		},
		IntFlags: []IntFlag{
			{Name: "limit", Usage: "max rows", Default: 10},
		},
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}.Build()

	assert.Equal(t, "rename TAG NAME", cmd.Use)
	assert.Equal(t, "Rename a tag", cmd.Short)
	assert.Equal(t, "Rename a tag everywhere", cmd.Long)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	yes := cmd.Flags().Lookup("yes")
	require.NotNil(t, yes)
	assert.Equal(t, "false", yes.DefValue)

	repair := cmd.Flags().Lookup("repair")
	require.NotNil(t, repair)
	assert.Equal(t, "true", repair.DefValue)

	color := cmd.Flags().Lookup("color")
	require.NotNil(t, color)
	assert.Equal(t, "#9CA3AF", color.DefValue)

	limit := cmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "10", limit.DefValue)
}

func TestLeafCommandBuildNoFlags(t *testing.T) {
	cmd := LeafCommand{
		Use:   "simple",
		Short: "A simple command",
		RunE:  func(cmd *cobra.Command, args []string) error { return nil },
	}.Build()

	assert.Equal(t, "simple", cmd.Use)
	assert.False(t, cmd.HasFlags())
}

func TestGroupCommandBuild(t *testing.T) {
	sub1 := &cobra.Command{Use: "sub1"}
	sub2 := &cobra.Command{Use: "sub2"}

	cmd := GroupCommand{
		Use:         "group",
		Short:       "A group command",
		Aliases:     []string{"g"},
		Subcommands: []*cobra.Command{sub1, sub2},
	}.Build()

	assert.Equal(t, "group", cmd.Use)
	assert.Equal(t, "A group command", cmd.Short)
	assert.Equal(t, []string{"g"}, cmd.Aliases)
	assert.Nil(t, cmd.RunE)

	names := make([]string, len(cmd.Commands()))
	for i, c := range cmd.Commands() {
		names[i] = c.Name()
	}
	assert.Contains(t, names, "sub1")
	assert.Contains(t, names, "sub2")
}

func TestGroupCommandBuildNoSubcommands(t *testing.T) {
	cmd := GroupCommand{
		Use:   "empty",
		Short: "An empty group",
	}.Build()

	assert.Equal(t, "empty", cmd.Use)
	assert.Empty(t, cmd.Commands())
}
