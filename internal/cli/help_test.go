package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestStyleHelpLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"section header", "Available Commands:", []string{"Available Commands:"}},
		{"command listing", "  attendance  Record check-ins and review daily attendance", []string{"attendance", "Record check-ins"}},
		{"flag line", "      --yes     skip confirmation prompt", []string{"--yes", "skip confirmation"}},
		{"footer", `Use "studio [command] --help" for more information about a command.`, []string{"studio [command]"}},
		{"plain", "Staff console for attendance, leave and tags", []string{"Staff console"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := styleHelpLine(tt.line)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestStyledHelpOutput(t *testing.T) {
	cmd := &cobra.Command{Use: "studio", Short: "Staff console"}
	cmd.AddCommand(&cobra.Command{Use: "tags", Short: "Manage tags", Run: func(*cobra.Command, []string) {}})

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	styledHelp(cmd, nil)

	out := buf.String()
	assert.Contains(t, out, "Staff console")
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "tags")
	assert.Contains(t, out, "Flags:")
}

func TestStyledHelpRestoresWriter(t *testing.T) {
	cmd := &cobra.Command{Use: "studio"}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	styledHelp(cmd, nil)

	assert.Same(t, buf, cmd.OutOrStdout())
}
