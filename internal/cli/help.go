package cli

import (
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var (
	sectionHeaderRe = regexp.MustCompile(`^[A-Z][A-Za-z ]+:$`)
	// "  name   description" and "  -f, --flag type   description"
	listingRe = regexp.MustCompile(`^( +)(\S.*?)( {2,}.*)$`)
)

// styledHelp renders cobra's usage text with section headers, command and
// flag names highlighted.
func styledHelp(cmd *cobra.Command, _ []string) {
	var buf strings.Builder
	orig := cmd.OutOrStdout()
	cmd.SetOut(&buf)
	cmd.InitDefaultHelpFlag()
	if cmd.Long != "" {
		buf.WriteString(cmd.Long + "\n\n")
	} else if cmd.Short != "" {
		buf.WriteString(cmd.Short + "\n\n")
	}
	_ = cmd.Usage()
	cmd.SetOut(orig)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = styleHelpLine(line)
	}
	cmd.Println(strings.Join(lines, "\n"))
}

func styleHelpLine(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case sectionHeaderRe.MatchString(trimmed):
		return Info(line)
	case strings.HasPrefix(trimmed, `Use "`):
		return Silent(line)
	}
	if m := listingRe.FindStringSubmatch(line); m != nil {
		return m[1] + Primary(m[2]) + Text(m[3])
	}
	return Text(line)
}
