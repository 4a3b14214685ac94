package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/leave"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/spf13/cobra"
)

var leaveApplyCmd = LeafCommand{
	Use:   "apply [PERSON]",
	Short: "Credit the missing entitlement days and record an audit entry",
	Args:  cobra.MaximumNArgs(1),
	BoolFlags: []BoolFlag{
		{Name: "all", Usage: "apply every open gap"},
		{Name: "yes", Usage: "skip confirmation prompt"},
	},
	StrFlags: []StringFlag{
		{Name: "actor", Usage: "who is applying the correction (default from config)"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		identifier := ""
		if len(args) > 0 {
			identifier = args[0]
		}
		all, _ := cmd.Flags().GetBool("all")
		yes, _ := cmd.Flags().GetBool("yes")
		actor, _ := cmd.Flags().GetString("actor")
		return withStudio(func(st *studio) error {
			return runLeaveApply(cmd, st, identifier, all, actor, NewPromptKit(yes))
		})
	},
}.Build()

func runLeaveApply(cmd *cobra.Command, st *studio, identifier string, all bool, actor string, kit PromptKit) error {
	if identifier == "" && !all {
		return fmt.Errorf("name a person or pass --all")
	}

	var people []personnel.Personnel
	if identifier != "" {
		p, err := st.findPerson(cmd, identifier)
		if err != nil {
			return err
		}
		people = []personnel.Personnel{p}
	} else {
		var err error
		people, err = personnel.List(cmd.Context(), st.store)
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	gaps := st.cfg.Policy().Gaps(people, st.today())
	if len(gaps) == 0 {
		_, _ = fmt.Fprintln(w, Silent("No entitlement gaps to apply."))
		return nil
	}

	actor, err := resolveActor(actor, st.cfg.Actor, kit.Prompt)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, renderTable(gapHeaders, gapRows(gaps)))
	if err := confirmed(kit.Confirm, fmt.Sprintf("Credit %d person(s) as %s?", len(gaps), actor)); err != nil {
		return err
	}

	corrector := leave.Corrector{Store: st.store, Now: st.now}
	for i, g := range gaps {
		rec, err := corrector.Apply(cmd.Context(), g, actor)
		if errors.Is(err, docstore.ErrPrecondition) {
			return fmt.Errorf("%d of %d applied: balance of '%s' changed since it was reviewed, run the command again: %w", i, len(gaps), g.PersonName, err)
		}
		if err != nil {
			return fmt.Errorf("%d of %d applied: %w", i, len(gaps), err)
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", Primary(rec.PersonName),
			Success(fmt.Sprintf("%d -> %d days (+%d)", rec.Before, rec.After, rec.Delta)))
	}
	return nil
}

func resolveActor(flag, configured string, prompt PromptFunc) (string, error) {
	if a := strings.TrimSpace(flag); a != "" {
		return a, nil
	}
	if a := strings.TrimSpace(configured); a != "" {
		return a, nil
	}
	a, err := prompt("Your name for the audit log")
	if err != nil {
		return "", err
	}
	a = strings.TrimSpace(a)
	if a == "" {
		return "", fmt.Errorf("actor is required")
	}
	return a, nil
}
