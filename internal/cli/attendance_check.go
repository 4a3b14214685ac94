package cli

import (
	"errors"
	"fmt"

	"github.com/azzylc/gmt-app-main-sub000/internal/attendance"
	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/spf13/cobra"
)

var checkinCmd = LeafCommand{
	Use:   "checkin PERSON",
	Short: "Record a check-in now",
	Args:  cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "location", Usage: "where the check-in happened"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		return withStudio(func(st *studio) error {
			return runCheck(cmd, st, attendance.CheckIn, args[0], location)
		})
	},
}.Build()

var checkoutCmd = LeafCommand{
	Use:   "checkout PERSON",
	Short: "Record a check-out now",
	Args:  cobra.ExactArgs(1),
	StrFlags: []StringFlag{
		{Name: "location", Usage: "where the check-out happened"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		return withStudio(func(st *studio) error {
			return runCheck(cmd, st, attendance.CheckOut, args[0], location)
		})
	},
}.Build()

func runCheck(cmd *cobra.Command, st *studio, typ attendance.Type, identifier, location string) error {
	p, err := st.findPerson(cmd, identifier)
	if err != nil {
		return err
	}
	if !p.Active {
		return fmt.Errorf("personnel '%s' is inactive", p.Name)
	}

	rec := attendance.Recorder{Store: st.store, Now: st.now}
	record := rec.CheckIn
	verb := "checked in"
	if typ == attendance.CheckOut {
		record = rec.CheckOut
		verb = "checked out"
	}

	e, err := record(cmd.Context(), p.ID, p.Name, location)
	if errors.Is(err, docstore.ErrExists) {
		return fmt.Errorf("%s already %s at this time", p.Name, verb)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
		Primary(p.Name), Text(verb+" at"), Info(e.Timestamp.In(st.loc).Format("15:04")))
	return nil
}
