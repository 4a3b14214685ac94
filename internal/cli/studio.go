package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/attendance"
	"github.com/azzylc/gmt-app-main-sub000/internal/config"
	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
	"github.com/azzylc/gmt-app-main-sub000/internal/personnel"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/azzylc/gmt-app-main-sub000/internal/taxonomy"
	"github.com/spf13/cobra"
)

var errAborted = errors.New("aborted")

// studio is the per-invocation context shared by every command.
type studio struct {
	cfg   *config.Config
	store docstore.Store
	loc   *time.Location
	tags  *taxonomy.Reconciler
	now   func() time.Time
}

// openStudio loads the config and opens the SQLite store it points at.
func openStudio(homeDir string, lookup config.LookupFunc, now func() time.Time) (*studio, error) {
	cfg, err := config.Load(homeDir, lookup)
	if err != nil {
		return nil, err
	}
	path := cfg.DatabasePath(homeDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	store, err := docstore.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return newStudio(cfg, store, now)
}

func newStudio(cfg *config.Config, store docstore.Store, now func() time.Time) (*studio, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &studio{
		cfg:   cfg,
		store: store,
		loc:   loc,
		tags:  taxonomy.NewReconciler(store, now).WithDefaultColor(cfg.TagColor),
		now:   now,
	}, nil
}

func (s *studio) Close() error {
	return s.store.Close()
}

// today returns the current time in the studio's timezone.
func (s *studio) today() time.Time {
	return s.now().In(s.loc)
}

// withStudio opens the studio for the current user and runs fn.
func withStudio(fn func(st *studio) error) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	st, err := openStudio(homeDir, os.LookupEnv, time.Now)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(st)
}

// ensureRepaired runs the one-time tag repair. A failure is reported as a
// warning and the command carries on.
func (s *studio) ensureRepaired(cmd *cobra.Command) {
	res, err := s.tags.Repair(cmd.Context())
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", Warning(fmt.Sprintf("tag repair failed, tags may reference removed names: %s", err)))
		return
	}
	if res.Changed() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", Info(fmt.Sprintf("repaired %d tag(s) and %d personnel record(s)", res.TagsFixed, res.PersonnelFixed)))
	}
}

// shiftFunc resolves shifts from each person's own schedule, falling back to
// the studio default.
func (s *studio) shiftFunc(people []personnel.Personnel) attendance.ShiftFunc {
	byID := make(map[string][]schedule.ShiftEntry, len(people))
	for _, p := range people {
		if len(p.Schedule) > 0 {
			byID[p.ID] = p.Schedule
		}
	}
	defaults := s.cfg.DefaultShifts()
	return func(personID string, day time.Time) (schedule.Shift, bool) {
		entries, ok := byID[personID]
		if !ok {
			entries = defaults
		}
		shift, ok, err := schedule.ShiftFor(entries, day)
		if err != nil {
			return schedule.Shift{}, false
		}
		return shift, ok
	}
}

// findPerson resolves a personnel record by ID or exact name.
func (s *studio) findPerson(cmd *cobra.Command, identifier string) (personnel.Personnel, error) {
	if p, err := personnel.Get(cmd.Context(), s.store, identifier); err == nil {
		return p, nil
	}
	people, err := personnel.List(cmd.Context(), s.store)
	if err != nil {
		return personnel.Personnel{}, err
	}
	for _, p := range people {
		if p.Name == identifier {
			return p, nil
		}
	}
	return personnel.Personnel{}, fmt.Errorf("personnel '%s' not found", identifier)
}

// findTag resolves a tag by ID or exact name.
func (s *studio) findTag(cmd *cobra.Command, identifier string) (taxonomy.Tag, error) {
	tags, err := taxonomy.List(cmd.Context(), s.store)
	if err != nil {
		return taxonomy.Tag{}, err
	}
	for _, t := range tags {
		if t.ID == identifier {
			return t, nil
		}
	}
	if t := taxonomy.FindByName(tags, identifier); t != nil {
		return *t, nil
	}
	return taxonomy.Tag{}, fmt.Errorf("tag '%s' not found", identifier)
}
