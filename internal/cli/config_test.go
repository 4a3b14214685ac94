package cli

import (
	"testing"

	"github.com/azzylc/gmt-app-main-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShowDefaults(t *testing.T) {
	home := t.TempDir()
	cmd, out := newTestCmd()

	require.NoError(t, runConfigShow(cmd, home, nil))
	s := out.String()
	assert.Contains(t, s, "studio.db")
	assert.Contains(t, s, "local")
	assert.Contains(t, s, "(prompt)")
	assert.Contains(t, s, "09:00-18:00, Monday to Saturday")
	assert.Contains(t, s, "from year 6: 20 days/year")
	assert.Contains(t, s, "[manager]")
}

func TestConfigSet(t *testing.T) {
	home := t.TempDir()

	tests := []struct {
		key, value string
		check      func(t *testing.T, cfg *config.Config)
	}{
		{"timezone", "Europe/Istanbul", func(t *testing.T, cfg *config.Config) { assert.Equal(t, "Europe/Istanbul", cfg.Timezone) }},
		{"actor", " owner ", func(t *testing.T, cfg *config.Config) { assert.Equal(t, "owner", cfg.Actor) }},
		{"tag-color", "#FFC0CB", func(t *testing.T, cfg *config.Config) { assert.Equal(t, "#FFC0CB", cfg.TagColor) }},
		{"database", "/srv/studio.db", func(t *testing.T, cfg *config.Config) { assert.Equal(t, "/srv/studio.db", cfg.Database) }},
		{"shift", "10:00-19:00", func(t *testing.T, cfg *config.Config) {
			require.Len(t, cfg.Shifts, 1)
			assert.Equal(t, "10:00", cfg.Shifts[0].Ranges[0].From)
			assert.Equal(t, "19:00", cfg.Shifts[0].Ranges[0].To)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cmd, out := newTestCmd()
			require.NoError(t, runConfigSet(cmd, home, tt.key, tt.value, "FREQ=WEEKLY;BYDAY=TU,WE,TH,FR,SA"))
			assert.Contains(t, out.String(), tt.key+" set to")

			cfg, err := config.Read(home)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestConfigSetRejects(t *testing.T) {
	home := t.TempDir()
	cmd, _ := newTestCmd()

	assert.EqualError(t, runConfigSet(cmd, home, "colour", "x", ""), "unknown key 'colour' (valid: database, timezone, actor, tag-color, shift)")
	assert.Error(t, runConfigSet(cmd, home, "timezone", "Mars/Base", ""))
	assert.Error(t, runConfigSet(cmd, home, "shift", "nine to six", "FREQ=DAILY"))
	assert.Error(t, runConfigSet(cmd, home, "shift", "18:00-09:00", "FREQ=DAILY"))

	cfg, err := config.Read(home)
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg, "rejected values are not written")
}

func TestConfigReset(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, config.Write(home, &config.Config{Actor: "owner"}))

	cmd, _ := newTestCmd()
	decline := func(_ string) (bool, error) { return false, nil }
	assert.ErrorIs(t, runConfigReset(cmd, home, decline), errAborted)

	cmd, out := newTestCmd()
	require.NoError(t, runConfigReset(cmd, home, AlwaysYes()))
	assert.Contains(t, out.String(), "configuration reset to defaults")

	cfg, err := config.Read(home)
	require.NoError(t, err)
	assert.Empty(t, cfg.Actor)
}
