// Package config reads the studio console settings from
// ~/.studio/config.json, an optional .env file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/leave"
	"github.com/azzylc/gmt-app-main-sub000/internal/schedule"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDatabase = "STUDIO_DB"
	EnvTimezone = "STUDIO_TZ"
	EnvActor    = "STUDIO_ACTOR"
)

// Config holds the console settings. Empty fields fall back to defaults.
type Config struct {
	Database string                `json:"database,omitempty"`
	Timezone string                `json:"timezone,omitempty"`
	Actor    string                `json:"actor,omitempty"`
	Shifts   []schedule.ShiftEntry `json:"shifts,omitempty"`
	Leave    *leave.Policy         `json:"leave,omitempty"`
	TagColor string                `json:"tagColor,omitempty"`
}

// Dir returns the studio config directory.
func Dir(homeDir string) string {
	return filepath.Join(homeDir, ".studio")
}

// Path returns the path to config.json.
func Path(homeDir string) string {
	return filepath.Join(Dir(homeDir), "config.json")
}

// EnvPath returns the path to the optional .env file.
func EnvPath(homeDir string) string {
	return filepath.Join(Dir(homeDir), ".env")
}

// Read reads config.json. Returns an empty config if the file does not exist.
func Read(homeDir string) (*Config, error) {
	data, err := os.ReadFile(Path(homeDir))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", Path(homeDir), err)
	}
	return &cfg, nil
}

// Write writes config.json, creating the directory if needed.
func Write(homeDir string, cfg *Config) error {
	if err := os.MkdirAll(Dir(homeDir), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(homeDir), data, 0644)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads config.json and applies overrides. Values from the .env file
// are used only when lookup does not know the variable, so the real
// environment always wins.
func Load(homeDir string, lookup LookupFunc) (*Config, error) {
	cfg, err := Read(homeDir)
	if err != nil {
		return nil, err
	}

	dotenv, err := godotenv.Read(EnvPath(homeDir))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", EnvPath(homeDir), err)
	}
	get := func(key string) string {
		if lookup != nil {
			if v, ok := lookup(key); ok {
				return strings.TrimSpace(v)
			}
		}
		return strings.TrimSpace(dotenv[key])
	}

	if v := get(EnvDatabase); v != "" {
		cfg.Database = v
	}
	if v := get(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
	if v := get(EnvActor); v != "" {
		cfg.Actor = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the timezone, shifts and leave policy.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := schedule.Validate(c.Shifts); err != nil {
		return fmt.Errorf("shifts: %w", err)
	}
	if c.Leave != nil {
		if err := c.Leave.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DatabasePath returns the SQLite path, defaulting to studio.db in Dir.
func (c *Config) DatabasePath(homeDir string) string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(Dir(homeDir), "studio.db")
}

// Location resolves Timezone. Empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return loc, nil
}

// Policy returns the configured leave policy or leave.DefaultPolicy.
func (c *Config) Policy() leave.Policy {
	if c.Leave == nil {
		return leave.DefaultPolicy()
	}
	return *c.Leave
}

// DefaultShifts returns the studio-wide schedule used for staff without
// their own.
func (c *Config) DefaultShifts() []schedule.ShiftEntry {
	if len(c.Shifts) == 0 {
		return schedule.DefaultShifts()
	}
	return c.Shifts
}
