package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/swimset/internal/domain"
)

// Default file names inside the data directory.
const (
	DefaultSnapshotName  = "snapshot.json"
	DefaultRecordLogName = "records.jsonl"
	DefaultSubjectPrefix = "swimset"
)

// Config holds CLI configuration for swimset.
type Config struct {
	TickInterval time.Duration
	MaxCatchUp   int

	DataDir       string
	SnapshotFile  string
	RecordLogFile string
	RosterFile    string
	WatchRoster   bool

	ServiceURL   string
	AuthKey      string
	SendInterval time.Duration
	MaxBatchSize int
	HTTPTimeout  time.Duration

	NATSURL           string
	NATSSubjectPrefix string

	DatabaseURL string

	CuesEnabled bool
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		TickInterval:      10 * time.Millisecond,
		MaxCatchUp:        100,
		SendInterval:      5 * time.Second,
		MaxBatchSize:      50,
		HTTPTimeout:       15 * time.Second,
		NATSSubjectPrefix: DefaultSubjectPrefix,
		CuesEnabled:       true,
		LogLevel:          "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", domain.ErrInvalidConfig)
	}
	if c.MaxCatchUp <= 0 {
		return fmt.Errorf("%w: max catch-up must be positive", domain.ErrInvalidConfig)
	}

	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.SnapshotFile == "" && c.DataDir != "" {
		c.SnapshotFile = filepath.Join(c.DataDir, DefaultSnapshotName)
	}
	if c.RecordLogFile == "" && c.DataDir != "" {
		c.RecordLogFile = filepath.Join(c.DataDir, DefaultRecordLogName)
	}
	if c.WatchRoster && c.RosterFile == "" {
		return fmt.Errorf("%w: watch-roster requires a roster file", domain.ErrInvalidConfig)
	}

	// Ensure no trailing slash
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")
	if c.ServiceURL != "" && c.SendInterval <= 0 {
		return fmt.Errorf("%w: send interval must be positive", domain.ErrInvalidConfig)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("%w: max batch size must be positive", domain.ErrInvalidConfig)
	}

	if c.NATSSubjectPrefix == "" {
		c.NATSSubjectPrefix = DefaultSubjectPrefix
	}
	if strings.ContainsAny(c.NATSSubjectPrefix, " *>") {
		return fmt.Errorf("%w: invalid subject prefix %q", domain.ErrInvalidConfig, c.NATSSubjectPrefix)
	}

	return nil
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.AuthKey != "" {
		c.AuthKey = "*****"
	}
	if c.DatabaseURL != "" {
		c.DatabaseURL = "*****"
	}
	return c
}

// DefaultDataDir returns ~/.swimset if the user home directory is accessible.
func DefaultDataDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".swimset")
	}
	return ""
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
