package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	TickInterval      string `toml:"tick_interval"`
	MaxCatchUp        int    `toml:"max_catch_up"`
	DataDir           string `toml:"data_dir"`
	SnapshotFile      string `toml:"snapshot_file"`
	RecordLogFile     string `toml:"record_log_file"`
	RosterFile        string `toml:"roster_file"`
	WatchRoster       *bool  `toml:"watch_roster"`
	ServiceURL        string `toml:"service_url"`
	AuthKey           string `toml:"auth_key"`
	SendInterval      string `toml:"send_interval"`
	MaxBatchSize      int    `toml:"max_batch_size"`
	HTTPTimeout       string `toml:"http_timeout"`
	NATSURL           string `toml:"nats_url"`
	NATSSubjectPrefix string `toml:"nats_subject_prefix"`
	DatabaseURL       string `toml:"database_url"`
	CuesEnabled       *bool  `toml:"cues"`
	LogLevel          string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.swimset/config.toml, or "" when there is no home directory.
func DefaultConfigPath() string {
	if dir := DefaultDataDir(); dir != "" {
		return filepath.Join(dir, "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data-dir", fc.DataDir, &cfg.DataDir)
	s.setString("snapshot", fc.SnapshotFile, &cfg.SnapshotFile)
	s.setString("record-log", fc.RecordLogFile, &cfg.RecordLogFile)
	s.setString("roster", fc.RosterFile, &cfg.RosterFile)
	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)
	s.setString("nats-url", fc.NATSURL, &cfg.NATSURL)
	s.setString("nats-prefix", fc.NATSSubjectPrefix, &cfg.NATSSubjectPrefix)
	s.setString("database-url", fc.DatabaseURL, &cfg.DatabaseURL)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("tick", fc.TickInterval, &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("send-interval", fc.SendInterval, &cfg.SendInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setInt("max-catch-up", fc.MaxCatchUp, &cfg.MaxCatchUp)
	s.setInt("max-batch-size", fc.MaxBatchSize, &cfg.MaxBatchSize)

	s.setBool("watch-roster", fc.WatchRoster, &cfg.WatchRoster)
	s.setBool("cues", fc.CuesEnabled, &cfg.CuesEnabled)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
