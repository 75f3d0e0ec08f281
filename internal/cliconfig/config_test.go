package cliconfig

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/swimset/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TickInterval != 10*time.Millisecond {
		t.Errorf("TickInterval = %v, want 10ms", cfg.TickInterval)
	}
	if cfg.MaxCatchUp != 100 {
		t.Errorf("MaxCatchUp = %v, want 100", cfg.MaxCatchUp)
	}
	if cfg.NATSSubjectPrefix != DefaultSubjectPrefix {
		t.Errorf("NATSSubjectPrefix = %v, want %v", cfg.NATSSubjectPrefix, DefaultSubjectPrefix)
	}
	if !cfg.CuesEnabled {
		t.Error("CuesEnabled = false, want true")
	}
	if cfg.ServiceURL != "" {
		t.Errorf("ServiceURL = %v, want empty", cfg.ServiceURL)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.DataDir = "/tmp/swimset"
		return cfg
	}

	tests := []struct {
		name           string
		mutate         func(*Config)
		wantErr        bool
		wantServiceURL string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "zero tick interval",
			mutate:  func(c *Config) { c.TickInterval = 0 },
			wantErr: true,
		},
		{
			name:    "negative max catch-up",
			mutate:  func(c *Config) { c.MaxCatchUp = -1 },
			wantErr: true,
		},
		{
			name:    "watch roster without roster file",
			mutate:  func(c *Config) { c.WatchRoster = true },
			wantErr: true,
		},
		{
			name: "watch roster with roster file",
			mutate: func(c *Config) {
				c.WatchRoster = true
				c.RosterFile = "/tmp/roster.yaml"
			},
		},
		{
			name: "service url trailing slash is trimmed",
			mutate: func(c *Config) {
				c.ServiceURL = "http://localhost:8080/"
			},
			wantServiceURL: "http://localhost:8080",
		},
		{
			name: "service url needs send interval",
			mutate: func(c *Config) {
				c.ServiceURL = "http://localhost:8080"
				c.SendInterval = 0
			},
			wantErr: true,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.MaxBatchSize = 0 },
			wantErr: true,
		},
		{
			name:    "wildcard subject prefix",
			mutate:  func(c *Config) { c.NATSSubjectPrefix = "pool.*" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
			if err == nil && tt.wantServiceURL != "" && cfg.ServiceURL != tt.wantServiceURL {
				t.Errorf("ServiceURL = %v, want %v", cfg.ServiceURL, tt.wantServiceURL)
			}
		})
	}
}

func TestConfig_Validate_Derivations(t *testing.T) {
	c1 := DefaultConfig()
	c1.DataDir = "/data"
	c1.NATSSubjectPrefix = ""
	if err := c1.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if want := filepath.Join("/data", DefaultSnapshotName); c1.SnapshotFile != want {
		t.Errorf("SnapshotFile = %v, want %v", c1.SnapshotFile, want)
	}
	if want := filepath.Join("/data", DefaultRecordLogName); c1.RecordLogFile != want {
		t.Errorf("RecordLogFile = %v, want %v", c1.RecordLogFile, want)
	}
	if c1.NATSSubjectPrefix != DefaultSubjectPrefix {
		t.Errorf("NATSSubjectPrefix = %v, want %v", c1.NATSSubjectPrefix, DefaultSubjectPrefix)
	}

	// Explicit paths are kept
	c2 := DefaultConfig()
	c2.DataDir = "/data"
	c2.SnapshotFile = "/elsewhere/state.json"
	if err := c2.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c2.SnapshotFile != "/elsewhere/state.json" {
		t.Errorf("SnapshotFile = %v, want /elsewhere/state.json", c2.SnapshotFile)
	}
}

func TestConfig_Masked(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AuthKey = "secret"
	cfg.DatabaseURL = "postgres://user:pw@localhost/swim"

	masked := cfg.Masked()
	if masked.AuthKey != "*****" || masked.DatabaseURL != "*****" {
		t.Errorf("Masked() = %+v, want credentials hidden", masked)
	}
	if cfg.AuthKey != "secret" {
		t.Error("Masked() modified the receiver")
	}
}
