package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"SWIMSET_DATA_DIR":      "/env/data",
				"SWIMSET_TICK_INTERVAL": "20ms",
				"SWIMSET_MAX_CATCH_UP":  "40",
				"SWIMSET_WATCH_ROSTER":  "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				DataDir:      "/env/data",
				TickInterval: 20 * time.Millisecond,
				MaxCatchUp:   40,
				WatchRoster:  true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"SWIMSET_DATA_DIR":  "/env/data",
				"SWIMSET_LOG_LEVEL": "debug",
			},
			changed: map[string]bool{"data-dir": true},
			initial: Config{
				DataDir: "/flag/data",
			},
			expected: Config{
				DataDir:  "/flag/data",
				LogLevel: "debug",
			},
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"SWIMSET_TICK_INTERVAL": "not-a-duration",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"SWIMSET_MAX_BATCH_SIZE": "not-a-number",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "non-positive int is ignored",
			envVars: map[string]string{
				"SWIMSET_MAX_CATCH_UP": "0",
			},
			changed:  map[string]bool{},
			initial:  Config{MaxCatchUp: 100},
			expected: Config{MaxCatchUp: 100},
		},
		{
			name: "handles bool '1' as true",
			envVars: map[string]string{
				"SWIMSET_CUES": "1",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{CuesEnabled: true},
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"SWIMSET_CUES": "false",
			},
			changed:  map[string]bool{},
			initial:  Config{CuesEnabled: true},
			expected: Config{CuesEnabled: false},
		},
		{
			name: "handles all field types correctly",
			envVars: map[string]string{
				"SWIMSET_TICK_INTERVAL":       "5ms",
				"SWIMSET_MAX_CATCH_UP":        "10",
				"SWIMSET_DATA_DIR":            "/data",
				"SWIMSET_SNAPSHOT_FILE":       "/data/snap.json",
				"SWIMSET_RECORD_LOG_FILE":     "/data/rec.jsonl",
				"SWIMSET_ROSTER_FILE":         "/data/roster.yaml",
				"SWIMSET_WATCH_ROSTER":        "1",
				"SWIMSET_SERVICE_URL":         "http://example.com",
				"SWIMSET_AUTH_KEY":            "secret",
				"SWIMSET_SEND_INTERVAL":       "2m",
				"SWIMSET_MAX_BATCH_SIZE":      "25",
				"SWIMSET_HTTP_TIMEOUT":        "30s",
				"SWIMSET_NATS_URL":            "nats://localhost:4222",
				"SWIMSET_NATS_SUBJECT_PREFIX": "pool",
				"SWIMSET_DATABASE_URL":        "postgres://localhost/swim",
				"SWIMSET_CUES":                "true",
				"SWIMSET_LOG_LEVEL":           "warn",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				TickInterval:      5 * time.Millisecond,
				MaxCatchUp:        10,
				DataDir:           "/data",
				SnapshotFile:      "/data/snap.json",
				RecordLogFile:     "/data/rec.jsonl",
				RosterFile:        "/data/roster.yaml",
				WatchRoster:       true,
				ServiceURL:        "http://example.com",
				AuthKey:           "secret",
				SendInterval:      2 * time.Minute,
				MaxBatchSize:      25,
				HTTPTimeout:       30 * time.Second,
				NATSURL:           "nats://localhost:4222",
				NATSSubjectPrefix: "pool",
				DatabaseURL:       "postgres://localhost/swim",
				CuesEnabled:       true,
				LogLevel:          "warn",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}
