package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (SWIMSET_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data-dir", os.Getenv("SWIMSET_DATA_DIR"), &cfg.DataDir)
	s.setString("snapshot", os.Getenv("SWIMSET_SNAPSHOT_FILE"), &cfg.SnapshotFile)
	s.setString("record-log", os.Getenv("SWIMSET_RECORD_LOG_FILE"), &cfg.RecordLogFile)
	s.setString("roster", os.Getenv("SWIMSET_ROSTER_FILE"), &cfg.RosterFile)
	s.setString("service-url", os.Getenv("SWIMSET_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("auth-key", os.Getenv("SWIMSET_AUTH_KEY"), &cfg.AuthKey)
	s.setString("nats-url", os.Getenv("SWIMSET_NATS_URL"), &cfg.NATSURL)
	s.setString("nats-prefix", os.Getenv("SWIMSET_NATS_SUBJECT_PREFIX"), &cfg.NATSSubjectPrefix)
	s.setString("database-url", os.Getenv("SWIMSET_DATABASE_URL"), &cfg.DatabaseURL)
	s.setString("log-level", os.Getenv("SWIMSET_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("tick", os.Getenv("SWIMSET_TICK_INTERVAL"), &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("send-interval", os.Getenv("SWIMSET_SEND_INTERVAL"), &cfg.SendInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("SWIMSET_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("max-catch-up", os.Getenv("SWIMSET_MAX_CATCH_UP"), &cfg.MaxCatchUp); err != nil {
		return err
	}
	if err := s.setIntFromString("max-batch-size", os.Getenv("SWIMSET_MAX_BATCH_SIZE"), &cfg.MaxBatchSize); err != nil {
		return err
	}

	s.setBoolFromString("watch-roster", os.Getenv("SWIMSET_WATCH_ROSTER"), &cfg.WatchRoster)
	s.setBoolFromString("cues", os.Getenv("SWIMSET_CUES"), &cfg.CuesEnabled)

	return nil
}
