package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/swimset/internal/adapters/fs"
	httpAdapter "github.com/bft-labs/swimset/internal/adapters/http"
	logAdapter "github.com/bft-labs/swimset/internal/adapters/log"
	"github.com/bft-labs/swimset/internal/adapters/natsbus"
	"github.com/bft-labs/swimset/internal/adapters/postgres"
	"github.com/bft-labs/swimset/internal/app"
	"github.com/bft-labs/swimset/internal/cliconfig"
	"github.com/bft-labs/swimset/internal/console"
	"github.com/bft-labs/swimset/internal/ports"
)

const helpDescription = `
Time swim repeats from the pool deck: start, split and finish athletes by lane,
rank them in touch order, run rest countdowns and step through sets.

Configuration is read from $HOME/.swimset/config.toml, then SWIMSET_*
environment variables (a .env file in the working directory is loaded first),
then flags.
`

var exampleUsage = strings.TrimSpace(`
  swimset --roster roster.yaml --watch-roster
  swimset --config $HOME/.swimset/config.toml --nats-url nats://localhost:4222
  swimset history --record-log $HOME/.swimset/records.jsonl
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	root := &cobra.Command{
		Use:           "swimset",
		Short:         "Swim repeat timing console",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfgPath, &cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	history := &cobra.Command{
		Use:   "history",
		Short: "Print stored results from the record log or the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfgPath, &cfg); err != nil {
				return err
			}
			return printHistory(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	root.AddCommand(history)

	// Flags shared by the console and history
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.swimset/config.toml)")
	pf.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the snapshot and record log (default: $HOME/.swimset)")
	pf.StringVar(&cfg.RecordLogFile, "record-log", cfg.RecordLogFile, "JSON lines file every record is appended to")
	pf.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres URL to store records in (optional)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	f := root.Flags()
	f.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "timer tick interval")
	f.IntVar(&cfg.MaxCatchUp, "max-catch-up", cfg.MaxCatchUp, "most ticks delivered at once after a stall")
	f.StringVar(&cfg.SnapshotFile, "snapshot", cfg.SnapshotFile, "snapshot file loaded on start and saved on exit")
	f.StringVar(&cfg.RosterFile, "roster", cfg.RosterFile, "YAML roster of groups and sessions applied on start")
	f.BoolVar(&cfg.WatchRoster, "watch-roster", cfg.WatchRoster, "reapply the roster when the file changes")
	f.StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "results service URL (optional)")
	f.StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "API key for the results service")
	f.DurationVar(&cfg.SendInterval, "send-interval", cfg.SendInterval, "longest wait before a partial batch is shipped")
	f.IntVar(&cfg.MaxBatchSize, "max-batch-size", cfg.MaxBatchSize, "records per shipped batch")
	f.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	f.StringVar(&cfg.NATSURL, "nats-url", cfg.NATSURL, "NATS server for cues and records (optional)")
	f.StringVar(&cfg.NATSSubjectPrefix, "nats-prefix", cfg.NATSSubjectPrefix, "NATS subject prefix")
	f.BoolVar(&cfg.CuesEnabled, "cues", cfg.CuesEnabled, "emit cues to the log and NATS")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "swimset: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers the config file, then the environment, under the flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command, cfgPath string, cfg *cliconfig.Config) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}

func run(ctx context.Context, cfg cliconfig.Config) (err error) {
	logger, err := logAdapter.NewZerologAdapter(cfg.LogLevel)
	if err != nil {
		return err
	}
	zl := logger.Logger()
	zl.Info().Interface("config", cfg.Masked()).Msg("configuration")

	clock := clockwork.NewRealClock()
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	var sinks app.RecordSinks
	var notifiers app.Notifiers

	if cfg.RecordLogFile != "" {
		recordLog, err := fs.OpenRecordLog(cfg.RecordLogFile)
		if err != nil {
			return err
		}
		closers = append(closers, func() { _ = recordLog.Close() })
		sinks = append(sinks, recordLog)
	}

	shipperCfg := app.DefaultShipperConfig()
	shipperCfg.SendInterval = cfg.SendInterval
	shipperCfg.MaxBatchSize = cfg.MaxBatchSize
	var shippers []*app.RecordShipper
	addShipper := func(name string, sender ports.RecordSender) {
		s := app.NewRecordShipper(shipperCfg, name, sender, clock, logger)
		shippers = append(shippers, s)
		sinks = append(sinks, s)
	}

	if cfg.ServiceURL != "" {
		hostname, _ := os.Hostname()
		client := &http.Client{Timeout: cfg.HTTPTimeout}
		addShipper("http", httpAdapter.NewRecordSender(client, cfg.ServiceURL, cfg.AuthKey, hostname))
	}

	if cfg.DatabaseURL != "" {
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		closers = append(closers, store.Close)
		addShipper("postgres", store)
	}

	if cfg.NATSURL != "" {
		conn, err := natsbus.Connect(cfg.NATSURL, logger)
		if err != nil {
			return err
		}
		closers = append(closers, conn.Close)
		addShipper("nats", natsbus.NewRecordPublisher(conn, cfg.NATSSubjectPrefix))
		if cfg.CuesEnabled {
			notifiers = append(notifiers, natsbus.NewNotifier(conn, cfg.NATSSubjectPrefix, clock, logger))
		}
	}
	if cfg.CuesEnabled {
		notifiers = append(notifiers, logAdapter.NewCueLogger(logger))
	}

	engine := app.NewEngine(
		app.WithLogger(logger),
		app.WithClock(clock),
		app.WithRecordSink(sinks),
		app.WithNotifier(notifiers),
	)

	var store ports.SnapshotStore
	if cfg.SnapshotFile != "" {
		store = fs.NewSnapshotFile(cfg.SnapshotFile)
	}

	runner := app.NewRunner(app.RunnerConfig{
		TickInterval: cfg.TickInterval,
		MaxCatchUp:   cfg.MaxCatchUp,
	}, engine, clock, store, logger, nil)

	shipCtx, cancelShippers := context.WithCancel(context.Background())
	for _, s := range shippers {
		s.Start(shipCtx)
	}
	defer func() {
		cancelShippers()
		for _, s := range shippers {
			if cerr := s.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
	}()

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start runner: %w", err)
	}
	defer func() {
		if serr := runner.Stop(); serr != nil {
			err = errors.Join(err, fmt.Errorf("stop runner: %w", serr))
		}
	}()

	if cfg.RosterFile != "" {
		roster, err := fs.LoadRoster(cfg.RosterFile)
		if err != nil {
			return err
		}
		if err := applyRoster(ctx, runner, roster); err != nil {
			return err
		}
		logger.Info("roster applied", ports.String("path", cfg.RosterFile),
			ports.Int("athletes", len(roster.Athletes)), ports.Int("sessions", len(roster.Sessions)))

		if cfg.WatchRoster {
			watcher := fs.NewRosterWatcher(cfg.RosterFile, fs.DefaultDebounceDelay, func(r fs.Roster) {
				if err := applyRoster(ctx, runner, r); err != nil {
					logger.Warn("roster not applied", ports.Err(err))
					return
				}
				logger.Info("roster reloaded", ports.String("path", cfg.RosterFile))
			}, logger)
			go func() {
				if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("roster watcher stopped", ports.Err(err))
				}
			}()
		}
	}

	c := console.New(runner, store, os.Stdout, logger)
	return c.Run(ctx, os.Stdin)
}

func applyRoster(ctx context.Context, runner *app.Runner, r fs.Roster) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return runner.Do(ctx, func(e *app.Engine) error {
		return e.ReplaceRoster(r.Athletes, r.Groups, r.Sessions)
	})
}
