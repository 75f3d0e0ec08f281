package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// RunnerConfig contains configuration for the runner loop.
type RunnerConfig struct {
	TickInterval    time.Duration
	MaxCatchUp      int
	ShutdownTimeout time.Duration
}

// Runner owns an Engine and drives it from a single goroutine: clock ticks and
// operator commands are handled on one select loop, so no command interleaves
// with a tick or with another command.
type Runner struct {
	mu        sync.Mutex
	config    RunnerConfig
	engine    *Engine
	clock     *TimerClock
	lifecycle *Lifecycle
	store     ports.SnapshotStore
	logger    ports.Logger

	cmds chan command
	done chan struct{}
}

type command struct {
	fn    func(*Engine) error
	reply chan error
}

// NewRunner creates a runner for engine. store may be nil, in which case no
// snapshot is loaded on start or saved on stop.
func NewRunner(
	config RunnerConfig,
	engine *Engine,
	clock clockwork.Clock,
	store ports.SnapshotStore,
	logger ports.Logger,
	emitter EventEmitter,
) *Runner {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = ShutdownTimeout
	}
	tc := NewTimerClock(clock, config.TickInterval, config.MaxCatchUp, logger)
	tc.Subscribe(engine.Tick)
	return &Runner{
		config:    config,
		engine:    engine,
		clock:     tc,
		lifecycle: NewLifecycle(logger, emitter),
		store:     store,
		logger:    logger,
		cmds:      make(chan command),
	}
}

// Start loads the saved snapshot, if any, and starts the loop in the background.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := r.lifecycle.TransitionTo(StateStarting, "Start() called"); err != nil {
		return err
	}

	if r.store != nil {
		snap, err := r.store.Load(ctx)
		if err == nil {
			err = r.engine.Import(snap)
		}
		if err != nil {
			_ = r.lifecycle.TransitionTo(StateCrashed, "snapshot load failed")
			return fmt.Errorf("load snapshot: %w", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.lifecycle.SetCancel(cancel)
	r.done = make(chan struct{})
	r.clock.last = r.clock.clock.Now()

	r.lifecycle.AddWorker()
	go r.loop(runCtx, r.done)

	return r.lifecycle.TransitionTo(StateRunning, "loop started")
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer r.lifecycle.WorkerDone()
	defer close(done)

	ticker := r.clock.Ticker()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.clock.Advance()
		case c := <-r.cmds:
			c.reply <- c.fn(r.engine)
		}
	}
}

// Do runs fn on the loop goroutine and returns its error. fn must not retain
// the engine after it returns.
func (r *Runner) Do(ctx context.Context, fn func(*Engine) error) error {
	r.mu.Lock()
	done := r.done
	running := r.lifecycle.State() == StateRunning
	r.mu.Unlock()
	if !running {
		return domain.ErrNotRunning
	}

	c := command{fn: fn, reply: make(chan error, 1)}
	select {
	case r.cmds <- c:
	case <-done:
		return domain.ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-c.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot exports the engine state from the loop goroutine.
func (r *Runner) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := r.Do(ctx, func(e *Engine) error {
		snap = e.Export()
		return nil
	})
	return snap, err
}

// Save writes a snapshot to the configured store.
func (r *Runner) Save(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, snap)
}

// Stop ends the loop, waiting up to the shutdown timeout, and saves a snapshot.
// Returns ErrShutdownTimeout if the loop did not exit in time.
func (r *Runner) Stop() error {
	r.mu.Lock()
	if !r.lifecycle.CanStop() {
		r.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := r.lifecycle.TransitionTo(StateStopping, "Stop() called"); err != nil {
		r.mu.Unlock()
		return err
	}
	r.lifecycle.Cancel()
	r.mu.Unlock()

	err := r.lifecycle.WaitWithTimeout(r.config.ShutdownTimeout)
	if err != nil {
		_ = r.lifecycle.TransitionTo(StateCrashed, "shutdown timeout")
		return err
	}

	// The loop has exited, so the engine is safe to read here.
	if r.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if saveErr := r.store.Save(ctx, r.engine.Export()); saveErr != nil {
			r.logger.Error("failed to save snapshot", ports.Err(saveErr))
			err = errors.Join(err, saveErr)
		}
	}

	_ = r.lifecycle.TransitionTo(StateStopped, "graceful shutdown")
	return err
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return r.lifecycle.State()
}
