package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// ShipperConfig contains configuration for a RecordShipper.
type ShipperConfig struct {
	SendInterval   time.Duration
	MaxBatchSize   int
	BufferSize     int
	FlushTimeout   time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// DefaultShipperConfig returns the shipper defaults.
func DefaultShipperConfig() ShipperConfig {
	return ShipperConfig{
		SendInterval:   5 * time.Second,
		MaxBatchSize:   50,
		BufferSize:     1024,
		FlushTimeout:   10 * time.Second,
		BackoffInitial: DefaultBackoffInitial,
		BackoffMax:     DefaultBackoffMax,
	}
}

// RecordShipper is a RecordSink that ships records in batches to a
// RecordSender from its own goroutine. Append never blocks the engine.
// Failed batches are kept and retried after a backoff.
type RecordShipper struct {
	config  ShipperConfig
	name    string
	sender  ports.RecordSender
	clock   clockwork.Clock
	logger  ports.Logger
	batcher *Batcher
	backoff *backoff

	in     chan domain.Record
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRecordShipper creates a shipper. name identifies the destination in logs.
func NewRecordShipper(config ShipperConfig, name string, sender ports.RecordSender, clock clockwork.Clock, logger ports.Logger) *RecordShipper {
	def := DefaultShipperConfig()
	if config.SendInterval <= 0 {
		config.SendInterval = def.SendInterval
	}
	if config.BufferSize <= 0 {
		config.BufferSize = def.BufferSize
	}
	if config.FlushTimeout <= 0 {
		config.FlushTimeout = def.FlushTimeout
	}
	if config.BackoffInitial <= 0 {
		config.BackoffInitial = def.BackoffInitial
	}
	if config.BackoffMax <= 0 {
		config.BackoffMax = def.BackoffMax
	}
	return &RecordShipper{
		config:  config,
		name:    name,
		sender:  sender,
		clock:   clock,
		logger:  logger,
		batcher: NewBatcher(clock, config.MaxBatchSize, config.SendInterval),
		backoff: newBackoff(clock, config.BackoffInitial, config.BackoffMax),
		in:      make(chan domain.Record, config.BufferSize),
	}
}

// Append queues a record for shipping.
func (s *RecordShipper) Append(r domain.Record) error {
	select {
	case s.in <- r.Clone():
		return nil
	default:
		return fmt.Errorf("ship to %s: %w", s.name, domain.ErrBufferFull)
	}
}

// Start runs the shipping loop until ctx is canceled or Close is called.
func (s *RecordShipper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx)
}

// Close stops the loop after a final flush.
func (s *RecordShipper) Close() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	<-s.done
	return nil
}

func (s *RecordShipper) run(ctx context.Context) {
	defer close(s.done)

	ticker := s.clock.NewTicker(s.config.SendInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.drain()
			flushCtx, cancel := context.WithTimeout(context.Background(), s.config.FlushTimeout)
			if err := s.send(flushCtx); err != nil {
				s.logger.Error("final record flush failed",
					ports.String("sink", s.name),
					ports.Int("records", s.batcher.Len()),
					ports.Err(err),
				)
			}
			cancel()
			return
		case r := <-s.in:
			if s.batcher.Add(r) {
				s.trySend(ctx)
			}
		case <-ticker.Chan():
			if s.batcher.ShouldSend() {
				s.trySend(ctx)
			}
		}
	}
}

func (s *RecordShipper) drain() {
	for {
		select {
		case r := <-s.in:
			s.batcher.Add(r)
		default:
			return
		}
	}
}

// trySend attempts to send the current batch, backing off on failure.
func (s *RecordShipper) trySend(ctx context.Context) {
	if err := s.send(ctx); err != nil {
		s.logger.Error("send failed",
			ports.String("sink", s.name),
			ports.Int("records", s.batcher.Len()),
			ports.Duration("backoff", s.backoff.Current()),
			ports.Err(err),
		)
		_ = s.backoff.Wait(ctx)
		return
	}
	s.backoff.Reset()
}

func (s *RecordShipper) send(ctx context.Context) error {
	if !s.batcher.HasPending() {
		return nil
	}
	records := s.batcher.Records()
	start := s.clock.Now()
	if err := s.sender.Send(ctx, records); err != nil {
		return err
	}
	s.logger.Info("sent records",
		ports.String("sink", s.name),
		ports.Int("records", len(records)),
		ports.Duration("duration", s.clock.Since(start)),
	)
	s.batcher.Reset()
	return nil
}
