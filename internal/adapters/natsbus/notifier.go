// Package natsbus publishes cues and records to a NATS server.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// DefaultSubjectPrefix is the subject prefix used when none is configured.
const DefaultSubjectPrefix = "swimset"

// publisher is the part of *nats.Conn the adapters use.
type publisher interface {
	Publish(subject string, data []byte) error
}

// Connect opens a connection that reconnects forever and logs connection changes.
func Connect(url string, logger ports.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("swimset"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", ports.Err(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", ports.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error("NATS error", ports.Err(err))
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

type cueMessage struct {
	Cue domain.Cue `json:"cue"`
	At  time.Time  `json:"at"`
}

// Notifier implements ports.Notifier by publishing each cue to
// "<prefix>.cue.<cue>". Publish failures are logged and dropped.
type Notifier struct {
	conn   publisher
	prefix string
	clock  clockwork.Clock
	logger ports.Logger
}

// NewNotifier creates a notifier publishing on conn.
func NewNotifier(conn publisher, prefix string, clock clockwork.Clock, logger ports.Logger) *Notifier {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Notifier{conn: conn, prefix: prefix, clock: clock, logger: logger}
}

// Emit publishes the cue.
func (n *Notifier) Emit(c domain.Cue) {
	data, err := json.Marshal(cueMessage{Cue: c, At: n.clock.Now()})
	if err != nil {
		n.logger.Error("encode cue", ports.Err(err))
		return
	}
	subject := n.prefix + ".cue." + string(c)
	if err := n.conn.Publish(subject, data); err != nil {
		n.logger.Warn("publish cue failed", ports.String("subject", subject), ports.Err(err))
	}
}

// RecordPublisher implements ports.RecordSender by publishing each record to
// "<prefix>.records".
type RecordPublisher struct {
	conn    publisher
	subject string
}

// NewRecordPublisher creates a record publisher on conn.
func NewRecordPublisher(conn publisher, prefix string) *RecordPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &RecordPublisher{conn: conn, subject: prefix + ".records"}
}

// Send publishes the records in order and stops at the first failure.
func (p *RecordPublisher) Send(ctx context.Context, records []domain.Record) error {
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", r.ID, err)
		}
		if err := p.conn.Publish(p.subject, data); err != nil {
			return fmt.Errorf("publish record %s: %w", r.ID, err)
		}
	}
	return nil
}
