package ports

import (
	"context"

	"github.com/bft-labs/swimset/internal/domain"
)

// RecordSink persists confirmed records. It is called synchronously from the
// engine, so implementations that talk to slow storage should queue the record
// and return. A returned error is logged; it never rolls back the result.
type RecordSink interface {
	Append(record domain.Record) error
}

// RecordSender delivers a batch of records to a remote store.
// Implementations return an error for the caller to retry.
type RecordSender interface {
	Send(ctx context.Context, records []domain.Record) error
}
