package app

import (
	"errors"

	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// RecordSinks appends each record to every sink in order. One failing sink
// does not stop the others; their errors are joined.
type RecordSinks []ports.RecordSink

// Append implements ports.RecordSink.
func (s RecordSinks) Append(r domain.Record) error {
	var errs []error
	for _, sink := range s {
		if err := sink.Append(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Notifiers emits each cue to every notifier in order.
type Notifiers []ports.Notifier

// Emit implements ports.Notifier.
func (n Notifiers) Emit(c domain.Cue) {
	for _, notifier := range n {
		notifier.Emit(c)
	}
}
