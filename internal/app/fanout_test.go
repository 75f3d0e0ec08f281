package app

import (
	"errors"
	"testing"

	"github.com/bft-labs/swimset/internal/domain"
)

func TestRecordSinks_AppendsToAll(t *testing.T) {
	failing := &mockSink{err: errors.New("offline")}
	a, b := &mockSink{}, &mockSink{}

	err := RecordSinks{a, failing, b}.Append(domain.Record{ID: "r"})
	if err == nil || err.Error() != "offline" {
		t.Errorf("Append() = %v, want offline", err)
	}
	if len(a.records) != 1 || len(b.records) != 1 {
		t.Errorf("records = %d, %d, want 1, 1", len(a.records), len(b.records))
	}
	if err := (RecordSinks{}).Append(domain.Record{}); err != nil {
		t.Errorf("empty Append() = %v", err)
	}
}

func TestNotifiers_EmitsToAll(t *testing.T) {
	a, b := &mockNotifier{}, &mockNotifier{}
	Notifiers{a, b}.Emit(domain.CueFinish)
	if len(a.cues) != 1 || len(b.cues) != 1 {
		t.Errorf("cues = %v, %v", a.cues, b.cues)
	}
}
