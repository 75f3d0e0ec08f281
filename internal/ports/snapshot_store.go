package ports

import (
	"context"

	"github.com/bft-labs/swimset/internal/domain"
)

// SnapshotStore exports and imports engine state.
type SnapshotStore interface {
	// Load retrieves the saved snapshot.
	// Returns an empty snapshot and nil error if nothing was saved yet.
	Load(ctx context.Context) (domain.Snapshot, error)

	// Save persists the snapshot atomically.
	Save(ctx context.Context, snapshot domain.Snapshot) error
}
