package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/swimset/internal/domain"
)

// SnapshotFile implements ports.SnapshotStore using a JSON file.
type SnapshotFile struct {
	path string
}

// NewSnapshotFile creates a store for the file at path.
func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{path: path}
}

// Load reads the snapshot from disk.
// Returns an empty snapshot and nil error if the file does not exist; an empty
// snapshot changes nothing when imported.
func (f *SnapshotFile) Load(ctx context.Context) (domain.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", f.path, err)
	}
	return snap, nil
}

// Save writes the snapshot atomically (temp file, then rename).
func (f *SnapshotFile) Save(ctx context.Context, snap domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Path returns the snapshot file path.
func (f *SnapshotFile) Path() string {
	return f.path
}
