package ports

import "github.com/bft-labs/swimset/internal/domain"

// Notifier receives cues from the engine. Emit must not block: the engine
// calls it from the tick loop and never waits for a result.
type Notifier interface {
	Emit(cue domain.Cue)
}
