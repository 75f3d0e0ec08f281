package log

import (
	"github.com/bft-labs/swimset/internal/domain"
	"github.com/bft-labs/swimset/internal/ports"
)

// CueLogger implements ports.Notifier by writing each cue as an info line.
type CueLogger struct {
	logger ports.Logger
}

// NewCueLogger creates a notifier that logs cues to logger.
func NewCueLogger(logger ports.Logger) *CueLogger {
	return &CueLogger{logger: logger}
}

// Emit logs the cue.
func (c *CueLogger) Emit(cue domain.Cue) {
	c.logger.Info("cue", ports.String("cue", string(cue)))
}
