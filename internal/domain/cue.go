package domain

// Cue is a fire-and-forget signal about something the operator should hear or see.
type Cue string

const (
	CueStart     Cue = "start"
	CueStartAll  Cue = "start_all"
	CueSplit     Cue = "split"
	CueFinish    Cue = "finish"
	CueQueue     Cue = "queue"
	CueConfirm   Cue = "confirm"
	CueRestStart Cue = "rest_start"
	CueRestEnd   Cue = "rest_end"
	CueNextSet   Cue = "next_set"
)
