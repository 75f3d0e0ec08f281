package domain

import "errors"

// Domain errors represent rejected operations and lifecycle failures.
// They are always returned wrapped with context and can be checked with errors.Is.
var (
	// ErrNotFound is returned when an athlete, group, session or record id is unknown.
	ErrNotFound = errors.New("swimset: not found")

	// ErrInvalidInput is returned for malformed operator input (empty names, bad distances).
	ErrInvalidInput = errors.New("swimset: invalid input")

	// ErrInvalidTransition is returned when a timer operation does not apply to the athlete's status.
	ErrInvalidTransition = errors.New("swimset: invalid transition")

	// ErrSessionUnnamed is returned when timing is attempted before the session has a name.
	ErrSessionUnnamed = errors.New("swimset: session name is empty")

	// ErrRestActive is returned when a bulk operation is attempted during a rest phase.
	ErrRestActive = errors.New("swimset: rest phase is active")

	// ErrAthleteResting is returned when an operation targets a resting athlete.
	ErrAthleteResting = errors.New("swimset: athlete is resting")

	// ErrNothingToFinish is returned when finishing an athlete that is not running and has no time.
	ErrNothingToFinish = errors.New("swimset: athlete has no time to finish")

	// ErrNotQueued is returned when removing an athlete that is not in the finish queue.
	ErrNotQueued = errors.New("swimset: athlete is not queued")

	// ErrQueueEmpty is returned when confirming an empty finish queue.
	ErrQueueEmpty = errors.New("swimset: finish queue is empty")

	// ErrLastGroup is returned when removing the only remaining group.
	ErrLastGroup = errors.New("swimset: at least one group must exist")

	// ErrLastSession is returned when removing the only remaining session.
	ErrLastSession = errors.New("swimset: at least one session must exist")

	// ErrSessionsComplete is returned by NextSet after the final set of the final
	// session. Wrapping to session 1 needs an explicit confirmation.
	ErrSessionsComplete = errors.New("swimset: all sessions completed")

	// ErrAlreadyRunning is returned when Start() is called on a running runner.
	ErrAlreadyRunning = errors.New("swimset: already running")

	// ErrNotRunning is returned when Stop() or Do() is called on a stopped runner.
	ErrNotRunning = errors.New("swimset: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("swimset: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("swimset: invalid configuration")

	// ErrBufferFull is returned when a record cannot be queued for shipping.
	ErrBufferFull = errors.New("swimset: record buffer full")
)
