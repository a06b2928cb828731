package interview

import "errors"

// Session operation errors. Validation and transition errors are
// terminal for the call; grading/store errors are retriable.
var (
	ErrInvalidStageSet    = errors.New("invalid stage set")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrIndexOutOfRange    = errors.New("stage index out of range")
	ErrSessionNotFound    = errors.New("session not found")
	ErrGradingUnavailable = errors.New("grading service unavailable")
	ErrStoreUnavailable   = errors.New("session store unavailable")
)
