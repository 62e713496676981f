package pool

import "errors"

// Validation and context-calculation failures. All are local and fatal
// to the attempt; the pipeline never retries on the caller's behalf.
var (
	ErrInvalidNote      = errors.New("note has no commitment")
	ErrInvalidAmount    = errors.New("invalid withdrawal amount")
	ErrInvalidRecipient = errors.New("invalid recipient address")
	ErrIndexTracker     = errors.New("note index tracker unavailable")
)
