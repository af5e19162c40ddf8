package risk

import "errors"

// Failure taxonomy for the record keeper. Every error surfaced by the model
// or the store wraps one of these sentinels so callers can match with
// errors.Is regardless of the underlying cause.
var (
	// ErrValidation marks malformed or missing caller input. Recoverable:
	// reject the input and ask for correction.
	ErrValidation = errors.New("validation failed")

	// ErrStorage marks an unreachable medium or an uncommitted write. The
	// failed operation has no side effect.
	ErrStorage = errors.New("storage failure")

	// ErrCorruptData marks a persisted row that does not map back to a valid
	// entry. Never coerced to a default.
	ErrCorruptData = errors.New("corrupt persisted data")
)
