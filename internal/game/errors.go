package game

import (
	"errors"
	"fmt"
)

// Boundary validation errors. These are reported synchronously to the caller
// and leave the round state untouched, so the action can simply be retried.
var (
	// ErrInvalidSelectionCount is returned when the wrong number of cards is
	// submitted for the current prompt (not 2 for a discard, not 0 or 1 for
	// a play).
	ErrInvalidSelectionCount = errors.New("invalid selection count")

	// ErrInvalidCardIndex is returned when a selected index falls outside
	// the prompted hand.
	ErrInvalidCardIndex = errors.New("invalid card index")

	// ErrIllegalPlay is returned when the selected card would push the
	// current sequence past 31.
	ErrIllegalPlay = errors.New("illegal play: sequence would exceed 31")

	// ErrNoInputPending is returned by Resume when the round is not
	// suspended on a prompt.
	ErrNoInputPending = errors.New("no input pending")
)

// InvariantError reports a violation of engine bookkeeping that should never
// occur in correct operation: a duplicate card across zones, a wrong crib
// size at scoring time, a stuck play sequence. A scoring engine producing
// silently wrong totals is worse than a crash, so these abort the round.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("round invariant violated: %s", e.Msg)
}

func invariantf(format string, args ...any) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
