package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no session exists for the id.
	ErrNotFound = errors.New("session: not found")

	// ErrInvalidMove rejects a request without mutating state.
	ErrInvalidMove = errors.New("session: invalid move")

	// ErrInvariant means tile conservation broke; the round is aborted
	// because the state can no longer be trusted.
	ErrInvariant = errors.New("session: tile conservation violated")
)

func invalidMove(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidMove, fmt.Sprintf(format, args...))
}
