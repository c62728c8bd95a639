package connmgr

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by Adapter before a successful Initialize.
var ErrNotInitialized = errors.New("connection manager is not initialized")

// ConnectionError is returned when neither backend could be connected.
// Attempts is a copy of the history at the moment of failure.
type ConnectionError struct {
	Attempts []Attempt
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("no backend available after %d attempts: %v", len(e.Attempts), e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
