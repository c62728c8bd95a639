package common

import (
	"errors"
	"fmt"
)

// Sentinel outcomes of store operations. These are not backend failures:
// callers match them with errors.Is and must keep them apart from dberr kinds.
var (
	// ErrorNotFound is returned when a record is absent or belongs to another
	// user. Both cases look the same so existence never leaks.
	ErrorNotFound = errors.New("not found")

	// ErrVersionNotFound is returned when a version id does not belong to the
	// document it was requested for. It matches ErrorNotFound as well.
	ErrVersionNotFound = fmt.Errorf("version %w", ErrorNotFound)

	// ErrorUnauthorized is returned by credential checks.
	ErrorUnauthorized = errors.New("unauthorized")
)
