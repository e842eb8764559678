// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrInternal indicates internal server error.
	ErrInternal = errors.New("internal")
	// ErrUnavailable indicates that the persistence layer cannot be reached.
	ErrUnavailable = errors.New("storage unavailable")
)
