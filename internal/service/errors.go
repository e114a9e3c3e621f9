package service

import (
	"errors"
)

// ErrUnauthorized is returned when API credentials are unknown or the
// account lacks API access
var ErrUnauthorized = errors.New("unauthorized")

// Error kinds for admin-action failures
const (
	KindPermissionDenied = "permission-denied"
	KindInvalidArgument  = "invalid-argument"
	KindNotFound         = "not-found"
	KindUnknown          = "unknown"
)

// Error is a typed service failure carrying a kind and a human-readable
// message; it is propagated to the caller, never retried
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Kind + ": " + e.Message
}

// NewError creates a typed service error
func NewError(kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the kind of a service error, defaulting to unknown
func KindOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnknown
}
