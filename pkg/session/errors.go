package session

import "errors"

var (
	// ErrInvalidUser indicates the current-user payload is not a usable identity
	ErrInvalidUser = errors.New("session.invalid_user")

	// ErrNoStore indicates no store was attached to the context
	ErrNoStore = errors.New("session.no_store")
)
