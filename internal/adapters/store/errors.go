package store

import "errors"

// Sentinel kinds for store errors. These allow errors.Is/As from callers.
var (
	// ErrNotConfigured means no backend was wired at all (missing project or
	// credentials). Permanent until the process is reconfigured.
	ErrNotConfigured = errors.New("store not configured")

	// ErrUnavailable covers transient backend failures worth retrying or
	// falling back on.
	ErrUnavailable = errors.New("store unavailable")

	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)
