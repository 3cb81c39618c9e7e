package compute

import "errors"

var (
	// ErrBackendUnavailable reports a backend requested at configuration
	// time that the build or hardware cannot provide. Detected before any
	// pass starts, never mid-pass.
	ErrBackendUnavailable = errors.New("compute: backend unavailable")

	// ErrResourceExhausted distinguishes allocation failure (host or
	// device) from everything else, so callers can retry on a different
	// backend.
	ErrResourceExhausted = errors.New("compute: resource exhausted")
)
