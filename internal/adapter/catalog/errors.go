package catalog

import "errors"

var (
	// ErrNotFound means the remote catalog has no product for the handle.
	ErrNotFound = errors.New("product not found")
	// ErrTransport covers network failures, non-2xx responses, and
	// unparseable payloads. The client never retries; callers decide.
	ErrTransport = errors.New("catalog request failed")
)
