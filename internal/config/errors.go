package config

import "errors"

// Configuration validation errors, returned by Config.Validate.
var (
	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidProtocol is returned for a protocol name other than
	// http, https, socks4 or socks5.
	ErrInvalidProtocol = errors.New("invalid protocol")

	// ErrNoProtocol is returned when the protocol list is explicitly empty.
	ErrNoProtocol = errors.New("no protocol to check")

	// ErrInvalidEndpoint is returned when the endpoint is empty or carries a scheme.
	ErrInvalidEndpoint = errors.New("invalid endpoint: expected host/path without scheme")

	// ErrInvalidStatusCode is returned for a status filter outside 100..599.
	ErrInvalidStatusCode = errors.New("invalid status code")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid output format: use text, table, json or csv")

	// ErrInvalidLogFormat is returned for an unknown log format.
	ErrInvalidLogFormat = errors.New("invalid log format: use json or text")

	// ErrConflictingOutputs is returned when --out and --append name the same file.
	ErrConflictingOutputs = errors.New("conflicting outputs: --out and --append point to the same file")
)
