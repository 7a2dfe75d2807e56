// Package errors defines the sentinel errors shared by the configuration
// engine. Callers classify failures with errors.Is; the wrapped message keeps
// the identifying context (profile id, file path, server name).
//
//	if errors.Is(err, ccerrors.ErrNotFound) {
//	    // profile, server or manifest item is absent
//	}
package errors

import "errors"

var (
	// ErrNotFound indicates a profile, server or manifest item is absent.
	ErrNotFound = errors.New("not found")

	// ErrMalformedInput indicates a file is not the JSON shape required, or
	// an install payload is invalid (missing fields, path traversal).
	ErrMalformedInput = errors.New("malformed input")

	// ErrIO indicates a filesystem read, write or remove failed.
	ErrIO = errors.New("i/o failure")

	// ErrAlreadyExists indicates an install target is already present.
	ErrAlreadyExists = errors.New("already exists")
)
