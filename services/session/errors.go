// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"errors"
	"fmt"
)

// ErrRunInProgress is returned by Orchestrator.Run when another run holds
// the session's loading state. Callers should surface "busy" and let the
// user retry; runs are never queued.
var ErrRunInProgress = errors.New("a transformation run is already in progress")

// ErrNoSelection is returned when a run is requested with no selected
// items.
var ErrNoSelection = errors.New("no items selected")

// ErrorKind classifies backend failures. Short-input skips are not errors
// and never appear here; they are a warning count on RunResult.
type ErrorKind int

const (
	// KindTransport: network/connection failure or timeout reaching the
	// backend.
	KindTransport ErrorKind = iota
	// KindRequestFailed: the backend answered with a non-success status.
	KindRequestFailed
	// KindInvalidResponse: the backend's body was unusable (missing text
	// field, or a protocol marker leaked through).
	KindInvalidResponse
	// KindDeclined: the oracle explicitly signaled it cannot comply.
	KindDeclined
	// KindUnexpectedFormat: the oracle reply followed neither marker
	// convention.
	KindUnexpectedFormat
)

// String returns the kind's wire-stable name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRequestFailed:
		return "request_failed"
	case KindInvalidResponse:
		return "invalid_response"
	case KindDeclined:
		return "declined"
	case KindUnexpectedFormat:
		return "unexpected_format"
	default:
		return "unknown"
	}
}

// TransformError is a classified backend failure for a single item.
type TransformError struct {
	Kind ErrorKind
	Err  error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("transform failed (%s)", e.Kind)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a TransformError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *TransformError
	return errors.As(err, &te) && te.Kind == kind
}
