/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package errs defines the engine-wide error kinds that cross the host
// boundary and the worker-tick boundary. All fallible operations described
// in the runtime return an *errs.Error rather than an ad-hoc error string,
// so callers can branch on Kind without parsing messages.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error. Kind is never exposed as a Go type name
// in host-facing signatures; callers branch on it via IsKind.
type Kind int

const (
	// Sql marks a compile-time or semantic SQL error.
	Sql Kind = iota
	// InvalidOption marks a malformed or unrecognized DDL/config option.
	InvalidOption
	// Unavailable marks a transient condition: missing queue, overloaded worker.
	Unavailable
	// ForeignIo marks a malformed or disconnected foreign peer.
	ForeignIo
	// ForeignSourceTimeout marks an exceeded source read deadline.
	ForeignSourceTimeout
	// ForeignSinkTimeout marks an exceeded sink write deadline.
	ForeignSinkTimeout
	// Internal marks an invariant violation. Should be unreachable; a
	// worker observing one logs it as a bug and dies.
	Internal
)

// String returns the kind's wire/log name.
func (k Kind) String() string {
	switch k {
	case Sql:
		return "SQL"
	case InvalidOption:
		return "INVALID_OPTION"
	case Unavailable:
		return "UNAVAILABLE"
	case ForeignIo:
		return "FOREIGN_IO"
	case ForeignSourceTimeout:
		return "FOREIGN_SOURCE_TIMEOUT"
	case ForeignSinkTimeout:
		return "FOREIGN_SINK_TIMEOUT"
	case Internal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Error is the concrete error type returned across the engine boundary.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an *Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and message to an existing error, preserving it as Cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
