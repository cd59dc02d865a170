// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"fmt"
	"unicode/utf8"
)

// A Kind classifies the fault carried by an Error.
type Kind int

const (
	// URLBuildError indicates the request URL could not be parsed, or
	// was relative and could not be resolved against the base URL.
	URLBuildError Kind = iota + 1
	// HTTPError indicates the transport delivered a response, but its
	// status code is outside the success range (200-399).
	HTTPError
	// NetworkError indicates the transport failed to deliver a
	// response, for example because the connection was refused, the
	// host could not be resolved, or the call's context was cancelled.
	NetworkError
	// TimeoutError indicates the transport failed to deliver a
	// response because a deadline was exceeded.
	TimeoutError
)

var kindNames = map[Kind]string{
	URLBuildError: "URL_BUILD_ERROR",
	HTTPError:     "HTTP_ERROR",
	NetworkError:  "NETWORK_ERROR",
	TimeoutError:  "TIMEOUT_ERROR",
}

// String returns the name of the kind, for example "HTTP_ERROR".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// An Error is a classified fault detected by Client while executing a
// request. It is constructed at the point the fault is detected and
// should be treated as immutable thereafter.
//
// Response and Status are set only for HTTPError. For HTTPError, Cause
// holds the parsed response body (which may be nil); for the other
// kinds it holds the underlying error.
type Error struct {
	Message  string
	Kind     Kind
	Response *Response
	Status   int
	Cause    interface{}
}

func (e *Error) Error() string {
	if err, ok := e.Cause.(error); ok && e.Kind != HTTPError {
		return fmt.Sprintf("fetchx: %s: %s: %v", e.Kind, e.Message, err)
	}
	return fmt.Sprintf("fetchx: %s: %s", e.Kind, e.Message)
}

// Unwrap returns Cause if it is an error, and nil otherwise.
func (e *Error) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Timeout reports whether the error is a TimeoutError.
func (e *Error) Timeout() bool {
	return e.Kind == TimeoutError
}

// previewLen is the maximum number of runes of an unparseable body
// quoted in a ParseError.
const previewLen = 100

// A ParseError is returned when a response body was requested as JSON
// but is not valid JSON. It is deliberately not an *Error, so callers can
// tell a malformed body apart from a transport-classified fault.
type ParseError struct {
	ResponseType ResponseType
	Preview      string
	Err          error
}

func newParseError(t ResponseType, text string, err error) *ParseError {
	return &ParseError{
		ResponseType: t,
		Preview:      truncate(text, previewLen),
		Err:          err,
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fetchx: failed to parse %s response: %s", e.ResponseType, e.Preview)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
