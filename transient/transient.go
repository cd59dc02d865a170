// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// A Category is the category of a transport fault, as reported by
// Categorize.
//
// The category Not means the fault matches none of the known
// categories. It does not mean the fault is permanent.
type Category int

const (
	// Not indicates an error matching no other category.
	Not Category = iota
	// Timeout indicates a deadline was exceeded, either one attached to
	// the request context or one enforced inside the transport.
	//
	// Categorize returns Timeout if the error or any of its wrapped
	// causes has a Timeout method that reports true. This includes
	// context.DeadlineExceeded.
	Timeout
	// Canceled indicates the request context was cancelled before the
	// transport delivered a response.
	Canceled
	// DNS indicates the remote host name could not be resolved.
	DNS
	// ConnRefused indicates the remote host refused the connection, and
	// corresponds to the POSIX error code ECONNREFUSED.
	ConnRefused
	// ConnReset indicates the remote host returned an RST packet on a
	// previously active TCP connection, and corresponds to the POSIX
	// error code ECONNRESET.
	ConnReset
)

var categoryNames = [...]string{
	Not:         "not",
	Timeout:     "timeout",
	Canceled:    "canceled",
	DNS:         "dns",
	ConnRefused: "conn_refused",
	ConnReset:   "conn_reset",
}

// String returns a short lower-case name for the category, suitable for
// use as a metric label.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Categorize returns the category of the given error. A nil error
// produces Not.
//
// Categorize looks at wrapped cause errors contained within err, not
// just err itself. The checks are made in the order the categories are
// declared, so a DNS lookup that timed out is a Timeout.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return DNS
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
