// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// A HeaderSource is one of the three equivalent shapes in which headers
// may be supplied to a Client or a request: HeaderObject, HeaderPairs,
// or HeaderMap. The set is closed; no other type implements it.
type HeaderSource interface {
	each(fn func(name, value string))
}

// HeaderObject is a HeaderSource backed by an http.Header. A name with
// several values contributes a single entry whose value is the values
// joined with ", ".
type HeaderObject http.Header

// HeaderPairs is a HeaderSource made of ordered name/value pairs. When a
// name is repeated, the last pair wins.
type HeaderPairs [][2]string

// HeaderMap is a HeaderSource backed by a plain name to value mapping.
type HeaderMap map[string]string

func (h HeaderObject) each(fn func(name, value string)) {
	for name, values := range h {
		fn(name, strings.Join(values, ", "))
	}
}

func (h HeaderPairs) each(fn func(name, value string)) {
	for _, pair := range h {
		fn(pair[0], pair[1])
	}
}

func (h HeaderMap) each(fn func(name, value string)) {
	for name, value := range h {
		fn(name, value)
	}
}

// MergeHeaders combines header sources into a single http.Header. Names
// are compared case-insensitively, and a name appearing in a later
// source replaces the value from any earlier source, so the result never
// contains the same name twice. Nil sources are skipped and no source is
// modified.
func MergeHeaders(sources ...HeaderSource) http.Header {
	merged := make(http.Header)
	for _, src := range sources {
		if src == nil {
			continue
		}
		src.each(func(name, value string) {
			merged.Set(name, value)
		})
	}
	return merged
}

// validateHeader checks that every header field name is a valid HTTP
// token and that every value is a valid field value.
func validateHeader(h http.Header) error {
	for name, values := range h {
		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf("fetchx: invalid header field name %q", name)
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return fmt.Errorf("fetchx: invalid header field value for %q", name)
			}
		}
	}
	return nil
}

// validMethod reports whether method is a valid HTTP token. The empty
// string is interpreted as GET and is therefore valid.
func validMethod(method string) bool {
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}
