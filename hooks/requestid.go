// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"context"

	"github.com/gogama/fetchx"
	"github.com/google/uuid"
)

// DefaultRequestIDHeader is the header used by RequestID when no header
// name is given.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns hooks that tag every request with a unique
// identifier, sent in the named header. If header is empty,
// DefaultRequestIDHeader is used.
//
// If the request already carries the header, its value is kept. Either
// way the identifier is attached to the request context, where later
// hooks can retrieve it with RequestIDFromContext.
func RequestID(header string) *fetchx.Hooks {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return &fetchx.Hooks{
		BeforeRequest: []fetchx.BeforeRequestFunc{
			func(c fetchx.Config) (fetchx.Config, error) {
				id := c.Header.Get(header)
				if id == "" {
					id = uuid.NewString()
					c.Header.Set(header, id)
				}
				return c.WithContext(context.WithValue(c.Context(), requestIDKey{}, id)), nil
			},
		},
	}
}

// RequestIDFromContext returns the request identifier attached by the
// RequestID hook, or the empty string if there is none.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
