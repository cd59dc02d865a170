// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"errors"
	"log/slog"

	"github.com/gogama/fetchx"
)

// Logging returns hooks that log every stage of every request to
// logger. If logger is nil, slog.Default() is used.
//
// Requests and successful responses are logged at info level, failures
// at error level. When the RequestID hook runs earlier in the chain, its
// identifier is included in each record.
func Logging(logger *slog.Logger) *fetchx.Hooks {
	if logger == nil {
		logger = slog.Default()
	}

	return &fetchx.Hooks{
		BeforeRequest: []fetchx.BeforeRequestFunc{
			func(c fetchx.Config) (fetchx.Config, error) {
				logger.InfoContext(c.Context(), "request started", attrs(c)...)
				return c, nil
			},
		},
		AfterResponse: []fetchx.AfterResponseFunc{
			func(r *fetchx.Response, c fetchx.Config) (*fetchx.Response, error) {
				args := append(attrs(c), "status", r.StatusCode, "bytes", len(r.Body))
				if r.Request != nil {
					args = append(args, "url", r.Request.URL.String())
				}
				logger.InfoContext(c.Context(), "request completed", args...)
				return r, nil
			},
		},
		OnResponseError: []fetchx.ResponseErrorFunc{
			func(err *fetchx.Error, r *fetchx.Response, c fetchx.Config) error {
				args := append(attrs(c), "kind", err.Kind.String(), "status", err.Status, "error", err)
				if r.Request != nil {
					args = append(args, "url", r.Request.URL.String())
				}
				logger.ErrorContext(c.Context(), "request failed", args...)
				return nil
			},
		},
		OnRequestError: []fetchx.RequestErrorFunc{
			func(err error, c fetchx.Config) error {
				args := attrs(c)
				var fe *fetchx.Error
				if errors.As(err, &fe) {
					args = append(args, "kind", fe.Kind.String())
				}
				args = append(args, "error", err)
				logger.ErrorContext(c.Context(), "request failed", args...)
				return nil
			},
		},
	}
}

func attrs(c fetchx.Config) []any {
	args := []any{"method", method(c)}
	if c.BaseURL != "" {
		args = append(args, "base_url", c.BaseURL)
	}
	if id := RequestIDFromContext(c.Context()); id != "" {
		args = append(args, "request_id", id)
	}
	return args
}
