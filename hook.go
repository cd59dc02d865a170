// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"errors"
	"log/slog"
)

// A BeforeRequestFunc receives the current request configuration and
// returns the configuration to use from then on. It receives a private
// copy, so it may modify the Config it is given and return it, or return
// it unchanged.
//
// A non-nil error aborts the request. The OnRequestError hooks are run
// with the error, which is then returned to the caller.
type BeforeRequestFunc func(c Config) (Config, error)

// An AfterResponseFunc receives the response returned so far and the
// effective request configuration, and returns the response that later
// hooks, status checking, and body parsing see. The Config is context
// only; changes to it have no effect.
//
// A non-nil error aborts the request in the same way as for
// BeforeRequestFunc.
type AfterResponseFunc func(r *Response, c Config) (*Response, error)

// A ResponseErrorFunc observes an HTTPError before it is returned to the
// caller. It cannot suppress the error, but a non-nil return value
// replaces it and stops the remaining OnResponseError hooks.
type ResponseErrorFunc func(err *Error, r *Response, c Config) error

// A RequestErrorFunc observes any failure other than an HTTPError before
// it is returned to the caller. It cannot suppress the error, but a
// non-nil return value replaces it and stops the remaining
// OnRequestError hooks.
type RequestErrorFunc func(err error, c Config) error

// Hooks is an ordered registry of hooks for each Stage. Within a stage,
// hooks run sequentially in the order they appear in the slice. Nil
// entries are skipped.
//
// The zero value is an empty registry. A Client never modifies the
// Hooks installed in it.
type Hooks struct {
	BeforeRequest   []BeforeRequestFunc
	AfterResponse   []AfterResponseFunc
	OnResponseError []ResponseErrorFunc
	OnRequestError  []RequestErrorFunc
}

// Append adds the hooks of each of others to the back of the
// corresponding stage of h, preserving their order, and returns h. Nil
// registries are skipped.
func (h *Hooks) Append(others ...*Hooks) *Hooks {
	for _, o := range others {
		if o == nil {
			continue
		}
		h.BeforeRequest = append(h.BeforeRequest, o.BeforeRequest...)
		h.AfterResponse = append(h.AfterResponse, o.AfterResponse...)
		h.OnResponseError = append(h.OnResponseError, o.OnResponseError...)
		h.OnRequestError = append(h.OnRequestError, o.OnRequestError...)
	}
	return h
}

// Len returns the number of hooks registered for stage s.
func (h *Hooks) Len(s Stage) int {
	if h == nil {
		return 0
	}
	switch s {
	case BeforeRequest:
		return len(h.BeforeRequest)
	case AfterResponse:
		return len(h.AfterResponse)
	case OnResponseError:
		return len(h.OnResponseError)
	case OnRequestError:
		return len(h.OnRequestError)
	default:
		return 0
	}
}

var errNilResponse = errors.New("fetchx: AfterResponse hook returned nil response")

var emptyHooks = Hooks{}

// hookRunner executes the hook pipelines of a registry for one request.
type hookRunner struct {
	hooks  *Hooks
	logger *slog.Logger
}

func (r hookRunner) trace(s Stage) {
	if n := r.hooks.Len(s); n > 0 {
		r.logger.Debug("fetchx: running hooks", "stage", s.Name(), "count", n)
	}
}

func (r hookRunner) beforeRequest(c Config) (Config, error) {
	r.trace(BeforeRequest)
	for _, hook := range r.hooks.BeforeRequest {
		if hook == nil {
			continue
		}
		next, err := hook(c.Clone())
		if err != nil {
			return c, err
		}
		c = next
	}
	return c, nil
}

func (r hookRunner) afterResponse(resp *Response, c Config) (*Response, error) {
	r.trace(AfterResponse)
	for _, hook := range r.hooks.AfterResponse {
		if hook == nil {
			continue
		}
		next, err := hook(resp, c.Clone())
		if err != nil {
			return resp, err
		}
		if next == nil {
			return resp, errNilResponse
		}
		resp = next
	}
	return resp, nil
}

func (r hookRunner) onResponseError(err *Error, resp *Response, c Config) error {
	r.trace(OnResponseError)
	for _, hook := range r.hooks.OnResponseError {
		if hook == nil {
			continue
		}
		if hookErr := hook(err, resp, c.Clone()); hookErr != nil {
			return hookErr
		}
	}
	return nil
}

func (r hookRunner) onRequestError(err error, c Config) error {
	r.trace(OnRequestError)
	for _, hook := range r.hooks.OnRequestError {
		if hook == nil {
			continue
		}
		if hookErr := hook(err, c.Clone()); hookErr != nil {
			return hookErr
		}
	}
	return nil
}
