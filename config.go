// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"net/http"
)

// Options contains per-call request options. Every field is optional.
// A nil *Options is equivalent to a pointer to the zero value.
type Options struct {
	// Method specifies the HTTP method. The per-verb methods of Client
	// always set it, so it only matters when calling Client.Do. An
	// empty string means GET.
	Method string

	// Header contains headers to send with this request. They are
	// merged with the client's default headers, and on a name conflict
	// the value given here wins.
	Header HeaderSource

	// Body is the request payload. Its dynamic type determines both the
	// Content-Type sent (unless Header already sets one) and the wire
	// form. See ContentType and SerializeBody for the supported types.
	Body interface{}

	// ResponseType declares how the response body is materialized. The
	// zero value means ResponseJSON.
	ResponseType ResponseType

	// Params contains query parameters to append to the request URL.
	// It may be pre-encoded (url.Values, map[string][]string or string)
	// or structured (Params, map[string]interface{} or
	// map[string]string). Other types fail with a URLBuildError.
	Params interface{}

	// ParamsSerializer, if not nil, encodes structured Params instead of
	// SerializeParams. It is not used for pre-encoded Params.
	ParamsSerializer ParamsSerializer

	// Host optionally overrides the Host header sent to the server.
	Host string

	// Close indicates the connection should be closed after the
	// response is read.
	Close bool

	// Cookies are attached to the outgoing request.
	Cookies []*http.Cookie

	// Result, if not nil, must be a pointer. When the response is
	// successful and the response type is ResponseJSON, the body is
	// also decoded into Result.
	Result interface{}
}

// Defaults contains the client-wide values merged into every request.
type Defaults struct {
	// BaseURL is the base against which relative request URLs are
	// resolved.
	BaseURL string

	// Header contains headers sent with every request, which per-call
	// Options.Header values override by name.
	Header HeaderSource
}

// A Config is the effective configuration of a single request, the
// result of merging Options into Defaults. BeforeRequest hooks receive a
// private copy of the current Config and return the Config that all
// later stages see.
type Config struct {
	BaseURL          string
	Method           string
	Header           http.Header
	Body             interface{}
	ResponseType     ResponseType
	Params           interface{}
	ParamsSerializer ParamsSerializer
	Host             string
	Close            bool
	Cookies          []*http.Cookie
	Result           interface{}

	// ctx controls cancellation of the request. It should only be
	// modified by copying the whole Config using WithContext.
	ctx context.Context

	// done holds the functions registered with OnDone.
	done []func(err error)
}

// MergeConfig combines per-call options with client defaults. Each
// non-header field is taken from opts when set there, and otherwise from
// defaults. Headers are merged with MergeHeaders, opts taking
// precedence. Neither argument is modified, and either may be nil.
func MergeConfig(opts *Options, defaults *Defaults) Config {
	if opts == nil {
		opts = &Options{}
	}
	if defaults == nil {
		defaults = &Defaults{}
	}

	return Config{
		BaseURL:          defaults.BaseURL,
		Method:           opts.Method,
		Header:           MergeHeaders(defaults.Header, opts.Header),
		Body:             opts.Body,
		ResponseType:     opts.ResponseType,
		Params:           opts.Params,
		ParamsSerializer: opts.ParamsSerializer,
		Host:             opts.Host,
		Close:            opts.Close,
		Cookies:          opts.Cookies,
		Result:           opts.Result,
	}
}

// Context returns the request context. The returned context is always
// non-nil; it defaults to the background context.
func (c Config) Context() context.Context {
	if c.ctx != nil {
		return c.ctx
	}
	return context.Background()
}

// WithContext returns a copy of c with its context changed to ctx,
// which must be non-nil. Hooks use it to attach values such as trace
// spans, or deadlines, to the request.
func (c Config) WithContext(ctx context.Context) Config {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	c.ctx = ctx
	return c
}

// OnDone returns a copy of c which, once it is the effective Config of a
// call, arranges for f to be called exactly once when the call finishes.
// f receives the error the call is about to return, or nil on success,
// and runs after every hook, including the error hooks. Functions
// registered this way run in registration order.
//
// Only registrations made in the BeforeRequest stage take effect, since
// the Config passed to later stages is context only.
func (c Config) OnDone(f func(err error)) Config {
	if f != nil {
		c.done = append(c.done[:len(c.done):len(c.done)], f)
	}
	return c
}

func (c Config) finish(err error) {
	for _, f := range c.done {
		f(err)
	}
}

// Clone returns a copy of c whose Header and Cookies may be modified
// without affecting c.
func (c Config) Clone() Config {
	c.Header = c.Header.Clone()
	if c.Header == nil {
		c.Header = make(http.Header)
	}
	if c.Cookies != nil {
		c.Cookies = append([]*http.Cookie(nil), c.Cookies...)
	}
	return c
}

// Defaults returns the client-wide defaults of c.
func (c *Client) Defaults() *Defaults {
	return &Defaults{
		BaseURL: c.BaseURL,
		Header:  c.Header,
	}
}

const nilCtxMsg = "fetchx: nil context"
