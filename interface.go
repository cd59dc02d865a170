// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"net/http"
)

// Doer is the interface that wraps the basic Do method.
//
// Do executes an HTTP request for a URL using the method and other
// settings in opts, and returns the parsed response body (and error, if
// any). Client implements the Doer interface, and any other Doer
// implementation must behave substantially the same as Client.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(ctx context.Context, url string, opts *Options) (interface{}, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(ctx context.Context, url string, opts *Options) (interface{}, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(ctx context.Context, url string, opts *Options) (interface{}, error)
}

// Putter is the interface that wraps the basic Put method.
//
// Any Doer can be used to emulate a Putter via the Put function.
type Putter interface {
	Put(ctx context.Context, url string, opts *Options) (interface{}, error)
}

// Deleter is the interface that wraps the basic Delete method.
//
// Any Doer can be used to emulate a Deleter via the Delete function.
type Deleter interface {
	Delete(ctx context.Context, url string, opts *Options) (interface{}, error)
}

// Patcher is the interface that wraps the basic Patch method.
//
// Any Doer can be used to emulate a Patcher via the Patch function.
type Patcher interface {
	Patch(ctx context.Context, url string, opts *Options) (interface{}, error)
}

// OptionsRequester is the interface that wraps the basic Options method.
//
// Any Doer can be used to emulate an OptionsRequester via the
// OptionsRequest function.
type OptionsRequester interface {
	Options(ctx context.Context, url string, opts *Options) (interface{}, error)
}

// Header is the interface that wraps the basic Head method.
//
// Any Doer can be used to emulate a Header via the Head function.
type Header interface {
	Head(ctx context.Context, url string, opts *Options) (interface{}, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any idle which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
//
// If the underlying implementation does not support this ability,
// CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups Do, one method per HTTP verb,
// and CloseIdleConnections.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Poster
	Putter
	Deleter
	Patcher
	OptionsRequester
	Header
	IdleCloser
}

// withMethod returns a copy of opts whose Method is method. The caller's
// Options are never modified.
func withMethod(opts *Options, method string) *Options {
	var o Options
	if opts != nil {
		o = *opts
	}
	o.Method = method
	return &o
}

// Get uses the specified Doer to issue a GET to the specified URL,
// using the same policies as d.Do. Any Method set in opts is ignored.
func Get(ctx context.Context, d Doer, url string, opts *Options) (interface{}, error) {
	return d.Do(ctx, url, withMethod(opts, http.MethodGet))
}

// Post uses the specified Doer to issue a POST to the specified URL,
// using the same policies as d.Do.
func Post(ctx context.Context, d Doer, url string, opts *Options) (interface{}, error) {
	return d.Do(ctx, url, withMethod(opts, http.MethodPost))
}

// Put uses the specified Doer to issue a PUT to the specified URL,
// using the same policies as d.Do.
func Put(ctx context.Context, d Doer, url string, opts *Options) (interface{}, error) {
	return d.Do(ctx, url, withMethod(opts, http.MethodPut))
}

// Delete uses the specified Doer to issue a DELETE to the specified
// URL, using the same policies as d.Do.
func Delete(ctx context.Context, d Doer, url string, opts *Options) (interface{}, error) {
	return d.Do(ctx, url, withMethod(opts, http.MethodDelete))
}

// Patch uses the specified Doer to issue a PATCH to the specified URL,
// using the same policies as d.Do.
func Patch(ctx context.Context, d Doer, url string, opts *Options) (interface{}, error) {
	return d.Do(ctx, url, withMethod(opts, http.MethodPatch))
}

// OptionsRequest uses the specified Doer to issue an OPTIONS request to
// the specified URL, using the same policies as d.Do.
func OptionsRequest(ctx context.Context, d Doer, url string, opts *Options) (interface{}, error) {
	return d.Do(ctx, url, withMethod(opts, http.MethodOptions))
}

// Head uses the specified Doer to issue a HEAD to the specified URL,
// using the same policies as d.Do.
func Head(ctx context.Context, d Doer, url string, opts *Options) (interface{}, error) {
	return d.Do(ctx, url, withMethod(opts, http.MethodHead))
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("fetchx: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return i.doer.Do(ctx, url, opts)
}

func (i inflated) Get(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Get(ctx, i.doer, url, opts)
}

func (i inflated) Post(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Post(ctx, i.doer, url, opts)
}

func (i inflated) Put(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Put(ctx, i.doer, url, opts)
}

func (i inflated) Delete(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Delete(ctx, i.doer, url, opts)
}

func (i inflated) Patch(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Patch(ctx, i.doer, url, opts)
}

func (i inflated) Options(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return OptionsRequest(ctx, i.doer, url, opts)
}

func (i inflated) Head(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Head(ctx, i.doer, url, opts)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
