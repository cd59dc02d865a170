// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gogama/fetchx/transient"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// A Client is a typed HTTP client with merged defaults, automatic body
// encoding and response parsing, and a hook pipeline. Its zero value is
// a valid configuration.
//
// The zero value client uses http.DefaultClient (from net/http) as the
// HTTPDoer, has no base URL or default headers, runs no hooks, and logs
// to slog.Default().
//
// Client's HTTPDoer typically has an internal state (cached TCP
// connections) so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines,
// provided its fields are not modified after first use.
//
// On top of the HTTP request features provided by the HTTPDoer, Client
// adds the following features:
//
// • Client merges per-call Options into the client-wide defaults;
//
// • Client resolves the request URL against BaseURL and appends query
// parameters;
//
// • Client infers a Content-Type from the request body and encodes
// structured bodies as JSON;
//
// • Client reads and buffers the entire HTTP response body and parses
// it according to the declared ResponseType;
//
// • Client classifies every failure as an *Error (or a *ParseError for
// unparseable JSON); and
//
// • Client invokes user-provided hook functions at the four stages of a
// request, allowing cross-cutting features to be mixed in from outside
// libraries such as package hooks.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
	// BaseURL is the absolute URL against which relative request URLs
	// are resolved. It may be empty if every request URL is absolute.
	BaseURL string
	// Header contains default headers sent with every request. Headers
	// given in a call's Options override these on a name conflict.
	Header HeaderSource
	// Hooks contains the hook pipelines run for every request.
	//
	// If Hooks is nil, no hooks are run.
	Hooks *Hooks
	// Logger receives debug-level traces of request execution.
	//
	// If Logger is nil, slog.Default() is used.
	Logger *slog.Logger
}

// Do executes an HTTP request for the given URL and returns the parsed
// response body.
//
// The effective configuration is obtained by merging opts into the
// client defaults, attaching ctx, and passing the result through the
// BeforeRequest hooks. The configuration returned by the last hook is
// authoritative: it alone determines the URL, method, headers and body
// sent. If opts.Method is empty, the request method is GET.
//
// After the response is fully read, the AfterResponse hooks run on a
// copy of it, and the body of the response they produce is parsed with
// Parse according to the configured ResponseType. If the status code is
// in the range 200-399, the parsed value is returned along with a nil
// error. If opts.Result is non-nil and the response type is ResponseJSON,
// the body is additionally decoded into opts.Result.
//
// Otherwise, if the status code is outside that range, the returned
// error is an *Error of kind HTTPError carrying the response, the status
// code, and the parsed body as Cause. The OnResponseError hooks run
// before it is returned.
//
// Every other failure, whether building the URL, encoding the body,
// sending the request, reading or parsing the response, or in a hook,
// runs the OnRequestError hooks before being returned. Transport
// failures are returned as an *Error of kind NetworkError, or
// TimeoutError if a deadline was exceeded, and their Cause is a
// *url.Error. A hook error is returned as-is, and an error returned by
// an error hook replaces the original error.
//
// Functions registered with Config.OnDone run last, with the error Do
// is about to return.
//
// Do never returns a non-nil value together with a non-nil error.
func (c *Client) Do(ctx context.Context, url string, opts *Options) (interface{}, error) {
	if ctx == nil {
		panic(nilCtxMsg)
	}

	e := execution{
		client: c,
		runner: c.runner(),
		url:    url,
	}
	e.cfg = MergeConfig(opts, c.Defaults()).WithContext(ctx)
	v, err := e.run()
	e.cfg.finish(err)
	return v, err
}

// execution carries the state of a single call to Client.Do.
type execution struct {
	client *Client
	runner hookRunner
	url    string
	cfg    Config
}

func (e *execution) run() (interface{}, error) {
	var err error
	e.cfg, err = e.runner.beforeRequest(e.cfg)
	if err != nil {
		return nil, e.fail(err)
	}

	req, err := e.buildRequest()
	if err != nil {
		return nil, e.fail(err)
	}

	resp, err := e.send(req)
	if err != nil {
		return nil, e.fail(err)
	}

	resp, err = e.runner.afterResponse(resp.Clone(), e.cfg)
	if err != nil {
		return nil, e.fail(err)
	}

	parsed, err := Parse(resp, e.cfg.ResponseType)
	if err != nil {
		return nil, e.fail(err)
	}

	if !resp.OK() {
		return nil, e.fail(&Error{
			Message:  fmt.Sprintf("HTTP Error %d", resp.StatusCode),
			Kind:     HTTPError,
			Response: resp,
			Status:   resp.StatusCode,
			Cause:    parsed,
		})
	}

	if err = e.decodeResult(resp); err != nil {
		return nil, e.fail(err)
	}

	return parsed, nil
}

func (e *execution) buildRequest() (*http.Request, error) {
	cfg := e.cfg
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("fetchx: invalid method %q", method)
	}

	fullURL, err := BuildURL(e.url, cfg.BaseURL, cfg.Params, cfg.ParamsSerializer)
	if err != nil {
		return nil, err
	}

	header := cfg.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if ct := ContentType(cfg.Body, header); ct != "" {
		header.Set("Content-Type", ct)
	}
	if err = validateHeader(header); err != nil {
		return nil, err
	}

	wire, err := SerializeBody(cfg.Body)
	if err != nil {
		return nil, err
	}
	body, formType, err := wireReader(wire)
	if err != nil {
		return nil, err
	}
	if formType != "" && header.Get("Content-Type") == "" {
		header.Set("Content-Type", formType)
	}

	req, err := http.NewRequestWithContext(cfg.Context(), method, fullURL, body)
	if err != nil {
		return nil, urlBuildError(err)
	}
	req.Header = header
	if cfg.Host != "" {
		req.Host = cfg.Host
	}
	req.Close = cfg.Close
	for _, cookie := range cfg.Cookies {
		if cookie != nil {
			req.AddCookie(cookie)
		}
	}
	return req, nil
}

func (e *execution) send(req *http.Request) (*Response, error) {
	logger := e.client.logger()
	logger.Debug("fetchx: sending request", "method", req.Method, "url", req.URL.String())

	httpResp, err := e.client.doer().Do(req)
	if err != nil {
		return nil, transportError(req, err)
	}

	resp, err := readResponse(httpResp)
	if err != nil {
		return nil, transportError(req, err)
	}
	if resp.Request == nil {
		resp.Request = req
	}

	logger.Debug("fetchx: received response", "method", req.Method, "url", req.URL.String(),
		"status", resp.StatusCode, "bytes", len(resp.Body))
	return resp, nil
}

func (e *execution) decodeResult(resp *Response) error {
	t := e.cfg.ResponseType
	if e.cfg.Result == nil || (t != "" && t != ResponseJSON) || len(resp.Body) == 0 {
		return nil
	}
	if resp.StatusCode == http.StatusNoContent || resp.Header.Get("Content-Length") == "0" {
		return nil
	}
	if err := json.Unmarshal(resp.Body, e.cfg.Result); err != nil {
		return newParseError(ResponseJSON, resp.Text(), err)
	}
	return nil
}

// fail notifies the matching error hooks and returns the error the call
// should return.
func (e *execution) fail(err error) error {
	if ce, ok := err.(*Error); ok && ce.Kind == HTTPError && ce.Response != nil {
		if hookErr := e.runner.onResponseError(ce, ce.Response, e.cfg); hookErr != nil {
			return hookErr
		}
		return err
	}
	if hookErr := e.runner.onRequestError(err, e.cfg); hookErr != nil {
		return hookErr
	}
	return err
}

func transportError(req *http.Request, err error) *Error {
	ue := urlErrorWrap(req, err)
	kind := NetworkError
	message := "network failure"
	if transient.Categorize(ue) == transient.Timeout {
		kind = TimeoutError
		message = "request timed out"
	}
	return &Error{
		Message: message,
		Kind:    kind,
		Cause:   ue,
	}
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do. Any Method set in opts is ignored.
func (c *Client) Get(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Get(ctx, c, url, opts)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Do. The request body is taken from opts.Body.
func (c *Client) Post(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Post(ctx, c, url, opts)
}

// Put issues a PUT to the specified URL, using the same policies
// followed by Do.
func (c *Client) Put(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Put(ctx, c, url, opts)
}

// Delete issues a DELETE to the specified URL, using the same policies
// followed by Do.
func (c *Client) Delete(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Delete(ctx, c, url, opts)
}

// Patch issues a PATCH to the specified URL, using the same policies
// followed by Do.
func (c *Client) Patch(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Patch(ctx, c, url, opts)
}

// Options issues an OPTIONS request to the specified URL, using the
// same policies followed by Do.
func (c *Client) Options(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return OptionsRequest(ctx, c, url, opts)
}

// Head issues a HEAD to the specified URL, using the same policies
// followed by Do. Since a HEAD response has no body, the parsed result
// is normally nil.
func (c *Client) Head(ctx context.Context, url string, opts *Options) (interface{}, error) {
	return Head(ctx, c, url, opts)
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}

	return c.Logger
}

func (c *Client) runner() hookRunner {
	hooks := c.Hooks
	if hooks == nil {
		hooks = &emptyHooks
	}
	return hookRunner{hooks: hooks, logger: c.logger()}
}

func urlErrorWrap(req *http.Request, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(req.Method),
		URL: req.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
