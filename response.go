// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// A Response is a fully-buffered HTTP response.
//
// Client reads the entire body of the transport's http.Response into
// Body and closes it before any AfterResponse hook runs, so a Response
// can be read any number of times. AfterResponse hooks receive a clone of
// the response and may return a different Response altogether.
type Response struct {
	// StatusCode is the HTTP status code, for example 200.
	StatusCode int

	// Status is the status line text, for example "200 OK".
	Status string

	// Header contains the response headers. If the transport reported a
	// known content length but no Content-Length header, the header is
	// added.
	Header http.Header

	// Body is the complete response body. It is never nil in a Response
	// produced by Client, though it may be empty.
	Body []byte

	// Request is the HTTP request that was sent to obtain this
	// response.
	Request *http.Request
}

// NewResponse returns a Response with the given status code, header
// and body. Hooks can use it to synthesize or replace a response.
func NewResponse(statusCode int, header http.Header, body []byte) *Response {
	if header == nil {
		header = make(http.Header)
	}
	if body == nil {
		body = []byte{}
	}
	return &Response{
		StatusCode: statusCode,
		Status:     strconv.Itoa(statusCode) + " " + http.StatusText(statusCode),
		Header:     header,
		Body:       body,
	}
}

// readResponse buffers the body of an HTTP response into a new Response,
// always closing the original body.
func readResponse(resp *http.Response) (*Response, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	h := resp.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	if h.Get("Content-Length") == "" && resp.ContentLength >= 0 {
		h.Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     h,
		Body:       b,
		Request:    resp.Request,
	}, nil
}

// OK reports whether the status code is in the success range 200-399.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// Clone returns a deep copy of r, except for Request which is shared.
func (r *Response) Clone() *Response {
	r2 := new(Response)
	*r2 = *r
	r2.Header = r.Header.Clone()
	if r.Body != nil {
		r2.Body = append([]byte{}, r.Body...)
	}
	return r2
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Reader returns a new reader over the body.
func (r *Response) Reader() io.Reader {
	return bytes.NewReader(r.Body)
}
