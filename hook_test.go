// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_Append(t *testing.T) {
	var calls []string
	a := &Hooks{
		BeforeRequest: []BeforeRequestFunc{
			func(c Config) (Config, error) { calls = append(calls, "a"); return c, nil },
		},
	}
	b := &Hooks{
		BeforeRequest: []BeforeRequestFunc{
			func(c Config) (Config, error) { calls = append(calls, "b"); return c, nil },
		},
		AfterResponse:   make([]AfterResponseFunc, 2),
		OnResponseError: make([]ResponseErrorFunc, 3),
		OnRequestError:  make([]RequestErrorFunc, 4),
	}

	h := (&Hooks{}).Append(a, nil, b)

	assert.Equal(t, 2, h.Len(BeforeRequest))
	assert.Equal(t, 2, h.Len(AfterResponse))
	assert.Equal(t, 3, h.Len(OnResponseError))
	assert.Equal(t, 4, h.Len(OnRequestError))
	assert.Equal(t, 0, h.Len(stageSentinel))
	assert.Equal(t, 0, (*Hooks)(nil).Len(BeforeRequest))
	assert.Equal(t, 1, a.Len(BeforeRequest))

	_, err := newTestRunner(h, nil).beforeRequest(Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestHookRunner(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		r := newTestRunner(&emptyHooks, nil)
		c := Config{Method: "GET"}
		c2, err := r.beforeRequest(c)
		assert.NoError(t, err)
		assert.Equal(t, "GET", c2.Method)
		resp := NewResponse(200, nil, nil)
		resp2, err := r.afterResponse(resp, c)
		assert.NoError(t, err)
		assert.Same(t, resp, resp2)
		assert.NoError(t, r.onResponseError(&Error{}, resp, c))
		assert.NoError(t, r.onRequestError(errors.New("x"), c))
	})
	t.Run("before request fold", func(t *testing.T) {
		h := &Hooks{
			BeforeRequest: []BeforeRequestFunc{
				func(c Config) (Config, error) {
					c.Header.Set("X-Step", "1")
					c.Method = "POST"
					return c, nil
				},
				nil,
				func(c Config) (Config, error) {
					assert.Equal(t, "1", c.Header.Get("X-Step"))
					assert.Equal(t, "POST", c.Method)
					c.Header.Set("X-Step", "2")
					return c, nil
				},
			},
		}
		original := Config{Header: http.Header{"X-Step": {"0"}}}

		c, err := newTestRunner(h, nil).beforeRequest(original)

		require.NoError(t, err)
		assert.Equal(t, "2", c.Header.Get("X-Step"))
		assert.Equal(t, "POST", c.Method)
		assert.Equal(t, "0", original.Header.Get("X-Step"))
	})
	t.Run("before request stops on error", func(t *testing.T) {
		expected := errors.New("stop")
		var ran []int
		h := &Hooks{
			BeforeRequest: []BeforeRequestFunc{
				func(c Config) (Config, error) { ran = append(ran, 0); c.BaseURL = "first"; return c, nil },
				func(c Config) (Config, error) { ran = append(ran, 1); c.BaseURL = "second"; return c, expected },
				func(c Config) (Config, error) { ran = append(ran, 2); return c, nil },
			},
		}

		c, err := newTestRunner(h, nil).beforeRequest(Config{})

		assert.Same(t, expected, err)
		assert.Equal(t, []int{0, 1}, ran)
		assert.Equal(t, "first", c.BaseURL)
	})
	t.Run("after response fold", func(t *testing.T) {
		first := NewResponse(200, nil, []byte("1"))
		second := NewResponse(201, nil, []byte("2"))
		h := &Hooks{
			AfterResponse: []AfterResponseFunc{
				func(r *Response, _ Config) (*Response, error) {
					assert.Same(t, first, r)
					return second, nil
				},
				func(r *Response, _ Config) (*Response, error) {
					assert.Same(t, second, r)
					return r, nil
				},
			},
		}

		r, err := newTestRunner(h, nil).afterResponse(first, Config{})

		require.NoError(t, err)
		assert.Same(t, second, r)
	})
	t.Run("after response error", func(t *testing.T) {
		expected := errors.New("bad response")
		h := &Hooks{
			AfterResponse: []AfterResponseFunc{
				func(r *Response, _ Config) (*Response, error) { return nil, expected },
			},
		}

		_, err := newTestRunner(h, nil).afterResponse(NewResponse(200, nil, nil), Config{})

		assert.Same(t, expected, err)
	})
	t.Run("after response nil", func(t *testing.T) {
		resp := NewResponse(200, nil, nil)
		h := &Hooks{
			AfterResponse: []AfterResponseFunc{
				func(*Response, Config) (*Response, error) { return nil, nil },
			},
		}

		r, err := newTestRunner(h, nil).afterResponse(resp, Config{})

		assert.Same(t, errNilResponse, err)
		assert.Same(t, resp, r)
	})
	t.Run("error stages run every hook in order", func(t *testing.T) {
		var order []string
		h := &Hooks{
			OnResponseError: []ResponseErrorFunc{
				func(*Error, *Response, Config) error { order = append(order, "resp-1"); return nil },
				nil,
				func(*Error, *Response, Config) error { order = append(order, "resp-2"); return nil },
			},
			OnRequestError: []RequestErrorFunc{
				func(error, Config) error { order = append(order, "req-1"); return nil },
				func(error, Config) error { order = append(order, "req-2"); return nil },
			},
		}
		r := newTestRunner(h, nil)

		assert.NoError(t, r.onResponseError(&Error{Kind: HTTPError}, NewResponse(500, nil, nil), Config{}))
		assert.NoError(t, r.onRequestError(errors.New("x"), Config{}))

		assert.Equal(t, []string{"resp-1", "resp-2", "req-1", "req-2"}, order)
	})
	t.Run("error hook error stops pipeline", func(t *testing.T) {
		expected := errors.New("replacement")
		var ran int
		h := &Hooks{
			OnRequestError: []RequestErrorFunc{
				func(error, Config) error { ran++; return expected },
				func(error, Config) error { ran++; return nil },
			},
		}

		err := newTestRunner(h, nil).onRequestError(errors.New("original"), Config{})

		assert.Same(t, expected, err)
		assert.Equal(t, 1, ran)
	})
	t.Run("debug logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		h := &Hooks{
			BeforeRequest: []BeforeRequestFunc{
				func(c Config) (Config, error) { return c, nil },
				func(c Config) (Config, error) { return c, nil },
			},
		}
		r := newTestRunner(h, logger)

		_, err := r.beforeRequest(Config{})
		require.NoError(t, err)
		_, err = r.afterResponse(NewResponse(200, nil, nil), Config{})
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "stage=BeforeRequest count=2")
		assert.NotContains(t, buf.String(), "AfterResponse")
	})
}

func newTestRunner(h *Hooks, logger *slog.Logger) hookRunner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	}
	return hookRunner{hooks: h, logger: logger}
}
