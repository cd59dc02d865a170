// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var httpServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var httpsServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var http2Server = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var servers = []*httptest.Server{httpServer, httpsServer, http2Server}

func TestMain(m *testing.M) {
	httpServer.Start()
	defer httpServer.Close()
	httpsServer.StartTLS()
	defer httpsServer.Close()
	http2Server.EnableHTTP2 = true
	http2Server.StartTLS()
	defer http2Server.Close()
	waitForServerStart(httpServer)
	waitForServerStart(httpsServer)
	waitForServerStart(http2Server)
	os.Exit(m.Run())
}

func waitForServerStart(server *httptest.Server) {
	cl := &Client{
		HTTPDoer: server.Client(),
		BaseURL:  server.URL,
	}
	deadline := time.Now().Add(10 * time.Second)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := cl.Get(ctx, "/", &Options{Params: Params{"status": 204}})
		cancel()
		if err == nil {
			return
		}
		if time.Now().After(deadline) {
			panic(fmt.Sprintf("Test server startup failed with error %v", err))
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func serverName(server *httptest.Server) string {
	switch server {
	case httpServer:
		return "http"
	case httpsServer:
		return "https"
	case http2Server:
		return "http2"
	default:
		panic("unknown server")
	}
}

// echo is the body returned by serverHandler: a description of the
// request it received.
type echo struct {
	Method string              `json:"method"`
	Path   string              `json:"path"`
	Query  map[string][]string `json:"query"`
	Header map[string][]string `json:"header"`
	Body   string              `json:"body"`
	Host   string              `json:"host"`
}

// serverHandler echoes the request back as JSON. The query parameters
// "status" and "pause" instruct it to respond with a given status code,
// after a given delay.
func serverHandler(w http.ResponseWriter, req *http.Request) {
	b, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		w.WriteHeader(400)
		_, _ = io.WriteString(w, fmt.Sprintf("failed to read request: %s", err.Error()))
		return
	}

	status := 200
	if s := req.URL.Query().Get("status"); s != "" {
		if status, err = strconv.Atoi(s); err != nil {
			w.WriteHeader(400)
			_, _ = io.WriteString(w, fmt.Sprintf("bad status in instruction: %q", s))
			return
		}
	}

	if p := req.URL.Query().Get("pause"); p != "" {
		d, err := time.ParseDuration(p)
		if err != nil {
			w.WriteHeader(400)
			_, _ = io.WriteString(w, fmt.Sprintf("bad pause in instruction: %q", p))
			return
		}
		select {
		case <-time.After(d):
		case <-req.Context().Done():
			return
		}
	}

	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	out, err := json.Marshal(echo{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header,
		Body:   string(b),
		Host:   req.Host,
	})
	if err != nil {
		panic(err)
	}

	header := w.Header()
	header.Set("Content-Type", "application/json")
	header.Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(status)
	if req.Method != http.MethodHead {
		_, _ = w.Write(out)
	}
}

func TestClientServer(t *testing.T) {
	for _, server := range servers {
		server := server
		t.Run(serverName(server), func(t *testing.T) {
			t.Run("get with array params", func(t *testing.T) {
				cl := &Client{HTTPDoer: server.Client(), BaseURL: server.URL}
				var e echo

				v, err := cl.Get(context.Background(), "/users", &Options{
					Params: Params{"id": []int{1, 2}},
					Result: &e,
				})

				require.NoError(t, err)
				assert.IsType(t, map[string]interface{}{}, v)
				assert.Equal(t, "GET", e.Method)
				assert.Equal(t, "/users", e.Path)
				assert.Equal(t, []string{"1", "2"}, e.Query["id"])
			})
			t.Run("post JSON", func(t *testing.T) {
				cl := &Client{
					HTTPDoer: server.Client(),
					BaseURL:  server.URL,
					Header:   HeaderMap{"X-Default": "yes"},
				}
				var e echo

				_, err := cl.Post(context.Background(), "/users", &Options{
					Body:   map[string]string{"name": "x"},
					Result: &e,
				})

				require.NoError(t, err)
				assert.Equal(t, "POST", e.Method)
				assert.Equal(t, `{"name":"x"}`, e.Body)
				assert.Equal(t, []string{ContentTypeJSON}, e.Header["Content-Type"])
				assert.Equal(t, []string{"yes"}, e.Header["X-Default"])
			})
			t.Run("host override", func(t *testing.T) {
				cl := &Client{HTTPDoer: server.Client(), BaseURL: server.URL}
				var e echo

				_, err := cl.Get(context.Background(), "/", &Options{Host: "virtual.test", Result: &e})

				require.NoError(t, err)
				assert.Equal(t, "virtual.test", e.Host)
			})
			t.Run("head", func(t *testing.T) {
				cl := &Client{HTTPDoer: server.Client(), BaseURL: server.URL}

				v, err := cl.Head(context.Background(), "/", nil)

				require.NoError(t, err)
				assert.Nil(t, v)
			})
			t.Run("no content", func(t *testing.T) {
				cl := &Client{HTTPDoer: server.Client(), BaseURL: server.URL}

				v, err := cl.Delete(context.Background(), "/users/1", &Options{Params: "status=204"})

				require.NoError(t, err)
				assert.Nil(t, v)
			})
			t.Run("server error", func(t *testing.T) {
				var calls []int
				cl := &Client{
					HTTPDoer: server.Client(),
					BaseURL:  server.URL,
					Hooks: &Hooks{
						OnResponseError: []ResponseErrorFunc{
							func(err *Error, _ *Response, _ Config) error {
								calls = append(calls, err.Status)
								return nil
							},
						},
					},
				}

				v, err := cl.Get(context.Background(), "/fail", &Options{Params: Params{"status": 500}})

				assert.Nil(t, v)
				var fe *Error
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, HTTPError, fe.Kind)
				assert.Equal(t, 500, fe.Status)
				require.IsType(t, map[string]interface{}{}, fe.Cause)
				assert.Equal(t, "/fail", fe.Cause.(map[string]interface{})["path"])
				assert.Equal(t, []int{500}, calls)
			})
			t.Run("timeout", func(t *testing.T) {
				cl := &Client{HTTPDoer: server.Client(), BaseURL: server.URL}
				ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
				defer cancel()

				v, err := cl.Get(ctx, "/slow", &Options{Params: Params{"pause": "5s"}})

				assert.Nil(t, v)
				var fe *Error
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, TimeoutError, fe.Kind)
				assert.True(t, fe.Timeout())
			})
			t.Run("canceled", func(t *testing.T) {
				cl := &Client{HTTPDoer: server.Client(), BaseURL: server.URL}
				ctx, cancel := context.WithCancel(context.Background())
				cancel()

				v, err := cl.Get(ctx, "/", nil)

				assert.Nil(t, v)
				var fe *Error
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, NetworkError, fe.Kind)
				assert.ErrorIs(t, err, context.Canceled)
			})
		})
	}
}

func TestClientZeroValue(t *testing.T) {
	cl := &Client{}
	var e echo

	_, err := cl.Put(context.Background(), httpServer.URL+"/zero", &Options{Body: "plain", Result: &e})

	require.NoError(t, err)
	assert.Equal(t, "PUT", e.Method)
	assert.Equal(t, "plain", e.Body)
	assert.Equal(t, []string{ContentTypeText}, e.Header["Content-Type"])
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(serverHandler))
	addr := server.URL
	server.Close()
	cl := &Client{}

	v, err := cl.Get(context.Background(), addr, nil)

	assert.Nil(t, v)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, NetworkError, fe.Kind)
}
