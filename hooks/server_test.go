// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gogama/fetchx"
)

// newServer starts a server that responds with the request headers as
// JSON. The query parameter "status" selects the response status.
func newServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		status := http.StatusOK
		if s := req.URL.Query().Get("status"); s != "" {
			status, _ = strconv.Atoi(s)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(req.Header)
	}))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T, hooks ...*fetchx.Hooks) *fetchx.Client {
	server := newServer(t)
	return &fetchx.Client{
		HTTPDoer: server.Client(),
		BaseURL:  server.URL,
		Hooks:    (&fetchx.Hooks{}).Append(hooks...),
	}
}

// record returns hooks that save the effective request Config into *c.
func record(c *fetchx.Config) *fetchx.Hooks {
	return &fetchx.Hooks{
		BeforeRequest: []fetchx.BeforeRequestFunc{
			func(cfg fetchx.Config) (fetchx.Config, error) {
				*c = cfg
				return cfg, nil
			},
		},
	}
}

// sentHeader returns the request headers echoed by the server.
func sentHeader(t *testing.T, v interface{}) http.Header {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var h http.Header
	if err = json.Unmarshal(b, &h); err != nil {
		t.Fatal(err)
	}
	return h
}
