// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogama/fetchx"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestLogging(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		logger, buf := newTestLogger()
		cl := newClient(t, RequestID(""), Logging(logger))

		_, err := cl.Post(context.Background(), "/items", &fetchx.Options{Body: "x"})

		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, `level=INFO msg="request started" method=POST base_url=`)
		assert.Contains(t, out, `msg="request completed" method=POST`)
		assert.Contains(t, out, "status=200")
		assert.Contains(t, out, "request_id=")
		assert.Contains(t, out, "/items")
		assert.NotContains(t, out, "level=ERROR")
	})
	t.Run("http error", func(t *testing.T) {
		logger, buf := newTestLogger()
		cl := newClient(t, Logging(logger))

		_, err := cl.Get(context.Background(), "/missing", &fetchx.Options{Params: "status=404"})

		require.Error(t, err)
		out := buf.String()
		assert.Contains(t, out, `level=ERROR msg="request failed" method=GET`)
		assert.Contains(t, out, "kind=HTTP_ERROR status=404")
		assert.Contains(t, out, "/missing")
	})
	t.Run("request error", func(t *testing.T) {
		logger, buf := newTestLogger()
		cl := newClient(t, Logging(logger))

		_, err := cl.Get(context.Background(), "http://[::1]:namedport", nil)

		require.Error(t, err)
		out := buf.String()
		assert.Contains(t, out, `level=ERROR msg="request failed" method=GET`)
		assert.Contains(t, out, "kind=URL_BUILD_ERROR")
	})
	t.Run("nil logger uses default", func(t *testing.T) {
		assert.NotNil(t, Logging(nil))
	})
}
