// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/gogama/fetchx"
)

// Sentry returns hooks that report failed requests to Sentry.
//
// Every failure other than an HTTPError is reported, as is an HTTPError
// whose status is at least minStatus. If minStatus is zero or less,
// http.StatusInternalServerError is used, so client errors are not
// reported.
//
// Events go to the hub attached to the request context, if any, then
// to hub, then to sentry.CurrentHub().
func Sentry(hub *sentry.Hub, minStatus int) *fetchx.Hooks {
	if minStatus <= 0 {
		minStatus = http.StatusInternalServerError
	}

	return &fetchx.Hooks{
		OnResponseError: []fetchx.ResponseErrorFunc{
			func(err *fetchx.Error, r *fetchx.Response, c fetchx.Config) error {
				if err.Status < minStatus {
					return nil
				}
				capture(hubFor(c, hub), err, c, r)
				return nil
			},
		},
		OnRequestError: []fetchx.RequestErrorFunc{
			func(err error, c fetchx.Config) error {
				capture(hubFor(c, hub), err, c, nil)
				return nil
			},
		},
	}
}

func hubFor(c fetchx.Config, fallback *sentry.Hub) *sentry.Hub {
	if hub := sentry.GetHubFromContext(c.Context()); hub != nil {
		return hub
	}
	if fallback != nil {
		return fallback
	}
	return sentry.CurrentHub()
}

func capture(hub *sentry.Hub, err error, c fetchx.Config, r *fetchx.Response) {
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("http.method", method(c))
		scope.SetTag("fetchx.kind", errorKind(err))
		if id := RequestIDFromContext(c.Context()); id != "" {
			scope.SetTag("request_id", id)
		}

		details := map[string]interface{}{
			"base_url": c.BaseURL,
		}
		var fe *fetchx.Error
		if errors.As(err, &fe) && fe.Status != 0 {
			details["status"] = fe.Status
		}
		if r != nil && r.Request != nil {
			details["url"] = r.Request.URL.String()
		}
		scope.SetContext("fetchx", details)

		hub.CaptureException(err)
	})
}
