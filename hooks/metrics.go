// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/transient"
)

// Metrics provides Prometheus metrics for requests made by a fetchx
// Client. It is safe for concurrent use.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics creates a Metrics collector whose metrics are registered
// with registry. If registry is nil, prometheus.DefaultRegisterer is
// used. Registering two collectors with the same registry panics.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	return &Metrics{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_requests_total",
				Help: "Total number of HTTP responses received",
			},
			[]string{"method", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fetchx_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds, until the response was buffered",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_errors_total",
				Help: "Total number of failed requests",
			},
			[]string{"method", "kind", "category"},
		),
	}
}

type startKey struct{}

// Hooks returns the hooks that feed m. They start a timer in the
// BeforeRequest stage, record the request count and duration in the
// AfterResponse stage, and count failures in both error stages.
func (m *Metrics) Hooks() *fetchx.Hooks {
	return &fetchx.Hooks{
		BeforeRequest: []fetchx.BeforeRequestFunc{
			func(c fetchx.Config) (fetchx.Config, error) {
				return c.WithContext(context.WithValue(c.Context(), startKey{}, time.Now())), nil
			},
		},
		AfterResponse: []fetchx.AfterResponseFunc{
			func(r *fetchx.Response, c fetchx.Config) (*fetchx.Response, error) {
				m.RecordResponse(method(c), r.StatusCode, elapsed(c))
				return r, nil
			},
		},
		OnResponseError: []fetchx.ResponseErrorFunc{
			func(err *fetchx.Error, _ *fetchx.Response, c fetchx.Config) error {
				m.RecordError(method(c), err)
				return nil
			},
		},
		OnRequestError: []fetchx.RequestErrorFunc{
			func(err error, c fetchx.Config) error {
				m.RecordError(method(c), err)
				return nil
			},
		},
	}
}

// RecordResponse records request count and duration.
func (m *Metrics) RecordResponse(method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}

	statusCodeStr := strconv.Itoa(statusCode)
	m.requestsTotal.WithLabelValues(method, statusCodeStr).Inc()
	m.requestDuration.WithLabelValues(method, statusCodeStr).Observe(duration.Seconds())
}

// RecordError counts a failed request. The kind label is the Kind of a
// *fetchx.Error, "PARSE_ERROR" for a *fetchx.ParseError, and "OTHER"
// for anything else. The category label is the transient category of
// err.
func (m *Metrics) RecordError(method string, err error) {
	if m == nil {
		return
	}

	m.errorsTotal.WithLabelValues(method, errorKind(err), transient.Categorize(err).String()).Inc()
}

func errorKind(err error) string {
	var fe *fetchx.Error
	if errors.As(err, &fe) {
		return fe.Kind.String()
	}
	var pe *fetchx.ParseError
	if errors.As(err, &pe) {
		return "PARSE_ERROR"
	}
	return "OTHER"
}

func method(c fetchx.Config) string {
	if c.Method == "" {
		return http.MethodGet
	}
	return c.Method
}

func elapsed(c fetchx.Config) time.Duration {
	start, ok := c.Context().Value(startKey{}).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
