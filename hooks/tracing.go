// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogama/fetchx"
)

const tracerName = "github.com/gogama/fetchx/hooks"

type spanKey struct{}

// Tracing returns hooks that wrap every request in an OpenTelemetry
// client span and propagate the span context to the server in the
// request headers.
//
// If tracer is nil, a tracer is obtained from the global provider. If
// propagator is nil, the global text map propagator is used.
//
// The span is started in the BeforeRequest stage and ended once the call
// has finished, using fetchx.Config.OnDone, so that a failure after a
// successful status, such as a body that cannot be parsed, is still
// recorded on the span. Since the span becomes the parent of anything
// later hooks do with the request context, Tracing should normally be
// registered first.
func Tracing(tracer trace.Tracer, propagator propagation.TextMapPropagator) *fetchx.Hooks {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}

	return &fetchx.Hooks{
		BeforeRequest: []fetchx.BeforeRequestFunc{
			func(c fetchx.Config) (fetchx.Config, error) {
				m := method(c)
				ctx, span := tracer.Start(c.Context(), "fetchx "+m, trace.WithSpanKind(trace.SpanKindClient))
				span.SetAttributes(attribute.String("http.request.method", m))
				if c.BaseURL != "" {
					span.SetAttributes(attribute.String("fetchx.base_url", c.BaseURL))
				}

				propagator.Inject(ctx, propagation.HeaderCarrier(c.Header))

				c = c.WithContext(context.WithValue(ctx, spanKey{}, span))
				return c.OnDone(func(err error) { endSpan(span, err) }), nil
			},
		},
		AfterResponse: []fetchx.AfterResponseFunc{
			func(r *fetchx.Response, c fetchx.Config) (*fetchx.Response, error) {
				span := spanFromConfig(c)
				if span == nil {
					return r, nil
				}
				span.SetAttributes(attribute.Int("http.response.status_code", r.StatusCode))
				if r.Request != nil {
					span.SetAttributes(attribute.String("url.full", r.Request.URL.String()))
				}
				return r, nil
			},
		},
	}
}

// spanFromConfig returns the span started by Tracing for the request,
// never a span belonging to the caller.
func spanFromConfig(c fetchx.Config) trace.Span {
	span, _ := c.Context().Value(spanKey{}).(trace.Span)
	return span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
