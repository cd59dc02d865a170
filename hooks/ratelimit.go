// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogama/fetchx"
	"golang.org/x/time/rate"
)

var (
	// ErrMustNotBeZero is returned by RateLimit for a non-positive rate
	// or burst.
	ErrMustNotBeZero = errors.New("must be greater than zero")
	// ErrWaitingFailed wraps the error from a limiter wait that could
	// not be satisfied, for example because it would outlast the
	// request deadline.
	ErrWaitingFailed = errors.New("limiter waiting failed")
	// ErrContextEnded wraps the context error when the request context
	// ends before or just after waiting for a token.
	ErrContextEnded = errors.New("rate limit context ended")
)

// RateLimit returns hooks that restrict outbound requests to rps
// requests per second, with bursts of up to burst requests, using a
// token bucket limiter.
//
// A request arriving when no token is available waits in its
// BeforeRequest hook until one is, or until the request context ends,
// in which case the request fails with an error wrapping
// ErrWaitingFailed or ErrContextEnded. If logger is not nil, waits are
// logged at info level.
func RateLimit(rps float64, burst int, logger *slog.Logger) (*fetchx.Hooks, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%g] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}

	return Limiter(rate.NewLimiter(rate.Limit(rps), burst), logger), nil
}

// Limiter is like RateLimit, but uses a caller-supplied limiter, which
// may be shared with other clients.
func Limiter(limiter *rate.Limiter, logger *slog.Logger) *fetchx.Hooks {
	return &fetchx.Hooks{
		BeforeRequest: []fetchx.BeforeRequestFunc{
			func(c fetchx.Config) (fetchx.Config, error) {
				return c, wait(limiter, logger, c)
			},
		},
	}
}

func wait(limiter *rate.Limiter, logger *slog.Logger, c fetchx.Config) error {
	ctx := c.Context()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	var waited time.Duration
	if logger != nil && limiter.Tokens() < 1 {
		logger.Info("rate limit tokens exhausted", "limit", float64(limiter.Limit()), "burst", limiter.Burst(), "base_url", c.BaseURL)

		defer func() {
			logger.Info("rate limit wait complete", "waited", waited.String())
		}()
	}

	start := time.Now()

	err := limiter.Wait(ctx)
	waited = time.Since(start)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return nil
}
