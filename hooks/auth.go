// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gogama/fetchx"
)

// ErrEmptyToken is returned by the BearerToken hook when its
// TokenSource produces an empty token.
var ErrEmptyToken = errors.New("hooks: empty bearer token")

// A TokenSource supplies the bearer token for a request. It may block,
// for example to refresh an expired token, and should honor ctx.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource that always supplies token.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) {
		return token, nil
	}
}

// Header returns hooks that set the named header to value on every
// request, replacing any value already configured.
func Header(name, value string) *fetchx.Hooks {
	return &fetchx.Hooks{
		BeforeRequest: []fetchx.BeforeRequestFunc{
			func(c fetchx.Config) (fetchx.Config, error) {
				c.Header.Set(name, value)
				return c, nil
			},
		},
	}
}

// BearerToken returns hooks that set the Authorization header of every
// request to a bearer token obtained from source. A request that
// already carries an Authorization header is left alone.
func BearerToken(source TokenSource) *fetchx.Hooks {
	return &fetchx.Hooks{
		BeforeRequest: []fetchx.BeforeRequestFunc{
			func(c fetchx.Config) (fetchx.Config, error) {
				if c.Header.Get("Authorization") != "" {
					return c, nil
				}
				token, err := source(c.Context())
				if err != nil {
					return c, fmt.Errorf("hooks: obtaining bearer token: %w", err)
				}
				if token == "" {
					return c, ErrEmptyToken
				}
				c.Header.Set("Authorization", "Bearer "+token)
				return c, nil
			},
		},
	}
}

// BasicAuth returns hooks that set the Authorization header of every
// request to use HTTP Basic Authentication with the provided username
// and password. A request that already carries an Authorization header
// is left alone.
func BasicAuth(username, password string) *fetchx.Hooks {
	credentials := "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
	return &fetchx.Hooks{
		BeforeRequest: []fetchx.BeforeRequestFunc{
			func(c fetchx.Config) (fetchx.Config, error) {
				if c.Header.Get("Authorization") == "" {
					c.Header.Set("Authorization", credentials)
				}
				return c, nil
			},
		},
	}
}
