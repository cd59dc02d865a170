// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package hooks provides ready-made hooks for a fetchx Client.

Every constructor in this package returns a *fetchx.Hooks holding the
hook functions for the stages it needs. Registries compose with
Hooks.Append, and the order of registration is the order of execution:

	h := (&fetchx.Hooks{}).Append(
		hooks.RequestID(""),
		hooks.BearerToken(hooks.StaticToken(token)),
		hooks.Logging(logger),
	)
	client := &fetchx.Client{
		BaseURL: "https://api.example.com",
		Hooks:   h,
	}

Authentication and header hooks (Header, BearerToken, BasicAuth) only
touch the BeforeRequest stage. Observability hooks (Logging, Tracing,
Metrics, Sentry) span several stages and carry per-request state through
the request context attached to fetchx.Config.
*/
package hooks
