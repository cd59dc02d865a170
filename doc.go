// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetchx provides a typed HTTP client with merged defaults,
automatic body encoding, response parsing, and a hook pipeline, within a
small and familiar interface.

Create a Client to begin making requests.

	client := &fetchx.Client{
		BaseURL: "https://api.example.com",
		Header:  fetchx.HeaderMap{"Accept": "application/json"},
	}
	users, err := client.Get(ctx, "/users", &fetchx.Options{
		Params: fetchx.Params{"id": []int{1, 2}},
	})
	...
	created, err := client.Post(ctx, "/users", &fetchx.Options{
		Body: map[string]string{"name": "x"},
	})

The parsed result of a JSON response is the value produced by
encoding/json for an interface{} target. To decode into a typed value
instead, set Options.Result:

	var u User
	_, err := client.Get(ctx, "/users/1", &fetchx.Options{Result: &u})

A failed request returns an *Error classified by Kind. A response whose
status is outside 200-399 produces an HTTPError whose Cause is the parsed
response body:

	_, err := client.Get(ctx, "/missing", nil)
	var fe *fetchx.Error
	if errors.As(err, &fe) && fe.Kind == fetchx.HTTPError {
		log.Printf("status %d: %v", fe.Status, fe.Cause)
	}

A response body that was requested as JSON but is not valid JSON
produces a *ParseError instead.

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer. For example, use a GoLang standard
HTTP client:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client := &fetchx.Client{
		HTTPDoer: doer,
	}

Cancellation and timeouts are controlled entirely by the context passed
to each call.

To add cross-cutting behavior such as authentication or logging, install
hooks. Package hooks contains ready-made hooks for many common needs.

	h := &fetchx.Hooks{}
	h.BeforeRequest = append(h.BeforeRequest, func(c fetchx.Config) (fetchx.Config, error) {
		c.Header.Set("Authorization", "Bearer "+token)
		return c, nil
	})
	client := &fetchx.Client{
		Hooks: h,
	}

Package fetchx provides basic interfaces for each method of the client
(Doer, Getter, Poster, Putter, Deleter, Patcher, OptionsRequester, Header,
and IdleCloser); a combined interface that composes all the basic methods
(Executor); and utility functions for working with a Doer (Inflate, and
one function per HTTP verb).
*/
package fetchx
