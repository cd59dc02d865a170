// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// Params is a structured set of query parameters. Nil values are
// skipped, slice and array values produce one query entry per non-nil
// element, and any other value produces a single entry.
type Params map[string]interface{}

// A ParamsSerializer encodes structured query parameters into a query
// string, without the leading '?'.
type ParamsSerializer func(params Params) string

// BuildURL returns the full URL for a request.
//
// If requestURL starts with "http://" or "https://", baseURL is ignored.
// Otherwise requestURL is resolved relative to baseURL, which must then
// be an absolute URL.
//
// Parameter params may be nil; a pre-encoded query (url.Values,
// map[string][]string, or string), which is used verbatim; or structured
// parameters (Params, map[string]interface{}, or map[string]string),
// which are encoded by serializer if it is not nil, or by
// SerializeParams otherwise. Any other type is an error. The encoded parameters are
// appended to any query already present in the resolved URL.
//
// Any failure is returned as an *Error of kind URLBuildError whose Cause
// is the original fault.
func BuildURL(requestURL, baseURL string, params interface{}, serializer ParamsSerializer) (string, error) {
	u, err := resolveURL(requestURL, baseURL)
	if err != nil {
		return "", urlBuildError(err)
	}

	query, err := encodeParams(params, serializer)
	if err != nil {
		return "", urlBuildError(err)
	}

	if query != "" {
		if u.RawQuery == "" {
			u.RawQuery = query
		} else {
			u.RawQuery += "&" + query
		}
		u.ForceQuery = false
	}

	return u.String(), nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

func resolveURL(requestURL, baseURL string) (*url.URL, error) {
	if isAbsoluteURL(requestURL) {
		u, err := url.Parse(requestURL)
		if err != nil {
			return nil, err
		}
		if u.Host == "" {
			return nil, fmt.Errorf("missing host in URL %q", requestURL)
		}
		return u, nil
	}

	ref, err := url.Parse(requestURL)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		if ref.IsAbs() && ref.Host != "" {
			return ref, nil
		}
		return nil, fmt.Errorf("relative URL %q has no base URL", requestURL)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL %q is not absolute", baseURL)
	}

	return base.ResolveReference(ref), nil
}

func urlBuildError(cause error) *Error {
	return &Error{
		Message: "invalid URL",
		Kind:    URLBuildError,
		Cause:   cause,
	}
}

func encodeParams(params interface{}, serializer ParamsSerializer) (string, error) {
	switch p := params.(type) {
	case nil:
		return "", nil
	case url.Values:
		return p.Encode(), nil
	case map[string][]string:
		return url.Values(p).Encode(), nil
	case string:
		return strings.TrimPrefix(p, "?"), nil
	case Params:
		return serialize(p, serializer), nil
	case map[string]interface{}:
		return serialize(p, serializer), nil
	case map[string]string:
		if p == nil {
			return "", nil
		}
		structured := make(Params, len(p))
		for k, v := range p {
			structured[k] = v
		}
		return serialize(structured, serializer), nil
	default:
		return "", fmt.Errorf("unsupported params type %T", params)
	}
}

func serialize(p Params, serializer ParamsSerializer) string {
	if p == nil {
		return ""
	}
	if serializer != nil {
		return strings.TrimPrefix(serializer(p), "?")
	}
	return SerializeParams(p)
}

// SerializeParams is the default ParamsSerializer.
//
// Entries whose value is nil (including a nil pointer) are skipped. A
// slice or array value, other than a []byte, adds one query entry per
// non-nil element, all under the same key. Any other value sets a single
// entry formatted as by fmt.Sprint. The result is sorted by key.
func SerializeParams(params Params) string {
	values := make(url.Values, len(params))
	for key, value := range params {
		v, ok := deref(value)
		if !ok {
			continue
		}
		rv := reflect.ValueOf(v)
		if isList(rv) {
			for i := 0; i < rv.Len(); i++ {
				if elem, ok := deref(rv.Index(i).Interface()); ok {
					values.Add(key, formatParam(elem))
				}
			}
			continue
		}
		values.Set(key, formatParam(v))
	}
	return values.Encode()
}

func formatParam(v interface{}) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

func isList(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}

// deref follows pointers and interfaces until it reaches a concrete
// value. It reports false if v is nil or a nil pointer was reached.
func deref(v interface{}) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}
