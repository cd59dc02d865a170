// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
)

// A ResponseType declares how Parse materializes a response body.
type ResponseType string

const (
	// ResponseJSON decodes the body as JSON into an interface{} value.
	// It is also used when the response type is empty.
	ResponseJSON ResponseType = "json"
	// ResponseText returns the body as a string.
	ResponseText ResponseType = "text"
	// ResponseBlob returns the body as a Blob typed with the response
	// Content-Type.
	ResponseBlob ResponseType = "blob"
	// ResponseArrayBuffer returns the body as a []byte.
	ResponseArrayBuffer ResponseType = "arrayBuffer"
	// ResponseFormData parses a multipart/form-data or
	// application/x-www-form-urlencoded body into a *multipart.Form.
	ResponseFormData ResponseType = "formData"
)

// String returns the response type name, "json" for the empty type.
func (t ResponseType) String() string {
	if t == "" {
		return string(ResponseJSON)
	}
	return string(t)
}

// maxFormMemory bounds the part of a multipart response held in memory
// by ResponseFormData. Since the body is already buffered this only
// controls whether file parts spill to temporary files.
const maxFormMemory = 32 << 20

// Parse materializes the body of r according to t.
//
// If the status code is 204 or the Content-Length header is "0", Parse
// returns nil without looking at t. Otherwise:
//
// • for ResponseJSON or the empty type, an empty body produces nil and a
// non-empty body is decoded, a decode failure producing a *ParseError;
//
// • for ResponseText, the body is returned as a string;
//
// • for ResponseBlob, a Blob is returned;
//
// • for ResponseArrayBuffer, the body bytes are returned;
//
// • for ResponseFormData, a *multipart.Form is returned, or an error if
// the body is not a form;
//
// • for any other type, the body is returned as a string.
func Parse(r *Response, t ResponseType) (interface{}, error) {
	if r.StatusCode == http.StatusNoContent || r.Header.Get("Content-Length") == "0" {
		return nil, nil
	}

	switch t {
	case "", ResponseJSON:
		text := r.Text()
		if text == "" {
			return nil, nil
		}
		var v interface{}
		if err := json.Unmarshal(r.Body, &v); err != nil {
			return nil, newParseError(ResponseJSON, text, err)
		}
		return v, nil
	case ResponseText:
		return r.Text(), nil
	case ResponseBlob:
		return Blob{Type: r.Header.Get("Content-Type"), Data: r.Body}, nil
	case ResponseArrayBuffer:
		return r.Body, nil
	case ResponseFormData:
		form, err := parseForm(r)
		if err != nil {
			return nil, err
		}
		return form, nil
	default:
		return r.Text(), nil
	}
}

func parseForm(r *Response) (*multipart.Form, error) {
	ct := r.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, fmt.Errorf("fetchx: parsing %s response: invalid content type %q: %w", ResponseFormData, ct, err)
	}

	switch mediaType {
	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return nil, fmt.Errorf("fetchx: parsing %s response: missing multipart boundary", ResponseFormData)
		}
		form, err := multipart.NewReader(r.Reader(), boundary).ReadForm(maxFormMemory)
		if err != nil {
			return nil, fmt.Errorf("fetchx: parsing %s response: %w", ResponseFormData, err)
		}
		return form, nil
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(r.Text())
		if err != nil {
			return nil, fmt.Errorf("fetchx: parsing %s response: %w", ResponseFormData, err)
		}
		return &multipart.Form{Value: values, File: map[string][]*multipart.FileHeader{}}, nil
	default:
		return nil, fmt.Errorf("fetchx: parsing %s response: unsupported content type %q", ResponseFormData, mediaType)
	}
}
