// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strings"
)

// Content types chosen by ContentType.
const (
	ContentTypeForm        = "application/x-www-form-urlencoded;charset=UTF-8"
	ContentTypeOctetStream = "application/octet-stream"
	ContentTypeText        = "text/plain;charset=UTF-8"
	ContentTypeJSON        = "application/json;charset=UTF-8"
)

// A Blob is a binary payload with a declared MIME type. As a request
// body it is sent verbatim under its Type; as a response it is what
// ResponseBlob materializes.
type Blob struct {
	Type string
	Data []byte
}

// FormData is a multipart form container. When used as a request body,
// no Content-Type is inferred for it; instead the client writes the
// multipart body at dispatch time and, unless a Content-Type header is
// already present, sets one carrying the generated boundary.
//
// The zero value is an empty form ready to use.
type FormData struct {
	parts []formPart
}

type formPart struct {
	name     string
	value    string
	filename string
	data     []byte
}

// Append adds a text field to the form.
func (f *FormData) Append(name, value string) {
	f.parts = append(f.parts, formPart{name: name, value: value})
}

// AppendFile adds a file field to the form.
func (f *FormData) AppendFile(name, filename string, data []byte) {
	f.parts = append(f.parts, formPart{name: name, filename: filename, data: data})
}

// Len returns the number of fields in the form.
func (f *FormData) Len() int {
	return len(f.parts)
}

// encode writes the form as a multipart body and returns it along with
// the matching Content-Type.
func (f *FormData) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range f.parts {
		if p.filename == "" {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", err
			}
			continue
		}
		fw, err := w.CreateFormFile(p.name, p.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err = fw.Write(p.data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// ContentType returns the MIME type implied by body, or the empty string
// if none should be set. It returns the empty string if header already
// contains a Content-Type, if body is nil, or if body is a *FormData.
// Otherwise, in order:
//
// • url.Values produces ContentTypeForm;
//
// • a Blob produces its Type, or ContentTypeOctetStream if Type is empty;
//
// • a []byte or an io.Reader produces ContentTypeOctetStream;
//
// • a string produces ContentTypeText;
//
// • a structured value (see SerializeBody) produces ContentTypeJSON;
//
// • anything else produces the empty string.
//
// ContentType does not modify header.
func ContentType(body interface{}, header http.Header) string {
	if header.Get("Content-Type") != "" || body == nil {
		return ""
	}

	switch b := body.(type) {
	case *FormData:
		return ""
	case url.Values:
		return ContentTypeForm
	case Blob:
		return blobType(b)
	case *Blob:
		if b == nil {
			return ""
		}
		return blobType(*b)
	case []byte, io.Reader:
		return ContentTypeOctetStream
	case string:
		return ContentTypeText
	}

	if isStructured(body) {
		return ContentTypeJSON
	}

	return ""
}

func blobType(b Blob) string {
	if b.Type == "" {
		return ContentTypeOctetStream
	}
	return b.Type
}

// SerializeBody returns the wire form of body.
//
// A nil body produces nil. A *FormData, url.Values, Blob, []byte,
// io.Reader, or string is returned unchanged. A structured value, meaning
// a map, struct, slice or array, a non-nil pointer to one of these, or
// any value implementing json.Marshaler, is encoded as JSON text and
// returned as a string. Anything else produces nil.
//
// An error is returned only if JSON encoding fails.
func SerializeBody(body interface{}) (interface{}, error) {
	if body == nil {
		return nil, nil
	}

	switch body.(type) {
	case *FormData, url.Values, Blob, *Blob, []byte, io.Reader, string:
		return body, nil
	}

	if isStructured(body) {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("fetchx: encoding request body: %w", err)
		}
		return string(b), nil
	}

	return nil, nil
}

func isStructured(body interface{}) bool {
	if _, ok := body.(json.Marshaler); ok {
		return true
	}
	rv := reflect.ValueOf(body)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// wireReader converts a wire form produced by SerializeBody into a
// request body. The content type is non-empty only for a *FormData,
// whose boundary is generated during encoding. A nil reader means no
// body is sent. Every wire form other than a caller-supplied io.Reader
// is returned as a *bytes.Reader or *strings.Reader, so that
// http.NewRequest can make the request replayable.
func wireReader(wire interface{}) (r io.Reader, contentType string, err error) {
	switch w := wire.(type) {
	case nil:
		return nil, "", nil
	case *FormData:
		if w == nil {
			return nil, "", nil
		}
		b, ct, err := w.encode()
		if err != nil {
			return nil, "", fmt.Errorf("fetchx: encoding multipart body: %w", err)
		}
		return bytes.NewReader(b), ct, nil
	case url.Values:
		return strings.NewReader(w.Encode()), "", nil
	case Blob:
		return bytes.NewReader(w.Data), "", nil
	case *Blob:
		if w == nil {
			return nil, "", nil
		}
		return bytes.NewReader(w.Data), "", nil
	case []byte:
		return bytes.NewReader(w), "", nil
	case string:
		return strings.NewReader(w), "", nil
	case io.Reader:
		return w, "", nil
	default:
		return nil, "", fmt.Errorf("fetchx: unsupported wire body type %T", wire)
	}
}
