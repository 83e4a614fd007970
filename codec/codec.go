// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package codec decodes response bodies according to their declared
// content type.
//
// JSON media types (application/json, with or without parameters, and
// any "+json" structured syntax suffix) are decoded into generic Go
// values. Everything else, including a missing or unparseable content
// type, is returned as the raw text.
//
// Decode never discards content: when a body claims to be JSON but is
// malformed, the raw text is returned together with a *DecodeError.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"strings"
)

// MediaTypeJSON is the JSON media type.
const MediaTypeJSON = "application/json"

// maxSnippet bounds the body excerpt kept in a DecodeError.
const maxSnippet = 64

// A DecodeError reports a body that declared a structured content type
// but could not be decoded.
type DecodeError struct {
	// ContentType is the declared content type.
	ContentType string
	// Snippet is the beginning of the offending body.
	Snippet string
	// Err is the underlying parse error.
	Err error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("apiaction/codec: invalid %s body %q: %v", err.ContentType, err.Snippet, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

// IsJSON reports whether contentType names a JSON media type.
func IsJSON(contentType string) bool {
	// ErrInvalidMediaParameter still comes with a usable media type.
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil && err != mime.ErrInvalidMediaParameter {
		return false
	}
	return mediaType == MediaTypeJSON ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

// Decode decodes raw according to contentType.
//
// For JSON media types the result is the decoded value (objects become
// map[string]interface{}, arrays []interface{}, numbers float64) and an
// empty body decodes to nil. If the JSON is malformed, Decode returns
// the raw text and a *DecodeError. For any other content type the
// result is the raw text and the error is always nil.
func Decode(contentType string, raw []byte) (interface{}, error) {
	if !IsJSON(contentType) {
		return string(raw), nil
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw), &DecodeError{
			ContentType: contentType,
			Snippet:     snippet(raw),
			Err:         err,
		}
	}
	return v, nil
}

func snippet(raw []byte) string {
	if len(raw) <= maxSnippet {
		return string(raw)
	}
	return string(raw[:maxSnippet]) + "..."
}
