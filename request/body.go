// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"io"
	"net/url"

	"github.com/pkg/errors"
)

// Content types implied by BodyBytes.
const (
	ContentTypeText   = "text/plain; charset=utf-8"
	ContentTypeJSON   = "application/json"
	ContentTypeForm   = "application/x-www-form-urlencoded"
	ContentTypeBinary = "application/octet-stream"
)

// BodyBytes converts a Spec body into the bytes to send and the content
// type they imply.
//
// • nil gives no bytes and no content type.
//
// • A string is sent as is, as text/plain.
//
// • A json.RawMessage is sent as is, as application/json.
//
// • A []byte is sent as is, as application/octet-stream.
//
// • A url.Values is form-encoded.
//
// • An io.Reader is read to the end (and closed if it is an
// io.ReadCloser) and sent as application/octet-stream.
//
// • Any other value is marshalled as JSON.
func BodyBytes(body interface{}) ([]byte, string, error) {
	switch x := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(x), ContentTypeText, nil
	case json.RawMessage:
		return x, ContentTypeJSON, nil
	case []byte:
		return x, ContentTypeBinary, nil
	case url.Values:
		return []byte(x.Encode()), ContentTypeForm, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			_ = x.Close()
			return nil, "", errors.Wrap(err, "apiaction/request: reading body")
		}
		if err = x.Close(); err != nil {
			return nil, "", errors.Wrap(err, "apiaction/request: closing body")
		}
		return b, ContentTypeBinary, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, "", errors.Wrapf(err, "apiaction/request: encoding %T body as JSON", x)
		}
		return b, ContentTypeJSON, nil
	}
}
