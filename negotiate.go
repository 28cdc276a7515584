// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"github.com/gogama/tmdbx/codec"
	"github.com/gogama/tmdbx/typeinfo"
)

// Media types used in content negotiation.
const (
	MediaTypeJSON   = "application/json"
	MediaTypeBinary = "application/octet-stream"
	MediaTypeAny    = "*/*"
)

// acceptFor returns the Accept header for a response of type t.
func acceptFor(t typeinfo.Type) string {
	if t.IsRaw() {
		return MediaTypeAny
	}
	return MediaTypeJSON
}

// encodeBody returns the bytes and Content-Type to send for body. A nil
// body yields no bytes and no content type.
func encodeBody(c codec.Codec, body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, MediaTypeBinary, nil
	default:
		data, err := c.Encode(body)
		if err != nil {
			return nil, "", &CallerError{Op: "encode", Err: err}
		}
		return data, MediaTypeJSON, nil
	}
}
