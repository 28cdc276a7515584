// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// An ErrorPayload is the body of an Envelope for a call that did not
// succeed at the HTTP level, or whose success body could not be
// decoded.
//
// Status is the HTTP status code. Code is the TMDb status_code when the
// body was a TMDb error document, and equal to Status otherwise. Cause
// is set only when a 200 body failed to decode, and holds the codec
// error.
type ErrorPayload struct {
	Message string
	Status  int
	Code    int
	Cause   error
}

func (p *ErrorPayload) Error() string {
	if p.Code != p.Status {
		return fmt.Sprintf("tmdbx: status %d (code %d): %s", p.Status, p.Code, p.Message)
	}
	return fmt.Sprintf("tmdbx: status %d: %s", p.Status, p.Message)
}

func (p *ErrorPayload) Unwrap() error {
	return p.Cause
}

type errorDocument struct {
	StatusMessage *string  `json:"status_message"`
	StatusCode    *int     `json:"status_code"`
	Success       *bool    `json:"success"`
	ErrorMessage  *string  `json:"error_message"`
	Errors        []string `json:"errors"`
}

var headingPattern = regexp.MustCompile(`(?is)<h([1-9])[^>]*>(.+?)</h[1-9]>`)

// newErrorPayload builds the payload for a response body, first as a
// TMDb error document and failing that from the text.
func newErrorPayload(status int, body []byte) *ErrorPayload {
	if p, ok := parseErrorDocument(status, body); ok {
		return p
	}
	return &ErrorPayload{
		Message: fallbackMessage(status, body),
		Status:  status,
		Code:    status,
	}
}

func parseErrorDocument(status int, body []byte) (*ErrorPayload, bool) {
	var doc errorDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, false
	}

	var msg string
	switch {
	case doc.ErrorMessage != nil:
		msg = *doc.ErrorMessage
	case doc.StatusMessage != nil:
		msg = *doc.StatusMessage
	case len(doc.Errors) > 0:
		msg = strings.Join(doc.Errors, "; ")
	default:
		return nil, false
	}

	code := status
	if doc.StatusCode != nil {
		code = *doc.StatusCode
	}

	return &ErrorPayload{Message: msg, Status: status, Code: code}, true
}

// fallbackMessage returns the text of the first HTML heading in body,
// or the whole body if it has none. A blank body gives the status text.
func fallbackMessage(status int, body []byte) string {
	text := string(body)
	if m := headingPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[2])
	}
	if strings.TrimSpace(text) == "" {
		if st := http.StatusText(status); st != "" {
			return st
		}
		return fmt.Sprintf("HTTP status %d", status)
	}
	return text
}
