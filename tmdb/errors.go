// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdb

import (
	"fmt"

	"github.com/gogama/tmdbx"
)

// An ErrorResponseError is returned when TMDb did not answer 200, or
// answered 200 with a body that did not decode.
type ErrorResponseError struct {
	Payload *tmdbx.ErrorPayload
	Method  string
	Path    string
}

func (err *ErrorResponseError) Error() string {
	return fmt.Sprintf("[%d] %s", err.Payload.Code, err.Payload.Message)
}

func (err *ErrorResponseError) Unwrap() error {
	return err.Payload
}

// Code returns the TMDb status code, or the HTTP status if TMDb sent
// none.
func (err *ErrorResponseError) Code() int {
	return err.Payload.Code
}

// NotFound reports whether the resource does not exist.
func (err *ErrorResponseError) NotFound() bool {
	return err.Payload.Status == 404
}
