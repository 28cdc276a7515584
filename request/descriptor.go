// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
)

// Method is an HTTP method supported by the adapter.
type Method string

const (
	GET    Method = http.MethodGet
	POST   Method = http.MethodPost
	PUT    Method = http.MethodPut
	DELETE Method = http.MethodDelete
)

// Valid reports whether m is one of GET, POST, PUT or DELETE.
func (m Method) Valid() bool {
	switch m {
	case GET, POST, PUT, DELETE:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	return string(m)
}

// A Descriptor describes one HTTP call independently of the transport
// that will carry it.
//
// URL is a template relative to the adapter's base URL. Each {name}
// placeholder in it is replaced by the string form of Vars[name]. A
// placeholder with no entry in Vars is a caller error, detected before
// any network I/O takes place.
//
// Body may be nil (no request body), a []byte (sent as-is with content
// type application/octet-stream), or any other value, which is encoded
// by the adapter's codec and sent as application/json.
//
// A Descriptor should not be modified once handed to the adapter.
type Descriptor struct {
	Method Method
	URL    string
	Vars   map[string]any
	Query  Query
	Body   any
}

// Get returns a GET Descriptor for the given URL template.
func Get(url string) *Descriptor {
	return &Descriptor{Method: GET, URL: url}
}

// Post returns a POST Descriptor for the given URL template and body.
func Post(url string, body any) *Descriptor {
	return &Descriptor{Method: POST, URL: url, Body: body}
}

// WithVar returns a copy of d with the URI variable name set to value.
// The receiver is left unchanged.
func (d *Descriptor) WithVar(name string, value any) *Descriptor {
	d2 := d.clone()
	vars := make(map[string]any, len(d.Vars)+1)
	for k, v := range d.Vars {
		vars[k] = v
	}
	vars[name] = value
	d2.Vars = vars
	return d2
}

// WithQuery returns a copy of d with one more query parameter appended.
// The receiver is left unchanged.
func (d *Descriptor) WithQuery(name string, values ...any) *Descriptor {
	d2 := d.clone()
	d2.Query = d.Query.Add(name, values...)
	return d2
}

func (d *Descriptor) clone() *Descriptor {
	d2 := new(Descriptor)
	*d2 = *d
	return d2
}
