// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

// A Param is one named query parameter. A Param with several values is
// encoded as a single comma-separated value, e.g. with_id=1,2.
type Param struct {
	Name   string
	Values []any
}

// Query is an ordered list of query parameters. Parameters are encoded
// in list order.
type Query []Param

// Add returns a new Query with a parameter appended. Add never modifies
// the backing array of q, so Queries derived from a common parent do
// not interfere with each other.
func (q Query) Add(name string, values ...any) Query {
	q2 := make(Query, len(q), len(q)+1)
	copy(q2, q)
	vs := make([]any, len(values))
	copy(vs, values)
	return append(q2, Param{Name: name, Values: vs})
}

// Get returns the values of the first parameter named name, or nil.
func (q Query) Get(name string) []any {
	for i := range q {
		if q[i].Name == name {
			return q[i].Values
		}
	}
	return nil
}

// Has reports whether q contains a parameter named name.
func (q Query) Has(name string) bool {
	for i := range q {
		if q[i].Name == name {
			return true
		}
	}
	return false
}
