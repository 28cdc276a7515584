// Copyright 2021 The tmdbx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tmdbx

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/gogama/tmdbx/request"
	"github.com/spf13/cast"
)

var uriVarPattern = regexp.MustCompile(`(?i)\{(\w+)\}`)

// ExpandTemplate replaces every {name} placeholder in template with the
// string form of vars[name]. Values are stringified with
// cast.ToStringE and inserted without escaping.
//
// A placeholder without a value yields a *CallerError wrapping
// ErrMissingVar. Text that is not a well-formed placeholder, such as
// "{}" or "{a-b}", is left alone.
func ExpandTemplate(template string, vars map[string]any) (string, error) {
	var firstErr error
	out := uriVarPattern.ReplaceAllStringFunc(template, func(m string) string {
		if firstErr != nil {
			return m
		}
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			firstErr = &CallerError{Op: "expand", Var: name, Err: ErrMissingVar}
			return m
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			firstErr = &CallerError{Op: "expand", Var: name, Err: err}
			return m
		}
		return s
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// EncodeQuery renders q as a query string. Names and values are escaped
// with url.QueryEscape, so a space becomes "+". The values of one
// parameter are joined by "," and parameters by "&", in list order.
func EncodeQuery(q request.Query) (string, error) {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		for j, v := range p.Values {
			if j > 0 {
				b.WriteByte(',')
			}
			s, err := cast.ToStringE(v)
			if err != nil {
				return "", &CallerError{Op: "query", Var: p.Name, Err: err}
			}
			b.WriteString(url.QueryEscape(s))
		}
	}
	return b.String(), nil
}

// BuildURL expands template against vars, joins it to base with exactly
// one "/" and appends the encoded query. The result must be an absolute
// URL.
func BuildURL(base, template string, vars map[string]any, q request.Query) (string, error) {
	path, err := ExpandTemplate(template, vars)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(base)
	if !strings.HasPrefix(path, "/") {
		b.WriteByte('/')
	}
	b.WriteString(path)

	if len(q) > 0 {
		qs, err := EncodeQuery(q)
		if err != nil {
			return "", err
		}
		if strings.Contains(path, "?") {
			b.WriteByte('&')
		} else {
			b.WriteByte('?')
		}
		b.WriteString(qs)
	}

	s := b.String()
	u, err := url.Parse(s)
	if err != nil {
		return "", &CallerError{Op: "url", Err: fmt.Errorf("%w: %v", ErrMalformedURL, err)}
	}
	if !u.IsAbs() || u.Host == "" {
		return "", &CallerError{Op: "url", Err: fmt.Errorf("%w: %q is not absolute", ErrMalformedURL, s)}
	}
	return s, nil
}
