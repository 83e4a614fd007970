// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"
)

// ErrArgsWithoutTransform is returned by Build when arguments are
// passed for an endpoint that has no Transform to consume them.
var ErrArgsWithoutTransform = errors.New("apiaction/request: arguments without a request-building transform")

// A Spec describes the request one action invocation sends. Every field
// is optional; the zero value sends the endpoint route as is.
type Spec struct {
	// Query holds the URL query parameters. Values are formatted with
	// fmt.Sprint; slice and array values become repeated keys and nil
	// values are skipped.
	Query map[string]interface{}

	// Body is the request body. See BodyBytes for the supported types
	// and the content type each one implies.
	Body interface{}

	// Params holds the values substituted into the route's ":name" and
	// "{name}" segments.
	Params map[string]interface{}

	// Header holds extra request headers. A Content-Type set here wins
	// over the one implied by Body.
	Header http.Header
}

// A Transform converts the positional arguments of an action invocation
// into a Spec. The returned Spec is used verbatim; nil means empty.
type Transform func(args ...interface{}) *Spec

// Build produces the Spec for one invocation.
//
// With a nil transform, Build returns an empty Spec if args is empty
// and an error wrapping ErrArgsWithoutTransform otherwise. With a
// non-nil transform, Build returns whatever t returns.
func Build(t Transform, args ...interface{}) (*Spec, error) {
	if t == nil {
		if len(args) > 0 {
			return nil, errors.Wrapf(ErrArgsWithoutTransform, "%d argument(s) given", len(args))
		}
		return &Spec{}, nil
	}

	s := t(args...)
	if s == nil {
		s = &Spec{}
	}
	return s, nil
}

// Positional returns a Transform that assigns positional arguments, in
// order, to the named route parameters, then to the named query
// parameters and finally, if body is true, to the body.
//
// Missing arguments leave the corresponding field unset. Arguments
// beyond the last named slot are ignored.
func Positional(params, query []string, body bool) Transform {
	p := append([]string(nil), params...)
	q := append([]string(nil), query...)
	return func(args ...interface{}) *Spec {
		s := &Spec{}
		i := 0
		for _, name := range p {
			if i >= len(args) {
				return s
			}
			if s.Params == nil {
				s.Params = make(map[string]interface{}, len(p))
			}
			s.Params[name] = args[i]
			i++
		}
		for _, name := range q {
			if i >= len(args) {
				return s
			}
			if s.Query == nil {
				s.Query = make(map[string]interface{}, len(q))
			}
			s.Query[name] = args[i]
			i++
		}
		if body && i < len(args) {
			s.Body = args[i]
		}
		return s
	}
}

// ArgsToQuery returns a Transform mapping positional arguments onto the
// named query parameters.
func ArgsToQuery(names ...string) Transform {
	return Positional(nil, names, false)
}

// ArgsToParams returns a Transform mapping positional arguments onto
// the named route parameters.
func ArgsToParams(names ...string) Transform {
	return Positional(names, nil, false)
}

// ArgsToBody returns a Transform that sends its first argument as the
// request body.
func ArgsToBody() Transform {
	return Positional(nil, nil, true)
}

// Path expands the route parameter segments of route using s.Params.
//
// A segment is a parameter if it has the form ":name" or "{name}".
// Values are formatted with fmt.Sprint and path-escaped. A parameter
// segment with no value in Params is an error.
func (s *Spec) Path(route string) (string, error) {
	if !strings.ContainsAny(route, ":{") {
		return route, nil
	}

	segments := strings.Split(route, "/")
	for i, seg := range segments {
		name, ok := paramName(seg)
		if !ok {
			continue
		}
		v, ok := s.Params[name]
		if !ok || v == nil {
			return "", errors.Errorf("apiaction/request: missing route parameter %q for %q", name, route)
		}
		segments[i] = url.PathEscape(fmt.Sprint(v))
	}
	return strings.Join(segments, "/"), nil
}

func paramName(seg string) (string, bool) {
	if len(seg) > 1 && seg[0] == ':' {
		return seg[1:], true
	}
	if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

// Values encodes s.Query as URL values.
func (s *Spec) Values() url.Values {
	v := make(url.Values, len(s.Query))
	for key, value := range s.Query {
		addValue(v, key, value)
	}
	return v
}

func addValue(v url.Values, key string, value interface{}) {
	switch x := value.(type) {
	case nil:
		return
	case string:
		v.Add(key, x)
	case []string:
		for _, s := range x {
			v.Add(key, s)
		}
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				addValue(v, key, rv.Index(i).Interface())
			}
			return
		}
		v.Add(key, fmt.Sprint(value))
	}
}

// ValidMethod reports whether method is a valid HTTP method token
// (RFC 7230 section 3.2.6). The empty string is not valid.
func ValidMethod(method string) bool {
	return method != "" && strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}
