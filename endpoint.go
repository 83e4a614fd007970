// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package apiaction

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gogama/apiaction/dispatch"
	"github.com/gogama/apiaction/request"
)

// An Endpoint declares one network operation and how its lifecycle is
// reported.
type Endpoint struct {
	// Method is the HTTP method. It is required and is upper-cased by
	// New.
	Method string

	// Route is the path, relative to the sender's base URL, or an
	// absolute http or https URL. It is required. Segments of the form
	// ":name" or "{name}" are filled from the request's Params.
	Route string

	// Pending, Success, Failure and Abort are the notification types
	// dispatched for each phase. An empty type means nothing is
	// dispatched for that phase.
	Pending dispatch.Type
	Success dispatch.Type
	Failure dispatch.Type
	Abort   dispatch.Type

	// CreateRequest converts action arguments into the request. If nil,
	// the action accepts no arguments.
	CreateRequest request.Transform

	// Hooks is called back on terminal phases. It may implement any of
	// SuccessHook, FailureHook and AbortHook; see Hooks for a ready-made
	// implementation.
	Hooks interface{}
}

// Endpoints maps endpoint names to their declarations.
type Endpoints map[string]Endpoint

// names returns the endpoint names in sorted order.
func (eps Endpoints) names() []string {
	names := make([]string, 0, len(eps))
	for name := range eps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalize validates ep and returns the copy a Creator keeps. The
// returned reason is "" when ep is valid.
func (ep Endpoint) normalize() (Endpoint, string) {
	if ep.Method == "" {
		return ep, "missing method"
	}
	if !request.ValidMethod(ep.Method) {
		return ep, "invalid method " + strconv.Quote(ep.Method)
	}
	ep.Method = strings.ToUpper(ep.Method)

	if ep.Route == "" {
		return ep, "missing route"
	}
	if !strings.HasPrefix(ep.Route, "/") {
		u, err := url.Parse(ep.Route)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ep, "route " + strconv.Quote(ep.Route) + " is neither a path nor an http(s) URL"
		}
	}
	return ep, ""
}

func validate(displayName string, eps Endpoints) (map[string]*Endpoint, error) {
	if len(eps) == 0 {
		return nil, &ConfigError{DisplayName: displayName, Reason: "no endpoints"}
	}

	m := make(map[string]*Endpoint, len(eps))
	for _, name := range eps.names() {
		if name == "" {
			return nil, &ConfigError{DisplayName: displayName, Reason: "empty endpoint name"}
		}
		ep, reason := eps[name].normalize()
		if reason != "" {
			return nil, &ConfigError{DisplayName: displayName, Endpoint: name, Reason: reason}
		}
		m[name] = &ep
	}
	return m, nil
}
