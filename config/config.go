// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads endpoint declarations and transport settings
// from YAML, or JSON, files.
//
// A file looks like this:
//
//	displayName: pets
//	baseURL: http://localhost:8080
//	timeout: 5s
//	retries: 2
//	headers: {X-Client: apiaction}
//	endpoints:
//	  getPet:
//	    method: GET
//	    route: /pets/:id
//	    params: [id]
//	    success: PET_OK
//	    failure: PET_FAILED
//
// Action arguments are assigned positionally: first to params, then to
// query, then to the body if body is true.
package config

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gogama/apiaction"
	"github.com/gogama/apiaction/dispatch"
	"github.com/gogama/apiaction/request"
	"github.com/gogama/apiaction/retry"
	"github.com/gogama/apiaction/timeout"
	"github.com/gogama/apiaction/transport"
)

// A File is a parsed configuration file.
type File struct {
	DisplayName string              `yaml:"displayName"`
	BaseURL     string              `yaml:"baseURL"`
	Timeout     time.Duration       `yaml:"timeout"`
	Retries     int                 `yaml:"retries"`
	HTTP2       bool                `yaml:"http2"`
	Headers     map[string]string   `yaml:"headers"`
	Endpoints   map[string]Endpoint `yaml:"endpoints"`
}

// An Endpoint is the file form of apiaction.Endpoint.
type Endpoint struct {
	Method  string   `yaml:"method"`
	Route   string   `yaml:"route"`
	Params  []string `yaml:"params"`
	Query   []string `yaml:"query"`
	Body    bool     `yaml:"body"`
	Pending string   `yaml:"pending"`
	Success string   `yaml:"success"`
	Failure string   `yaml:"failure"`
	Abort   string   `yaml:"abort"`
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "apiaction/config: reading config")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "file %s", path)
	}
	return f, nil
}

// Parse parses a configuration. Unknown fields are an error, as is an
// endpoint without a method or route.
func Parse(data []byte) (*File, error) {
	var f File
	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)
	if err := d.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, errors.New("apiaction/config: empty config")
		}
		return nil, errors.Wrap(err, "apiaction/config: parsing config")
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if len(f.Endpoints) == 0 {
		return errors.New("apiaction/config: no endpoints")
	}
	if f.Timeout < 0 {
		return errors.Errorf("apiaction/config: negative timeout %s", f.Timeout)
	}
	if f.Retries < 0 {
		return errors.Errorf("apiaction/config: negative retries %d", f.Retries)
	}
	for _, name := range f.names() {
		ep := f.Endpoints[name]
		if ep.Method == "" {
			return errors.Errorf("apiaction/config: endpoint %q: missing method", name)
		}
		if ep.Route == "" {
			return errors.Errorf("apiaction/config: endpoint %q: missing route", name)
		}
	}
	return nil
}

func (f *File) names() []string {
	names := make([]string, 0, len(f.Endpoints))
	for name := range f.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Endpoints converts the file's endpoints.
func (f *File) Endpoints() apiaction.Endpoints {
	eps := make(apiaction.Endpoints, len(f.Endpoints))
	for name, ep := range f.Endpoints {
		eps[name] = ep.endpoint()
	}
	return eps
}

func (ep Endpoint) endpoint() apiaction.Endpoint {
	out := apiaction.Endpoint{
		Method:  ep.Method,
		Route:   ep.Route,
		Pending: dispatch.Type(ep.Pending),
		Success: dispatch.Type(ep.Success),
		Failure: dispatch.Type(ep.Failure),
		Abort:   dispatch.Type(ep.Abort),
	}
	if len(ep.Params) > 0 || len(ep.Query) > 0 || ep.Body {
		out.CreateRequest = request.Positional(ep.Params, ep.Query, ep.Body)
	}
	return out
}

// Client builds the transport the file describes.
func (f *File) Client(logger log.Interface) (*transport.Client, error) {
	doer, err := transport.NewHTTPDoer(transport.HTTPConfig{HTTP2: f.HTTP2})
	if err != nil {
		return nil, err
	}

	c := &transport.Client{
		BaseURL:  f.BaseURL,
		HTTPDoer: doer,
		Logger:   logger,
	}
	if f.Timeout > 0 {
		c.TimeoutPolicy = timeout.Fixed(f.Timeout)
	}
	if f.Retries > 0 {
		decider := retry.Times(f.Retries).And(retry.StatusCode(429, 502, 503, 504).Or(retry.TransientErr))
		c.RetryPolicy = retry.NewPolicy(decider, retry.DefaultWaiter)
	}
	if len(f.Headers) > 0 {
		c.Header = make(http.Header, len(f.Headers))
		for k, v := range f.Headers {
			c.Header.Set(k, v)
		}
	}
	return c, nil
}

// Creator builds an apiaction.Creator from the file, sending through
// the file's transport and dispatching to d.
func (f *File) Creator(d dispatch.Dispatcher, logger log.Interface, opts ...apiaction.Option) (*apiaction.Creator, error) {
	client, err := f.Client(logger)
	if err != nil {
		return nil, err
	}
	opts = append([]apiaction.Option{
		apiaction.WithDispatcher(d),
		apiaction.WithSender(client),
		apiaction.WithLogger(logger),
	}, opts...)
	return apiaction.New(f.DisplayName, f.Endpoints(), opts...)
}
