// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/gogama/apiaction/request"
	"github.com/gogama/apiaction/retry"
	"github.com/gogama/apiaction/timeout"
)

// DefaultAccept is the Accept header Client sends unless the Spec or
// Client.Header sets one.
const DefaultAccept = "application/json, text/plain, */*"

// A Client sends endpoint requests over HTTP. Its zero value is a valid
// configuration. Client is safe for concurrent use by multiple
// goroutines.
type Client struct {
	// BaseURL is joined with relative routes. Absolute routes are used
	// as they are.
	BaseURL string

	// HTTPDoer sends the individual HTTP attempts. If nil,
	// http.DefaultClient is used.
	HTTPDoer HTTPDoer

	// RetryPolicy decides whether failed attempts are retried. If nil,
	// retry.Never is used, so one Send makes exactly one attempt.
	RetryPolicy retry.Policy

	// TimeoutPolicy sets the timeout of each attempt. If nil,
	// timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy

	// Header holds headers sent with every request. Spec headers
	// override them.
	Header http.Header

	// Logger receives debug output about attempts. If nil, log.Log is
	// used.
	Logger log.Interface
}

// Send starts sending spec on a new goroutine and returns its Future.
// Cancelling the Future cancels the context of the in-flight attempt.
func (c *Client) Send(ctx context.Context, method, route string, spec *request.Spec) Future {
	ctx, cancel := context.WithCancel(ctx)
	p := NewPromise(cancel)
	go func() {
		defer cancel()
		p.Settle(c.Do(ctx, method, route, spec))
	}()
	return p
}

// Do sends spec synchronously, following the client's retry and
// timeout policies, and returns the outcome of the final attempt.
//
// The error is nil only for a response with status below 400. A
// response with status 400 or above is returned together with a
// *StatusError. Transport failures, including cancellation of ctx,
// return a nil Response and a *url.Error.
func (c *Client) Do(ctx context.Context, method, route string, spec *request.Spec) (*Response, error) {
	if spec == nil {
		spec = &request.Spec{}
	}
	e := &request.Execution{
		Method: method,
		Spec:   spec,
	}

	u, err := c.resolveURL(route, spec)
	if err != nil {
		return nil, urlErrorWrap(method, route, err)
	}
	e.URL = u

	body, contentType, err := request.BodyBytes(spec.Body)
	if err != nil {
		return nil, urlErrorWrap(method, u, err)
	}
	header := c.header(spec, contentType)

	doer := c.doer()
	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}
	retryPolicy := c.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retry.Never
	}
	logger := c.logger().WithFields(log.Fields{
		"method": method,
		"url":    u,
	})

	e.Start = time.Now()

RetryLoop:
	for {
		c.sendAndReceive(ctx, e, doer, timeoutPolicy, header, body)
		if e.Timeout() {
			e.AttemptTimeouts++
		}
		logger.WithFields(log.Fields{
			"attempt": e.Attempt,
			"status":  e.StatusCode(),
		}).WithError(e.Err).Debug("apiaction/transport: attempt ended")

		if ctxErr := ctx.Err(); ctxErr != nil {
			e.Err = urlErrorWrap(method, u, ctxErr)
			break
		} else if !retryPolicy.Decide(e) {
			break
		}

		timer := time.NewTimer(retryPolicy.Wait(e))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			e.Err = urlErrorWrap(method, u, ctx.Err())
			break RetryLoop
		}
		e.Response = nil
		e.Err = nil
		e.Body = nil
		e.Attempt++
	}

	e.End = time.Now()
	if e.Err != nil {
		return nil, e.Err
	}

	res := &Response{
		StatusCode: e.Response.StatusCode,
		Status:     e.Response.Status,
		Proto:      e.Response.Proto,
		Header:     e.Response.Header,
		Body:       e.Body,
	}
	if res.StatusCode >= 400 {
		return res, &StatusError{StatusCode: res.StatusCode, Status: res.Status}
	}
	return res, nil
}

func (c *Client) sendAndReceive(ctx context.Context, e *request.Execution, doer HTTPDoer, timeoutPolicy timeout.Policy, header http.Header, body []byte) {
	ctx, cancel := context.WithTimeout(ctx, timeoutPolicy.Timeout(e))
	defer cancel()

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, e.Method, e.URL, r)
	if err != nil {
		e.Err = urlErrorWrap(e.Method, e.URL, err)
		return
	}
	req.Header = header.Clone()
	e.Request = req

	e.Response, err = doer.Do(req)
	if err != nil {
		e.Err = urlErrorWrap(e.Method, e.URL, err)
		return
	}

	defer func() {
		_ = e.Response.Body.Close()
	}()
	e.Body, err = io.ReadAll(e.Response.Body)
	if err != nil {
		e.Err = urlErrorWrap(e.Method, e.URL, err)
	}
}

func (c *Client) resolveURL(route string, spec *request.Spec) (string, error) {
	path, err := spec.Path(route)
	if err != nil {
		return "", err
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", errors.Wrapf(err, "apiaction/transport: invalid route %q", route)
	}

	u := ref
	q := ref.Query()
	if !ref.IsAbs() && c.BaseURL != "" {
		u, err = url.Parse(c.BaseURL)
		if err != nil {
			return "", errors.Wrapf(err, "apiaction/transport: invalid base URL %q", c.BaseURL)
		}
		basePath, baseRawPath := u.Path, u.EscapedPath()
		u.Path = joinURLPath(basePath, ref.Path)
		u.RawPath = ""
		if ref.RawPath != "" {
			u.RawPath = joinURLPath(baseRawPath, ref.RawPath)
		}
		for k, vs := range u.Query() {
			q[k] = append(vs, q[k]...)
		}
	}

	for k, vs := range spec.Values() {
		q[k] = append(q[k], vs...)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// joinURLPath appends resourcePath to basePath with exactly one slash
// between them.
func joinURLPath(basePath, resourcePath string) string {
	if basePath == "" || basePath == "/" {
		if strings.HasPrefix(resourcePath, "/") {
			return resourcePath
		}
		return "/" + resourcePath
	}
	return strings.TrimSuffix(basePath, "/") + "/" + strings.TrimPrefix(resourcePath, "/")
}

func (c *Client) header(spec *request.Spec, contentType string) http.Header {
	h := make(http.Header)
	for k, vs := range c.Header {
		h[k] = append([]string(nil), vs...)
	}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	for k, vs := range spec.Header {
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	if h.Get("Accept") == "" {
		h.Set("Accept", DefaultAccept)
	}
	return h
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func (c *Client) logger() log.Interface {
	if c.Logger == nil {
		return log.Log
	}

	return c.Logger
}
