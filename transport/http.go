// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/http2"
)

// HTTPConfig configures the *http.Client built by NewHTTPDoer.
type HTTPConfig struct {
	// HTTP2 enables HTTP/2 over TLS.
	HTTP2 bool

	// TLSClientConfig is the OPTIONAL TLS configuration.
	TLSClientConfig *tls.Config

	// MaxIdleConnsPerHost is the OPTIONAL idle connection limit per
	// host. Zero means the net/http default.
	MaxIdleConnsPerHost int
}

// NewHTTPDoer builds an *http.Client suitable for Client.HTTPDoer.
//
// The client has no overall timeout: attempt timeouts belong to the
// transport's timeout policy and whole-request deadlines to the
// caller's context.
func NewHTTPDoer(cfg HTTPConfig) (*http.Client, error) {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if cfg.TLSClientConfig != nil {
		tr.TLSClientConfig = cfg.TLSClientConfig.Clone()
	}
	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, errors.Wrap(err, "apiaction/transport: configuring HTTP/2")
		}
	}
	return &http.Client{Transport: tr}, nil
}
