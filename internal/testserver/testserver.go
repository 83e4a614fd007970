// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package testserver provides the HTTP server the apiaction tests talk
// to. It exposes a handful of routes with fixed behaviour:
//
//	/mirror        echoes the request back as JSON, or with the content
//	               type named by the "contentType" query parameter
//	/bad-endpoint  always 404
//	/invalid-json  200 with a JSON content type and a non-JSON body
//	/long-time     blocks until the client goes away (or 10 seconds)
//	/cat           200 text/plain "meow"
//	/status/{code} responds with the given status code
//	/flaky         503 for the first n requests where n is the "fail"
//	               query parameter, counted per "key" query parameter
//	/pets/{id}     echoes the path parameter as JSON
package testserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Mirror is the JSON document /mirror responds with.
type Mirror struct {
	Method string            `json:"method"`
	Path   string            `json:"path"`
	Query  map[string]string `json:"query"`
	Body   string            `json:"body"`
	Header map[string]string `json:"header"`
}

// Handler returns the handler serving the test routes.
func Handler() http.Handler {
	var (
		mu    sync.Mutex
		flaky = map[string]int{}
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/mirror", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		m := Mirror{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  map[string]string{},
			Body:   string(b),
			Header: map[string]string{},
		}
		for k := range r.URL.Query() {
			m.Query[k] = r.URL.Query().Get(k)
		}
		for k := range r.Header {
			m.Header[k] = r.Header.Get(k)
		}
		contentType := r.URL.Query().Get("contentType")
		if contentType == "" {
			contentType = "application/json"
		}
		w.Header().Set("Content-Type", contentType)
		_ = json.NewEncoder(w).Encode(m)
	})
	mux.HandleFunc("/bad-endpoint", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	})
	mux.HandleFunc("/invalid-json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "hello world")
	})
	mux.HandleFunc("/long-time", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, "finally")
		}
	})
	mux.HandleFunc("/cat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "meow")
	})
	mux.HandleFunc("/status/", func(w http.ResponseWriter, r *http.Request) {
		code, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/status/"))
		if err != nil || code < 100 || code > 999 {
			http.Error(w, "bad status code", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, http.StatusText(code))
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		fail, _ := strconv.Atoi(r.URL.Query().Get("fail"))
		key := r.URL.Query().Get("key")
		mu.Lock()
		n := flaky[key]
		flaky[key] = n + 1
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if n < fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprintf(w, `{"attempt":%d}`, n)
			return
		}
		_, _ = fmt.Fprintf(w, `{"attempt":%d}`, n)
	})
	mux.HandleFunc("/pets/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id": strings.TrimPrefix(r.URL.Path, "/pets/"),
		})
	})
	return mux
}

// New starts a plain HTTP test server.
func New() *httptest.Server {
	return httptest.NewServer(Handler())
}

// NewHTTP2 starts a TLS test server with HTTP/2 enabled.
func NewHTTP2() *httptest.Server {
	s := httptest.NewUnstartedServer(Handler())
	s.EnableHTTP2 = true
	s.StartTLS()
	return s
}
