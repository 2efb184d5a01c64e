// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package resttest provides a TLS Resource Manager stand-in for contract tests of the azmgmt clients.
package resttest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// SubscriptionID is the subscription used by tests.
const SubscriptionID = "00000000-0000-0000-0000-000000000000"

// Request is a request received by the server.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// DecodeBody unmarshals the JSON request body into v.
func (r Request) DecodeBody(t *testing.T, v any) {
	t.Helper()

	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decoding request body %q: %v", string(r.Body), err)
	}
}

// Server routes requests by method and exact path. Unrouted requests get a 404 ARM error.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []Request
}

// NewServer starts a TLS server closed at the end of the test.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{routes: make(map[string]http.HandlerFunc)}
	s.Server = httptest.NewTLSServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	return s
}

// Handle registers h for method and path. path is matched against the unescaped URL path.
func (s *Server) Handle(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routes[method+" "+path] = h
}

// HandleJSON registers a handler replying with status and v encoded as JSON.
func (s *Server) HandleJSON(method, path string, status int, v any) {
	s.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, v)
	})
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// Last returns the last request received for method and path.
func (s *Server) Last(t *testing.T, method, path string) Request {
	t.Helper()

	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i]
		}
	}

	t.Fatalf("no %s request received for %s", method, path)

	return Request{}
}

// Count returns the number of requests received for method and path.
func (s *Server) Count(method, path string) int {
	n := 0

	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}

	return n
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		WriteError(w, http.StatusNotFound, "ResourceNotFound", fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
		return
	}

	r.Body = io.NopCloser(strings.NewReader(string(body)))
	h(w, r)
}

// AbsURL returns the absolute URL of path on the server.
func (s *Server) AbsURL(path string) string {
	return s.Server.URL + path
}

// ARMOptions returns client options pointing Resource Manager at the server.
func (s *Server) ARMOptions() arm.ClientOptions {
	return arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Cloud: cloud.Configuration{
				ActiveDirectoryAuthorityHost: "https://login.microsoftonline.com/",
				Services: map[cloud.ServiceName]cloud.ServiceConfiguration{
					cloud.ResourceManager: {
						Audience: "https://management.azure.com",
						Endpoint: s.Server.URL,
					},
				},
			},
			Transport: s.Client(),
			Retry:     policy.RetryOptions{MaxRetries: -1},
		},
		DisableRPRegistration: true,
	}
}

// Options returns azmgmt client options pointing at the server with fast polling.
func (s *Server) Options() *core.ClientOptions {
	return &core.ClientOptions{
		ClientOptions: s.ARMOptions(),
		PollFrequency: time.Millisecond,
		Parallelism:   2,
	}
}

// Credential returns a credential issuing a static token.
func (s *Server) Credential() azcore.TokenCredential {
	return FakeCredential{}
}

// FakeCredential issues a static bearer token.
type FakeCredential struct{}

// GetToken implements azcore.TokenCredential.
func (FakeCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "fake-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError writes an ARM error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
