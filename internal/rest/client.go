// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package rest is the request layer shared by the azmgmt REST clients. It turns a Call
// description into an azcore request, sends it through the ARM pipeline and decodes the response,
// with helpers for paged lists and long running operations.
package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// ModuleVersion is reported in the User-Agent header.
const ModuleVersion = "v0.1.0"

const paramSubscriptionID = "subscriptionId"

var placeholderRegex = regexp.MustCompile(`\{\+?[A-Za-z0-9]+\}`)

// ErrEmptyParameter is returned when a required path parameter is empty.
var ErrEmptyParameter = errors.New("parameter cannot be empty")

// P holds the values substituted into a path template.
// Names starting with + are substituted without escaping, for scopes and resource IDs that span segments.
type P map[string]string

// Call describes one ARM request.
type Call struct {
	// Method is the HTTP method.
	Method string
	// Path is a template such as /subscriptions/{subscriptionId}/resourceGroups/{resourceGroupName}.
	// {subscriptionId} is filled from the client.
	Path string
	// Params are escaped and substituted into Path.
	Params P
	// Query holds additional query parameters. api-version is added unless present.
	Query url.Values
	// Body is marshalled as JSON when not nil.
	Body any
	// Accept lists the status codes treated as success. Defaults to 200.
	Accept []int
	// SkipBodyDownload leaves the response body unread for streaming.
	SkipBodyDownload bool
}

// Client sends ARM requests for a single api-version and subscription.
type Client struct {
	internal       *arm.Client
	subscriptionID string
	apiVersion     string
}

// NewClient creates a client for moduleName at apiVersion.
func NewClient(moduleName, apiVersion, subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (*Client, error) {
	cl, err := arm.NewClient(moduleName, ModuleVersion, cred, opts)
	if err != nil {
		return nil, fmt.Errorf("rest.NewClient: %w", err)
	}

	return &Client{
		internal:       cl,
		subscriptionID: subscriptionID,
		apiVersion:     apiVersion,
	}, nil
}

// SubscriptionID returns the subscription the client operates on.
func (c *Client) SubscriptionID() string { return c.subscriptionID }

// APIVersion returns the default api-version of the client.
func (c *Client) APIVersion() string { return c.apiVersion }

// Endpoint returns the Resource Manager endpoint.
func (c *Client) Endpoint() string { return c.internal.Endpoint() }

// Pipeline returns the request pipeline.
func (c *Client) Pipeline() runtime.Pipeline { return c.internal.Pipeline() }

// WithAPIVersion returns a copy of the client sending v as the default api-version.
func (c *Client) WithAPIVersion(v string) *Client {
	cpy := *c
	cpy.apiVersion = v

	return &cpy
}

// ResolvePath substitutes params and the client subscription into template.
func (c *Client) ResolvePath(template string, params P) (string, error) {
	path := template

	if strings.Contains(path, "{"+paramSubscriptionID+"}") {
		if c.subscriptionID == "" {
			return "", fmt.Errorf("client.subscriptionID: %w", ErrEmptyParameter)
		}

		path = strings.ReplaceAll(path, "{"+paramSubscriptionID+"}", url.PathEscape(c.subscriptionID))
	}

	for name, value := range params {
		placeholder := "{" + name + "}"
		if !strings.Contains(path, placeholder) {
			continue
		}

		if value == "" {
			return "", fmt.Errorf("%s: %w", strings.TrimPrefix(name, "+"), ErrEmptyParameter)
		}

		if strings.HasPrefix(name, "+") {
			value = strings.TrimPrefix(value, "/")
		} else {
			value = url.PathEscape(value)
		}

		path = strings.ReplaceAll(path, placeholder, value)
	}

	if missing := placeholderRegex.FindString(path); missing != "" {
		return "", fmt.Errorf("%s: %w", strings.Trim(missing, "{+}"), ErrEmptyParameter)
	}

	return path, nil
}

// NewRequest builds the request described by call.
func (c *Client) NewRequest(ctx context.Context, call Call) (*policy.Request, error) {
	path, err := c.ResolvePath(call.Path, call.Params)
	if err != nil {
		return nil, err
	}

	req, err := runtime.NewRequest(ctx, call.Method, runtime.JoinPaths(c.Endpoint(), path))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	reqQP := req.Raw().URL.Query()
	for k, vv := range call.Query {
		for _, v := range vv {
			reqQP.Add(k, v)
		}
	}

	if reqQP.Get("api-version") == "" {
		reqQP.Set("api-version", c.apiVersion)
	}

	req.Raw().URL.RawQuery = reqQP.Encode()
	req.Raw().Header["Accept"] = []string{"application/json"}

	if call.SkipBodyDownload {
		runtime.SkipBodyDownload(req)
	}

	if call.Body != nil {
		if err := runtime.MarshalAsJSON(req, call.Body); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	return req, nil
}

// Send sends call and returns the raw response. A status code outside call.Accept yields an *azcore.ResponseError.
func (c *Client) Send(ctx context.Context, call Call) (*http.Response, error) {
	req, err := c.NewRequest(ctx, call)
	if err != nil {
		return nil, err
	}

	resp, err := c.Pipeline().Do(req)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	accept := call.Accept
	if len(accept) == 0 {
		accept = []int{http.StatusOK}
	}

	if !runtime.HasStatusCode(resp, accept...) {
		return nil, runtime.NewResponseError(resp)
	}

	return resp, nil
}

// Exists sends a HEAD request and maps 2xx to true and 404 to false.
func (c *Client) Exists(ctx context.Context, template string, params P) (bool, error) {
	resp, err := c.Send(ctx, Call{
		Method: http.MethodHead,
		Path:   template,
		Params: params,
		Accept: []int{http.StatusOK, http.StatusNoContent, http.StatusNotFound},
	})
	if err != nil {
		return false, err
	}

	return resp.StatusCode != http.StatusNotFound, nil
}

// Do sends call and unmarshals the JSON response body into a T.
func Do[T any](ctx context.Context, c *Client, call Call) (T, error) {
	var res T

	resp, err := c.Send(ctx, call)
	if err != nil {
		return res, err
	}

	if err := runtime.UnmarshalAsJSON(resp, &res); err != nil {
		return res, err //nolint:wrapcheck
	}

	return res, nil
}

// DoNoContent sends call and discards the response body.
func DoNoContent(ctx context.Context, c *Client, call Call) error {
	resp, err := c.Send(ctx, call)
	if err != nil {
		return err
	}

	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	return nil
}
