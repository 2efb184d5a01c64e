// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package rest

import (
	"context"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// Page is one page of an ARM list response.
type Page[T any] struct {
	Value []*T `json:"value"`
	// NextLink is the URL of the next page.
	NextLink *string `json:"nextLink,omitempty"`
	// ODataNextLink is used instead of NextLink by OData style APIs such as Media Services.
	ODataNextLink *string `json:"@odata.nextLink,omitempty"`
}

// Next returns the link to the following page, or "".
func (p Page[T]) Next() string {
	if p.NextLink != nil && *p.NextLink != "" {
		return *p.NextLink
	}

	if p.ODataNextLink != nil {
		return *p.ODataNextLink
	}

	return ""
}

// Items returns the page values.
func (p Page[T]) Items() []*T {
	return p.Value
}

// NewPager returns a pager issuing call for the first page and following next links afterwards.
func NewPager[T any](c *Client, call Call) *runtime.Pager[Page[T]] {
	if call.Method == "" {
		call.Method = http.MethodGet
	}

	return runtime.NewPager(runtime.PagingHandler[Page[T]]{
		More: func(page Page[T]) bool {
			return page.Next() != ""
		},
		Fetcher: func(ctx context.Context, page *Page[T]) (Page[T], error) {
			var req *policy.Request

			var err error
			if page == nil {
				req, err = c.NewRequest(ctx, call)
			} else {
				req, err = runtime.NewRequest(ctx, http.MethodGet, page.Next())
			}

			if err != nil {
				return Page[T]{}, err //nolint:wrapcheck
			}

			resp, err := c.Pipeline().Do(req)
			if err != nil {
				return Page[T]{}, err //nolint:wrapcheck
			}

			if !runtime.HasStatusCode(resp, http.StatusOK) {
				return Page[T]{}, runtime.NewResponseError(resp)
			}

			var res Page[T]
			if err := runtime.UnmarshalAsJSON(resp, &res); err != nil {
				return Page[T]{}, err //nolint:wrapcheck
			}

			return res, nil
		},
	})
}
