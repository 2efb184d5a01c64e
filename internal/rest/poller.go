// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package rest

import (
	"context"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// Empty is the result of operations that return no body, such as deletes.
type Empty struct{}

// PollerOptions configures BeginOperation.
type PollerOptions struct {
	// ResumeToken resumes a previously started operation instead of sending a new request.
	ResumeToken string
	// FinalStateVia selects where the final result is read from. Defaults to the Azure-AsyncOperation URL.
	FinalStateVia runtime.FinalStateVia
}

// BeginOperation starts a long running operation and returns a poller tracking it.
func BeginOperation[T any](ctx context.Context, c *Client, call Call, opts *PollerOptions) (*runtime.Poller[T], error) {
	if opts == nil {
		opts = &PollerOptions{}
	}

	if opts.ResumeToken != "" {
		return runtime.NewPollerFromResumeToken[T](opts.ResumeToken, c.Pipeline(), nil) //nolint:wrapcheck
	}

	if len(call.Accept) == 0 {
		call.Accept = []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent}
	}

	resp, err := c.Send(ctx, call)
	if err != nil {
		return nil, err
	}

	finalState := opts.FinalStateVia
	if finalState == "" {
		finalState = runtime.FinalStateViaAzureAsyncOp
	}

	return runtime.NewPoller(resp, c.Pipeline(), &runtime.NewPollerOptions[T]{ //nolint:wrapcheck
		FinalStateVia: finalState,
	})
}
