// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

const (
	streamingLocatorsPath = accountPath + "/streamingLocators"
	streamingLocatorPath  = streamingLocatorsPath + "/{streamingLocatorName}"
)

// StreamingLocatorDefinition publishes an asset through a streaming policy.
type StreamingLocatorDefinition struct {
	AssetName           string
	StreamingPolicyName string
	// DefaultContentKeyPolicyName is required by the encrypting streaming policies.
	DefaultContentKeyPolicyName string
	StartTime                   time.Time
	EndTime                     time.Time
	Filters                     []string
}

// Validate checks the asset, policy and time window of the definition.
func (d *StreamingLocatorDefinition) Validate() error {
	return checker.NewValidator(
		checker.NewValidatorCheck("asset", func() error {
			if d.AssetName == "" {
				return core.NewErrPropertyMustNotBeNil("assetName")
			}
			return nil
		}),
		checker.NewValidatorCheck("streaming policy", func() error {
			if d.StreamingPolicyName == "" {
				return core.NewErrPropertyMustNotBeNil("streamingPolicyName")
			}
			return nil
		}),
		checker.NewValidatorCheck("time window", func() error {
			if !d.StartTime.IsZero() && !d.EndTime.IsZero() && !d.EndTime.After(d.StartTime) {
				return core.NewErrPropertyInvalid("endTime", "must be after startTime")
			}
			return nil
		}),
	).Validate()
}

func (d *StreamingLocatorDefinition) properties() *StreamingLocatorProperties {
	props := &StreamingLocatorProperties{
		AssetName:           to.Ptr(d.AssetName),
		StreamingPolicyName: to.Ptr(d.StreamingPolicyName),
		Filters:             to.SliceOfPtrs(d.Filters...),
	}

	if d.DefaultContentKeyPolicyName != "" {
		props.DefaultContentKeyPolicyName = to.Ptr(d.DefaultContentKeyPolicyName)
	}

	if !d.StartTime.IsZero() {
		props.StartTime = to.Ptr(d.StartTime.UTC())
	}

	if !d.EndTime.IsZero() {
		props.EndTime = to.Ptr(d.EndTime.UTC())
	}

	return props
}

// StreamingLocators manages the streaming locators of Media Services accounts.
type StreamingLocators struct {
	m *Manager
}

func streamingLocatorParams(resourceGroup, account, name string) rest.P {
	return rest.P{"resourceGroupName": resourceGroup, "accountName": account, "streamingLocatorName": name}
}

// Create creates the streaming locator name. Locators are immutable once created.
func (c *StreamingLocators) Create(ctx context.Context, resourceGroup, account, name string, def *StreamingLocatorDefinition) (*StreamingLocator, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("StreamingLocators.Create: invalid definition: %w", err)
	}

	res, err := rest.Do[StreamingLocator](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   streamingLocatorPath,
		Params: streamingLocatorParams(resourceGroup, account, name),
		Body:   StreamingLocator{Properties: def.properties()},
		Accept: []int{http.StatusCreated, http.StatusOK},
	})
	if err != nil {
		return nil, fmt.Errorf("StreamingLocators.Create: %w", err)
	}

	c.m.logger.Info("streaming locator created",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
		zap.String("asset", def.AssetName),
	)

	return &res, nil
}

// Get returns the streaming locator name of account.
func (c *StreamingLocators) Get(ctx context.Context, resourceGroup, account, name string) (*StreamingLocator, error) {
	res, err := rest.Do[StreamingLocator](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   streamingLocatorPath,
		Params: streamingLocatorParams(resourceGroup, account, name),
	})
	if err != nil {
		return nil, fmt.Errorf("StreamingLocators.Get: %w", err)
	}

	return &res, nil
}

// NewListPager lists the streaming locators of account.
func (c *StreamingLocators) NewListPager(resourceGroup, account string, opts *ListOptions) *runtime.Pager[rest.Page[StreamingLocator]] {
	return rest.NewPager[StreamingLocator](c.m.client, rest.Call{
		Path:   streamingLocatorsPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "accountName": account},
		Query:  opts.query(),
	})
}

// List returns the streaming locators of account matching opts.
func (c *StreamingLocators) List(ctx context.Context, resourceGroup, account string, opts *ListOptions) ([]*StreamingLocator, error) {
	res, err := core.ListAll(ctx, c.NewListPager(resourceGroup, account, opts), rest.Page[StreamingLocator].Items)
	if err != nil {
		return nil, fmt.Errorf("StreamingLocators.List: %w", err)
	}

	return res, nil
}

// Delete deletes the streaming locator.
func (c *StreamingLocators) Delete(ctx context.Context, resourceGroup, account, name string) error {
	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   streamingLocatorPath,
		Params: streamingLocatorParams(resourceGroup, account, name),
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("StreamingLocators.Delete: %w", err)
	}

	return nil
}

// ListPaths returns the streaming and download paths of the locator, relative to a streaming endpoint host.
func (c *StreamingLocators) ListPaths(ctx context.Context, resourceGroup, account, name string) (*ListPathsResponse, error) {
	res, err := rest.Do[ListPathsResponse](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   streamingLocatorPath + "/listPaths",
		Params: streamingLocatorParams(resourceGroup, account, name),
	})
	if err != nil {
		return nil, fmt.Errorf("StreamingLocators.ListPaths: %w", err)
	}

	return &res, nil
}
