// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

const resourceByIDPath = "/{+resourceId}"

// ErrNoAPIVersion is returned when no api-version can be resolved for a resource type.
var ErrNoAPIVersion = errors.New("no api-version available for resource type")

// GenericResources operates on any resource by ID. The api-version is looked up from the resource provider
// when the caller does not supply one.
type GenericResources struct {
	m *Manager

	mu        sync.Mutex
	providers map[string]*Provider
}

func newGenericResources(m *Manager) *GenericResources {
	return &GenericResources{m: m, providers: make(map[string]*Provider)}
}

// ResolveAPIVersion returns the api-version to use for the resource type of resourceID.
// Provider lookups are cached per namespace.
func (c *GenericResources) ResolveAPIVersion(ctx context.Context, resourceID string) (string, error) {
	ns, err := core.ProviderNamespaceFromID(resourceID)
	if err != nil {
		return "", fmt.Errorf("GenericResources.ResolveAPIVersion: %w", err)
	}

	rt, err := core.ResourceTypeFromID(resourceID)
	if err != nil {
		return "", fmt.Errorf("GenericResources.ResolveAPIVersion: %w", err)
	}

	p, err := c.provider(ctx, ns)
	if err != nil {
		return "", fmt.Errorf("GenericResources.ResolveAPIVersion: %w", err)
	}

	v, ok := p.DefaultAPIVersion(strings.TrimPrefix(rt, ns+"/"))
	if !ok {
		return "", fmt.Errorf("GenericResources.ResolveAPIVersion: %s: %w", rt, ErrNoAPIVersion)
	}

	return v, nil
}

func (c *GenericResources) provider(ctx context.Context, namespace string) (*Provider, error) {
	key := strings.ToLower(namespace)

	c.mu.Lock()
	p, ok := c.providers[key]
	c.mu.Unlock()

	if ok {
		return p, nil
	}

	p, err := c.m.providers.Get(ctx, namespace)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.providers[key] = p
	c.mu.Unlock()

	c.m.logger.Debug("provider api-versions cached", zap.String(logging.FieldResource, namespace))

	return p, nil
}

func (c *GenericResources) apiVersion(ctx context.Context, resourceID, apiVersion string) (url.Values, error) {
	if apiVersion == "" {
		v, err := c.ResolveAPIVersion(ctx, resourceID)
		if err != nil {
			return nil, err
		}

		apiVersion = v
	}

	return url.Values{"api-version": []string{apiVersion}}, nil
}

// Get returns the resource resourceID using apiVersion.
func (c *GenericResources) Get(ctx context.Context, resourceID, apiVersion string) (*GenericResource, error) {
	q, err := c.apiVersion(ctx, resourceID, apiVersion)
	if err != nil {
		return nil, fmt.Errorf("GenericResources.Get: %w", err)
	}

	r, err := rest.Do[GenericResource](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   resourceByIDPath,
		Params: rest.P{"+resourceId": resourceID},
		Query:  q,
	})
	if err != nil {
		return nil, fmt.Errorf("GenericResources.Get: %w", err)
	}

	return &r, nil
}

// GetByID returns the resource resourceID with a resolved api-version.
func (c *GenericResources) GetByID(ctx context.Context, resourceID string) (*GenericResource, error) {
	return c.Get(ctx, resourceID, "")
}

// CheckExistenceByID reports whether resourceID exists.
func (c *GenericResources) CheckExistenceByID(ctx context.Context, resourceID, apiVersion string) (bool, error) {
	q, err := c.apiVersion(ctx, resourceID, apiVersion)
	if err != nil {
		return false, fmt.Errorf("GenericResources.CheckExistenceByID: %w", err)
	}

	resp, err := c.m.client.Send(ctx, rest.Call{
		Method: http.MethodHead,
		Path:   resourceByIDPath,
		Params: rest.P{"+resourceId": resourceID},
		Query:  q,
		Accept: []int{http.StatusNoContent, http.StatusOK, http.StatusNotFound},
	})
	if err != nil {
		return false, fmt.Errorf("GenericResources.CheckExistenceByID: %w", err)
	}

	return resp.StatusCode != http.StatusNotFound, nil
}

// GenericResourcesBeginOptions configures the long running generic resource operations.
type GenericResourcesBeginOptions struct {
	// APIVersion is resolved from the provider when empty.
	APIVersion  string
	ResumeToken string
}

// BeginCreateOrUpdateByID creates or replaces resourceID with r.
func (c *GenericResources) BeginCreateOrUpdateByID(ctx context.Context, resourceID string, r *GenericResource, opts *GenericResourcesBeginOptions) (*runtime.Poller[GenericResource], error) {
	if opts == nil {
		opts = &GenericResourcesBeginOptions{}
	}

	if opts.ResumeToken != "" {
		return rest.BeginOperation[GenericResource](ctx, c.m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: opts.ResumeToken})
	}

	if r == nil {
		return nil, fmt.Errorf("GenericResources.BeginCreateOrUpdateByID: %w", core.NewErrPropertyMustNotBeNil("parameters"))
	}

	q, err := c.apiVersion(ctx, resourceID, opts.APIVersion)
	if err != nil {
		return nil, fmt.Errorf("GenericResources.BeginCreateOrUpdateByID: %w", err)
	}

	p, err := rest.BeginOperation[GenericResource](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   resourceByIDPath,
		Params: rest.P{"+resourceId": resourceID},
		Query:  q,
		Body:   r,
		Accept: []int{http.StatusOK, http.StatusCreated, http.StatusAccepted},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("GenericResources.BeginCreateOrUpdateByID: %w", err)
	}

	return p, nil
}

// BeginDeleteByID deletes resourceID.
func (c *GenericResources) BeginDeleteByID(ctx context.Context, resourceID string, opts *GenericResourcesBeginOptions) (*runtime.Poller[rest.Empty], error) {
	if opts == nil {
		opts = &GenericResourcesBeginOptions{}
	}

	if opts.ResumeToken != "" {
		return rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: opts.ResumeToken})
	}

	q, err := c.apiVersion(ctx, resourceID, opts.APIVersion)
	if err != nil {
		return nil, fmt.Errorf("GenericResources.BeginDeleteByID: %w", err)
	}

	p, err := rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   resourceByIDPath,
		Params: rest.P{"+resourceId": resourceID},
		Query:  q,
	}, &rest.PollerOptions{FinalStateVia: runtime.FinalStateViaLocation})
	if err != nil {
		return nil, fmt.Errorf("GenericResources.BeginDeleteByID: %w", err)
	}

	c.m.logger.Info("resource delete started", zap.String(logging.FieldResourceID, resourceID))

	return p, nil
}

// GenericResourcesListOptions filters resource lists.
type GenericResourcesListOptions struct {
	// Filter is an OData filter such as resourceType eq 'Microsoft.Web/sites'.
	Filter string
	// Expand adds createdTime, changedTime or provisioningState to the result.
	Expand string
	Top    int32
}

func (o *GenericResourcesListOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}

	if o.Filter != "" {
		q.Set("$filter", o.Filter)
	}

	if o.Expand != "" {
		q.Set("$expand", o.Expand)
	}

	if o.Top > 0 {
		q.Set("$top", strconv.FormatInt(int64(o.Top), 10))
	}

	return q
}

// NewListPager lists the resources of the subscription.
func (c *GenericResources) NewListPager(opts *GenericResourcesListOptions) *runtime.Pager[rest.Page[GenericResource]] {
	return rest.NewPager[GenericResource](c.m.client, rest.Call{
		Path:  "/subscriptions/{subscriptionId}/resources",
		Query: opts.query(),
	})
}

// List returns the resources of the subscription.
func (c *GenericResources) List(ctx context.Context, opts *GenericResourcesListOptions) ([]*GenericResource, error) {
	res, err := core.ListAll(ctx, c.NewListPager(opts), rest.Page[GenericResource].Items)
	if err != nil {
		return nil, fmt.Errorf("GenericResources.List: %w", err)
	}

	return res, nil
}

// ListByTag returns the resources carrying the tag name with value. An empty value matches any value.
func (c *GenericResources) ListByTag(ctx context.Context, name, value string) ([]*GenericResource, error) {
	filter := fmt.Sprintf("tagName eq '%s'", name)
	if value != "" {
		filter += fmt.Sprintf(" and tagValue eq '%s'", value)
	}

	return c.List(ctx, &GenericResourcesListOptions{Filter: filter})
}

// NewListByResourceGroupPager lists the resources of resourceGroup.
func (c *GenericResources) NewListByResourceGroupPager(resourceGroup string, opts *GenericResourcesListOptions) *runtime.Pager[rest.Page[GenericResource]] {
	return rest.NewPager[GenericResource](c.m.client, rest.Call{
		Path:   resourceGroupPath + "/resources",
		Params: rest.P{"resourceGroupName": resourceGroup},
		Query:  opts.query(),
	})
}

// ListByResourceGroup returns the resources of resourceGroup.
func (c *GenericResources) ListByResourceGroup(ctx context.Context, resourceGroup string, opts *GenericResourcesListOptions) ([]*GenericResource, error) {
	res, err := core.ListAll(ctx, c.NewListByResourceGroupPager(resourceGroup, opts), rest.Page[GenericResource].Items)
	if err != nil {
		return nil, fmt.Errorf("GenericResources.ListByResourceGroup: %w", err)
	}

	return res, nil
}

// BeginMoveResources moves resourceIDs from sourceGroup to the resource group targetGroupID.
func (c *GenericResources) BeginMoveResources(ctx context.Context, sourceGroup, targetGroupID string, resourceIDs []string) (*runtime.Poller[rest.Empty], error) {
	if len(resourceIDs) == 0 {
		return nil, fmt.Errorf("GenericResources.BeginMoveResources: %w", core.NewErrPropertyMustNotBeNil("resources"))
	}

	p, err := rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   resourceGroupPath + "/moveResources",
		Params: rest.P{"resourceGroupName": sourceGroup},
		Body: MoveResourcesRequest{
			Resources:           to.SliceOfPtrs(resourceIDs...),
			TargetResourceGroup: to.Ptr(targetGroupID),
		},
		Accept: []int{http.StatusAccepted, http.StatusNoContent},
	}, &rest.PollerOptions{FinalStateVia: runtime.FinalStateViaLocation})
	if err != nil {
		return nil, fmt.Errorf("GenericResources.BeginMoveResources: %w", err)
	}

	c.m.logger.Info("resource move started",
		zap.String(logging.FieldResourceGroup, sourceGroup),
		zap.Int(logging.FieldCount, len(resourceIDs)),
	)

	return p, nil
}
