// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

const resourceGroupPath = "/subscriptions/{subscriptionId}/resourcegroups/{resourceGroupName}"

// ResourceGroups manages resource groups.
type ResourceGroups struct {
	m *Manager
}

// Create creates or updates the resource group name in region.
func (c *ResourceGroups) Create(ctx context.Context, name string, region core.Region, tags map[string]string) (*ResourceGroup, error) {
	if region == "" {
		return nil, fmt.Errorf("ResourceGroups.Create: %w", core.NewErrPropertyMustNotBeNil("location"))
	}

	rg, err := rest.Do[ResourceGroup](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   resourceGroupPath,
		Params: rest.P{"resourceGroupName": name},
		Body: ResourceGroup{
			Location: to.Ptr(region.String()),
			Tags:     to.PtrMap(tags),
		},
		Accept: []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return nil, fmt.Errorf("ResourceGroups.Create: %w", err)
	}

	c.m.logger.Info("resource group created", zap.String(logging.FieldResourceGroup, name))

	return &rg, nil
}

// Get returns the resource group name.
func (c *ResourceGroups) Get(ctx context.Context, name string) (*ResourceGroup, error) {
	rg, err := rest.Do[ResourceGroup](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   resourceGroupPath,
		Params: rest.P{"resourceGroupName": name},
	})
	if err != nil {
		return nil, fmt.Errorf("ResourceGroups.Get: %w", err)
	}

	return &rg, nil
}

// Exists reports whether the resource group name exists.
func (c *ResourceGroups) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := c.m.client.Exists(ctx, resourceGroupPath, rest.P{"resourceGroupName": name})
	if err != nil {
		return false, fmt.Errorf("ResourceGroups.Exists: %w", err)
	}

	return ok, nil
}

// ResourceGroupsListOptions filters List.
type ResourceGroupsListOptions struct {
	// TagName and TagValue restrict the result to groups carrying the tag.
	TagName  string
	TagValue string
	Top      int32
}

// NewListPager lists the resource groups of the subscription.
func (c *ResourceGroups) NewListPager(opts *ResourceGroupsListOptions) *runtime.Pager[rest.Page[ResourceGroup]] {
	q := url.Values{}

	if opts != nil {
		if opts.TagName != "" {
			q.Set("$filter", fmt.Sprintf("tagName eq '%s' and tagValue eq '%s'", opts.TagName, opts.TagValue))
		}

		if opts.Top > 0 {
			q.Set("$top", fmt.Sprint(opts.Top))
		}
	}

	return rest.NewPager[ResourceGroup](c.m.client, rest.Call{
		Path:  "/subscriptions/{subscriptionId}/resourcegroups",
		Query: q,
	})
}

// List returns every resource group of the subscription.
func (c *ResourceGroups) List(ctx context.Context, opts *ResourceGroupsListOptions) ([]*ResourceGroup, error) {
	res, err := core.ListAll(ctx, c.NewListPager(opts), rest.Page[ResourceGroup].Items)
	if err != nil {
		return nil, fmt.Errorf("ResourceGroups.List: %w", err)
	}

	return res, nil
}

// UpdateTags replaces the tags of the resource group.
func (c *ResourceGroups) UpdateTags(ctx context.Context, name string, tags map[string]string) (*ResourceGroup, error) {
	current, err := c.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("ResourceGroups.UpdateTags: %w", err)
	}

	desired := to.PtrMap(tags)
	if desired == nil {
		desired = map[string]*string{}
	}

	if diff := core.DiffTags(current.Tags, desired); diff.Empty() {
		return current, nil
	}

	rg, err := rest.Do[ResourceGroup](ctx, c.m.client, rest.Call{
		Method: http.MethodPatch,
		Path:   resourceGroupPath,
		Params: rest.P{"resourceGroupName": name},
		Body:   ResourceGroupPatch{Tags: desired},
	})
	if err != nil {
		return nil, fmt.Errorf("ResourceGroups.UpdateTags: %w", err)
	}

	return &rg, nil
}

// ResourceGroupsBeginDeleteOptions configures BeginDelete.
type ResourceGroupsBeginDeleteOptions struct {
	// ForceDeletionTypes lists resource types deleted with force, e.g. Microsoft.Compute/virtualMachines.
	ForceDeletionTypes []string
	ResumeToken        string
}

// BeginDelete deletes the resource group and everything it contains.
func (c *ResourceGroups) BeginDelete(ctx context.Context, name string, opts *ResourceGroupsBeginDeleteOptions) (*runtime.Poller[rest.Empty], error) {
	q := url.Values{}
	pollerOpts := &rest.PollerOptions{FinalStateVia: runtime.FinalStateViaLocation}

	if opts != nil {
		if len(opts.ForceDeletionTypes) > 0 {
			q.Set("forceDeletionTypes", strings.Join(opts.ForceDeletionTypes, ","))
		}

		pollerOpts.ResumeToken = opts.ResumeToken
	}

	p, err := rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   resourceGroupPath,
		Params: rest.P{"resourceGroupName": name},
		Query:  q,
	}, pollerOpts)
	if err != nil {
		return nil, fmt.Errorf("ResourceGroups.BeginDelete: %w", err)
	}

	return p, nil
}

// Delete deletes the resource group and waits for completion.
func (c *ResourceGroups) Delete(ctx context.Context, name string) error {
	p, err := c.BeginDelete(ctx, name, nil)
	if err != nil {
		return err
	}

	if _, err := p.PollUntilDone(ctx, c.m.opts.PollOptions()); err != nil {
		return fmt.Errorf("ResourceGroups.Delete: %w", err)
	}

	c.m.logger.Info("resource group deleted", zap.String(logging.FieldResourceGroup, name))

	return nil
}

// BeginExportTemplate captures the resource group as a template.
// A nil or empty resources list exports every resource.
func (c *ResourceGroups) BeginExportTemplate(ctx context.Context, name string, resources []string, options string) (*runtime.Poller[ExportTemplateResult], error) {
	if len(resources) == 0 {
		resources = []string{"*"}
	}

	req := ExportTemplateRequest{Resources: to.SliceOfPtrs(resources...)}
	if options != "" {
		req.Options = to.Ptr(options)
	}

	p, err := rest.BeginOperation[ExportTemplateResult](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   resourceGroupPath + "/exportTemplate",
		Params: rest.P{"resourceGroupName": name},
		Body:   req,
		Accept: []int{http.StatusOK, http.StatusAccepted},
	}, &rest.PollerOptions{FinalStateVia: runtime.FinalStateViaLocation})
	if err != nil {
		return nil, fmt.Errorf("ResourceGroups.BeginExportTemplate: %w", err)
	}

	return p, nil
}
