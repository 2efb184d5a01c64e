// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

const (
	tagNamePath  = "/subscriptions/{subscriptionId}/tagNames/{tagName}"
	tagValuePath = tagNamePath + "/tagValues/{tagValue}"
	tagScopePath = "/{+scope}/providers/Microsoft.Resources/tags/default"
)

// TagsClient manages predefined tags of the subscription and the tags of any scope.
type TagsClient struct {
	m *Manager
}

// NewListPager lists the predefined tag names of the subscription with their values.
func (c *TagsClient) NewListPager() *runtime.Pager[rest.Page[TagDetails]] {
	return rest.NewPager[TagDetails](c.m.client, rest.Call{
		Path: "/subscriptions/{subscriptionId}/tagNames",
	})
}

// List returns the predefined tag names of the subscription.
func (c *TagsClient) List(ctx context.Context) ([]*TagDetails, error) {
	res, err := core.ListAll(ctx, c.NewListPager(), rest.Page[TagDetails].Items)
	if err != nil {
		return nil, fmt.Errorf("TagsClient.List: %w", err)
	}

	return res, nil
}

// CreateOrUpdate predefines the tag name.
func (c *TagsClient) CreateOrUpdate(ctx context.Context, name string) (*TagDetails, error) {
	t, err := rest.Do[TagDetails](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   tagNamePath,
		Params: rest.P{"tagName": name},
		Accept: []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return nil, fmt.Errorf("TagsClient.CreateOrUpdate: %w", err)
	}

	return &t, nil
}

// CreateOrUpdateValue predefines value for the tag name.
func (c *TagsClient) CreateOrUpdateValue(ctx context.Context, name, value string) (*TagValue, error) {
	t, err := rest.Do[TagValue](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   tagValuePath,
		Params: rest.P{"tagName": name, "tagValue": value},
		Accept: []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return nil, fmt.Errorf("TagsClient.CreateOrUpdateValue: %w", err)
	}

	return &t, nil
}

// Delete removes the predefined tag name. The tag must not be in use.
func (c *TagsClient) Delete(ctx context.Context, name string) error {
	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   tagNamePath,
		Params: rest.P{"tagName": name},
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("TagsClient.Delete: %w", err)
	}

	return nil
}

// DeleteValue removes value from the predefined tag name.
func (c *TagsClient) DeleteValue(ctx context.Context, name, value string) error {
	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   tagValuePath,
		Params: rest.P{"tagName": name, "tagValue": value},
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("TagsClient.DeleteValue: %w", err)
	}

	return nil
}

// GetAtScope returns the tags of scope, a resource, resource group or subscription ID.
func (c *TagsClient) GetAtScope(ctx context.Context, scope string) (map[string]string, error) {
	t, err := rest.Do[TagsResource](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   tagScopePath,
		Params: rest.P{"+scope": scope},
	})
	if err != nil {
		return nil, fmt.Errorf("TagsClient.GetAtScope: %w", err)
	}

	if t.Properties == nil {
		return map[string]string{}, nil
	}

	return to.StringMap(t.Properties.Tags), nil
}

// ReplaceAtScope replaces every tag of scope with tags.
func (c *TagsClient) ReplaceAtScope(ctx context.Context, scope string, tags map[string]string) (map[string]string, error) {
	t, err := rest.Do[TagsResource](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   tagScopePath,
		Params: rest.P{"+scope": scope},
		Body:   TagsResource{Properties: &Tags{Tags: to.PtrMap(tags)}},
	})
	if err != nil {
		return nil, fmt.Errorf("TagsClient.ReplaceAtScope: %w", err)
	}

	if t.Properties == nil {
		return map[string]string{}, nil
	}

	return to.StringMap(t.Properties.Tags), nil
}

// UpdateAtScope merges, replaces or deletes tags on scope and returns the resulting tags.
func (c *TagsClient) UpdateAtScope(ctx context.Context, scope string, op TagsPatchOperation, tags map[string]string) (map[string]string, error) {
	switch op {
	case TagsPatchOperationMerge, TagsPatchOperationReplace, TagsPatchOperationDelete:
	default:
		return nil, fmt.Errorf("TagsClient.UpdateAtScope: %w", core.NewErrPropertyInvalid("operation", string(op)))
	}

	t, err := rest.Do[TagsResource](ctx, c.m.client, rest.Call{
		Method: http.MethodPatch,
		Path:   tagScopePath,
		Params: rest.P{"+scope": scope},
		Body:   TagsPatchResource{Operation: op, Properties: &Tags{Tags: to.PtrMap(tags)}},
	})
	if err != nil {
		return nil, fmt.Errorf("TagsClient.UpdateAtScope: %w", err)
	}

	if t.Properties == nil {
		return map[string]string{}, nil
	}

	return to.StringMap(t.Properties.Tags), nil
}
