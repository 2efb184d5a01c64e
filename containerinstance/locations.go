// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerinstance

import (
	"context"
	"fmt"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/rest"
)

const (
	locationPath   = "/subscriptions/{subscriptionId}/providers/Microsoft.ContainerInstance/locations/{location}"
	operationsPath = "/providers/Microsoft.ContainerInstance/operations"
)

// Locations queries the per region limits of container instances.
type Locations struct {
	m *Manager
}

func listAt[T any](ctx context.Context, c *rest.Client, path string, params rest.P) ([]*T, error) {
	return core.ListAll(ctx, rest.NewPager[T](c, rest.Call{Path: path, Params: params}), rest.Page[T].Items)
}

// ListCachedImages returns the images cached in region. Groups using them start faster.
func (l *Locations) ListCachedImages(ctx context.Context, region core.Region) ([]*CachedImages, error) {
	res, err := listAt[CachedImages](ctx, l.m.client, locationPath+"/cachedImages", rest.P{"location": region.String()})
	if err != nil {
		return nil, fmt.Errorf("Locations.ListCachedImages: %w", err)
	}

	return res, nil
}

// ListCapabilities returns the resource limits available in region.
func (l *Locations) ListCapabilities(ctx context.Context, region core.Region) ([]*Capabilities, error) {
	res, err := listAt[Capabilities](ctx, l.m.client, locationPath+"/capabilities", rest.P{"location": region.String()})
	if err != nil {
		return nil, fmt.Errorf("Locations.ListCapabilities: %w", err)
	}

	return res, nil
}

// ListUsages returns the quota usage in region.
func (l *Locations) ListUsages(ctx context.Context, region core.Region) ([]*Usage, error) {
	res, err := listAt[Usage](ctx, l.m.client, locationPath+"/usages", rest.P{"location": region.String()})
	if err != nil {
		return nil, fmt.Errorf("Locations.ListUsages: %w", err)
	}

	return res, nil
}

// ListOperations returns the operations offered by the resource provider.
func (m *Manager) ListOperations(ctx context.Context) ([]*Operation, error) {
	res, err := listAt[Operation](ctx, m.client, operationsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("Manager.ListOperations: %w", err)
	}

	return res, nil
}
