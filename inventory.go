// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azmgmt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

// Inventory is a point in time snapshot of resource groups and their contents.
type Inventory struct {
	SubscriptionID string
	CollectedAt    time.Time
	Groups         []*GroupInventory
}

// GroupInventory is the content of one resource group.
type GroupInventory struct {
	Group       *resources.ResourceGroup
	Resources   []*resources.GenericResource
	Deployments []*resources.Deployment
}

// Name returns the name of the resource group.
func (g *GroupInventory) Name() string { return to.ValOrZero(g.Group.Name) }

// Location returns the region of the resource group.
func (g *GroupInventory) Location() string { return to.ValOrZero(g.Group.Location) }

// ResourceTypes returns the sorted resource types present in the group.
func (g *GroupInventory) ResourceTypes() []string {
	types := mapset.NewThreadUnsafeSet[string]()
	for _, r := range g.Resources {
		types.Add(to.ValOrZero(r.Type))
	}

	return mapset.Sorted(types)
}

// ResourcesOfType returns the resources whose type equals resourceType, ignoring case.
func (g *GroupInventory) ResourcesOfType(resourceType string) []*resources.GenericResource {
	var res []*resources.GenericResource

	for _, r := range g.Resources {
		if strings.EqualFold(to.ValOrZero(r.Type), resourceType) {
			res = append(res, r)
		}
	}

	return res
}

// ResourceCount returns the number of resources across every group.
func (inv *Inventory) ResourceCount() int {
	n := 0
	for _, g := range inv.Groups {
		n += len(g.Resources)
	}

	return n
}

// Inventory collects the resources and deployments of resourceGroup, or of every resource group of the
// subscription when resourceGroup is empty. Groups are collected in parallel and keep the listing order.
func (az *Azure) Inventory(ctx context.Context, resourceGroup string) (*Inventory, error) {
	var groups []*resources.ResourceGroup

	if resourceGroup != "" {
		g, err := az.ResourceGroups().Get(ctx, resourceGroup)
		if err != nil {
			return nil, fmt.Errorf("Azure.Inventory: %w", err)
		}

		groups = []*resources.ResourceGroup{g}
	} else {
		var err error
		if groups, err = az.ResourceGroups().List(ctx, nil); err != nil {
			return nil, fmt.Errorf("Azure.Inventory: %w", err)
		}
	}

	collected, err := core.MapParallel(ctx, az.opts.Limit(), groups, az.inventoryGroup)
	if err != nil {
		return nil, fmt.Errorf("Azure.Inventory: %w", err)
	}

	inv := &Inventory{
		SubscriptionID: az.subscriptionID,
		CollectedAt:    time.Now().UTC(),
		Groups:         collected,
	}

	az.logger.Info("inventory collected",
		zap.Int(logging.FieldCount, inv.ResourceCount()),
		zap.Int("resource_groups", len(inv.Groups)),
	)

	return inv, nil
}

func (az *Azure) inventoryGroup(ctx context.Context, g *resources.ResourceGroup) (*GroupInventory, error) {
	name := to.ValOrZero(g.Name)

	res, err := az.GenericResources().ListByResourceGroup(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("resource group %s: %w", name, err)
	}

	deployments, err := az.Deployments().ListByResourceGroup(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resource group %s: %w", name, err)
	}

	return &GroupInventory{Group: g, Resources: res, Deployments: deployments}, nil
}
