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
)

// Subscription states.
const (
	SubscriptionStateEnabled  = "Enabled"
	SubscriptionStateDisabled = "Disabled"
	SubscriptionStateWarned   = "Warned"
)

// Subscriptions reads the subscriptions visible to the credential.
type Subscriptions struct {
	m *Manager
}

// List returns every subscription the credential can access.
func (c *Subscriptions) List(ctx context.Context) ([]*Subscription, error) {
	pager := rest.NewPager[Subscription](c.m.subsClient, rest.Call{Path: "/subscriptions"})

	res, err := core.ListAll(ctx, pager, rest.Page[Subscription].Items)
	if err != nil {
		return nil, fmt.Errorf("Subscriptions.List: %w", err)
	}

	return res, nil
}

// Get returns subscriptionID, or the manager subscription when empty.
func (c *Subscriptions) Get(ctx context.Context, subscriptionID string) (*Subscription, error) {
	if subscriptionID == "" {
		subscriptionID = c.m.subscriptionID
	}

	s, err := rest.Do[Subscription](ctx, c.m.subsClient, rest.Call{
		Method: http.MethodGet,
		Path:   "/subscriptions/{id}",
		Params: rest.P{"id": subscriptionID},
	})
	if err != nil {
		return nil, fmt.Errorf("Subscriptions.Get: %w", err)
	}

	return &s, nil
}

// ListLocations returns the regions available to the manager subscription.
func (c *Subscriptions) ListLocations(ctx context.Context) ([]*Location, error) {
	pager := rest.NewPager[Location](c.m.subsClient, rest.Call{Path: "/subscriptions/{subscriptionId}/locations"})

	res, err := core.ListAll(ctx, pager, rest.Page[Location].Items)
	if err != nil {
		return nil, fmt.Errorf("Subscriptions.ListLocations: %w", err)
	}

	return res, nil
}

// IsEnabled reports whether the subscription accepts writes.
func (s *Subscription) IsEnabled() bool {
	return to.ValOrZero(s.State) == SubscriptionStateEnabled
}

// Region returns the location as a Region.
func (l *Location) Region() core.Region {
	return core.ParseRegion(to.ValOrZero(l.Name))
}
