// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerinstance

import (
	"fmt"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/rbac"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.uber.org/zap"
)

const (
	moduleName = "azmgmt/containerinstance"
	apiVersion = "2023-05-01"
)

// Manager groups the Azure Container Instances collections of one subscription.
type Manager struct {
	subscriptionID string
	opts           *core.ClientOptions
	logger         *zap.Logger
	client         *rest.Client
	assigner       *rbac.Assigner

	containerGroups *ContainerGroups
	locations       *Locations
}

// NewManager creates a Manager for subscriptionID.
func NewManager(subscriptionID string, cred azcore.TokenCredential, opts *core.ClientOptions) (*Manager, error) {
	armOpts, err := opts.ARMOptions()
	if err != nil {
		return nil, fmt.Errorf("containerinstance.NewManager: %w", err)
	}

	client, err := rest.NewClient(moduleName, apiVersion, subscriptionID, cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("containerinstance.NewManager: %w", err)
	}

	assigner, err := rbac.NewAssigner(subscriptionID, cred, opts)
	if err != nil {
		return nil, fmt.Errorf("containerinstance.NewManager: %w", err)
	}

	m := &Manager{
		subscriptionID: subscriptionID,
		opts:           opts,
		logger:         opts.Log().Named("containerinstance"),
		client:         client,
		assigner:       assigner,
	}
	m.containerGroups = &ContainerGroups{m: m}
	m.locations = &Locations{m: m}

	return m, nil
}

// ContainerGroups returns the container group collection.
func (m *Manager) ContainerGroups() *ContainerGroups { return m.containerGroups }

// Locations returns the per region queries.
func (m *Manager) Locations() *Locations { return m.locations }
