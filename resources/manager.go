// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources

import (
	"fmt"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armpolicy"
	"go.uber.org/zap"
)

const (
	moduleName              = "azmgmt/resources"
	apiVersion              = "2021-04-01"
	subscriptionsAPIVersion = "2021-01-01"
)

// Manager groups the Resource Manager collections of one subscription.
type Manager struct {
	subscriptionID string
	opts           *core.ClientOptions
	logger         *zap.Logger

	client     *rest.Client
	subsClient *rest.Client

	resourceGroups    *ResourceGroups
	deployments       *Deployments
	genericResources  *GenericResources
	providers         *Providers
	tags              *TagsClient
	subscriptions     *Subscriptions
	policyDefinitions *PolicyDefinitions
	policyAssignments *PolicyAssignments
}

// NewManager creates a Manager for subscriptionID.
func NewManager(subscriptionID string, cred azcore.TokenCredential, opts *core.ClientOptions) (*Manager, error) {
	armOpts, err := opts.ARMOptions()
	if err != nil {
		return nil, fmt.Errorf("resources.NewManager: %w", err)
	}

	client, err := rest.NewClient(moduleName, apiVersion, subscriptionID, cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("resources.NewManager: %w", err)
	}

	policyFactory, err := armpolicy.NewClientFactory(subscriptionID, cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("resources.NewManager: creating policy client factory: %w", err)
	}

	m := &Manager{
		subscriptionID: subscriptionID,
		opts:           opts,
		logger:         opts.Log().Named("resources"),
		client:         client,
		subsClient:     client.WithAPIVersion(subscriptionsAPIVersion),
	}

	m.resourceGroups = &ResourceGroups{m: m}
	m.deployments = &Deployments{m: m}
	m.providers = &Providers{m: m}
	m.genericResources = newGenericResources(m)
	m.tags = &TagsClient{m: m}
	m.subscriptions = &Subscriptions{m: m}
	m.policyDefinitions = &PolicyDefinitions{client: policyFactory.NewDefinitionsClient()}
	m.policyAssignments = &PolicyAssignments{client: policyFactory.NewAssignmentsClient()}

	return m, nil
}

// SubscriptionID returns the subscription the manager operates on.
func (m *Manager) SubscriptionID() string { return m.subscriptionID }

// ResourceGroups returns the resource group collection.
func (m *Manager) ResourceGroups() *ResourceGroups { return m.resourceGroups }

// Deployments returns the template deployment collection.
func (m *Manager) Deployments() *Deployments { return m.deployments }

// GenericResources returns the generic resource collection.
func (m *Manager) GenericResources() *GenericResources { return m.genericResources }

// Providers returns the resource provider collection.
func (m *Manager) Providers() *Providers { return m.providers }

// Tags returns the tag operations.
func (m *Manager) Tags() *TagsClient { return m.tags }

// Subscriptions returns the subscription operations.
func (m *Manager) Subscriptions() *Subscriptions { return m.subscriptions }

// PolicyDefinitions returns the policy definition collection.
func (m *Manager) PolicyDefinitions() *PolicyDefinitions { return m.policyDefinitions }

// PolicyAssignments returns the policy assignment collection.
func (m *Manager) PolicyAssignments() *PolicyAssignments { return m.policyAssignments }
