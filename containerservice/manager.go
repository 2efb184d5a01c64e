// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerservice

import (
	"fmt"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.uber.org/zap"
)

const (
	moduleName = "azmgmt/containerservice"
	apiVersion = "2024-02-01"

	resourceGroupsAPIVersion = "2021-04-01"
)

// Manager groups the managed Kubernetes collections of one subscription.
type Manager struct {
	opts   *core.ClientOptions
	logger *zap.Logger
	client *rest.Client
	// groups lists resource groups for cross group listing.
	groups *rest.Client

	clusters   *KubernetesClusters
	agentPools *AgentPools
}

// NewManager creates a Manager for subscriptionID.
func NewManager(subscriptionID string, cred azcore.TokenCredential, opts *core.ClientOptions) (*Manager, error) {
	armOpts, err := opts.ARMOptions()
	if err != nil {
		return nil, fmt.Errorf("containerservice.NewManager: %w", err)
	}

	client, err := rest.NewClient(moduleName, apiVersion, subscriptionID, cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("containerservice.NewManager: %w", err)
	}

	m := &Manager{
		opts:   opts,
		logger: opts.Log().Named("containerservice"),
		client: client,
		groups: client.WithAPIVersion(resourceGroupsAPIVersion),
	}
	m.clusters = &KubernetesClusters{m: m}
	m.agentPools = &AgentPools{m: m}

	return m, nil
}

// KubernetesClusters returns the managed cluster collection.
func (m *Manager) KubernetesClusters() *KubernetesClusters { return m.clusters }

// AgentPools returns the agent pool collection.
func (m *Manager) AgentPools() *AgentPools { return m.agentPools }
