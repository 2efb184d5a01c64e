// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerservice

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/brunoga/deep"
	"go.uber.org/zap"
)

const (
	agentPoolsPath = clusterPath + "/agentPools"
	agentPoolPath  = agentPoolsPath + "/{agentPoolName}"
)

// AgentPools manages the agent pools of existing clusters.
type AgentPools struct {
	m *Manager
}

func agentPoolParams(resourceGroup, cluster, pool string) rest.P {
	return rest.P{"resourceGroupName": resourceGroup, "resourceName": cluster, "agentPoolName": pool}
}

// BeginCreateOrUpdate validates spec and creates or replaces the pool of cluster.
func (c *AgentPools) BeginCreateOrUpdate(ctx context.Context, resourceGroup, cluster string, spec AgentPoolSpec) (*runtime.Poller[AgentPool], error) {
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("AgentPools.BeginCreateOrUpdate: invalid agent pool: %w", err)
	}

	props := spec.properties()

	return c.put(ctx, resourceGroup, cluster, spec.Name, &props)
}

func (c *AgentPools) put(ctx context.Context, resourceGroup, cluster, pool string, props *AgentPoolProperties) (*runtime.Poller[AgentPool], error) {
	p, err := rest.BeginOperation[AgentPool](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   agentPoolPath,
		Params: agentPoolParams(resourceGroup, cluster, pool),
		Body:   AgentPool{Properties: props},
		Accept: []int{http.StatusOK, http.StatusCreated},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("AgentPools.put: %w", err)
	}

	c.m.logger.Info("agent pool submitted",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, cluster+"/"+pool),
	)

	return p, nil
}

// Get returns the pool of cluster.
func (c *AgentPools) Get(ctx context.Context, resourceGroup, cluster, pool string) (*AgentPool, error) {
	res, err := rest.Do[AgentPool](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   agentPoolPath,
		Params: agentPoolParams(resourceGroup, cluster, pool),
	})
	if err != nil {
		return nil, fmt.Errorf("AgentPools.Get: %w", err)
	}

	return &res, nil
}

// List returns the pools of cluster.
func (c *AgentPools) List(ctx context.Context, resourceGroup, cluster string) ([]*AgentPool, error) {
	pager := rest.NewPager[AgentPool](c.m.client, rest.Call{
		Path:   agentPoolsPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "resourceName": cluster},
	})

	res, err := core.ListAll(ctx, pager, rest.Page[AgentPool].Items)
	if err != nil {
		return nil, fmt.Errorf("AgentPools.List: %w", err)
	}

	return res, nil
}

// BeginDelete deletes the pool of cluster.
func (c *AgentPools) BeginDelete(ctx context.Context, resourceGroup, cluster, pool string) (*runtime.Poller[rest.Empty], error) {
	p, err := rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   agentPoolPath,
		Params: agentPoolParams(resourceGroup, cluster, pool),
	}, &rest.PollerOptions{FinalStateVia: runtime.FinalStateViaLocation})
	if err != nil {
		return nil, fmt.Errorf("AgentPools.BeginDelete: %w", err)
	}

	return p, nil
}

// BeginScale sets the node count of the pool. Autoscaled pools cannot be scaled manually.
func (c *AgentPools) BeginScale(ctx context.Context, resourceGroup, cluster, pool string, count int32) (*runtime.Poller[AgentPool], error) {
	if count < agentPoolMinCount || count > agentPoolMaxCount {
		return nil, fmt.Errorf("AgentPools.BeginScale: %w", core.NewErrPropertyOutOfRange("count", agentPoolMinCount, agentPoolMaxCount, float64(count)))
	}

	current, err := c.Get(ctx, resourceGroup, cluster, pool)
	if err != nil {
		return nil, fmt.Errorf("AgentPools.BeginScale: %w", err)
	}

	if current.Properties == nil {
		return nil, fmt.Errorf("AgentPools.BeginScale: %w", core.NewErrPropertyMustNotBeNil("properties"))
	}

	if to.ValOrZero(current.Properties.EnableAutoScaling) {
		return nil, fmt.Errorf("AgentPools.BeginScale: %w", core.NewErrPropertyInvalid("enableAutoScaling", "pool is autoscaled"))
	}

	props, err := deep.Copy(*current.Properties)
	if err != nil {
		return nil, fmt.Errorf("AgentPools.BeginScale: copying pool: %w", err)
	}

	props.Count = to.Ptr(count)
	props.ProvisioningState = nil
	props.PowerState = nil
	props.CurrentOrchestratorVersion = nil
	props.NodeImageVersion = nil

	return c.put(ctx, resourceGroup, cluster, pool, &props)
}
