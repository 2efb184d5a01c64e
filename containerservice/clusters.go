// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"
)

const (
	clustersPath        = "/subscriptions/{subscriptionId}/providers/Microsoft.ContainerService/managedClusters"
	clustersInGroupPath = "/subscriptions/{subscriptionId}/resourceGroups/{resourceGroupName}/providers/Microsoft.ContainerService/managedClusters"
	clusterPath         = clustersInGroupPath + "/{resourceName}"
	resourceGroupsPath  = "/subscriptions/{subscriptionId}/resourcegroups"
)

// ErrNoKubeConfig is returned when the service returns no kubeconfig for a cluster.
var ErrNoKubeConfig = errors.New("no kubeconfig returned")

// KubernetesClusters manages managed Kubernetes clusters.
type KubernetesClusters struct {
	m *Manager
}

// Define returns a new definition for a cluster named name in resourceGroup using the latest Kubernetes version.
func (c *KubernetesClusters) Define(resourceGroup, name string) *KubernetesClusterDefinition {
	return &KubernetesClusterDefinition{ResourceGroup: resourceGroup, Name: name, Version: VersionLatest}
}

// KubernetesClustersBeginOptions configures the Begin operations.
type KubernetesClustersBeginOptions struct {
	ResumeToken string
}

func resumeToken(opts *KubernetesClustersBeginOptions) string {
	if opts == nil {
		return ""
	}

	return opts.ResumeToken
}

func (c *KubernetesClusters) resolveVersion(ctx context.Context, def *KubernetesClusterDefinition) (string, error) {
	if _, err := semver.StrictNewVersion(def.Version); err == nil {
		return def.Version, nil
	}

	versions, err := c.ListKubernetesVersions(ctx, def.Region)
	if err != nil {
		return "", err
	}

	return versions.Resolve(def.Version)
}

// BeginCreate validates def, resolves its Kubernetes version and submits the cluster.
func (c *KubernetesClusters) BeginCreate(ctx context.Context, def *KubernetesClusterDefinition, opts *KubernetesClustersBeginOptions) (*runtime.Poller[ManagedCluster], error) {
	if tok := resumeToken(opts); tok != "" {
		return rest.BeginOperation[ManagedCluster](ctx, c.m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: tok})
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("KubernetesClusters.BeginCreate: invalid definition: %w", err)
	}

	version, err := c.resolveVersion(ctx, def)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.BeginCreate: resolving version %q: %w", def.Version, err)
	}

	p, err := rest.BeginOperation[ManagedCluster](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   clusterPath,
		Params: rest.P{"resourceGroupName": def.ResourceGroup, "resourceName": def.Name},
		Body:   def.resource(version),
		Accept: []int{http.StatusOK, http.StatusCreated},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.BeginCreate: %w", err)
	}

	c.m.logger.Info("kubernetes cluster submitted",
		zap.String(logging.FieldResourceGroup, def.ResourceGroup),
		zap.String(logging.FieldResource, def.Name),
		zap.String("kubernetes_version", version),
	)

	return p, nil
}

// Create submits def and waits for the cluster.
func (c *KubernetesClusters) Create(ctx context.Context, def *KubernetesClusterDefinition) (*KubernetesCluster, error) {
	p, err := c.BeginCreate(ctx, def, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.PollUntilDone(ctx, c.m.opts.PollOptions())
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.Create: %w", err)
	}

	return c.wrap(res), nil
}

// Get returns the cluster name of resourceGroup.
func (c *KubernetesClusters) Get(ctx context.Context, resourceGroup, name string) (*KubernetesCluster, error) {
	res, err := rest.Do[ManagedCluster](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   clusterPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "resourceName": name},
	})
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.Get: %w", err)
	}

	return c.wrap(res), nil
}

// NewListPager lists the clusters of the subscription.
func (c *KubernetesClusters) NewListPager() *runtime.Pager[rest.Page[ManagedCluster]] {
	return rest.NewPager[ManagedCluster](c.m.client, rest.Call{Path: clustersPath})
}

// NewListByResourceGroupPager lists the clusters of resourceGroup.
func (c *KubernetesClusters) NewListByResourceGroupPager(resourceGroup string) *runtime.Pager[rest.Page[ManagedCluster]] {
	return rest.NewPager[ManagedCluster](c.m.client, rest.Call{
		Path:   clustersInGroupPath,
		Params: rest.P{"resourceGroupName": resourceGroup},
	})
}

// KubernetesClustersListOptions configures List.
type KubernetesClustersListOptions struct {
	// AcrossResourceGroups lists every resource group and queries each one instead of using the
	// subscription level list. Useful when the caller can read some resource groups only.
	AcrossResourceGroups bool
}

// List returns every cluster of the subscription.
func (c *KubernetesClusters) List(ctx context.Context, opts *KubernetesClustersListOptions) ([]*KubernetesCluster, error) {
	if opts != nil && opts.AcrossResourceGroups {
		res, err := c.listAcrossResourceGroups(ctx)
		if err != nil {
			return nil, fmt.Errorf("KubernetesClusters.List: %w", err)
		}

		return res, nil
	}

	items, err := core.ListAll(ctx, c.NewListPager(), rest.Page[ManagedCluster].Items)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.List: %w", err)
	}

	return c.wrapAll(items), nil
}

// ListByResourceGroup returns every cluster of resourceGroup.
func (c *KubernetesClusters) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*KubernetesCluster, error) {
	items, err := core.ListAll(ctx, c.NewListByResourceGroupPager(resourceGroup), rest.Page[ManagedCluster].Items)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.ListByResourceGroup: %w", err)
	}

	return c.wrapAll(items), nil
}

type resourceGroupName struct {
	Name *string `json:"name"`
}

func (c *KubernetesClusters) listAcrossResourceGroups(ctx context.Context) ([]*KubernetesCluster, error) {
	groups, err := core.ListAll(ctx, rest.NewPager[resourceGroupName](c.m.groups, rest.Call{Path: resourceGroupsPath}), rest.Page[resourceGroupName].Items)
	if err != nil {
		return nil, fmt.Errorf("listing resource groups: %w", err)
	}

	c.m.logger.Debug("listing clusters across resource groups", zap.Int(logging.FieldCount, len(groups)))

	perGroup, err := core.MapParallel(ctx, c.m.opts.Limit(), groups, func(ctx context.Context, rg *resourceGroupName) ([]*KubernetesCluster, error) {
		return c.ListByResourceGroup(ctx, to.ValOrZero(rg.Name))
	})
	if err != nil {
		return nil, err
	}

	return slices.Concat(perGroup...), nil
}

// BeginUpdateTags replaces the tags of the cluster.
func (c *KubernetesClusters) BeginUpdateTags(ctx context.Context, resourceGroup, name string, tags map[string]string) (*runtime.Poller[ManagedCluster], error) {
	p, err := rest.BeginOperation[ManagedCluster](ctx, c.m.client, rest.Call{
		Method: http.MethodPatch,
		Path:   clusterPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "resourceName": name},
		Body:   TagsObject{Tags: to.PtrMap(tags)},
		Accept: []int{http.StatusOK, http.StatusAccepted},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.BeginUpdateTags: %w", err)
	}

	return p, nil
}

func (c *KubernetesClusters) beginAction(ctx context.Context, method, suffix, resourceGroup, name string, opts *KubernetesClustersBeginOptions) (*runtime.Poller[rest.Empty], error) {
	return rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{
		Method: method,
		Path:   clusterPath + suffix,
		Params: rest.P{"resourceGroupName": resourceGroup, "resourceName": name},
		Accept: []int{http.StatusOK, http.StatusAccepted, http.StatusNoContent},
	}, &rest.PollerOptions{ResumeToken: resumeToken(opts), FinalStateVia: runtime.FinalStateViaLocation})
}

// BeginDelete deletes the cluster.
func (c *KubernetesClusters) BeginDelete(ctx context.Context, resourceGroup, name string, opts *KubernetesClustersBeginOptions) (*runtime.Poller[rest.Empty], error) {
	p, err := c.beginAction(ctx, http.MethodDelete, "", resourceGroup, name, opts)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.BeginDelete: %w", err)
	}

	c.m.logger.Info("kubernetes cluster delete requested",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
	)

	return p, nil
}

// BeginStart starts a stopped cluster.
func (c *KubernetesClusters) BeginStart(ctx context.Context, resourceGroup, name string, opts *KubernetesClustersBeginOptions) (*runtime.Poller[rest.Empty], error) {
	p, err := c.beginAction(ctx, http.MethodPost, "/start", resourceGroup, name, opts)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.BeginStart: %w", err)
	}

	return p, nil
}

// BeginStop stops the control plane and the nodes of the cluster.
func (c *KubernetesClusters) BeginStop(ctx context.Context, resourceGroup, name string, opts *KubernetesClustersBeginOptions) (*runtime.Poller[rest.Empty], error) {
	p, err := c.beginAction(ctx, http.MethodPost, "/stop", resourceGroup, name, opts)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.BeginStop: %w", err)
	}

	return p, nil
}

func (c *KubernetesClusters) kubeConfig(ctx context.Context, action, resourceGroup, name string) ([]byte, error) {
	res, err := rest.Do[CredentialResults](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   clusterPath + "/" + action,
		Params: rest.P{"resourceGroupName": resourceGroup, "resourceName": name},
	})
	if err != nil {
		return nil, err
	}

	for _, kc := range res.Kubeconfigs {
		if kc != nil && len(kc.Value) > 0 {
			return kc.Value, nil
		}
	}

	return nil, ErrNoKubeConfig
}

// AdminKubeConfigContent returns the decoded admin kubeconfig of the cluster.
func (c *KubernetesClusters) AdminKubeConfigContent(ctx context.Context, resourceGroup, name string) ([]byte, error) {
	res, err := c.kubeConfig(ctx, "listClusterAdminCredential", resourceGroup, name)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.AdminKubeConfigContent: %w", err)
	}

	return res, nil
}

// UserKubeConfigContent returns the decoded user kubeconfig of the cluster.
func (c *KubernetesClusters) UserKubeConfigContent(ctx context.Context, resourceGroup, name string) ([]byte, error) {
	res, err := c.kubeConfig(ctx, "listClusterUserCredential", resourceGroup, name)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.UserKubeConfigContent: %w", err)
	}

	return res, nil
}

// GetUpgradeProfile returns the versions the cluster and its pools can be upgraded to.
func (c *KubernetesClusters) GetUpgradeProfile(ctx context.Context, resourceGroup, name string) (*ManagedClusterUpgradeProfile, error) {
	res, err := rest.Do[ManagedClusterUpgradeProfile](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   clusterPath + "/upgradeProfiles/default",
		Params: rest.P{"resourceGroupName": resourceGroup, "resourceName": name},
	})
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.GetUpgradeProfile: %w", err)
	}

	return &res, nil
}
