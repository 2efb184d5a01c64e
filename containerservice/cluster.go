// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerservice

import (
	"context"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/to"
)

// KubernetesCluster wraps a managed cluster returned by the service.
type KubernetesCluster struct {
	ManagedCluster

	c *KubernetesClusters
}

func (c *KubernetesClusters) wrap(mc ManagedCluster) *KubernetesCluster {
	return &KubernetesCluster{ManagedCluster: mc, c: c}
}

func (c *KubernetesClusters) wrapAll(items []*ManagedCluster) []*KubernetesCluster {
	res := make([]*KubernetesCluster, 0, len(items))
	for _, mc := range items {
		res = append(res, c.wrap(*mc))
	}

	return res
}

func (k *KubernetesCluster) props() *ManagedClusterProperties {
	if k.Properties == nil {
		return &ManagedClusterProperties{}
	}

	return k.Properties
}

// ResourceGroup returns the resource group parsed from the cluster ID.
func (k *KubernetesCluster) ResourceGroup() string {
	rg, _ := core.ResourceGroupFromID(to.ValOrZero(k.ID))
	return rg
}

// ProvisioningState returns the provisioning state, or "".
func (k *KubernetesCluster) ProvisioningState() string {
	return to.ValOrZero(k.props().ProvisioningState)
}

// PowerState returns whether the cluster is running or stopped, or "".
func (k *KubernetesCluster) PowerState() PowerStateCode {
	if ps := k.props().PowerState; ps != nil {
		return to.ValOrZero(ps.Code)
	}

	return ""
}

// DNSPrefix returns the DNS prefix of the API server.
func (k *KubernetesCluster) DNSPrefix() string { return to.ValOrZero(k.props().DNSPrefix) }

// FQDN returns the fully qualified domain name of the API server.
func (k *KubernetesCluster) FQDN() string { return to.ValOrZero(k.props().Fqdn) }

// Version returns the running Kubernetes version, falling back to the requested one.
func (k *KubernetesCluster) Version() string {
	if v := to.ValOrZero(k.props().CurrentKubernetesVersion); v != "" {
		return v
	}

	return to.ValOrZero(k.props().KubernetesVersion)
}

// NodeResourceGroup returns the resource group holding the node resources.
func (k *KubernetesCluster) NodeResourceGroup() string {
	return to.ValOrZero(k.props().NodeResourceGroup)
}

// LinuxRootUsername returns the admin user of the Linux nodes, or "".
func (k *KubernetesCluster) LinuxRootUsername() string {
	if lp := k.props().LinuxProfile; lp != nil {
		return to.ValOrZero(lp.AdminUsername)
	}

	return ""
}

// SSHKey returns the first SSH public key of the Linux nodes, or "".
func (k *KubernetesCluster) SSHKey() string {
	lp := k.props().LinuxProfile
	if lp == nil || lp.SSH == nil {
		return ""
	}

	for _, key := range lp.SSH.PublicKeys {
		if key != nil && key.KeyData != nil {
			return *key.KeyData
		}
	}

	return ""
}

// ServicePrincipalClientID returns the client ID of the cluster service principal, or "".
func (k *KubernetesCluster) ServicePrincipalClientID() string {
	if sp := k.props().ServicePrincipalProfile; sp != nil {
		return to.ValOrZero(sp.ClientID)
	}

	return ""
}

// EnableRBAC reports whether Kubernetes RBAC is enabled.
func (k *KubernetesCluster) EnableRBAC() bool { return to.ValOrZero(k.props().EnableRBAC) }

// AgentPools returns the agent pools keyed by name.
func (k *KubernetesCluster) AgentPools() map[string]*ManagedClusterAgentPoolProfile {
	res := make(map[string]*ManagedClusterAgentPoolProfile, len(k.props().AgentPoolProfiles))
	for _, p := range k.props().AgentPoolProfiles {
		if p != nil && p.Name != nil {
			res[*p.Name] = p
		}
	}

	return res
}

// NetworkProfile returns the network profile, or nil.
func (k *KubernetesCluster) NetworkProfile() *NetworkProfile { return k.props().NetworkProfile }

// SystemAssignedPrincipalID returns the principal of the system assigned identity, or "".
func (k *KubernetesCluster) SystemAssignedPrincipalID() string {
	return k.Identity.SystemAssignedPrincipalID()
}

// Refresh reloads the cluster from the service.
func (k *KubernetesCluster) Refresh(ctx context.Context) error {
	fresh, err := k.c.Get(ctx, k.ResourceGroup(), to.ValOrZero(k.Name))
	if err != nil {
		return err
	}

	k.ManagedCluster = fresh.ManagedCluster

	return nil
}

// AdminKubeConfigContent returns the decoded admin kubeconfig of the cluster.
func (k *KubernetesCluster) AdminKubeConfigContent(ctx context.Context) ([]byte, error) {
	return k.c.AdminKubeConfigContent(ctx, k.ResourceGroup(), to.ValOrZero(k.Name))
}

// UserKubeConfigContent returns the decoded user kubeconfig of the cluster.
func (k *KubernetesCluster) UserKubeConfigContent(ctx context.Context) ([]byte, error) {
	return k.c.UserKubeConfigContent(ctx, k.ResourceGroup(), to.ValOrZero(k.Name))
}
