// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerservice

import (
	"github.com/Azure/azmgmt/core"
)

// AgentPoolMode is the mode of an agent pool.
type AgentPoolMode string

// Agent pool modes. A cluster needs a System pool to run its system pods.
const (
	AgentPoolModeSystem AgentPoolMode = "System"
	AgentPoolModeUser   AgentPoolMode = "User"
)

// OSType is the operating system of the nodes of a pool.
type OSType string

// Node operating systems.
const (
	OSTypeLinux   OSType = "Linux"
	OSTypeWindows OSType = "Windows"
)

// AgentPoolType is the type of the node group backing a pool.
type AgentPoolType string

// Agent pool types.
const (
	AgentPoolTypeVirtualMachineScaleSets AgentPoolType = "VirtualMachineScaleSets"
	AgentPoolTypeAvailabilitySet         AgentPoolType = "AvailabilitySet"
)

// NetworkPlugin is the network plugin of a cluster.
type NetworkPlugin string

// Network plugins.
const (
	NetworkPluginAzure   NetworkPlugin = "azure"
	NetworkPluginKubenet NetworkPlugin = "kubenet"
	NetworkPluginNone    NetworkPlugin = "none"
)

// NetworkPolicy is the network policy engine of a cluster.
type NetworkPolicy string

// Network policies.
const (
	NetworkPolicyAzure  NetworkPolicy = "azure"
	NetworkPolicyCalico NetworkPolicy = "calico"
	NetworkPolicyCilium NetworkPolicy = "cilium"
)

// PowerStateCode is the power state of a cluster.
type PowerStateCode string

// Power states.
const (
	PowerStateCodeRunning PowerStateCode = "Running"
	PowerStateCodeStopped PowerStateCode = "Stopped"
)

// ManagedCluster is a managed Kubernetes cluster as returned by the service.
type ManagedCluster struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string                      `json:"type,omitempty"`
	Location   *string                      `json:"location,omitempty"`
	Tags       map[string]*string           `json:"tags,omitempty"`
	Identity   *core.ManagedServiceIdentity `json:"identity,omitempty"`
	SKU        *ManagedClusterSKU           `json:"sku,omitempty"`
	Properties *ManagedClusterProperties    `json:"properties,omitempty"`
}

// ManagedClusterSKU is the pricing tier of the control plane.
type ManagedClusterSKU struct {
	Name *string `json:"name,omitempty"`
	Tier *string `json:"tier,omitempty"`
}

// ManagedClusterProperties holds the cluster properties.
type ManagedClusterProperties struct {
	KubernetesVersion       *string                           `json:"kubernetesVersion,omitempty"`
	DNSPrefix               *string                           `json:"dnsPrefix,omitempty"`
	AgentPoolProfiles       []*ManagedClusterAgentPoolProfile `json:"agentPoolProfiles,omitempty"`
	LinuxProfile            *LinuxProfile                     `json:"linuxProfile,omitempty"`
	ServicePrincipalProfile *ServicePrincipalProfile          `json:"servicePrincipalProfile,omitempty"`
	EnableRBAC              *bool                             `json:"enableRBAC,omitempty"`
	NodeResourceGroup       *string                           `json:"nodeResourceGroup,omitempty"`
	NetworkProfile          *NetworkProfile                   `json:"networkProfile,omitempty"`
	AddonProfiles           map[string]*AddonProfile          `json:"addonProfiles,omitempty"`
	// READ-ONLY
	CurrentKubernetesVersion *string `json:"currentKubernetesVersion,omitempty"`
	// READ-ONLY
	ProvisioningState *string `json:"provisioningState,omitempty"`
	// READ-ONLY
	PowerState *PowerState `json:"powerState,omitempty"`
	// READ-ONLY
	Fqdn *string `json:"fqdn,omitempty"`
	// READ-ONLY
	MaxAgentPools *int32 `json:"maxAgentPools,omitempty"`
}

// PowerState describes whether a cluster or pool is running.
type PowerState struct {
	Code *PowerStateCode `json:"code,omitempty"`
}

// AgentPoolProperties holds the properties shared by cluster agent pool profiles and agent pool resources.
type AgentPoolProperties struct {
	Count               *int32             `json:"count,omitempty"`
	VMSize              *string            `json:"vmSize,omitempty"`
	OSDiskSizeGB        *int32             `json:"osDiskSizeGB,omitempty"`
	OSType              *OSType            `json:"osType,omitempty"`
	MaxPods             *int32             `json:"maxPods,omitempty"`
	Type                *AgentPoolType     `json:"type,omitempty"`
	Mode                *AgentPoolMode     `json:"mode,omitempty"`
	OrchestratorVersion *string            `json:"orchestratorVersion,omitempty"`
	AvailabilityZones   []*string          `json:"availabilityZones,omitempty"`
	EnableAutoScaling   *bool              `json:"enableAutoScaling,omitempty"`
	MinCount            *int32             `json:"minCount,omitempty"`
	MaxCount            *int32             `json:"maxCount,omitempty"`
	VnetSubnetID        *string            `json:"vnetSubnetID,omitempty"`
	NodeLabels          map[string]*string `json:"nodeLabels,omitempty"`
	NodeTaints          []*string          `json:"nodeTaints,omitempty"`
	// READ-ONLY
	ProvisioningState *string `json:"provisioningState,omitempty"`
	// READ-ONLY
	PowerState *PowerState `json:"powerState,omitempty"`
	// READ-ONLY
	CurrentOrchestratorVersion *string `json:"currentOrchestratorVersion,omitempty"`
	// READ-ONLY
	NodeImageVersion *string `json:"nodeImageVersion,omitempty"`
}

// ManagedClusterAgentPoolProfile is an agent pool embedded in a cluster.
type ManagedClusterAgentPoolProfile struct {
	Name *string `json:"name"`
	AgentPoolProperties
}

// AgentPool is an agent pool as a standalone resource.
type AgentPool struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string              `json:"type,omitempty"`
	Properties *AgentPoolProperties `json:"properties,omitempty"`
}

// LinuxProfile configures SSH access to Linux nodes.
type LinuxProfile struct {
	AdminUsername *string           `json:"adminUsername"`
	SSH           *SSHConfiguration `json:"ssh"`
}

// SSHConfiguration holds the SSH public keys of the nodes.
type SSHConfiguration struct {
	PublicKeys []*SSHPublicKey `json:"publicKeys"`
}

// SSHPublicKey is an SSH public key.
type SSHPublicKey struct {
	KeyData *string `json:"keyData"`
}

// ServicePrincipalProfile is the service principal the cluster uses to manage Azure resources.
type ServicePrincipalProfile struct {
	ClientID *string `json:"clientId"`
	Secret   *string `json:"secret,omitempty"`
}

// NetworkProfile configures cluster networking.
type NetworkProfile struct {
	NetworkPlugin   *NetworkPlugin `json:"networkPlugin,omitempty"`
	NetworkPolicy   *NetworkPolicy `json:"networkPolicy,omitempty"`
	PodCidr         *string        `json:"podCidr,omitempty"`
	ServiceCidr     *string        `json:"serviceCidr,omitempty"`
	DNSServiceIP    *string        `json:"dnsServiceIP,omitempty"`
	OutboundType    *string        `json:"outboundType,omitempty"`
	LoadBalancerSKU *string        `json:"loadBalancerSku,omitempty"`
}

// AddonProfile enables a cluster add-on.
type AddonProfile struct {
	Enabled *bool              `json:"enabled"`
	Config  map[string]*string `json:"config,omitempty"`
}

// TagsObject is the body of a tags update.
type TagsObject struct {
	Tags map[string]*string `json:"tags"`
}

// CredentialResults holds kubeconfig files. Values are decoded from base64 by encoding/json.
type CredentialResults struct {
	Kubeconfigs []*CredentialResult `json:"kubeconfigs,omitempty"`
}

// CredentialResult is one kubeconfig file.
type CredentialResult struct {
	Name  *string `json:"name,omitempty"`
	Value []byte  `json:"value,omitempty"`
}

// ManagedClusterUpgradeProfile lists the versions a cluster and its pools can be upgraded to.
type ManagedClusterUpgradeProfile struct {
	ID         *string                                 `json:"id,omitempty"`
	Name       *string                                 `json:"name,omitempty"`
	Properties *ManagedClusterUpgradeProfileProperties `json:"properties,omitempty"`
}

// ManagedClusterUpgradeProfileProperties holds the upgrade profile of the control plane and pools.
type ManagedClusterUpgradeProfileProperties struct {
	ControlPlaneProfile *PoolUpgradeProfile   `json:"controlPlaneProfile,omitempty"`
	AgentPoolProfiles   []*PoolUpgradeProfile `json:"agentPoolProfiles,omitempty"`
}

// PoolUpgradeProfile lists the upgrades available to the control plane or a pool.
type PoolUpgradeProfile struct {
	KubernetesVersion *string                      `json:"kubernetesVersion,omitempty"`
	Name              *string                      `json:"name,omitempty"`
	OSType            *OSType                      `json:"osType,omitempty"`
	Upgrades          []*PoolUpgradeProfileUpgrade `json:"upgrades,omitempty"`
}

// PoolUpgradeProfileUpgrade is one available upgrade.
type PoolUpgradeProfileUpgrade struct {
	KubernetesVersion *string `json:"kubernetesVersion,omitempty"`
	IsPreview         *bool   `json:"isPreview,omitempty"`
}

// KubernetesVersionListResult is the response of the Kubernetes versions query of a region.
type KubernetesVersionListResult struct {
	Values []*KubernetesVersion `json:"values,omitempty"`
}

// KubernetesVersion is a minor version with its patch versions.
type KubernetesVersion struct {
	Version       *string                  `json:"version,omitempty"`
	IsPreview     *bool                    `json:"isPreview,omitempty"`
	PatchVersions map[string]*PatchVersion `json:"patchVersions,omitempty"`
}

// PatchVersion lists the versions a patch version can be upgraded to.
type PatchVersion struct {
	Upgrades []*string `json:"upgrades,omitempty"`
}
