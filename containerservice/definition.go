// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerservice

import (
	"fmt"
	"net/netip"
	"regexp"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
)

const (
	agentPoolNameMaxLength        = 12
	windowsAgentPoolNameMaxLength = 6
	agentPoolMinCount             = 1
	agentPoolMaxCount             = 1000
	defaultVMSize                 = "Standard_D2s_v3"
)

var (
	clusterNameRegex   = regexp.MustCompile(`^[a-zA-Z0-9]([-_a-zA-Z0-9]{0,61}[a-zA-Z0-9])?$`)
	agentPoolNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
	dnsPrefixRegex     = regexp.MustCompile(`^[a-zA-Z0-9][-a-zA-Z0-9]{0,52}[a-zA-Z0-9]$`)
)

// AgentPoolSpec describes one agent pool of a cluster.
type AgentPoolSpec struct {
	Name string
	// Count is the number of nodes. Defaults to 1.
	Count int32
	// VMSize defaults to Standard_D2s_v3.
	VMSize string
	// Mode defaults to User.
	Mode         AgentPoolMode
	OSType       OSType
	OSDiskSizeGB int32
	MaxPods      int32
	Zones        []string
	VnetSubnetID string
	Labels       map[string]string
	Taints       []string

	EnableAutoScaling bool
	MinCount          int32
	MaxCount          int32
}

// NetworkSpec configures cluster networking. Empty fields are left to the service defaults.
type NetworkSpec struct {
	Plugin       NetworkPlugin
	Policy       NetworkPolicy
	PodCidr      string
	ServiceCidr  string
	DNSServiceIP string
}

// KubernetesClusterDefinition describes a managed cluster to create.
type KubernetesClusterDefinition struct {
	ResourceGroup string
	Name          string
	Region        core.Region
	// Version is a Kubernetes version, a semver constraint such as ~1.28, or "latest".
	// It is resolved against the versions offered in Region before the cluster is submitted.
	Version string
	// DNSPrefix defaults to the cluster name followed by -dns.
	DNSPrefix string

	LinuxAdminUsername string
	SSHPublicKey       string

	// ServicePrincipalClientID and ServicePrincipalSecret select a service principal.
	// Without them the cluster uses a system assigned identity.
	ServicePrincipalClientID string
	ServicePrincipalSecret   string

	AgentPools []AgentPoolSpec
	Network    *NetworkSpec
	// EnableRBAC defaults to true.
	EnableRBAC        *bool
	NodeResourceGroup string
	Tags              map[string]string
}

// WithAgentPool appends pool to the definition.
func (d *KubernetesClusterDefinition) WithAgentPool(pool AgentPoolSpec) *KubernetesClusterDefinition {
	d.AgentPools = append(d.AgentPools, pool)
	return d
}

func (d *KubernetesClusterDefinition) dnsPrefix() string {
	if d.DNSPrefix != "" {
		return d.DNSPrefix
	}

	return d.Name + "-dns"
}

// Validate checks the definition before it is submitted.
func (d *KubernetesClusterDefinition) Validate() error {
	return checker.NewValidator(
		checker.NewValidatorCheck("name", func() error {
			if !clusterNameRegex.MatchString(d.Name) {
				return core.NewErrPropertyInvalid("name", "1-63 letters, numbers, hyphens and underscores, starting and ending with a letter or number")
			}
			return nil
		}),
		checker.NewValidatorCheck("resource group", func() error {
			if d.ResourceGroup == "" {
				return core.NewErrPropertyMustNotBeNil("resourceGroup")
			}
			return nil
		}),
		checker.NewValidatorCheck("region", func() error {
			if d.Region == "" {
				return core.NewErrPropertyMustNotBeNil("location")
			}
			return nil
		}),
		checker.NewValidatorCheck("dns prefix", func() error {
			if !dnsPrefixRegex.MatchString(d.dnsPrefix()) {
				return core.NewErrPropertyInvalid("dnsPrefix", d.dnsPrefix())
			}
			return nil
		}),
		checker.NewValidatorCheck("linux profile", func() error {
			if (d.LinuxAdminUsername == "") != (d.SSHPublicKey == "") {
				return core.NewErrPropertyInvalid("linuxProfile", "admin username and SSH public key must be set together")
			}
			return nil
		}),
		checker.NewValidatorCheck("service principal", func() error {
			if (d.ServicePrincipalClientID == "") != (d.ServicePrincipalSecret == "") {
				return core.NewErrPropertyInvalid("servicePrincipalProfile", "client ID and secret must be set together")
			}
			return nil
		}),
		checker.NewValidatorCheck("agent pools", d.validateAgentPools),
		checker.NewValidatorCheck("network profile", d.validateNetwork),
	).Validate()
}

func (d *KubernetesClusterDefinition) validateAgentPools() error {
	if len(d.AgentPools) == 0 {
		return core.NewErrPropertyMustNotBeNil("agentPoolProfiles")
	}

	names := mapset.NewThreadUnsafeSet[string]()
	system := 0

	for _, p := range d.AgentPools {
		if err := p.validate(); err != nil {
			return err
		}

		if !names.Add(p.Name) {
			return core.NewErrPropertyInvalid("agentPoolProfiles", fmt.Sprintf("duplicate agent pool name %q", p.Name))
		}

		if p.Mode == AgentPoolModeSystem {
			system++
		}
	}

	if system != 1 {
		return core.NewErrPropertyInvalid("agentPoolProfiles", fmt.Sprintf("exactly one System mode agent pool is required, found %d", system))
	}

	return nil
}

func (p AgentPoolSpec) validate() error {
	prop := fmt.Sprintf("agentPoolProfiles[%s]", p.Name)

	maxLen := agentPoolNameMaxLength
	if p.OSType == OSTypeWindows {
		maxLen = windowsAgentPoolNameMaxLength
	}

	if len(p.Name) < 1 || len(p.Name) > maxLen {
		return core.NewErrPropertyLength(prop+".name", 1, maxLen, len(p.Name))
	}

	if !agentPoolNameRegex.MatchString(p.Name) {
		return core.NewErrPropertyInvalid(prop+".name", "lowercase letters and numbers, starting with a letter")
	}

	if p.Mode == AgentPoolModeSystem && p.OSType == OSTypeWindows {
		return core.NewErrPropertyInvalid(prop+".mode", "System pools must run Linux")
	}

	count := p.count()
	if count < agentPoolMinCount || count > agentPoolMaxCount {
		return core.NewErrPropertyOutOfRange(prop+".count", agentPoolMinCount, agentPoolMaxCount, float64(count))
	}

	if p.EnableAutoScaling {
		if p.MinCount < agentPoolMinCount || p.MaxCount > agentPoolMaxCount {
			return core.NewErrPropertyOutOfRange(prop+".minCount", agentPoolMinCount, agentPoolMaxCount, float64(p.MinCount))
		}

		if p.MinCount > count || count > p.MaxCount {
			return core.NewErrPropertyInvalid(prop+".count", fmt.Sprintf("must be between minCount %d and maxCount %d", p.MinCount, p.MaxCount))
		}
	} else if p.MinCount != 0 || p.MaxCount != 0 {
		return core.NewErrPropertyInvalid(prop+".enableAutoScaling", "minCount and maxCount require autoscaling")
	}

	return nil
}

func (p AgentPoolSpec) count() int32 {
	if p.Count == 0 {
		return 1
	}

	return p.Count
}

func (d *KubernetesClusterDefinition) validateNetwork() error {
	n := d.Network
	if n == nil {
		return nil
	}

	var serviceCidr netip.Prefix

	if n.ServiceCidr != "" {
		var err error
		if serviceCidr, err = netip.ParsePrefix(n.ServiceCidr); err != nil {
			return core.NewErrPropertyInvalid("networkProfile.serviceCidr", err.Error())
		}
	}

	if n.PodCidr != "" {
		if _, err := netip.ParsePrefix(n.PodCidr); err != nil {
			return core.NewErrPropertyInvalid("networkProfile.podCidr", err.Error())
		}
	}

	if n.DNSServiceIP == "" {
		return nil
	}

	ip, err := netip.ParseAddr(n.DNSServiceIP)
	if err != nil {
		return core.NewErrPropertyInvalid("networkProfile.dnsServiceIP", err.Error())
	}

	if !serviceCidr.IsValid() {
		return core.NewErrPropertyInvalid("networkProfile.dnsServiceIP", "requires serviceCidr")
	}

	if !serviceCidr.Contains(ip) {
		return core.NewErrPropertyInvalid("networkProfile.dnsServiceIP", fmt.Sprintf("%s is not within service CIDR %s", ip, serviceCidr))
	}

	return nil
}

func (p AgentPoolSpec) properties() AgentPoolProperties {
	mode := p.Mode
	if mode == "" {
		mode = AgentPoolModeUser
	}

	vmSize := p.VMSize
	if vmSize == "" {
		vmSize = defaultVMSize
	}

	props := AgentPoolProperties{
		Count:      to.Ptr(p.count()),
		VMSize:     to.Ptr(vmSize),
		Mode:       to.Ptr(mode),
		Type:       to.Ptr(AgentPoolTypeVirtualMachineScaleSets),
		NodeLabels: to.PtrMap(p.Labels),
	}

	if p.OSType != "" {
		props.OSType = to.Ptr(p.OSType)
	}

	if p.OSDiskSizeGB > 0 {
		props.OSDiskSizeGB = to.Ptr(p.OSDiskSizeGB)
	}

	if p.MaxPods > 0 {
		props.MaxPods = to.Ptr(p.MaxPods)
	}

	if len(p.Zones) > 0 {
		props.AvailabilityZones = to.SliceOfPtrs(p.Zones...)
	}

	if len(p.Taints) > 0 {
		props.NodeTaints = to.SliceOfPtrs(p.Taints...)
	}

	if p.VnetSubnetID != "" {
		props.VnetSubnetID = to.Ptr(p.VnetSubnetID)
	}

	if p.EnableAutoScaling {
		props.EnableAutoScaling = to.Ptr(true)
		props.MinCount = to.Ptr(p.MinCount)
		props.MaxCount = to.Ptr(p.MaxCount)
	}

	return props
}

func (d *KubernetesClusterDefinition) resource(version string) *ManagedCluster {
	props := &ManagedClusterProperties{
		KubernetesVersion: to.Ptr(version),
		DNSPrefix:         to.Ptr(d.dnsPrefix()),
		EnableRBAC:        to.Ptr(to.ValOr(d.EnableRBAC, true)),
	}

	for _, p := range d.AgentPools {
		props.AgentPoolProfiles = append(props.AgentPoolProfiles, &ManagedClusterAgentPoolProfile{
			Name:                to.Ptr(p.Name),
			AgentPoolProperties: p.properties(),
		})
	}

	if d.LinuxAdminUsername != "" {
		props.LinuxProfile = &LinuxProfile{
			AdminUsername: to.Ptr(d.LinuxAdminUsername),
			SSH:           &SSHConfiguration{PublicKeys: []*SSHPublicKey{{KeyData: to.Ptr(d.SSHPublicKey)}}},
		}
	}

	if d.NodeResourceGroup != "" {
		props.NodeResourceGroup = to.Ptr(d.NodeResourceGroup)
	}

	if n := d.Network; n != nil {
		props.NetworkProfile = &NetworkProfile{}
		if n.Plugin != "" {
			props.NetworkProfile.NetworkPlugin = to.Ptr(n.Plugin)
		}

		if n.Policy != "" {
			props.NetworkProfile.NetworkPolicy = to.Ptr(n.Policy)
		}

		if n.PodCidr != "" {
			props.NetworkProfile.PodCidr = to.Ptr(n.PodCidr)
		}

		if n.ServiceCidr != "" {
			props.NetworkProfile.ServiceCidr = to.Ptr(n.ServiceCidr)
		}

		if n.DNSServiceIP != "" {
			props.NetworkProfile.DNSServiceIP = to.Ptr(n.DNSServiceIP)
		}
	}

	res := &ManagedCluster{
		Location:   to.Ptr(d.Region.String()),
		Tags:       to.PtrMap(d.Tags),
		Properties: props,
	}

	if d.ServicePrincipalClientID != "" {
		props.ServicePrincipalProfile = &ServicePrincipalProfile{
			ClientID: to.Ptr(d.ServicePrincipalClientID),
			Secret:   to.Ptr(d.ServicePrincipalSecret),
		}
	} else {
		res.Identity = &core.ManagedServiceIdentity{Type: core.IdentityTypeSystemAssigned}
	}

	return res
}
