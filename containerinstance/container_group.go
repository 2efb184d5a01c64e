// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerinstance

import (
	"context"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
)

// ContainerGroup wraps a container group returned by the service.
type ContainerGroup struct {
	ContainerGroupResource

	c *ContainerGroups
}

func (c *ContainerGroups) wrap(r ContainerGroupResource) *ContainerGroup {
	return &ContainerGroup{ContainerGroupResource: r, c: c}
}

func (g *ContainerGroup) props() *ContainerGroupProperties {
	if g.Properties == nil {
		return &ContainerGroupProperties{}
	}

	return g.Properties
}

// ResourceGroup returns the resource group parsed from the group ID.
func (g *ContainerGroup) ResourceGroup() string {
	rg, _ := core.ResourceGroupFromID(to.ValOrZero(g.ID))
	return rg
}

// ProvisioningState returns the provisioning state, or "".
func (g *ContainerGroup) ProvisioningState() string {
	return to.ValOrZero(g.props().ProvisioningState)
}

// State returns the runtime state from the instance view, such as Running or Stopped.
func (g *ContainerGroup) State() string {
	if iv := g.props().InstanceView; iv != nil {
		return to.ValOrZero(iv.State)
	}

	return ""
}

// IPAddress returns the IP address of the group, or "".
func (g *ContainerGroup) IPAddress() string {
	if ip := g.props().IPAddress; ip != nil {
		return to.ValOrZero(ip.IP)
	}

	return ""
}

// IsIPAddressPublic reports whether the group has a public IP address.
func (g *ContainerGroup) IsIPAddressPublic() bool {
	ip := g.props().IPAddress
	return ip != nil && strings.EqualFold(string(to.ValOrZero(ip.Type)), string(IPAddressTypePublic))
}

// FQDN returns the fully qualified domain name of a public group, or "".
func (g *ContainerGroup) FQDN() string {
	if ip := g.props().IPAddress; ip != nil {
		return to.ValOrZero(ip.Fqdn)
	}

	return ""
}

// DNSPrefix returns the DNS name label of a public group, or "".
func (g *ContainerGroup) DNSPrefix() string {
	if ip := g.props().IPAddress; ip != nil {
		return to.ValOrZero(ip.DNSNameLabel)
	}

	return ""
}

// ExternalPorts returns the ports exposed on the group IP address.
func (g *ContainerGroup) ExternalPorts() mapset.Set[int32] {
	res := mapset.NewSet[int32]()
	if ip := g.props().IPAddress; ip != nil {
		for _, p := range ip.Ports {
			if p != nil && p.Port != nil {
				res.Add(*p.Port)
			}
		}
	}

	return res
}

// Containers returns the containers of the group keyed by name.
func (g *ContainerGroup) Containers() map[string]*Container {
	res := make(map[string]*Container, len(g.props().Containers))
	for _, c := range g.props().Containers {
		if c != nil && c.Name != nil {
			res[*c.Name] = c
		}
	}

	return res
}

// Volumes returns the volumes of the group keyed by name.
func (g *ContainerGroup) Volumes() map[string]*Volume {
	res := make(map[string]*Volume, len(g.props().Volumes))
	for _, v := range g.props().Volumes {
		if v != nil && v.Name != nil {
			res[*v.Name] = v
		}
	}

	return res
}

// ImageRegistryServers returns the registries the group has credentials for.
func (g *ContainerGroup) ImageRegistryServers() mapset.Set[string] {
	res := mapset.NewSet[string]()
	for _, c := range g.props().ImageRegistryCredentials {
		if c != nil && c.Server != nil {
			res.Add(*c.Server)
		}
	}

	return res
}

// Events returns the group level events of the instance view.
func (g *ContainerGroup) Events() []*Event {
	if iv := g.props().InstanceView; iv != nil {
		return iv.Events
	}

	return nil
}

// SystemAssignedPrincipalID returns the principal of the system assigned identity, or "".
func (g *ContainerGroup) SystemAssignedPrincipalID() string {
	return g.Identity.SystemAssignedPrincipalID()
}

// Refresh reloads the group from the service.
func (g *ContainerGroup) Refresh(ctx context.Context) error {
	fresh, err := g.c.Get(ctx, g.ResourceGroup(), to.ValOrZero(g.Name))
	if err != nil {
		return err
	}

	g.ContainerGroupResource = fresh.ContainerGroupResource

	return nil
}

// Restart restarts the containers of the group and waits for completion.
func (g *ContainerGroup) Restart(ctx context.Context) error {
	p, err := g.c.BeginRestart(ctx, g.ResourceGroup(), to.ValOrZero(g.Name), nil)
	if err != nil {
		return err
	}

	_, err = p.PollUntilDone(ctx, g.c.m.opts.PollOptions())

	return err //nolint:wrapcheck
}

// Stop stops the containers of the group.
func (g *ContainerGroup) Stop(ctx context.Context) error {
	return g.c.Stop(ctx, g.ResourceGroup(), to.ValOrZero(g.Name))
}

// LogContent returns the logs of container. A positive tail limits the output to the last tail lines.
func (g *ContainerGroup) LogContent(ctx context.Context, container string, tail int) (string, error) {
	return g.c.GetLogContent(ctx, g.ResourceGroup(), to.ValOrZero(g.Name), container, tail)
}
