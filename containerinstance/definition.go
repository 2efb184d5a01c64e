// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerinstance

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"sort"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
)

var (
	groupNameRegex     = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]{0,61}[a-z0-9])?$`)
	dnsNameLabelRegex  = regexp.MustCompile(`^[a-z][-a-z0-9]{1,61}[a-z0-9]$`)
	containerNameRegex = groupNameRegex
)

// ContainerSpec describes one container of a definition.
type ContainerSpec struct {
	Name  string
	Image string
	// CPU is the number of cores requested. Defaults to 1.
	CPU float64
	// MemoryInGB is the memory requested. Defaults to 1.5.
	MemoryInGB float64
	Ports      []PortSpec
	Command    []string
	Env        map[string]string
	// SecureEnv values are never returned by the service.
	SecureEnv    map[string]string
	VolumeMounts []VolumeMount
}

// PortSpec is a port opened by a container. External ports are also exposed on the group IP address.
type PortSpec struct {
	Port     int32
	Protocol Protocol
	External bool
}

// RoleAssignment grants Role at Scope to the system assigned identity once the group exists.
type RoleAssignment struct {
	Scope string
	Role  string
}

// ContainerGroupDefinition describes a container group to create.
type ContainerGroupDefinition struct {
	ResourceGroup string
	Name          string
	Region        core.Region
	OSType        OperatingSystemTypes
	// RestartPolicy defaults to Always.
	RestartPolicy RestartPolicy
	Containers    []ContainerSpec
	// IPAddressType defaults to Public when a container has an external port.
	IPAddressType IPAddressType
	DNSNameLabel  string
	// SubnetIDs are required for a private IP address.
	SubnetIDs           []string
	RegistryCredentials []*ImageRegistryCredential
	Volumes             []*Volume
	SKU                 SKU
	Zones               []string
	Tags                map[string]string

	identity        *core.ManagedServiceIdentity
	roleAssignments []RoleAssignment
}

// WithSystemAssignedIdentity enables the system assigned identity.
func (d *ContainerGroupDefinition) WithSystemAssignedIdentity() *ContainerGroupDefinition {
	d.identity = d.identity.EnableSystemAssigned()
	return d
}

// WithoutSystemAssignedIdentity disables the system assigned identity.
func (d *ContainerGroupDefinition) WithoutSystemAssignedIdentity() *ContainerGroupDefinition {
	d.identity = d.identity.DisableSystemAssigned()
	return d
}

// WithUserAssignedIdentity attaches the user assigned identity id.
func (d *ContainerGroupDefinition) WithUserAssignedIdentity(id string) *ContainerGroupDefinition {
	d.identity = d.identity.AddUserAssigned(id)
	return d
}

// WithoutUserAssignedIdentity detaches the user assigned identity id.
func (d *ContainerGroupDefinition) WithoutUserAssignedIdentity(id string) *ContainerGroupDefinition {
	d.identity = d.identity.RemoveUserAssigned(id)
	return d
}

// WithRoleAssignment grants role at scope to the system assigned identity after creation.
// The system assigned identity is enabled.
func (d *ContainerGroupDefinition) WithRoleAssignment(scope, role string) *ContainerGroupDefinition {
	d.roleAssignments = append(d.roleAssignments, RoleAssignment{Scope: scope, Role: role})
	return d.WithSystemAssignedIdentity()
}

// Identity returns the identity the group will be created with, or nil.
func (d *ContainerGroupDefinition) Identity() *core.ManagedServiceIdentity { return d.identity }

// RoleAssignments returns the role assignments performed after creation.
func (d *ContainerGroupDefinition) RoleAssignments() []RoleAssignment { return d.roleAssignments }

// EmptyDirVolume returns a volume backed by an empty directory.
func EmptyDirVolume(name string) *Volume {
	return &Volume{Name: to.Ptr(name), EmptyDir: map[string]any{}}
}

// AzureFileVolume returns a volume mounting the file share shareName of storageAccount.
func AzureFileVolume(name, shareName, storageAccount, key string, readOnly bool) *Volume {
	return &Volume{Name: to.Ptr(name), AzureFile: &AzureFileVolumeSource{
		ShareName:          to.Ptr(shareName),
		StorageAccountName: to.Ptr(storageAccount),
		StorageAccountKey:  to.Ptr(key),
		ReadOnly:           to.Ptr(readOnly),
	}}
}

// GitRepoVolume returns a volume holding a clone of repository.
func GitRepoVolume(name, repository, directory, revision string) *Volume {
	v := &Volume{Name: to.Ptr(name), GitRepo: &GitRepoVolumeSource{Repository: to.Ptr(repository)}}
	if directory != "" {
		v.GitRepo.Directory = to.Ptr(directory)
	}

	if revision != "" {
		v.GitRepo.Revision = to.Ptr(revision)
	}

	return v
}

// SecretVolume returns a volume holding one file per secret. Values are base64 encoded for the service.
func SecretVolume(name string, secrets map[string]string) *Volume {
	enc := make(map[string]*string, len(secrets))
	for k, v := range secrets {
		enc[k] = to.Ptr(base64.StdEncoding.EncodeToString([]byte(v)))
	}

	return &Volume{Name: to.Ptr(name), Secret: enc}
}

func (d *ContainerGroupDefinition) ipAddressType() IPAddressType {
	if d.IPAddressType != "" {
		return d.IPAddressType
	}

	for _, c := range d.Containers {
		for _, p := range c.Ports {
			if p.External {
				return IPAddressTypePublic
			}
		}
	}

	return ""
}

// Validate checks the definition before it is submitted.
func (d *ContainerGroupDefinition) Validate() error {
	return checker.NewValidator(
		checker.NewValidatorCheck("name", func() error {
			if !groupNameRegex.MatchString(d.Name) {
				return core.NewErrPropertyInvalid("name", "1-63 lowercase letters, numbers and hyphens, not starting or ending with a hyphen")
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
		checker.NewValidatorCheck("os type", func() error {
			switch d.OSType {
			case OperatingSystemTypesLinux, OperatingSystemTypesWindows:
				return nil
			case "":
				return core.NewErrPropertyMustNotBeNil("osType")
			}
			return core.NewErrPropertyInvalid("osType", string(d.OSType))
		}),
		checker.NewValidatorCheck("containers", d.validateContainers),
		checker.NewValidatorCheck("volumes", d.validateVolumes),
		checker.NewValidatorCheck("ip address", d.validateIPAddress),
	).Validate()
}

func (d *ContainerGroupDefinition) validateContainers() error {
	if len(d.Containers) == 0 {
		return core.NewErrPropertyMustNotBeNil("containers")
	}

	names := mapset.NewThreadUnsafeSet[string]()
	external := mapset.NewThreadUnsafeSet[int32]()

	for i, c := range d.Containers {
		if !containerNameRegex.MatchString(c.Name) {
			return core.NewErrPropertyInvalid(fmt.Sprintf("containers[%d].name", i), c.Name)
		}

		if !names.Add(c.Name) {
			return core.NewErrPropertyInvalid("containers", fmt.Sprintf("duplicate container name %q", c.Name))
		}

		if c.Image == "" {
			return core.NewErrPropertyMustNotBeNil(fmt.Sprintf("containers[%s].image", c.Name))
		}

		if c.CPU < 0 {
			return core.NewErrPropertyOutOfRange(fmt.Sprintf("containers[%s].cpu", c.Name), 0, 4, c.CPU)
		}

		if c.MemoryInGB < 0 {
			return core.NewErrPropertyOutOfRange(fmt.Sprintf("containers[%s].memoryInGB", c.Name), 0, 16, c.MemoryInGB)
		}

		for _, p := range c.Ports {
			if p.Port < 1 || p.Port > 65535 {
				return core.NewErrPropertyOutOfRange(fmt.Sprintf("containers[%s].ports", c.Name), 1, 65535, float64(p.Port))
			}

			if p.External && !external.Add(p.Port) {
				return core.NewErrPropertyInvalid("ipAddress.ports", fmt.Sprintf("port %d exposed by more than one container", p.Port))
			}
		}
	}

	return nil
}

func (d *ContainerGroupDefinition) validateVolumes() error {
	defined := mapset.NewThreadUnsafeSet[string]()

	for i, v := range d.Volumes {
		if v == nil || to.ValOrZero(v.Name) == "" {
			return core.NewErrPropertyMustNotBeNil(fmt.Sprintf("volumes[%d].name", i))
		}

		sources := 0
		for _, set := range []bool{v.AzureFile != nil, v.EmptyDir != nil, v.Secret != nil, v.GitRepo != nil} {
			if set {
				sources++
			}
		}

		if sources != 1 {
			return core.NewErrPropertyInvalid(fmt.Sprintf("volumes[%s]", *v.Name), "exactly one volume source must be set")
		}

		defined.Add(*v.Name)
	}

	for _, c := range d.Containers {
		for _, vm := range c.VolumeMounts {
			name := to.ValOrZero(vm.Name)
			if !defined.Contains(name) {
				return core.NewErrPropertyInvalid(fmt.Sprintf("containers[%s].volumeMounts", c.Name), fmt.Sprintf("volume %q is not defined", name))
			}

			if to.ValOrZero(vm.MountPath) == "" {
				return core.NewErrPropertyMustNotBeNil(fmt.Sprintf("containers[%s].volumeMounts[%s].mountPath", c.Name, name))
			}
		}
	}

	return nil
}

func (d *ContainerGroupDefinition) validateIPAddress() error {
	ipType := d.ipAddressType()

	if d.DNSNameLabel != "" {
		if ipType != IPAddressTypePublic {
			return core.NewErrPropertyInvalid("ipAddress.dnsNameLabel", "requires a public IP address")
		}

		if !dnsNameLabelRegex.MatchString(d.DNSNameLabel) {
			return core.NewErrPropertyInvalid("ipAddress.dnsNameLabel", d.DNSNameLabel)
		}
	}

	if ipType != "" && len(d.externalPorts()) == 0 {
		return core.NewErrPropertyInvalid("ipAddress.ports", "an IP address requires at least one external port")
	}

	if ipType == IPAddressTypePrivate && len(d.SubnetIDs) == 0 {
		return core.NewErrPropertyMustNotBeNil("subnetIds")
	}

	return nil
}

func (d *ContainerGroupDefinition) externalPorts() []*Port {
	res := make([]*Port, 0)

	for _, c := range d.Containers {
		for _, p := range c.Ports {
			if p.External {
				res = append(res, &Port{Port: to.Ptr(p.Port), Protocol: to.Ptr(protocolOrTCP(p.Protocol))})
			}
		}
	}

	sort.Slice(res, func(i, j int) bool { return *res[i].Port < *res[j].Port })

	return res
}

func protocolOrTCP(p Protocol) Protocol {
	if p == "" {
		return ProtocolTCP
	}

	return p
}

func (d *ContainerGroupDefinition) resource() *ContainerGroupResource {
	restart := d.RestartPolicy
	if restart == "" {
		restart = RestartPolicyAlways
	}

	props := &ContainerGroupProperties{
		Containers:               make([]*Container, 0, len(d.Containers)),
		OSType:                   to.Ptr(d.OSType),
		RestartPolicy:            to.Ptr(restart),
		Volumes:                  d.Volumes,
		ImageRegistryCredentials: d.RegistryCredentials,
	}

	if d.SKU != "" {
		props.SKU = to.Ptr(d.SKU)
	}

	for _, c := range d.Containers {
		props.Containers = append(props.Containers, c.container())
	}

	if ipType := d.ipAddressType(); ipType != "" {
		props.IPAddress = &IPAddress{Type: to.Ptr(ipType), Ports: d.externalPorts()}
		if d.DNSNameLabel != "" {
			props.IPAddress.DNSNameLabel = to.Ptr(d.DNSNameLabel)
		}
	}

	for _, id := range d.SubnetIDs {
		props.SubnetIDs = append(props.SubnetIDs, &SubnetID{ID: to.Ptr(id)})
	}

	res := &ContainerGroupResource{
		Location:   to.Ptr(d.Region.String()),
		Tags:       to.PtrMap(d.Tags),
		Identity:   d.identity,
		Properties: props,
	}

	if len(d.Zones) > 0 {
		res.Zones = to.SliceOfPtrs(d.Zones...)
	}

	return res
}

func (c ContainerSpec) container() *Container {
	cpu, mem := c.CPU, c.MemoryInGB
	if cpu == 0 {
		cpu = 1
	}

	if mem == 0 {
		mem = 1.5
	}

	props := &ContainerProperties{
		Image:     to.Ptr(c.Image),
		Resources: &ResourceRequirements{Requests: &ResourceRequests{CPU: to.Ptr(cpu), MemoryInGB: to.Ptr(mem)}},
	}

	if len(c.Command) > 0 {
		props.Command = to.SliceOfPtrs(c.Command...)
	}

	for _, p := range c.Ports {
		props.Ports = append(props.Ports, &ContainerPort{Port: to.Ptr(p.Port), Protocol: to.Ptr(protocolOrTCP(p.Protocol))})
	}

	for _, k := range sortedKeys(c.Env) {
		props.EnvironmentVariables = append(props.EnvironmentVariables, &EnvironmentVariable{Name: to.Ptr(k), Value: to.Ptr(c.Env[k])})
	}

	for _, k := range sortedKeys(c.SecureEnv) {
		props.EnvironmentVariables = append(props.EnvironmentVariables, &EnvironmentVariable{Name: to.Ptr(k), SecureValue: to.Ptr(c.SecureEnv[k])})
	}

	for i := range c.VolumeMounts {
		props.VolumeMounts = append(props.VolumeMounts, &c.VolumeMounts[i])
	}

	return &Container{Name: to.Ptr(c.Name), Properties: props}
}

func sortedKeys(m map[string]string) []string {
	return mapset.Sorted(mapset.NewThreadUnsafeSetFromMapKeys(m))
}
