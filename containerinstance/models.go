// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerinstance

import (
	"time"

	"github.com/Azure/azmgmt/core"
)

// OperatingSystemTypes is the operating system of the containers in a group.
type OperatingSystemTypes string

const (
	OperatingSystemTypesLinux   OperatingSystemTypes = "Linux"
	OperatingSystemTypesWindows OperatingSystemTypes = "Windows"
)

// RestartPolicy controls restarts of the containers in a group.
type RestartPolicy string

const (
	RestartPolicyAlways    RestartPolicy = "Always"
	RestartPolicyOnFailure RestartPolicy = "OnFailure"
	RestartPolicyNever     RestartPolicy = "Never"
)

// IPAddressType is the visibility of the group IP address.
type IPAddressType string

const (
	IPAddressTypePublic  IPAddressType = "Public"
	IPAddressTypePrivate IPAddressType = "Private"
)

// Protocol is a network protocol.
type Protocol string

const (
	ProtocolTCP Protocol = "TCP"
	ProtocolUDP Protocol = "UDP"
)

// SKU of a container group.
type SKU string

const (
	SKUStandard     SKU = "Standard"
	SKUDedicated    SKU = "Dedicated"
	SKUConfidential SKU = "Confidential"
)

// ContainerGroupResource is a container group as returned by the service.
type ContainerGroupResource struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string                      `json:"type,omitempty"`
	Location   *string                      `json:"location,omitempty"`
	Tags       map[string]*string           `json:"tags,omitempty"`
	Zones      []*string                    `json:"zones,omitempty"`
	Identity   *core.ManagedServiceIdentity `json:"identity,omitempty"`
	Properties *ContainerGroupProperties    `json:"properties,omitempty"`
}

// ContainerGroupProperties holds the container group properties.
type ContainerGroupProperties struct {
	Containers               []*Container               `json:"containers"`
	OSType                   *OperatingSystemTypes      `json:"osType,omitempty"`
	RestartPolicy            *RestartPolicy             `json:"restartPolicy,omitempty"`
	IPAddress                *IPAddress                 `json:"ipAddress,omitempty"`
	Volumes                  []*Volume                  `json:"volumes,omitempty"`
	ImageRegistryCredentials []*ImageRegistryCredential `json:"imageRegistryCredentials,omitempty"`
	SubnetIDs                []*SubnetID                `json:"subnetIds,omitempty"`
	SKU                      *SKU                       `json:"sku,omitempty"`
	InitContainers           []*InitContainer           `json:"initContainers,omitempty"`
	Diagnostics              *Diagnostics               `json:"diagnostics,omitempty"`
	// READ-ONLY
	ProvisioningState *string `json:"provisioningState,omitempty"`
	// READ-ONLY
	InstanceView *ContainerGroupInstanceView `json:"instanceView,omitempty"`
}

// ContainerGroupInstanceView is the runtime view of a group.
type ContainerGroupInstanceView struct {
	Events []*Event `json:"events,omitempty"`
	State  *string  `json:"state,omitempty"`
}

// Container is one container of a group.
type Container struct {
	Name       *string              `json:"name"`
	Properties *ContainerProperties `json:"properties"`
}

// ContainerProperties describes a container.
type ContainerProperties struct {
	Image                *string                `json:"image"`
	Command              []*string              `json:"command,omitempty"`
	Ports                []*ContainerPort       `json:"ports,omitempty"`
	EnvironmentVariables []*EnvironmentVariable `json:"environmentVariables,omitempty"`
	Resources            *ResourceRequirements  `json:"resources"`
	VolumeMounts         []*VolumeMount         `json:"volumeMounts,omitempty"`
	LivenessProbe        *Probe                 `json:"livenessProbe,omitempty"`
	ReadinessProbe       *Probe                 `json:"readinessProbe,omitempty"`
	// READ-ONLY
	InstanceView *ContainerInstanceView `json:"instanceView,omitempty"`
}

// InitContainer runs to completion before the containers of the group start.
type InitContainer struct {
	Name       *string                  `json:"name"`
	Properties *InitContainerProperties `json:"properties"`
}

// InitContainerProperties describes an init container.
type InitContainerProperties struct {
	Image                *string                `json:"image,omitempty"`
	Command              []*string              `json:"command,omitempty"`
	EnvironmentVariables []*EnvironmentVariable `json:"environmentVariables,omitempty"`
	VolumeMounts         []*VolumeMount         `json:"volumeMounts,omitempty"`
}

// ContainerInstanceView is the runtime view of a container.
type ContainerInstanceView struct {
	RestartCount  *int32          `json:"restartCount,omitempty"`
	CurrentState  *ContainerState `json:"currentState,omitempty"`
	PreviousState *ContainerState `json:"previousState,omitempty"`
	Events        []*Event        `json:"events,omitempty"`
}

// ContainerState is the state of a container.
type ContainerState struct {
	State        *string    `json:"state,omitempty"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	ExitCode     *int32     `json:"exitCode,omitempty"`
	FinishTime   *time.Time `json:"finishTime,omitempty"`
	DetailStatus *string    `json:"detailStatus,omitempty"`
}

// Event is an event raised for a group or container.
type Event struct {
	Count          *int32     `json:"count,omitempty"`
	FirstTimestamp *time.Time `json:"firstTimestamp,omitempty"`
	LastTimestamp  *time.Time `json:"lastTimestamp,omitempty"`
	Name           *string    `json:"name,omitempty"`
	Message        *string    `json:"message,omitempty"`
	Type           *string    `json:"type,omitempty"`
}

// ContainerPort is a port opened by a container.
type ContainerPort struct {
	Port     *int32    `json:"port"`
	Protocol *Protocol `json:"protocol,omitempty"`
}

// EnvironmentVariable is a container environment variable. SecureValue is not returned by the service.
type EnvironmentVariable struct {
	Name        *string `json:"name"`
	Value       *string `json:"value,omitempty"`
	SecureValue *string `json:"secureValue,omitempty"`
}

// ResourceRequirements holds the resources requested by a container.
type ResourceRequirements struct {
	Requests *ResourceRequests `json:"requests"`
	Limits   *ResourceLimits   `json:"limits,omitempty"`
}

// ResourceRequests are the guaranteed resources of a container.
type ResourceRequests struct {
	MemoryInGB *float64 `json:"memoryInGB"`
	CPU        *float64 `json:"cpu"`
}

// ResourceLimits cap the resources of a container.
type ResourceLimits struct {
	MemoryInGB *float64 `json:"memoryInGB,omitempty"`
	CPU        *float64 `json:"cpu,omitempty"`
}

// VolumeMount mounts a group volume into a container.
type VolumeMount struct {
	Name      *string `json:"name"`
	MountPath *string `json:"mountPath"`
	ReadOnly  *bool   `json:"readOnly,omitempty"`
}

// Probe is a liveness or readiness probe.
type Probe struct {
	Exec                *ExecProbe `json:"exec,omitempty"`
	HTTPGet             *HTTPGet   `json:"httpGet,omitempty"`
	InitialDelaySeconds *int32     `json:"initialDelaySeconds,omitempty"`
	PeriodSeconds       *int32     `json:"periodSeconds,omitempty"`
	FailureThreshold    *int32     `json:"failureThreshold,omitempty"`
	SuccessThreshold    *int32     `json:"successThreshold,omitempty"`
	TimeoutSeconds      *int32     `json:"timeoutSeconds,omitempty"`
}

// ExecProbe runs a command inside the container.
type ExecProbe struct {
	Command []*string `json:"command,omitempty"`
}

// HTTPGet probes an HTTP endpoint of the container.
type HTTPGet struct {
	Path   *string `json:"path,omitempty"`
	Port   *int32  `json:"port"`
	Scheme *string `json:"scheme,omitempty"`
}

// IPAddress is the IP address of a group.
type IPAddress struct {
	Ports        []*Port        `json:"ports"`
	Type         *IPAddressType `json:"type"`
	IP           *string        `json:"ip,omitempty"`
	DNSNameLabel *string        `json:"dnsNameLabel,omitempty"`
	// READ-ONLY
	Fqdn *string `json:"fqdn,omitempty"`
}

// Port is a port exposed on the group IP address.
type Port struct {
	Protocol *Protocol `json:"protocol,omitempty"`
	Port     *int32    `json:"port"`
}

// Volume is a volume that can be mounted by the containers of a group. Exactly one source is set.
type Volume struct {
	Name      *string                `json:"name"`
	AzureFile *AzureFileVolumeSource `json:"azureFile,omitempty"`
	EmptyDir  any                    `json:"emptyDir,omitempty"`
	Secret    map[string]*string     `json:"secret,omitempty"`
	GitRepo   *GitRepoVolumeSource   `json:"gitRepo,omitempty"`
}

// AzureFileVolumeSource mounts an Azure file share.
type AzureFileVolumeSource struct {
	ShareName          *string `json:"shareName"`
	StorageAccountName *string `json:"storageAccountName"`
	StorageAccountKey  *string `json:"storageAccountKey,omitempty"`
	ReadOnly           *bool   `json:"readOnly,omitempty"`
}

// GitRepoVolumeSource clones a git repository.
type GitRepoVolumeSource struct {
	Repository *string `json:"repository"`
	Directory  *string `json:"directory,omitempty"`
	Revision   *string `json:"revision,omitempty"`
}

// ImageRegistryCredential authenticates to a private registry.
type ImageRegistryCredential struct {
	Server   *string `json:"server"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	// Identity is the resource ID of a user assigned identity used to pull images.
	Identity *string `json:"identity,omitempty"`
}

// SubnetID places a group in a virtual network.
type SubnetID struct {
	ID   *string `json:"id"`
	Name *string `json:"name,omitempty"`
}

// Diagnostics configures log shipping.
type Diagnostics struct {
	LogAnalytics *LogAnalytics `json:"logAnalytics,omitempty"`
}

// LogAnalytics ships container logs to a Log Analytics workspace.
type LogAnalytics struct {
	WorkspaceID  *string `json:"workspaceId"`
	WorkspaceKey *string `json:"workspaceKey"`
	LogType      *string `json:"logType,omitempty"`
}

// TagsPatch is the body of a tags update.
type TagsPatch struct {
	Tags map[string]*string `json:"tags"`
}

// Logs is the log output of a container.
type Logs struct {
	Content *string `json:"content,omitempty"`
}

// ContainerExecRequest starts a command in a container.
type ContainerExecRequest struct {
	Command      *string       `json:"command,omitempty"`
	TerminalSize *TerminalSize `json:"terminalSize,omitempty"`
}

// TerminalSize is the size of the exec terminal.
type TerminalSize struct {
	Rows *int32 `json:"rows,omitempty"`
	Cols *int32 `json:"cols,omitempty"`
}

// ContainerExecResponse holds the websocket endpoint of an exec session.
type ContainerExecResponse struct {
	WebSocketURI *string `json:"webSocketUri,omitempty"`
	Password     *string `json:"password,omitempty"`
}

// CachedImages is an image cached in a region.
type CachedImages struct {
	OSType *string `json:"osType,omitempty"`
	Image  *string `json:"image,omitempty"`
}

// Capabilities are the resources available for a configuration in a region.
type Capabilities struct {
	ResourceType  *string             `json:"resourceType,omitempty"`
	OSType        *string             `json:"osType,omitempty"`
	Location      *string             `json:"location,omitempty"`
	IPAddressType *string             `json:"ipAddressType,omitempty"`
	Gpu           *string             `json:"gpu,omitempty"`
	Capabilities  *CapabilitiesLimits `json:"capabilities,omitempty"`
}

// CapabilitiesLimits are the maximum resources of a container group.
type CapabilitiesLimits struct {
	MaxMemoryInGB *float64 `json:"maxMemoryInGB,omitempty"`
	MaxCPU        *float64 `json:"maxCpu,omitempty"`
	MaxGpuCount   *float64 `json:"maxGpuCount,omitempty"`
}

// Usage is the quota usage of a resource in a region.
type Usage struct {
	ID           *string    `json:"id,omitempty"`
	Unit         *string    `json:"unit,omitempty"`
	CurrentValue *int32     `json:"currentValue,omitempty"`
	Limit        *int32     `json:"limit,omitempty"`
	Name         *UsageName `json:"name,omitempty"`
}

// UsageName names a usage.
type UsageName struct {
	Value          *string `json:"value,omitempty"`
	LocalizedValue *string `json:"localizedValue,omitempty"`
}

// Operation is an operation offered by the Microsoft.ContainerInstance provider.
type Operation struct {
	Name    *string           `json:"name,omitempty"`
	Display *OperationDisplay `json:"display,omitempty"`
	Origin  *string           `json:"origin,omitempty"`
}

// OperationDisplay describes an operation.
type OperationDisplay struct {
	Provider    *string `json:"provider,omitempty"`
	Resource    *string `json:"resource,omitempty"`
	Operation   *string `json:"operation,omitempty"`
	Description *string `json:"description,omitempty"`
}
