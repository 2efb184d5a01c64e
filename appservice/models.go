// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import "github.com/Azure/azmgmt/core"

// OperatingSystem is the operating system of a plan or web app.
type OperatingSystem string

const (
	OperatingSystemLinux   OperatingSystem = "Linux"
	OperatingSystemWindows OperatingSystem = "Windows"
)

// SiteState is the running state of a web app.
type SiteState string

const (
	SiteStateRunning SiteState = "Running"
	SiteStateStopped SiteState = "Stopped"
)

// ConnectionStringType is the database type of a connection string.
type ConnectionStringType string

const (
	ConnectionStringTypeMySQL           ConnectionStringType = "MySql"
	ConnectionStringTypeSQLServer       ConnectionStringType = "SQLServer"
	ConnectionStringTypeSQLAzure        ConnectionStringType = "SQLAzure"
	ConnectionStringTypeCustom          ConnectionStringType = "Custom"
	ConnectionStringTypeNotificationHub ConnectionStringType = "NotificationHub"
	ConnectionStringTypeServiceBus      ConnectionStringType = "ServiceBus"
	ConnectionStringTypeEventHub        ConnectionStringType = "EventHub"
	ConnectionStringTypeAPIHub          ConnectionStringType = "ApiHub"
	ConnectionStringTypeDocDB           ConnectionStringType = "DocDb"
	ConnectionStringTypeRedisCache      ConnectionStringType = "RedisCache"
	ConnectionStringTypePostgreSQL      ConnectionStringType = "PostgreSQL"
)

// PossibleConnectionStringTypeValues returns the valid connection string types.
func PossibleConnectionStringTypeValues() []ConnectionStringType {
	return []ConnectionStringType{
		ConnectionStringTypeMySQL,
		ConnectionStringTypeSQLServer,
		ConnectionStringTypeSQLAzure,
		ConnectionStringTypeCustom,
		ConnectionStringTypeNotificationHub,
		ConnectionStringTypeServiceBus,
		ConnectionStringTypeEventHub,
		ConnectionStringTypeAPIHub,
		ConnectionStringTypeDocDB,
		ConnectionStringTypeRedisCache,
		ConnectionStringTypePostgreSQL,
	}
}

// SKUDescription is the pricing tier of an App Service plan.
type SKUDescription struct {
	Name     *string `json:"name,omitempty"`
	Tier     *string `json:"tier,omitempty"`
	Size     *string `json:"size,omitempty"`
	Family   *string `json:"family,omitempty"`
	Capacity *int32  `json:"capacity,omitempty"`
}

// AppServicePlanProperties are the properties of an App Service plan.
type AppServicePlanProperties struct {
	// Reserved is true for Linux plans.
	Reserved       *bool `json:"reserved,omitempty"`
	PerSiteScaling *bool `json:"perSiteScaling,omitempty"`
	ZoneRedundant  *bool `json:"zoneRedundant,omitempty"`

	// READ-ONLY
	MaximumNumberOfWorkers *int32 `json:"maximumNumberOfWorkers,omitempty"`
	// READ-ONLY
	NumberOfSites *int32 `json:"numberOfSites,omitempty"`
	// READ-ONLY
	Status *string `json:"status,omitempty"`
	// READ-ONLY
	ProvisioningState *string `json:"provisioningState,omitempty"`
	// READ-ONLY
	ResourceGroup *string `json:"resourceGroup,omitempty"`
}

// AppServicePlanResource is the ARM representation of an App Service plan (Microsoft.Web/serverfarms).
type AppServicePlanResource struct {
	ID         *string                   `json:"id,omitempty"`
	Name       *string                   `json:"name,omitempty"`
	Type       *string                   `json:"type,omitempty"`
	Kind       *string                   `json:"kind,omitempty"`
	Location   *string                   `json:"location,omitempty"`
	Tags       map[string]*string        `json:"tags,omitempty"`
	SKU        *SKUDescription           `json:"sku,omitempty"`
	Properties *AppServicePlanProperties `json:"properties,omitempty"`
}

// NameValuePair is an app setting as carried inside a site config.
type NameValuePair struct {
	Name  *string `json:"name,omitempty"`
	Value *string `json:"value,omitempty"`
}

// ConnStringInfo is a connection string as carried inside a site config.
type ConnStringInfo struct {
	Name             *string               `json:"name,omitempty"`
	ConnectionString *string               `json:"connectionString,omitempty"`
	Type             *ConnectionStringType `json:"type,omitempty"`
}

// SiteConfig is the web configuration of a web app or slot.
type SiteConfig struct {
	AlwaysOn              *bool             `json:"alwaysOn,omitempty"`
	LinuxFxVersion        *string           `json:"linuxFxVersion,omitempty"`
	WindowsFxVersion      *string           `json:"windowsFxVersion,omitempty"`
	NetFrameworkVersion   *string           `json:"netFrameworkVersion,omitempty"`
	PHPVersion            *string           `json:"phpVersion,omitempty"`
	PythonVersion         *string           `json:"pythonVersion,omitempty"`
	NodeVersion           *string           `json:"nodeVersion,omitempty"`
	JavaVersion           *string           `json:"javaVersion,omitempty"`
	JavaContainer         *string           `json:"javaContainer,omitempty"`
	JavaContainerVersion  *string           `json:"javaContainerVersion,omitempty"`
	HTTP20Enabled         *bool             `json:"http20Enabled,omitempty"`
	WebSocketsEnabled     *bool             `json:"webSocketsEnabled,omitempty"`
	Use32BitWorkerProcess *bool             `json:"use32BitWorkerProcess,omitempty"`
	FtpsState             *string           `json:"ftpsState,omitempty"`
	MinTLSVersion         *string           `json:"minTlsVersion,omitempty"`
	AppCommandLine        *string           `json:"appCommandLine,omitempty"`
	HealthCheckPath       *string           `json:"healthCheckPath,omitempty"`
	DefaultDocuments      []*string         `json:"defaultDocuments,omitempty"`
	AppSettings           []*NameValuePair  `json:"appSettings,omitempty"`
	ConnectionStrings     []*ConnStringInfo `json:"connectionStrings,omitempty"`
}

// SiteConfigResource is the config/web sub resource of a site.
type SiteConfigResource struct {
	ID         *string     `json:"id,omitempty"`
	Name       *string     `json:"name,omitempty"`
	Properties *SiteConfig `json:"properties,omitempty"`
}

// SiteProperties are the properties of a web app or slot.
type SiteProperties struct {
	ServerFarmID          *string     `json:"serverFarmId,omitempty"`
	Reserved              *bool       `json:"reserved,omitempty"`
	HTTPSOnly             *bool       `json:"httpsOnly,omitempty"`
	ClientAffinityEnabled *bool       `json:"clientAffinityEnabled,omitempty"`
	Enabled               *bool       `json:"enabled,omitempty"`
	SiteConfig            *SiteConfig `json:"siteConfig,omitempty"`

	// READ-ONLY
	State *SiteState `json:"state,omitempty"`
	// READ-ONLY
	HostNames []*string `json:"hostNames,omitempty"`
	// READ-ONLY
	EnabledHostNames []*string `json:"enabledHostNames,omitempty"`
	// READ-ONLY
	DefaultHostName *string `json:"defaultHostName,omitempty"`
	// READ-ONLY, comma separated
	OutboundIPAddresses *string `json:"outboundIpAddresses,omitempty"`
	// READ-ONLY, comma separated
	PossibleOutboundIPAddresses *string `json:"possibleOutboundIpAddresses,omitempty"`
	// READ-ONLY
	AvailabilityState *string `json:"availabilityState,omitempty"`
	// READ-ONLY
	ResourceGroup *string `json:"resourceGroup,omitempty"`
	// READ-ONLY
	RepositorySiteName *string `json:"repositorySiteName,omitempty"`
}

// Site is the ARM representation of a web app (Microsoft.Web/sites) or slot (Microsoft.Web/sites/slots).
type Site struct {
	ID         *string                      `json:"id,omitempty"`
	Name       *string                      `json:"name,omitempty"`
	Type       *string                      `json:"type,omitempty"`
	Kind       *string                      `json:"kind,omitempty"`
	Location   *string                      `json:"location,omitempty"`
	Tags       map[string]*string           `json:"tags,omitempty"`
	Identity   *core.ManagedServiceIdentity `json:"identity,omitempty"`
	Properties *SiteProperties              `json:"properties,omitempty"`
}

// SitePatch is the body of a site PATCH.
type SitePatch struct {
	Tags       map[string]*string `json:"tags,omitempty"`
	Properties *SiteProperties    `json:"properties,omitempty"`
}

// StringDictionary is the app settings resource of a site.
type StringDictionary struct {
	ID         *string            `json:"id,omitempty"`
	Name       *string            `json:"name,omitempty"`
	Properties map[string]*string `json:"properties"`
}

// ConnStringValueTypePair is one connection string of ConnectionStringDictionary.
type ConnStringValueTypePair struct {
	Value *string               `json:"value,omitempty"`
	Type  *ConnectionStringType `json:"type,omitempty"`
}

// ConnectionStringDictionary is the connection strings resource of a site.
type ConnectionStringDictionary struct {
	ID         *string                             `json:"id,omitempty"`
	Name       *string                             `json:"name,omitempty"`
	Properties map[string]*ConnStringValueTypePair `json:"properties"`
}

// SlotConfigNames lists the settings that stay with a slot during swaps.
type SlotConfigNames struct {
	AppSettingNames       []*string `json:"appSettingNames"`
	ConnectionStringNames []*string `json:"connectionStringNames"`
}

// SlotConfigNamesResource is the config/slotConfigNames sub resource of a web app.
type SlotConfigNamesResource struct {
	ID         *string          `json:"id,omitempty"`
	Name       *string          `json:"name,omitempty"`
	Properties *SlotConfigNames `json:"properties,omitempty"`
}

// UserProperties are the publishing credentials of a site.
type UserProperties struct {
	PublishingUserName *string `json:"publishingUserName,omitempty"`
	PublishingPassword *string `json:"publishingPassword,omitempty"`
	ScmURI             *string `json:"scmUri,omitempty"`
}

// User is the publishingcredentials resource of a site.
type User struct {
	ID         *string         `json:"id,omitempty"`
	Name       *string         `json:"name,omitempty"`
	Properties *UserProperties `json:"properties,omitempty"`
}

// CsmSlotEntity is the body of a slot swap.
type CsmSlotEntity struct {
	TargetSlot   *string `json:"targetSlot"`
	PreserveVnet *bool   `json:"preserveVnet"`
}
