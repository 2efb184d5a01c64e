// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import (
	"regexp"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/to"
)

var webAppNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,58}[a-zA-Z0-9])$`)

// RoleAssignment grants Role at Scope to the system assigned identity of a web app.
type RoleAssignment struct {
	Scope string
	Role  string
}

// WebAppDefinition describes a web app to create.
type WebAppDefinition struct {
	ResourceGroup    string
	Name             string
	Region           core.Region
	AppServicePlanID string
	OperatingSystem  OperatingSystem
	// RuntimeStack sets linuxFxVersion. Linux only.
	RuntimeStack          RuntimeStack
	HTTPSOnly             bool
	AlwaysOn              bool
	ClientAffinityEnabled bool
	AppSettings           map[string]AppSetting
	ConnectionStrings     map[string]ConnectionString
	Tags                  map[string]string

	identity        *core.ManagedServiceIdentity
	roleAssignments []RoleAssignment
}

// WithAppSetting adds the app setting key.
func (d *WebAppDefinition) WithAppSetting(key, value string) *WebAppDefinition {
	return d.withAppSetting(key, AppSetting{Value: value})
}

// WithStickyAppSetting adds the app setting key and keeps it with the slot during swaps.
func (d *WebAppDefinition) WithStickyAppSetting(key, value string) *WebAppDefinition {
	return d.withAppSetting(key, AppSetting{Value: value, Sticky: true})
}

func (d *WebAppDefinition) withAppSetting(key string, v AppSetting) *WebAppDefinition {
	if d.AppSettings == nil {
		d.AppSettings = make(map[string]AppSetting)
	}

	d.AppSettings[key] = v

	return d
}

// WithConnectionString adds the connection string name.
func (d *WebAppDefinition) WithConnectionString(name, value string, typ ConnectionStringType) *WebAppDefinition {
	return d.withConnectionString(name, ConnectionString{Value: value, Type: typ})
}

// WithStickyConnectionString adds the connection string name and keeps it with the slot during swaps.
func (d *WebAppDefinition) WithStickyConnectionString(name, value string, typ ConnectionStringType) *WebAppDefinition {
	return d.withConnectionString(name, ConnectionString{Value: value, Type: typ, Sticky: true})
}

func (d *WebAppDefinition) withConnectionString(name string, v ConnectionString) *WebAppDefinition {
	if d.ConnectionStrings == nil {
		d.ConnectionStrings = make(map[string]ConnectionString)
	}

	d.ConnectionStrings[name] = v

	return d
}

// WithSystemAssignedIdentity enables the system assigned identity.
func (d *WebAppDefinition) WithSystemAssignedIdentity() *WebAppDefinition {
	d.identity = d.identity.EnableSystemAssigned()
	return d
}

// WithUserAssignedIdentity attaches the user assigned identity id.
func (d *WebAppDefinition) WithUserAssignedIdentity(id string) *WebAppDefinition {
	d.identity = d.identity.AddUserAssigned(id)
	return d
}

// WithRoleAssignment grants role at scope to the system assigned identity after creation.
// The system assigned identity is enabled.
func (d *WebAppDefinition) WithRoleAssignment(scope, role string) *WebAppDefinition {
	d.roleAssignments = append(d.roleAssignments, RoleAssignment{Scope: scope, Role: role})
	return d.WithSystemAssignedIdentity()
}

// Identity returns the identity the web app will be created with, or nil.
func (d *WebAppDefinition) Identity() *core.ManagedServiceIdentity { return d.identity }

// Validate checks the definition before it is sent.
func (d *WebAppDefinition) Validate() error {
	return checker.NewValidator(
		checker.NewValidatorCheck("name", func() error {
			if !webAppNameRegex.MatchString(d.Name) {
				return core.NewErrPropertyInvalid("name", "2-60 letters, numbers and hyphens, not starting or ending with a hyphen")
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
		checker.NewValidatorCheck("app service plan", func() error {
			if d.AppServicePlanID == "" {
				return core.NewErrPropertyMustNotBeNil("serverFarmId")
			}
			rid, err := core.ParseResourceID(d.AppServicePlanID)
			if err != nil {
				return core.NewErrPropertyInvalid("serverFarmId", err.Error())
			}
			if !strings.EqualFold(rid.ResourceType.String(), "Microsoft.Web/serverfarms") {
				return core.NewErrPropertyInvalid("serverFarmId", "not an App Service plan id")
			}
			return nil
		}),
		checker.NewValidatorCheck("runtime stack", func() error {
			switch d.OperatingSystem {
			case OperatingSystemLinux:
			case OperatingSystemWindows:
				if !d.RuntimeStack.IsZero() {
					return core.NewErrPropertyInvalid("linuxFxVersion", "runtime stacks require a Linux web app")
				}
			default:
				return core.NewErrPropertyInvalid("operatingSystem", string(d.OperatingSystem))
			}
			if !d.RuntimeStack.IsZero() && (d.RuntimeStack.Stack == "" || d.RuntimeStack.Version == "") {
				return core.NewErrPropertyInvalid("linuxFxVersion", "stack and version are both required")
			}
			return nil
		}),
		checker.NewValidatorCheck("app settings", func() error {
			if _, ok := d.AppSettings[""]; ok {
				return core.NewErrPropertyMustNotBeNil("appSettings.name")
			}
			return nil
		}),
		checker.NewValidatorCheck("connection strings", func() error {
			return validateConnectionStrings(d.ConnectionStrings)
		}),
	).Validate()
}

func (d *WebAppDefinition) site() *Site {
	kind := "app"
	if d.OperatingSystem == OperatingSystemLinux {
		kind = "app,linux"
	}

	cfg := &SiteConfig{AlwaysOn: to.Ptr(d.AlwaysOn)}
	if !d.RuntimeStack.IsZero() {
		cfg.LinuxFxVersion = to.Ptr(d.RuntimeStack.LinuxFxVersion())
	}

	for _, k := range sortedKeys(d.AppSettings) {
		cfg.AppSettings = append(cfg.AppSettings, &NameValuePair{Name: to.Ptr(k), Value: to.Ptr(d.AppSettings[k].Value)})
	}

	for _, k := range sortedKeys(d.ConnectionStrings) {
		cs := d.ConnectionStrings[k]
		cfg.ConnectionStrings = append(cfg.ConnectionStrings, &ConnStringInfo{
			Name:             to.Ptr(k),
			ConnectionString: to.Ptr(cs.Value),
			Type:             to.Ptr(cs.Type),
		})
	}

	return &Site{
		Location: to.Ptr(d.Region.String()),
		Kind:     to.Ptr(kind),
		Tags:     to.PtrMap(d.Tags),
		Identity: d.identity,
		Properties: &SiteProperties{
			ServerFarmID:          to.Ptr(d.AppServicePlanID),
			Reserved:              to.Ptr(d.OperatingSystem == OperatingSystemLinux),
			HTTPSOnly:             to.Ptr(d.HTTPSOnly),
			ClientAffinityEnabled: to.Ptr(d.ClientAffinityEnabled),
			SiteConfig:            cfg,
		},
	}
}

// stickiness returns the changes marking the sticky settings of d.
func (d *WebAppDefinition) stickiness() settingsChanges {
	return settingsChanges{appSettings: d.AppSettings, connectionStrings: d.ConnectionStrings}
}

func (d *WebAppDefinition) hasStickySettings() bool {
	for _, v := range d.AppSettings {
		if v.Sticky {
			return true
		}
	}

	for _, v := range d.ConnectionStrings {
		if v.Sticky {
			return true
		}
	}

	return false
}

// UpdateWebApp lists the changes applied by WebApps.Update. Nil and empty fields are left unchanged.
// Setting an app setting or connection string with Sticky false clears its stickiness.
type UpdateWebApp struct {
	HTTPSOnly               *bool
	ClientAffinityEnabled   *bool
	AlwaysOn                *bool
	RuntimeStack            *RuntimeStack
	Tags                    map[string]string
	AppSettings             map[string]AppSetting
	RemoveAppSettings       []string
	ConnectionStrings       map[string]ConnectionString
	RemoveConnectionStrings []string
}

// Validate checks the update before it is sent.
func (u *UpdateWebApp) Validate() error {
	return checker.NewValidator(
		checker.NewValidatorCheck("runtime stack", func() error {
			if u.RuntimeStack != nil && (u.RuntimeStack.Stack == "" || u.RuntimeStack.Version == "") {
				return core.NewErrPropertyInvalid("linuxFxVersion", "stack and version are both required")
			}
			return nil
		}),
		checker.NewValidatorCheck("connection strings", func() error {
			return validateConnectionStrings(u.ConnectionStrings)
		}),
	).Validate()
}

func (u *UpdateWebApp) sitePatch() *SitePatch {
	if u.HTTPSOnly == nil && u.ClientAffinityEnabled == nil && u.Tags == nil {
		return nil
	}

	p := &SitePatch{Tags: to.PtrMap(u.Tags)}
	if u.HTTPSOnly != nil || u.ClientAffinityEnabled != nil {
		p.Properties = &SiteProperties{HTTPSOnly: u.HTTPSOnly, ClientAffinityEnabled: u.ClientAffinityEnabled}
	}

	return p
}

func (u *UpdateWebApp) configPatch() *SiteConfig {
	if u.AlwaysOn == nil && u.RuntimeStack == nil {
		return nil
	}

	cfg := &SiteConfig{AlwaysOn: u.AlwaysOn}
	if u.RuntimeStack != nil {
		cfg.LinuxFxVersion = to.Ptr(u.RuntimeStack.LinuxFxVersion())
	}

	return cfg
}

func (u *UpdateWebApp) settings() settingsChanges {
	return settingsChanges{
		appSettings:             u.AppSettings,
		removeAppSettings:       u.RemoveAppSettings,
		connectionStrings:       u.ConnectionStrings,
		removeConnectionStrings: u.RemoveConnectionStrings,
	}
}
