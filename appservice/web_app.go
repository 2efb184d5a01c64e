// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import (
	"context"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
)

// WebApp wraps a web app and its site config.
type WebApp struct {
	Site

	config *SiteConfig
	c      *WebApps
}

// ResourceGroup returns the resource group of the web app.
func (a *WebApp) ResourceGroup() string {
	rg, _ := core.ResourceGroupFromID(to.ValOrZero(a.ID))
	return rg
}

func (a *WebApp) ref() siteRef {
	return siteRef{resourceGroup: a.ResourceGroup(), name: to.ValOrZero(a.Name)}
}

func (a *WebApp) props() *SiteProperties {
	if a.Properties == nil {
		return &SiteProperties{}
	}

	return a.Properties
}

// Config returns the site config loaded with the web app, or nil.
func (a *WebApp) Config() *SiteConfig { return a.config }

// State returns the running state.
func (a *WebApp) State() SiteState { return to.ValOrZero(a.props().State) }

// DefaultHostName returns the azurewebsites host name of the web app.
func (a *WebApp) DefaultHostName() string { return to.ValOrZero(a.props().DefaultHostName) }

// HostNames returns every host name bound to the web app.
func (a *WebApp) HostNames() mapset.Set[string] {
	return mapset.NewSet(to.SliceOfVals(a.props().HostNames)...)
}

// EnabledHostNames returns the enabled host names, including the SCM host name.
func (a *WebApp) EnabledHostNames() mapset.Set[string] {
	return mapset.NewSet(to.SliceOfVals(a.props().EnabledHostNames)...)
}

// OperatingSystem returns Linux for reserved or linux kind sites and Windows otherwise.
func (a *WebApp) OperatingSystem() OperatingSystem {
	if to.ValOrZero(a.props().Reserved) || strings.Contains(strings.ToLower(to.ValOrZero(a.Kind)), "linux") {
		return OperatingSystemLinux
	}

	return OperatingSystemWindows
}

// HTTPSOnly reports whether plain HTTP requests are redirected.
func (a *WebApp) HTTPSOnly() bool { return to.ValOrZero(a.props().HTTPSOnly) }

// ClientAffinityEnabled reports whether ARR affinity cookies are issued.
func (a *WebApp) ClientAffinityEnabled() bool { return to.ValOrZero(a.props().ClientAffinityEnabled) }

// AlwaysOn reports whether the app is kept loaded.
func (a *WebApp) AlwaysOn() bool {
	if a.config == nil {
		return false
	}

	return to.ValOrZero(a.config.AlwaysOn)
}

// LinuxFxVersion returns the runtime of a Linux web app, e.g. NODE|20-lts.
func (a *WebApp) LinuxFxVersion() string {
	if a.config == nil {
		return ""
	}

	return to.ValOrZero(a.config.LinuxFxVersion)
}

// RuntimeStack parses LinuxFxVersion. ok is false when the app has no Linux runtime.
func (a *WebApp) RuntimeStack() (rs RuntimeStack, ok bool) {
	rs, err := ParseRuntimeStack(a.LinuxFxVersion())
	return rs, err == nil
}

// AppServicePlanID returns the ID of the hosting plan.
func (a *WebApp) AppServicePlanID() string { return to.ValOrZero(a.props().ServerFarmID) }

// OutboundIPAddresses returns the addresses outbound traffic may originate from.
func (a *WebApp) OutboundIPAddresses() mapset.Set[string] {
	return splitAddresses(to.ValOrZero(a.props().OutboundIPAddresses))
}

// PossibleOutboundIPAddresses returns every address outbound traffic may use after a scale operation.
func (a *WebApp) PossibleOutboundIPAddresses() mapset.Set[string] {
	return splitAddresses(to.ValOrZero(a.props().PossibleOutboundIPAddresses))
}

func splitAddresses(s string) mapset.Set[string] {
	res := mapset.NewSet[string]()

	for _, ip := range strings.Split(s, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			res.Add(ip)
		}
	}

	return res
}

// PrincipalID returns the principal of the system assigned identity, or "".
func (a *WebApp) PrincipalID() string { return a.Identity.SystemAssignedPrincipalID() }

// Refresh reloads the web app and its site config.
func (a *WebApp) Refresh(ctx context.Context) error {
	res, err := a.c.Get(ctx, a.ResourceGroup(), to.ValOrZero(a.Name))
	if err != nil {
		return err
	}

	a.Site, a.config = res.Site, res.config

	return nil
}

// Update applies u and refreshes the web app.
func (a *WebApp) Update(ctx context.Context, u UpdateWebApp) error {
	res, err := a.c.Update(ctx, a.ResourceGroup(), to.ValOrZero(a.Name), u)
	if err != nil {
		return err
	}

	a.Site, a.config = res.Site, res.config

	return nil
}

// Start starts the web app.
func (a *WebApp) Start(ctx context.Context) error {
	return a.c.Start(ctx, a.ResourceGroup(), to.ValOrZero(a.Name))
}

// Stop stops the web app.
func (a *WebApp) Stop(ctx context.Context) error {
	return a.c.Stop(ctx, a.ResourceGroup(), to.ValOrZero(a.Name))
}

// Restart restarts the web app.
func (a *WebApp) Restart(ctx context.Context, softRestart bool) error {
	return a.c.Restart(ctx, a.ResourceGroup(), to.ValOrZero(a.Name), softRestart)
}

// GetAppSettings returns the app settings of the web app.
func (a *WebApp) GetAppSettings(ctx context.Context) (map[string]AppSetting, error) {
	return a.c.GetAppSettings(ctx, a.ResourceGroup(), to.ValOrZero(a.Name))
}

// GetConnectionStrings returns the connection strings of the web app.
func (a *WebApp) GetConnectionStrings(ctx context.Context) (map[string]ConnectionString, error) {
	return a.c.GetConnectionStrings(ctx, a.ResourceGroup(), to.ValOrZero(a.Name))
}

// GetPublishingCredentials returns the publishing credentials of the web app.
func (a *WebApp) GetPublishingCredentials(ctx context.Context) (*PublishingCredentials, error) {
	return a.c.GetPublishingCredentials(ctx, a.ResourceGroup(), to.ValOrZero(a.Name))
}

// SwapSlot swaps the production site with targetSlot.
func (a *WebApp) SwapSlot(ctx context.Context, targetSlot string) error {
	return a.c.SwapSlot(ctx, a.ResourceGroup(), to.ValOrZero(a.Name), targetSlot)
}

// Kudu returns a client for the SCM site of the web app.
func (a *WebApp) Kudu(opts *KuduClientOptions) (*KuduClient, error) {
	return a.c.Kudu(a, opts)
}
