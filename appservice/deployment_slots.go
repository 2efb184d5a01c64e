// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/brunoga/deep"
	"go.uber.org/zap"
)

// ProductionSlot is the target slot name of the production site in swaps.
const ProductionSlot = "production"

// ConfigurationSource selects the configuration a new slot starts with.
type ConfigurationSource struct {
	slot string
	none bool
}

// ConfigurationFromParent copies the configuration of the production site.
func ConfigurationFromParent() ConfigurationSource { return ConfigurationSource{} }

// ConfigurationFromSlot copies the configuration of another slot of the same web app.
func ConfigurationFromSlot(slot string) ConfigurationSource { return ConfigurationSource{slot: slot} }

// NoConfiguration creates the slot with a default configuration.
func NoConfiguration() ConfigurationSource { return ConfigurationSource{none: true} }

// DeploymentSlot wraps a deployment slot of a web app.
type DeploymentSlot struct {
	Site

	config *SiteConfig
	c      *DeploymentSlots
}

func (s *DeploymentSlot) ref() siteRef {
	rg, _ := core.ResourceGroupFromID(to.ValOrZero(s.ID))
	app, slot, _ := strings.Cut(to.ValOrZero(s.Name), "/")

	return siteRef{resourceGroup: rg, name: app, slot: slot}
}

// WebAppName returns the name of the parent web app.
func (s *DeploymentSlot) WebAppName() string { return s.ref().name }

// SlotName returns the name of the slot without the web app prefix.
func (s *DeploymentSlot) SlotName() string { return s.ref().slot }

// Config returns the site config loaded with the slot, or nil.
func (s *DeploymentSlot) Config() *SiteConfig { return s.config }

// DefaultHostName returns the azurewebsites host name of the slot.
func (s *DeploymentSlot) DefaultHostName() string {
	if s.Properties == nil {
		return ""
	}

	return to.ValOrZero(s.Properties.DefaultHostName)
}

// GetAppSettings returns the app settings of the slot.
func (s *DeploymentSlot) GetAppSettings(ctx context.Context) (map[string]AppSetting, error) {
	return s.c.m.appSettings(ctx, s.ref())
}

// Swap swaps the slot with targetSlot, ProductionSlot for the production site.
func (s *DeploymentSlot) Swap(ctx context.Context, targetSlot string) error {
	ref := s.ref()
	return s.c.Swap(ctx, ref.resourceGroup, ref.name, ref.slot, targetSlot)
}

// DeploymentSlots manages the deployment slots of web apps.
type DeploymentSlots struct {
	m *Manager
}

// Create creates slot on app with the configuration selected by source and waits for it.
// Sticky app settings and connection strings are not copied.
func (c *DeploymentSlots) Create(ctx context.Context, app *WebApp, slot string, source ConfigurationSource) (*DeploymentSlot, error) {
	if slot == "" {
		return nil, fmt.Errorf("DeploymentSlots.Create: %w", core.NewErrPropertyMustNotBeNil("slot"))
	}

	parent := app.ref()
	ref := siteRef{resourceGroup: parent.resourceGroup, name: parent.name, slot: slot}

	call := ref.call(http.MethodPut, "")
	call.Body = &Site{
		Location: app.Location,
		Kind:     app.Kind,
		Properties: &SiteProperties{
			ServerFarmID: to.Ptr(app.AppServicePlanID()),
			Reserved:     to.Ptr(app.OperatingSystem() == OperatingSystemLinux),
			HTTPSOnly:    to.Ptr(app.HTTPSOnly()),
		},
	}
	call.Accept = []int{http.StatusOK, http.StatusAccepted}

	p, err := rest.BeginOperation[Site](ctx, c.m.client, call, nil)
	if err != nil {
		return nil, fmt.Errorf("DeploymentSlots.Create: %w", err)
	}

	if _, err := p.PollUntilDone(ctx, c.m.opts.PollOptions()); err != nil {
		return nil, fmt.Errorf("DeploymentSlots.Create: %w", err)
	}

	if !source.none {
		src := parent
		src.slot = source.slot

		if err := c.copyConfiguration(ctx, src, ref); err != nil {
			return nil, fmt.Errorf("DeploymentSlots.Create: copying configuration: %w", err)
		}
	}

	c.m.logger.Info("deployment slot created",
		zap.String(logging.FieldResourceGroup, ref.resourceGroup),
		zap.String(logging.FieldResource, ref.name+"/"+slot),
	)

	return c.Get(ctx, ref.resourceGroup, ref.name, slot)
}

func (c *DeploymentSlots) copyConfiguration(ctx context.Context, src, dst siteRef) error {
	srcCfg, err := c.m.getSiteConfig(ctx, src)
	if err != nil {
		return err
	}

	if srcCfg != nil {
		cfg, err := deep.Copy(*srcCfg)
		if err != nil {
			return err
		}

		cfg.AppSettings, cfg.ConnectionStrings = nil, nil

		if _, err := c.m.updateSiteConfig(ctx, dst, &cfg); err != nil {
			return err
		}
	}

	names, err := c.m.getSlotConfigNames(ctx, src)
	if err != nil {
		return err
	}

	settings, err := c.m.listAppSettings(ctx, src)
	if err != nil {
		return err
	}

	for _, k := range to.SliceOfVals(names.AppSettingNames) {
		delete(settings, k)
	}

	if err := c.m.putAppSettings(ctx, dst, settings); err != nil {
		return err
	}

	cs, err := c.m.listConnectionStrings(ctx, src)
	if err != nil {
		return err
	}

	for _, k := range to.SliceOfVals(names.ConnectionStringNames) {
		delete(cs, k)
	}

	return c.m.putConnectionStrings(ctx, dst, cs)
}

// Get returns slot of the web app app, with its site config.
func (c *DeploymentSlots) Get(ctx context.Context, resourceGroup, app, slot string) (*DeploymentSlot, error) {
	ref := siteRef{resourceGroup: resourceGroup, name: app, slot: slot}

	site, err := rest.Do[Site](ctx, c.m.client, ref.call(http.MethodGet, ""))
	if err != nil {
		return nil, fmt.Errorf("DeploymentSlots.Get: %w", err)
	}

	cfg, err := c.m.getSiteConfig(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("DeploymentSlots.Get: reading site config: %w", err)
	}

	return &DeploymentSlot{Site: site, config: cfg, c: c}, nil
}

// NewListPager lists the slots of the web app app.
func (c *DeploymentSlots) NewListPager(resourceGroup, app string) *runtime.Pager[rest.Page[Site]] {
	return rest.NewPager[Site](c.m.client, rest.Call{
		Path:   slotsPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "name": app},
	})
}

// List returns the slots of the web app app. List responses carry no site config.
func (c *DeploymentSlots) List(ctx context.Context, resourceGroup, app string) ([]*DeploymentSlot, error) {
	items, err := core.ListAll(ctx, c.NewListPager(resourceGroup, app), rest.Page[Site].Items)
	if err != nil {
		return nil, fmt.Errorf("DeploymentSlots.List: %w", err)
	}

	res := make([]*DeploymentSlot, 0, len(items))
	for _, it := range items {
		if it != nil {
			res = append(res, &DeploymentSlot{Site: *it, c: c})
		}
	}

	return res, nil
}

// Delete deletes slot of the web app app.
func (c *DeploymentSlots) Delete(ctx context.Context, resourceGroup, app, slot string) error {
	call := siteRef{resourceGroup: resourceGroup, name: app, slot: slot}.call(http.MethodDelete, "")
	call.Accept = []int{http.StatusOK, http.StatusNoContent}

	if err := rest.DoNoContent(ctx, c.m.client, call); err != nil {
		return fmt.Errorf("DeploymentSlots.Delete: %w", err)
	}

	return nil
}

// BeginSwap swaps slot with targetSlot, ProductionSlot for the production site.
func (c *DeploymentSlots) BeginSwap(ctx context.Context, resourceGroup, app, slot, targetSlot string, opts *BeginOptions) (*runtime.Poller[rest.Empty], error) {
	ref := siteRef{resourceGroup: resourceGroup, name: app, slot: slot}
	if strings.EqualFold(slot, ProductionSlot) {
		ref.slot = ""
	}

	p, err := c.m.beginSwap(ctx, ref, targetSlot, opts)
	if err != nil {
		return nil, fmt.Errorf("DeploymentSlots.BeginSwap: %w", err)
	}

	return p, nil
}

// Swap swaps slot with targetSlot and waits for completion.
func (c *DeploymentSlots) Swap(ctx context.Context, resourceGroup, app, slot, targetSlot string) error {
	p, err := c.BeginSwap(ctx, resourceGroup, app, slot, targetSlot, nil)
	if err != nil {
		return err
	}

	if _, err := p.PollUntilDone(ctx, c.m.opts.PollOptions()); err != nil {
		return fmt.Errorf("DeploymentSlots.Swap: %w", err)
	}

	return nil
}
