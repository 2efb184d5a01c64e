// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rbac"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

// ErrRoleAssignment is joined to the error returned by Create when the web app exists but a role assignment failed.
var ErrRoleAssignment = errors.New("web app created but role assignment failed")

// WebApps manages web apps.
type WebApps struct {
	m *Manager
}

// Define returns a new definition for an HTTPS only Linux web app named name in resourceGroup.
func (c *WebApps) Define(resourceGroup, name string) *WebAppDefinition {
	return &WebAppDefinition{
		ResourceGroup:   resourceGroup,
		Name:            name,
		OperatingSystem: OperatingSystemLinux,
		HTTPSOnly:       true,
	}
}

// BeginCreate validates def and submits the site with its site config, app settings and connection strings.
// Stickiness and role assignments are applied by Create once the site exists.
func (c *WebApps) BeginCreate(ctx context.Context, def *WebAppDefinition, opts *BeginOptions) (*runtime.Poller[Site], error) {
	if tok := resumeToken(opts); tok != "" {
		return rest.BeginOperation[Site](ctx, c.m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: tok})
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("WebApps.BeginCreate: invalid definition: %w", err)
	}

	call := siteRef{resourceGroup: def.ResourceGroup, name: def.Name}.call(http.MethodPut, "")
	call.Body = def.site()
	call.Accept = []int{http.StatusOK, http.StatusAccepted}

	p, err := rest.BeginOperation[Site](ctx, c.m.client, call, nil)
	if err != nil {
		return nil, fmt.Errorf("WebApps.BeginCreate: %w", err)
	}

	c.m.logger.Info("web app submitted",
		zap.String(logging.FieldResourceGroup, def.ResourceGroup),
		zap.String(logging.FieldResource, def.Name),
	)

	return p, nil
}

// Create submits def, waits for the site, records the sticky settings and performs the role assignments of def.
// When a role assignment fails the created web app is returned together with an error wrapping ErrRoleAssignment.
func (c *WebApps) Create(ctx context.Context, def *WebAppDefinition) (*WebApp, error) {
	p, err := c.BeginCreate(ctx, def, nil)
	if err != nil {
		return nil, err
	}

	if _, err := p.PollUntilDone(ctx, c.m.opts.PollOptions()); err != nil {
		return nil, fmt.Errorf("WebApps.Create: %w", err)
	}

	ref := siteRef{resourceGroup: def.ResourceGroup, name: def.Name}

	if def.hasStickySettings() {
		if err := c.m.applyStickiness(ctx, ref, def.stickiness()); err != nil {
			return nil, fmt.Errorf("WebApps.Create: %w", err)
		}
	}

	app, err := c.Get(ctx, def.ResourceGroup, def.Name)
	if err != nil {
		return nil, fmt.Errorf("WebApps.Create: %w", err)
	}

	if len(def.roleAssignments) == 0 {
		return app, nil
	}

	principal := app.PrincipalID()
	if principal == "" {
		return app, fmt.Errorf("WebApps.Create: %w", errors.Join(ErrRoleAssignment, errors.New("no system assigned principal returned")))
	}

	assignments := make([]rbac.Assignment, 0, len(def.roleAssignments))
	for _, ra := range def.roleAssignments {
		assignments = append(assignments, rbac.Assignment{Scope: ra.Scope, Role: ra.Role})
	}

	if err := c.m.assigner.AssignAll(ctx, principal, assignments); err != nil {
		c.m.logger.Warn("role assignment failed", zap.String(logging.FieldResource, def.Name), zap.Error(err))
		return app, fmt.Errorf("WebApps.Create: %w", errors.Join(ErrRoleAssignment, err))
	}

	return app, nil
}

// Get returns the web app name of resourceGroup together with its site config.
func (c *WebApps) Get(ctx context.Context, resourceGroup, name string) (*WebApp, error) {
	ref := siteRef{resourceGroup: resourceGroup, name: name}

	site, err := rest.Do[Site](ctx, c.m.client, ref.call(http.MethodGet, ""))
	if err != nil {
		return nil, fmt.Errorf("WebApps.Get: %w", err)
	}

	cfg, err := c.m.getSiteConfig(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("WebApps.Get: reading site config: %w", err)
	}

	return c.wrap(site, cfg), nil
}

// GetByID returns the web app identified by id.
func (c *WebApps) GetByID(ctx context.Context, id string) (*WebApp, error) {
	rid, err := core.ParseResourceID(id)
	if err != nil {
		return nil, fmt.Errorf("WebApps.GetByID: %w", err)
	}

	return c.Get(ctx, rid.ResourceGroupName, rid.Name)
}

// NewListPager lists the sites of the subscription, function apps included.
func (c *WebApps) NewListPager() *runtime.Pager[rest.Page[Site]] {
	return rest.NewPager[Site](c.m.client, rest.Call{Path: sitesPath})
}

// NewListByResourceGroupPager lists the sites of resourceGroup, function apps included.
func (c *WebApps) NewListByResourceGroupPager(resourceGroup string) *runtime.Pager[rest.Page[Site]] {
	return rest.NewPager[Site](c.m.client, rest.Call{
		Path:   sitesInGroupPath,
		Params: rest.P{"resourceGroupName": resourceGroup},
	})
}

// List returns the web apps of the subscription with their site config. Function apps are skipped.
func (c *WebApps) List(ctx context.Context) ([]*WebApp, error) {
	res, err := c.listWithConfig(ctx, c.NewListPager())
	if err != nil {
		return nil, fmt.Errorf("WebApps.List: %w", err)
	}

	return res, nil
}

// ListByResourceGroup returns the web apps of resourceGroup with their site config. Function apps are skipped.
func (c *WebApps) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*WebApp, error) {
	res, err := c.listWithConfig(ctx, c.NewListByResourceGroupPager(resourceGroup))
	if err != nil {
		return nil, fmt.Errorf("WebApps.ListByResourceGroup: %w", err)
	}

	return res, nil
}

func (c *WebApps) listWithConfig(ctx context.Context, pager *runtime.Pager[rest.Page[Site]]) ([]*WebApp, error) {
	items, err := core.ListAll(ctx, pager, rest.Page[Site].Items)
	if err != nil {
		return nil, err
	}

	sites := make([]*Site, 0, len(items))
	for _, s := range items {
		if s != nil && !strings.Contains(strings.ToLower(to.ValOrZero(s.Kind)), "functionapp") {
			sites = append(sites, s)
		}
	}

	c.m.logger.Debug("loading site config", zap.Int(logging.FieldCount, len(sites)))

	return core.MapParallel(ctx, c.m.opts.Limit(), sites, func(ctx context.Context, s *Site) (*WebApp, error) {
		rg, err := core.ResourceGroupFromID(to.ValOrZero(s.ID))
		if err != nil {
			return nil, err
		}

		cfg, err := c.m.getSiteConfig(ctx, siteRef{resourceGroup: rg, name: to.ValOrZero(s.Name)})
		if err != nil {
			return nil, err
		}

		return c.wrap(*s, cfg), nil
	})
}

// Update applies u to the web app and returns the updated app.
// Site properties are patched first, then the site config, then app settings, connection strings and stickiness.
func (c *WebApps) Update(ctx context.Context, resourceGroup, name string, u UpdateWebApp) (*WebApp, error) {
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("WebApps.Update: invalid update: %w", err)
	}

	ref := siteRef{resourceGroup: resourceGroup, name: name}

	if patch := u.sitePatch(); patch != nil {
		call := ref.call(http.MethodPatch, "")
		call.Body = patch

		if _, err := rest.Do[Site](ctx, c.m.client, call); err != nil {
			return nil, fmt.Errorf("WebApps.Update: patching site: %w", err)
		}
	}

	if cfg := u.configPatch(); cfg != nil {
		if _, err := c.m.updateSiteConfig(ctx, ref, cfg); err != nil {
			return nil, fmt.Errorf("WebApps.Update: patching site config: %w", err)
		}
	}

	if err := c.m.applySettings(ctx, ref, u.settings()); err != nil {
		return nil, fmt.Errorf("WebApps.Update: %w", err)
	}

	c.m.logger.Info("web app updated",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
	)

	return c.Get(ctx, resourceGroup, name)
}

// Delete deletes the web app. The App Service plan is kept.
func (c *WebApps) Delete(ctx context.Context, resourceGroup, name string) error {
	call := siteRef{resourceGroup: resourceGroup, name: name}.call(http.MethodDelete, "")
	call.Query = url.Values{"deleteEmptyServerFarm": []string{"false"}}
	call.Accept = []int{http.StatusOK, http.StatusNoContent}

	if err := rest.DoNoContent(ctx, c.m.client, call); err != nil {
		return fmt.Errorf("WebApps.Delete: %w", err)
	}

	c.m.logger.Info("web app deleted",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
	)

	return nil
}

// Start starts the web app.
func (c *WebApps) Start(ctx context.Context, resourceGroup, name string) error {
	if err := c.m.post(ctx, siteRef{resourceGroup: resourceGroup, name: name}, "/start", nil); err != nil {
		return fmt.Errorf("WebApps.Start: %w", err)
	}

	return nil
}

// Stop stops the web app.
func (c *WebApps) Stop(ctx context.Context, resourceGroup, name string) error {
	if err := c.m.post(ctx, siteRef{resourceGroup: resourceGroup, name: name}, "/stop", nil); err != nil {
		return fmt.Errorf("WebApps.Stop: %w", err)
	}

	return nil
}

// Restart restarts the web app. A soft restart reapplies the configuration without recycling the workers.
func (c *WebApps) Restart(ctx context.Context, resourceGroup, name string, softRestart bool) error {
	q := url.Values{"softRestart": []string{strconv.FormatBool(softRestart)}}

	if err := c.m.post(ctx, siteRef{resourceGroup: resourceGroup, name: name}, "/restart", q); err != nil {
		return fmt.Errorf("WebApps.Restart: %w", err)
	}

	return nil
}

func (m *Manager) post(ctx context.Context, ref siteRef, suffix string, q url.Values) error {
	call := ref.call(http.MethodPost, suffix)
	call.Query = q
	call.Accept = []int{http.StatusOK, http.StatusNoContent}

	return rest.DoNoContent(ctx, m.client, call)
}

// GetAppSettings returns the app settings of the web app keyed by name.
func (c *WebApps) GetAppSettings(ctx context.Context, resourceGroup, name string) (map[string]AppSetting, error) {
	res, err := c.m.appSettings(ctx, siteRef{resourceGroup: resourceGroup, name: name})
	if err != nil {
		return nil, fmt.Errorf("WebApps.GetAppSettings: %w", err)
	}

	return res, nil
}

// GetConnectionStrings returns the connection strings of the web app keyed by name.
func (c *WebApps) GetConnectionStrings(ctx context.Context, resourceGroup, name string) (map[string]ConnectionString, error) {
	res, err := c.m.connectionStrings(ctx, siteRef{resourceGroup: resourceGroup, name: name})
	if err != nil {
		return nil, fmt.Errorf("WebApps.GetConnectionStrings: %w", err)
	}

	return res, nil
}

// PublishingCredentials are the deployment credentials of a site.
type PublishingCredentials struct {
	UserName string
	Password string
	ScmURI   string
}

// BeginGetPublishingCredentials starts reading the publishing credentials of the web app.
func (c *WebApps) BeginGetPublishingCredentials(ctx context.Context, resourceGroup, name string, opts *BeginOptions) (*runtime.Poller[User], error) {
	call := siteRef{resourceGroup: resourceGroup, name: name}.call(http.MethodPost, "/config/publishingcredentials/list")
	call.Accept = []int{http.StatusOK, http.StatusAccepted}

	p, err := rest.BeginOperation[User](ctx, c.m.client, call, &rest.PollerOptions{
		ResumeToken:   resumeToken(opts),
		FinalStateVia: runtime.FinalStateViaLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("WebApps.BeginGetPublishingCredentials: %w", err)
	}

	return p, nil
}

// GetPublishingCredentials returns the publishing credentials of the web app.
func (c *WebApps) GetPublishingCredentials(ctx context.Context, resourceGroup, name string) (*PublishingCredentials, error) {
	p, err := c.BeginGetPublishingCredentials(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.PollUntilDone(ctx, c.m.opts.PollOptions())
	if err != nil {
		return nil, fmt.Errorf("WebApps.GetPublishingCredentials: %w", err)
	}

	if res.Properties == nil {
		return &PublishingCredentials{}, nil
	}

	return &PublishingCredentials{
		UserName: to.ValOrZero(res.Properties.PublishingUserName),
		Password: to.ValOrZero(res.Properties.PublishingPassword),
		ScmURI:   to.ValOrZero(res.Properties.ScmURI),
	}, nil
}

// BeginSwapSlot swaps the production site with targetSlot.
func (c *WebApps) BeginSwapSlot(ctx context.Context, resourceGroup, name, targetSlot string, opts *BeginOptions) (*runtime.Poller[rest.Empty], error) {
	p, err := c.m.beginSwap(ctx, siteRef{resourceGroup: resourceGroup, name: name}, targetSlot, opts)
	if err != nil {
		return nil, fmt.Errorf("WebApps.BeginSwapSlot: %w", err)
	}

	return p, nil
}

// SwapSlot swaps the production site with targetSlot and waits for completion.
func (c *WebApps) SwapSlot(ctx context.Context, resourceGroup, name, targetSlot string) error {
	p, err := c.BeginSwapSlot(ctx, resourceGroup, name, targetSlot, nil)
	if err != nil {
		return err
	}

	if _, err := p.PollUntilDone(ctx, c.m.opts.PollOptions()); err != nil {
		return fmt.Errorf("WebApps.SwapSlot: %w", err)
	}

	return nil
}

func (m *Manager) beginSwap(ctx context.Context, ref siteRef, targetSlot string, opts *BeginOptions) (*runtime.Poller[rest.Empty], error) {
	if tok := resumeToken(opts); tok != "" {
		return rest.BeginOperation[rest.Empty](ctx, m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: tok})
	}

	if targetSlot == "" {
		return nil, core.NewErrPropertyMustNotBeNil("targetSlot")
	}

	call := ref.call(http.MethodPost, "/slotsswap")
	call.Body = CsmSlotEntity{TargetSlot: to.Ptr(targetSlot), PreserveVnet: to.Ptr(true)}
	call.Accept = []int{http.StatusOK, http.StatusAccepted}

	p, err := rest.BeginOperation[rest.Empty](ctx, m.client, call, &rest.PollerOptions{FinalStateVia: runtime.FinalStateViaLocation})
	if err != nil {
		return nil, err
	}

	m.logger.Info("slot swap requested",
		zap.String(logging.FieldResourceGroup, ref.resourceGroup),
		zap.String(logging.FieldResource, ref.name),
		zap.String("source_slot", ref.slot),
		zap.String("target_slot", targetSlot),
	)

	return p, nil
}

// Kudu returns a client for the SCM site of app.
func (c *WebApps) Kudu(app *WebApp, opts *KuduClientOptions) (*KuduClient, error) {
	return newKuduClient(c.m, app.DefaultHostName(), opts)
}

func (c *WebApps) wrap(site Site, cfg *SiteConfig) *WebApp {
	return &WebApp{Site: site, config: cfg, c: c}
}
