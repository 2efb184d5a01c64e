// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/brunoga/deep"
	"go.uber.org/zap"
)

const (
	plansPath        = "/subscriptions/{subscriptionId}/providers/Microsoft.Web/serverfarms"
	plansInGroupPath = "/subscriptions/{subscriptionId}/resourceGroups/{resourceGroupName}/providers/Microsoft.Web/serverfarms"
	planPath         = plansInGroupPath + "/{name}"

	maxPlanCapacity      = 30
	minZoneRedundantSize = 3
)

var planNameRegex = regexp.MustCompile(`^[a-zA-Z0-9-]{1,60}$`)

// PricingTier is the tier and size of an App Service plan SKU.
type PricingTier struct {
	Tier string
	Size string
}

// Common pricing tiers.
var (
	PricingTierFreeF1      = PricingTier{Tier: "Free", Size: "F1"}
	PricingTierSharedD1    = PricingTier{Tier: "Shared", Size: "D1"}
	PricingTierBasicB1     = PricingTier{Tier: "Basic", Size: "B1"}
	PricingTierBasicB2     = PricingTier{Tier: "Basic", Size: "B2"}
	PricingTierBasicB3     = PricingTier{Tier: "Basic", Size: "B3"}
	PricingTierStandardS1  = PricingTier{Tier: "Standard", Size: "S1"}
	PricingTierStandardS2  = PricingTier{Tier: "Standard", Size: "S2"}
	PricingTierStandardS3  = PricingTier{Tier: "Standard", Size: "S3"}
	PricingTierPremiumP1v2 = PricingTier{Tier: "PremiumV2", Size: "P1v2"}
	PricingTierPremiumP1v3 = PricingTier{Tier: "PremiumV3", Size: "P1v3"}
	PricingTierPremiumP2v3 = PricingTier{Tier: "PremiumV3", Size: "P2v3"}
	PricingTierPremiumP3v3 = PricingTier{Tier: "PremiumV3", Size: "P3v3"}
)

func (p PricingTier) sku(capacity int32) *SKUDescription {
	return &SKUDescription{
		Name:     to.Ptr(p.Size),
		Tier:     to.Ptr(p.Tier),
		Size:     to.Ptr(p.Size),
		Capacity: to.Ptr(capacity),
	}
}

func (p PricingTier) isShared() bool {
	return strings.EqualFold(p.Tier, "Free") || strings.EqualFold(p.Tier, "Shared")
}

func (p PricingTier) supportsZoneRedundancy() bool {
	return strings.EqualFold(p.Tier, "PremiumV2") || strings.EqualFold(p.Tier, "PremiumV3")
}

// AppServicePlanDefinition describes an App Service plan to create.
type AppServicePlanDefinition struct {
	ResourceGroup   string
	Name            string
	Region          core.Region
	OperatingSystem OperatingSystem
	PricingTier     PricingTier
	// Capacity is the number of workers. Defaults to 1.
	Capacity       int32
	PerSiteScaling bool
	ZoneRedundant  bool
	Tags           map[string]string
}

func (d *AppServicePlanDefinition) capacity() int32 {
	if d.Capacity == 0 {
		return 1
	}

	return d.Capacity
}

// Validate checks the definition before it is sent.
func (d *AppServicePlanDefinition) Validate() error {
	return checker.NewValidator(
		checker.NewValidatorCheck("name", func() error {
			if !planNameRegex.MatchString(d.Name) {
				return core.NewErrPropertyInvalid("name", "1-60 letters, numbers and hyphens")
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
		checker.NewValidatorCheck("operating system", func() error {
			switch d.OperatingSystem {
			case OperatingSystemLinux, OperatingSystemWindows:
				return nil
			}
			return core.NewErrPropertyInvalid("operatingSystem", string(d.OperatingSystem))
		}),
		checker.NewValidatorCheck("sku", func() error {
			if d.PricingTier.Tier == "" || d.PricingTier.Size == "" {
				return core.NewErrPropertyMustNotBeNil("sku")
			}
			return nil
		}),
		checker.NewValidatorCheck("capacity", d.validateCapacity),
	).Validate()
}

func (d *AppServicePlanDefinition) validateCapacity() error {
	c := d.capacity()
	if c < 1 || c > maxPlanCapacity {
		return core.NewErrPropertyOutOfRange("capacity", 1, maxPlanCapacity, float64(c))
	}

	if d.PricingTier.isShared() && c != 1 {
		return core.NewErrPropertyInvalid("capacity", "free and shared plans run on a single worker")
	}

	if d.ZoneRedundant {
		if !d.PricingTier.supportsZoneRedundancy() {
			return core.NewErrPropertyInvalid("zoneRedundant", "requires a premium v2 or v3 tier")
		}

		if c < minZoneRedundantSize {
			return core.NewErrPropertyInvalid("zoneRedundant", fmt.Sprintf("requires a capacity of at least %d", minZoneRedundantSize))
		}
	}

	return nil
}

func (d *AppServicePlanDefinition) resource() *AppServicePlanResource {
	kind := "app"
	if d.OperatingSystem == OperatingSystemLinux {
		kind = "linux"
	}

	return &AppServicePlanResource{
		Location: to.Ptr(d.Region.String()),
		Kind:     to.Ptr(kind),
		Tags:     to.PtrMap(d.Tags),
		SKU:      d.PricingTier.sku(d.capacity()),
		Properties: &AppServicePlanProperties{
			Reserved:       to.Ptr(d.OperatingSystem == OperatingSystemLinux),
			PerSiteScaling: to.Ptr(d.PerSiteScaling),
			ZoneRedundant:  to.Ptr(d.ZoneRedundant),
		},
	}
}

// AppServicePlan wraps an App Service plan.
type AppServicePlan struct {
	AppServicePlanResource

	c *AppServicePlans
}

// ResourceGroup returns the resource group of the plan.
func (p *AppServicePlan) ResourceGroup() string {
	rg, _ := core.ResourceGroupFromID(to.ValOrZero(p.ID))
	return rg
}

// OperatingSystem returns Linux for reserved plans and Windows otherwise.
func (p *AppServicePlan) OperatingSystem() OperatingSystem {
	if p.Properties != nil && to.ValOrZero(p.Properties.Reserved) {
		return OperatingSystemLinux
	}

	return OperatingSystemWindows
}

// PricingTier returns the tier and size of the plan.
func (p *AppServicePlan) PricingTier() PricingTier {
	if p.SKU == nil {
		return PricingTier{}
	}

	return PricingTier{Tier: to.ValOrZero(p.SKU.Tier), Size: to.ValOrZero(p.SKU.Size)}
}

// Capacity returns the number of workers of the plan.
func (p *AppServicePlan) Capacity() int32 {
	if p.SKU == nil {
		return 0
	}

	return to.ValOrZero(p.SKU.Capacity)
}

// NumberOfWebApps returns the number of sites hosted on the plan.
func (p *AppServicePlan) NumberOfWebApps() int32 {
	if p.Properties == nil {
		return 0
	}

	return to.ValOrZero(p.Properties.NumberOfSites)
}

// Refresh reloads the plan.
func (p *AppServicePlan) Refresh(ctx context.Context) error {
	res, err := p.c.Get(ctx, p.ResourceGroup(), to.ValOrZero(p.Name))
	if err != nil {
		return err
	}

	p.AppServicePlanResource = res.AppServicePlanResource

	return nil
}

// AppServicePlans manages App Service plans.
type AppServicePlans struct {
	m *Manager
}

// Define returns a new definition for a Linux plan named name in resourceGroup on the Basic B1 tier.
func (c *AppServicePlans) Define(resourceGroup, name string) *AppServicePlanDefinition {
	return &AppServicePlanDefinition{
		ResourceGroup:   resourceGroup,
		Name:            name,
		OperatingSystem: OperatingSystemLinux,
		PricingTier:     PricingTierBasicB1,
		Capacity:        1,
	}
}

// BeginOptions configures the Begin operations of the package.
type BeginOptions struct {
	ResumeToken string
}

func resumeToken(opts *BeginOptions) string {
	if opts == nil {
		return ""
	}

	return opts.ResumeToken
}

func (c *AppServicePlans) wrap(res AppServicePlanResource) *AppServicePlan {
	return &AppServicePlan{AppServicePlanResource: res, c: c}
}

// BeginCreate validates def and submits the plan.
func (c *AppServicePlans) BeginCreate(ctx context.Context, def *AppServicePlanDefinition, opts *BeginOptions) (*runtime.Poller[AppServicePlanResource], error) {
	if tok := resumeToken(opts); tok != "" {
		return rest.BeginOperation[AppServicePlanResource](ctx, c.m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: tok})
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("AppServicePlans.BeginCreate: invalid definition: %w", err)
	}

	p, err := rest.BeginOperation[AppServicePlanResource](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   planPath,
		Params: rest.P{"resourceGroupName": def.ResourceGroup, "name": def.Name},
		Body:   def.resource(),
		Accept: []int{http.StatusOK, http.StatusAccepted},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.BeginCreate: %w", err)
	}

	c.m.logger.Info("app service plan submitted",
		zap.String(logging.FieldResourceGroup, def.ResourceGroup),
		zap.String(logging.FieldResource, def.Name),
	)

	return p, nil
}

// Create submits def and waits for the plan.
func (c *AppServicePlans) Create(ctx context.Context, def *AppServicePlanDefinition) (*AppServicePlan, error) {
	p, err := c.BeginCreate(ctx, def, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.PollUntilDone(ctx, c.m.opts.PollOptions())
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.Create: %w", err)
	}

	return c.wrap(res), nil
}

// Get returns the plan name of resourceGroup.
func (c *AppServicePlans) Get(ctx context.Context, resourceGroup, name string) (*AppServicePlan, error) {
	res, err := rest.Do[AppServicePlanResource](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   planPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "name": name},
	})
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.Get: %w", err)
	}

	return c.wrap(res), nil
}

// GetByID returns the plan identified by id.
func (c *AppServicePlans) GetByID(ctx context.Context, id string) (*AppServicePlan, error) {
	rid, err := core.ParseResourceID(id)
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.GetByID: %w", err)
	}

	return c.Get(ctx, rid.ResourceGroupName, rid.Name)
}

// NewListPager lists the plans of the subscription.
func (c *AppServicePlans) NewListPager() *runtime.Pager[rest.Page[AppServicePlanResource]] {
	return rest.NewPager[AppServicePlanResource](c.m.client, rest.Call{Path: plansPath})
}

// NewListByResourceGroupPager lists the plans of resourceGroup.
func (c *AppServicePlans) NewListByResourceGroupPager(resourceGroup string) *runtime.Pager[rest.Page[AppServicePlanResource]] {
	return rest.NewPager[AppServicePlanResource](c.m.client, rest.Call{
		Path:   plansInGroupPath,
		Params: rest.P{"resourceGroupName": resourceGroup},
	})
}

// List returns every plan of the subscription.
func (c *AppServicePlans) List(ctx context.Context) ([]*AppServicePlan, error) {
	items, err := core.ListAll(ctx, c.NewListPager(), rest.Page[AppServicePlanResource].Items)
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.List: %w", err)
	}

	return c.wrapAll(items), nil
}

// ListByResourceGroup returns every plan of resourceGroup.
func (c *AppServicePlans) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*AppServicePlan, error) {
	items, err := core.ListAll(ctx, c.NewListByResourceGroupPager(resourceGroup), rest.Page[AppServicePlanResource].Items)
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.ListByResourceGroup: %w", err)
	}

	return c.wrapAll(items), nil
}

func (c *AppServicePlans) wrapAll(items []*AppServicePlanResource) []*AppServicePlan {
	res := make([]*AppServicePlan, 0, len(items))
	for _, it := range items {
		if it != nil {
			res = append(res, c.wrap(*it))
		}
	}

	return res
}

// Delete deletes the plan. The plan must not host any web app.
func (c *AppServicePlans) Delete(ctx context.Context, resourceGroup, name string) error {
	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   planPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "name": name},
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("AppServicePlans.Delete: %w", err)
	}

	c.m.logger.Info("app service plan deleted",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
	)

	return nil
}

// PlanUpdate lists the changes applied by Update. Nil fields are left unchanged.
type PlanUpdate struct {
	Capacity    *int32
	PricingTier *PricingTier
	Tags        map[string]string
}

// Update applies u to the plan and waits for the result.
func (c *AppServicePlans) Update(ctx context.Context, resourceGroup, name string, u PlanUpdate) (*AppServicePlan, error) {
	current, err := c.Get(ctx, resourceGroup, name)
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.Update: %w", err)
	}

	body, err := deep.Copy(current.AppServicePlanResource)
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.Update: copying plan: %w", err)
	}

	if body.SKU == nil {
		body.SKU = &SKUDescription{}
	}

	if u.PricingTier != nil {
		body.SKU.Name = to.Ptr(u.PricingTier.Size)
		body.SKU.Tier = to.Ptr(u.PricingTier.Tier)
		body.SKU.Size = to.Ptr(u.PricingTier.Size)
		body.SKU.Family = nil
	}

	if u.Capacity != nil {
		if *u.Capacity < 1 || *u.Capacity > maxPlanCapacity {
			return nil, fmt.Errorf("AppServicePlans.Update: %w",
				core.NewErrPropertyOutOfRange("capacity", 1, maxPlanCapacity, float64(*u.Capacity)))
		}

		body.SKU.Capacity = u.Capacity
	}

	if u.Tags != nil {
		body.Tags = core.MergeTags(body.Tags, u.Tags)
	}

	p, err := rest.BeginOperation[AppServicePlanResource](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   planPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "name": name},
		Body:   body,
		Accept: []int{http.StatusOK, http.StatusAccepted},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.Update: %w", err)
	}

	res, err := p.PollUntilDone(ctx, c.m.opts.PollOptions())
	if err != nil {
		return nil, fmt.Errorf("AppServicePlans.Update: %w", err)
	}

	return c.wrap(res), nil
}
