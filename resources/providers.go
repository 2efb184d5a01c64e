// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

const providerPath = "/subscriptions/{subscriptionId}/providers/{resourceProviderNamespace}"

// Registration states of a resource provider.
const (
	RegistrationStateRegistered   = "Registered"
	RegistrationStateRegistering  = "Registering"
	RegistrationStateUnregistered = "Unregistered"
)

// Providers manages resource provider registrations.
type Providers struct {
	m *Manager
}

// Get returns the provider namespace.
func (c *Providers) Get(ctx context.Context, namespace string) (*Provider, error) {
	p, err := rest.Do[Provider](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   providerPath,
		Params: rest.P{"resourceProviderNamespace": namespace},
	})
	if err != nil {
		return nil, fmt.Errorf("Providers.Get: %w", err)
	}

	return &p, nil
}

// NewListPager lists the providers of the subscription.
func (c *Providers) NewListPager() *runtime.Pager[rest.Page[Provider]] {
	return rest.NewPager[Provider](c.m.client, rest.Call{
		Path: "/subscriptions/{subscriptionId}/providers",
	})
}

// List returns every provider of the subscription.
func (c *Providers) List(ctx context.Context) ([]*Provider, error) {
	res, err := core.ListAll(ctx, c.NewListPager(), rest.Page[Provider].Items)
	if err != nil {
		return nil, fmt.Errorf("Providers.List: %w", err)
	}

	return res, nil
}

// Register registers the subscription with the provider namespace.
func (c *Providers) Register(ctx context.Context, namespace string) (*Provider, error) {
	return c.post(ctx, namespace, "register")
}

// Unregister unregisters the subscription from the provider namespace.
func (c *Providers) Unregister(ctx context.Context, namespace string) (*Provider, error) {
	return c.post(ctx, namespace, "unregister")
}

func (c *Providers) post(ctx context.Context, namespace, action string) (*Provider, error) {
	p, err := rest.Do[Provider](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   providerPath + "/" + action,
		Params: rest.P{"resourceProviderNamespace": namespace},
	})
	if err != nil {
		return nil, fmt.Errorf("Providers.%s: %w", action, err)
	}

	c.m.logger.Info("provider "+action+"ed",
		zap.String(logging.FieldResource, namespace),
		zap.String("registration_state", to.ValOrZero(p.RegistrationState)),
	)

	return &p, nil
}

// IsRegistered reports whether the subscription is registered with the provider.
func (p *Provider) IsRegistered() bool {
	return to.ValOrZero(p.RegistrationState) == RegistrationStateRegistered
}

// ResourceType returns the resource type with the given name, matched case-insensitively, or nil.
func (p *Provider) ResourceType(name string) *ProviderResourceType {
	for _, rt := range p.ResourceTypes {
		if strings.EqualFold(to.ValOrZero(rt.ResourceType), name) {
			return rt
		}
	}

	return nil
}

// ResourceTypeNames returns the names of the provider resource types.
func (p *Provider) ResourceTypeNames() mapset.Set[string] {
	res := mapset.NewThreadUnsafeSet[string]()
	for _, rt := range p.ResourceTypes {
		res.Add(to.ValOrZero(rt.ResourceType))
	}

	return res
}

// APIVersions returns the api-versions offered for resourceType, newest first.
func (p *Provider) APIVersions(resourceType string) []string {
	rt := p.ResourceType(resourceType)
	if rt == nil {
		return nil
	}

	res := to.SliceOfVals(rt.APIVersions)
	sort.Sort(sort.Reverse(sort.StringSlice(res)))

	return res
}

// DefaultAPIVersion returns the api-version to use for resourceType. The provider default wins, then the
// newest stable version, then the newest preview. A nested type without versions of its own falls back to
// its parent type.
func (p *Provider) DefaultAPIVersion(resourceType string) (string, bool) {
	for rtName := resourceType; rtName != ""; {
		if rt := p.ResourceType(rtName); rt != nil {
			if v := to.ValOrZero(rt.DefaultAPIVersion); v != "" {
				return v, true
			}

			if v, ok := pickAPIVersion(to.SliceOfVals(rt.APIVersions)); ok {
				return v, true
			}
		}

		i := strings.LastIndex(rtName, "/")
		if i < 0 {
			break
		}

		rtName = rtName[:i]
	}

	return "", false
}

// pickAPIVersion returns the newest non-preview version, or the newest preview when none is stable.
func pickAPIVersion(versions []string) (string, bool) {
	var stable, preview string

	for _, v := range versions {
		if strings.Contains(strings.ToLower(v), "preview") {
			if v > preview {
				preview = v
			}

			continue
		}

		if v > stable {
			stable = v
		}
	}

	if stable != "" {
		return stable, true
	}

	return preview, preview != ""
}
