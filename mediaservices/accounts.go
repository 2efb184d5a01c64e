// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

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
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

const storageAccountResourceType = "Microsoft.Storage/storageAccounts"

var accountNameRegex = regexp.MustCompile(`^[a-z0-9]{3,24}$`)

// AccountDefinition describes a Media Services account to create.
type AccountDefinition struct {
	ResourceGroup string
	Name          string
	Region        core.Region
	// StorageAccounts maps storage account resource IDs to their role. Exactly one must be primary.
	StorageAccounts        map[string]StorageAccountType
	StorageAuthentication  StorageAuthentication
	PublicNetworkAccess    PublicNetworkAccess
	SystemAssignedIdentity bool
	Tags                   map[string]string
}

// WithPrimaryStorageAccount attaches the primary storage account id.
func (d *AccountDefinition) WithPrimaryStorageAccount(id string) *AccountDefinition {
	return d.withStorageAccount(id, StorageAccountTypePrimary)
}

// WithSecondaryStorageAccount attaches a secondary storage account id.
func (d *AccountDefinition) WithSecondaryStorageAccount(id string) *AccountDefinition {
	return d.withStorageAccount(id, StorageAccountTypeSecondary)
}

func (d *AccountDefinition) withStorageAccount(id string, t StorageAccountType) *AccountDefinition {
	if d.StorageAccounts == nil {
		d.StorageAccounts = make(map[string]StorageAccountType)
	}

	d.StorageAccounts[id] = t

	return d
}

// WithSystemAssignedIdentity enables the system assigned identity, required for ManagedIdentity storage authentication.
func (d *AccountDefinition) WithSystemAssignedIdentity() *AccountDefinition {
	d.SystemAssignedIdentity = true
	return d
}

// Validate checks the definition before it is sent.
func (d *AccountDefinition) Validate() error {
	return checker.NewValidator(
		checker.NewValidatorCheck("name", func() error {
			if !accountNameRegex.MatchString(d.Name) {
				return core.NewErrPropertyInvalid("name", "3-24 lowercase letters and numbers")
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
		checker.NewValidatorCheck("storage accounts", d.validateStorageAccounts),
		checker.NewValidatorCheck("storage authentication", func() error {
			if d.StorageAuthentication == StorageAuthenticationManagedIdentity && !d.SystemAssignedIdentity {
				return core.NewErrPropertyInvalid("storageAuthentication", "ManagedIdentity requires the system assigned identity")
			}
			return nil
		}),
	).Validate()
}

func (d *AccountDefinition) validateStorageAccounts() error {
	primaries := 0

	for _, id := range sortedKeys(d.StorageAccounts) {
		rid, err := core.ParseResourceID(id)
		if err != nil || !strings.EqualFold(rid.ResourceType.String(), storageAccountResourceType) {
			return core.NewErrPropertyInvalid("storageAccounts.id", fmt.Sprintf("%q is not a storage account id", id))
		}

		switch d.StorageAccounts[id] {
		case StorageAccountTypePrimary:
			primaries++
		case StorageAccountTypeSecondary:
		default:
			return core.NewErrPropertyInvalid("storageAccounts.type", string(d.StorageAccounts[id]))
		}
	}

	if primaries != 1 {
		return core.NewErrPropertyInvalid("storageAccounts", fmt.Sprintf("exactly one primary storage account is required, got %d", primaries))
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return mapset.Sorted(mapset.NewThreadUnsafeSetFromMapKeys(m))
}

func (d *AccountDefinition) resource() *MediaService {
	accounts := make([]*StorageAccount, 0, len(d.StorageAccounts))
	for _, id := range sortedKeys(d.StorageAccounts) {
		accounts = append(accounts, &StorageAccount{ID: to.Ptr(id), Type: to.Ptr(d.StorageAccounts[id])})
	}

	props := &MediaServiceProperties{StorageAccounts: accounts}
	if d.StorageAuthentication != "" {
		props.StorageAuthentication = to.Ptr(d.StorageAuthentication)
	}

	if d.PublicNetworkAccess != "" {
		props.PublicNetworkAccess = to.Ptr(d.PublicNetworkAccess)
	}

	res := &MediaService{
		Location:   to.Ptr(d.Region.String()),
		Tags:       to.PtrMap(d.Tags),
		Properties: props,
	}

	if d.SystemAssignedIdentity {
		res.Identity = (*core.ManagedServiceIdentity)(nil).EnableSystemAssigned()
	}

	return res
}

// Account wraps a Media Services account.
type Account struct {
	MediaService

	c *Accounts
}

// ResourceGroup returns the resource group of the account.
func (a *Account) ResourceGroup() string {
	rg, _ := core.ResourceGroupFromID(to.ValOrZero(a.ID))
	return rg
}

func (a *Account) props() *MediaServiceProperties {
	if a.Properties == nil {
		return &MediaServiceProperties{}
	}

	return a.Properties
}

// MediaServiceID returns the service generated account id.
func (a *Account) MediaServiceID() string { return to.ValOrZero(a.props().MediaServiceID) }

// ProvisioningState returns the provisioning state of the account.
func (a *Account) ProvisioningState() string { return to.ValOrZero(a.props().ProvisioningState) }

// PrimaryStorageAccountID returns the id of the primary storage account, or "".
func (a *Account) PrimaryStorageAccountID() string {
	for _, sa := range a.props().StorageAccounts {
		if sa != nil && to.ValOrZero(sa.Type) == StorageAccountTypePrimary {
			return to.ValOrZero(sa.ID)
		}
	}

	return ""
}

// StorageAccountIDs returns the ids of every attached storage account.
func (a *Account) StorageAccountIDs() mapset.Set[string] {
	res := mapset.NewSet[string]()

	for _, sa := range a.props().StorageAccounts {
		if sa != nil && sa.ID != nil {
			res.Add(*sa.ID)
		}
	}

	return res
}

// PrincipalID returns the principal of the system assigned identity, or "".
func (a *Account) PrincipalID() string { return a.Identity.SystemAssignedPrincipalID() }

// Refresh reloads the account.
func (a *Account) Refresh(ctx context.Context) error {
	res, err := a.c.Get(ctx, a.ResourceGroup(), to.ValOrZero(a.Name))
	if err != nil {
		return err
	}

	a.MediaService = res.MediaService

	return nil
}

// SyncStorageKeys synchronizes the keys of the attached storage account id.
func (a *Account) SyncStorageKeys(ctx context.Context, id string) error {
	return a.c.SyncStorageKeys(ctx, a.ResourceGroup(), to.ValOrZero(a.Name), id)
}

// Accounts manages Media Services accounts.
type Accounts struct {
	m *Manager
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

// Define returns a new definition for an account named name in resourceGroup.
func (c *Accounts) Define(resourceGroup, name string) *AccountDefinition {
	return &AccountDefinition{ResourceGroup: resourceGroup, Name: name}
}

// BeginCreate validates def and submits the account.
func (c *Accounts) BeginCreate(ctx context.Context, def *AccountDefinition, opts *BeginOptions) (*runtime.Poller[MediaService], error) {
	if tok := resumeToken(opts); tok != "" {
		return rest.BeginOperation[MediaService](ctx, c.m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: tok})
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("Accounts.BeginCreate: invalid definition: %w", err)
	}

	p, err := rest.BeginOperation[MediaService](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   accountPath,
		Params: rest.P{"resourceGroupName": def.ResourceGroup, "accountName": def.Name},
		Body:   def.resource(),
		Accept: []int{http.StatusOK, http.StatusCreated},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("Accounts.BeginCreate: %w", err)
	}

	c.m.logger.Info("media services account submitted",
		zap.String(logging.FieldResourceGroup, def.ResourceGroup),
		zap.String(logging.FieldResource, def.Name),
	)

	return p, nil
}

// Create submits def and waits for the account.
func (c *Accounts) Create(ctx context.Context, def *AccountDefinition) (*Account, error) {
	p, err := c.BeginCreate(ctx, def, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.PollUntilDone(ctx, c.m.opts.PollOptions())
	if err != nil {
		return nil, fmt.Errorf("Accounts.Create: %w", err)
	}

	return c.wrap(res), nil
}

// Get returns the account name of resourceGroup.
func (c *Accounts) Get(ctx context.Context, resourceGroup, name string) (*Account, error) {
	res, err := rest.Do[MediaService](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   accountPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "accountName": name},
	})
	if err != nil {
		return nil, fmt.Errorf("Accounts.Get: %w", err)
	}

	return c.wrap(res), nil
}

// NewListPager lists the accounts of the subscription.
func (c *Accounts) NewListPager() *runtime.Pager[rest.Page[MediaService]] {
	return rest.NewPager[MediaService](c.m.client, rest.Call{Path: accountsPath})
}

// NewListByResourceGroupPager lists the accounts of resourceGroup.
func (c *Accounts) NewListByResourceGroupPager(resourceGroup string) *runtime.Pager[rest.Page[MediaService]] {
	return rest.NewPager[MediaService](c.m.client, rest.Call{
		Path:   accountsInGroupPath,
		Params: rest.P{"resourceGroupName": resourceGroup},
	})
}

// List returns every account of the subscription.
func (c *Accounts) List(ctx context.Context) ([]*Account, error) {
	items, err := core.ListAll(ctx, c.NewListPager(), rest.Page[MediaService].Items)
	if err != nil {
		return nil, fmt.Errorf("Accounts.List: %w", err)
	}

	return c.wrapAll(items), nil
}

// ListByResourceGroup returns the accounts of resourceGroup.
func (c *Accounts) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*Account, error) {
	items, err := core.ListAll(ctx, c.NewListByResourceGroupPager(resourceGroup), rest.Page[MediaService].Items)
	if err != nil {
		return nil, fmt.Errorf("Accounts.ListByResourceGroup: %w", err)
	}

	return c.wrapAll(items), nil
}

// BeginUpdateTags merges tags into the tags of the account.
func (c *Accounts) BeginUpdateTags(ctx context.Context, resourceGroup, name string, tags map[string]string, opts *BeginOptions) (*runtime.Poller[MediaService], error) {
	if tok := resumeToken(opts); tok != "" {
		return rest.BeginOperation[MediaService](ctx, c.m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: tok})
	}

	current, err := c.Get(ctx, resourceGroup, name)
	if err != nil {
		return nil, fmt.Errorf("Accounts.BeginUpdateTags: %w", err)
	}

	p, err := rest.BeginOperation[MediaService](ctx, c.m.client, rest.Call{
		Method: http.MethodPatch,
		Path:   accountPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "accountName": name},
		Body:   MediaServiceUpdate{Tags: core.MergeTags(current.Tags, tags)},
		Accept: []int{http.StatusOK, http.StatusAccepted},
	}, &rest.PollerOptions{FinalStateVia: runtime.FinalStateViaLocation})
	if err != nil {
		return nil, fmt.Errorf("Accounts.BeginUpdateTags: %w", err)
	}

	return p, nil
}

// UpdateTags merges tags into the tags of the account and waits for the result.
func (c *Accounts) UpdateTags(ctx context.Context, resourceGroup, name string, tags map[string]string) (*Account, error) {
	p, err := c.BeginUpdateTags(ctx, resourceGroup, name, tags, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.PollUntilDone(ctx, c.m.opts.PollOptions())
	if err != nil {
		return nil, fmt.Errorf("Accounts.UpdateTags: %w", err)
	}

	return c.wrap(res), nil
}

// Delete deletes the account. Assets in the storage accounts are kept.
func (c *Accounts) Delete(ctx context.Context, resourceGroup, name string) error {
	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   accountPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "accountName": name},
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("Accounts.Delete: %w", err)
	}

	c.m.logger.Info("media services account deleted",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
	)

	return nil
}

// SyncStorageKeys synchronizes the keys of the storage account storageAccountID attached to the account.
// Call it after rotating the storage account keys.
func (c *Accounts) SyncStorageKeys(ctx context.Context, resourceGroup, name, storageAccountID string) error {
	if storageAccountID == "" {
		return fmt.Errorf("Accounts.SyncStorageKeys: %w", core.NewErrPropertyMustNotBeNil("id"))
	}

	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   accountPath + "/syncStorageKeys",
		Params: rest.P{"resourceGroupName": resourceGroup, "accountName": name},
		Body:   SyncStorageKeysInput{ID: to.Ptr(storageAccountID)},
	})
	if err != nil {
		return fmt.Errorf("Accounts.SyncStorageKeys: %w", err)
	}

	return nil
}

func (c *Accounts) wrap(res MediaService) *Account {
	return &Account{MediaService: res, c: c}
}

func (c *Accounts) wrapAll(items []*MediaService) []*Account {
	res := make([]*Account, 0, len(items))
	for _, it := range items {
		if it != nil {
			res = append(res, c.wrap(*it))
		}
	}

	return res
}
