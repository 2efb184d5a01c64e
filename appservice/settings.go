// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

const (
	sitesPath        = "/subscriptions/{subscriptionId}/providers/Microsoft.Web/sites"
	sitesInGroupPath = "/subscriptions/{subscriptionId}/resourceGroups/{resourceGroupName}/providers/Microsoft.Web/sites"
	sitePath         = sitesInGroupPath + "/{name}"
	slotsPath        = sitePath + "/slots"
	slotPath         = slotsPath + "/{slot}"
)

// AppSetting is the value of an app setting. A sticky setting stays with its slot during swaps.
type AppSetting struct {
	Value  string
	Sticky bool
}

// ConnectionString is the value of a connection string. A sticky connection string stays with its slot during swaps.
type ConnectionString struct {
	Value  string
	Type   ConnectionStringType
	Sticky bool
}

func validConnectionStringType(t ConnectionStringType) bool {
	return slices.Contains(PossibleConnectionStringTypeValues(), t)
}

func validateConnectionStrings(cs map[string]ConnectionString) error {
	for _, name := range sortedKeys(cs) {
		if name == "" {
			return core.NewErrPropertyMustNotBeNil("connectionStrings.name")
		}

		if !validConnectionStringType(cs[name].Type) {
			return core.NewErrPropertyInvalid("connectionStrings."+name+".type", fmt.Sprintf("unknown type %q", cs[name].Type))
		}
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return mapset.Sorted(mapset.NewThreadUnsafeSetFromMapKeys(m))
}

// siteRef addresses a web app, or one of its slots when slot is set.
type siteRef struct {
	resourceGroup string
	name          string
	slot          string
}

func (r siteRef) call(method, suffix string) rest.Call {
	if r.slot == "" {
		return rest.Call{
			Method: method,
			Path:   sitePath + suffix,
			Params: rest.P{"resourceGroupName": r.resourceGroup, "name": r.name},
		}
	}

	return rest.Call{
		Method: method,
		Path:   slotPath + suffix,
		Params: rest.P{"resourceGroupName": r.resourceGroup, "name": r.name, "slot": r.slot},
	}
}

// parent addresses the production site of r.
func (r siteRef) parent() siteRef {
	return siteRef{resourceGroup: r.resourceGroup, name: r.name}
}

func (m *Manager) getSiteConfig(ctx context.Context, ref siteRef) (*SiteConfig, error) {
	res, err := rest.Do[SiteConfigResource](ctx, m.client, ref.call(http.MethodGet, "/config/web"))
	if err != nil {
		return nil, err
	}

	return res.Properties, nil
}

func (m *Manager) updateSiteConfig(ctx context.Context, ref siteRef, cfg *SiteConfig) (*SiteConfig, error) {
	call := ref.call(http.MethodPatch, "/config/web")
	call.Body = SiteConfigResource{Properties: cfg}

	res, err := rest.Do[SiteConfigResource](ctx, m.client, call)
	if err != nil {
		return nil, err
	}

	return res.Properties, nil
}

func (m *Manager) listAppSettings(ctx context.Context, ref siteRef) (map[string]*string, error) {
	res, err := rest.Do[StringDictionary](ctx, m.client, ref.call(http.MethodPost, "/config/appsettings/list"))
	if err != nil {
		return nil, err
	}

	if res.Properties == nil {
		return map[string]*string{}, nil
	}

	return res.Properties, nil
}

func (m *Manager) putAppSettings(ctx context.Context, ref siteRef, settings map[string]*string) error {
	call := ref.call(http.MethodPut, "/config/appsettings")
	call.Body = StringDictionary{Properties: settings}

	_, err := rest.Do[StringDictionary](ctx, m.client, call)

	return err
}

func (m *Manager) listConnectionStrings(ctx context.Context, ref siteRef) (map[string]*ConnStringValueTypePair, error) {
	res, err := rest.Do[ConnectionStringDictionary](ctx, m.client, ref.call(http.MethodPost, "/config/connectionstrings/list"))
	if err != nil {
		return nil, err
	}

	if res.Properties == nil {
		return map[string]*ConnStringValueTypePair{}, nil
	}

	return res.Properties, nil
}

func (m *Manager) putConnectionStrings(ctx context.Context, ref siteRef, cs map[string]*ConnStringValueTypePair) error {
	call := ref.call(http.MethodPut, "/config/connectionstrings")
	call.Body = ConnectionStringDictionary{Properties: cs}

	_, err := rest.Do[ConnectionStringDictionary](ctx, m.client, call)

	return err
}

// Slot config names live on the production site only.
func (m *Manager) getSlotConfigNames(ctx context.Context, ref siteRef) (*SlotConfigNames, error) {
	res, err := rest.Do[SlotConfigNamesResource](ctx, m.client, ref.parent().call(http.MethodGet, "/config/slotConfigNames"))
	if err != nil {
		return nil, err
	}

	if res.Properties == nil {
		return &SlotConfigNames{}, nil
	}

	return res.Properties, nil
}

func (m *Manager) putSlotConfigNames(ctx context.Context, ref siteRef, names *SlotConfigNames) error {
	call := ref.parent().call(http.MethodPut, "/config/slotConfigNames")
	call.Body = SlotConfigNamesResource{Properties: names}

	_, err := rest.Do[SlotConfigNamesResource](ctx, m.client, call)

	return err
}

func (m *Manager) appSettings(ctx context.Context, ref siteRef) (map[string]AppSetting, error) {
	values, err := m.listAppSettings(ctx, ref)
	if err != nil {
		return nil, err
	}

	names, err := m.getSlotConfigNames(ctx, ref)
	if err != nil {
		return nil, err
	}

	sticky := mapset.NewThreadUnsafeSet(to.SliceOfVals(names.AppSettingNames)...)

	res := make(map[string]AppSetting, len(values))
	for k, v := range values {
		res[k] = AppSetting{Value: to.ValOrZero(v), Sticky: sticky.Contains(k)}
	}

	return res, nil
}

func (m *Manager) connectionStrings(ctx context.Context, ref siteRef) (map[string]ConnectionString, error) {
	values, err := m.listConnectionStrings(ctx, ref)
	if err != nil {
		return nil, err
	}

	names, err := m.getSlotConfigNames(ctx, ref)
	if err != nil {
		return nil, err
	}

	sticky := mapset.NewThreadUnsafeSet(to.SliceOfVals(names.ConnectionStringNames)...)

	res := make(map[string]ConnectionString, len(values))
	for k, v := range values {
		if v == nil {
			continue
		}

		res[k] = ConnectionString{Value: to.ValOrZero(v.Value), Type: to.ValOrZero(v.Type), Sticky: sticky.Contains(k)}
	}

	return res, nil
}

// settingsChanges is the settings part of a create or update.
// Setting a value with Sticky false clears its stickiness.
type settingsChanges struct {
	appSettings             map[string]AppSetting
	removeAppSettings       []string
	connectionStrings       map[string]ConnectionString
	removeConnectionStrings []string
}

func (s settingsChanges) empty() bool {
	return len(s.appSettings) == 0 && len(s.removeAppSettings) == 0 &&
		len(s.connectionStrings) == 0 && len(s.removeConnectionStrings) == 0
}

// applySettings reads the current settings of ref, applies s and writes back what changed.
func (m *Manager) applySettings(ctx context.Context, ref siteRef, s settingsChanges) error {
	if s.empty() {
		return nil
	}

	if len(s.appSettings) > 0 || len(s.removeAppSettings) > 0 {
		current, err := m.listAppSettings(ctx, ref)
		if err != nil {
			return fmt.Errorf("listing app settings: %w", err)
		}

		for _, k := range s.removeAppSettings {
			delete(current, k)
		}

		for k, v := range s.appSettings {
			current[k] = to.Ptr(v.Value)
		}

		if err := m.putAppSettings(ctx, ref, current); err != nil {
			return fmt.Errorf("updating app settings: %w", err)
		}
	}

	if len(s.connectionStrings) > 0 || len(s.removeConnectionStrings) > 0 {
		current, err := m.listConnectionStrings(ctx, ref)
		if err != nil {
			return fmt.Errorf("listing connection strings: %w", err)
		}

		for _, k := range s.removeConnectionStrings {
			delete(current, k)
		}

		for k, v := range s.connectionStrings {
			current[k] = &ConnStringValueTypePair{Value: to.Ptr(v.Value), Type: to.Ptr(v.Type)}
		}

		if err := m.putConnectionStrings(ctx, ref, current); err != nil {
			return fmt.Errorf("updating connection strings: %w", err)
		}
	}

	return m.applyStickiness(ctx, ref, s)
}

func (m *Manager) applyStickiness(ctx context.Context, ref siteRef, s settingsChanges) error {
	names, err := m.getSlotConfigNames(ctx, ref)
	if err != nil {
		return fmt.Errorf("reading slot config names: %w", err)
	}

	appNames := mapset.NewThreadUnsafeSet(to.SliceOfVals(names.AppSettingNames)...)
	csNames := mapset.NewThreadUnsafeSet(to.SliceOfVals(names.ConnectionStringNames)...)
	wantApp := stickyNames(appNames, s.appSettings, s.removeAppSettings, func(v AppSetting) bool { return v.Sticky })
	wantCS := stickyNames(csNames, s.connectionStrings, s.removeConnectionStrings, func(v ConnectionString) bool { return v.Sticky })

	if wantApp.Equal(appNames) && wantCS.Equal(csNames) {
		return nil
	}

	err = m.putSlotConfigNames(ctx, ref, &SlotConfigNames{
		AppSettingNames:       to.SliceOfPtrs(mapset.Sorted(wantApp)...),
		ConnectionStringNames: to.SliceOfPtrs(mapset.Sorted(wantCS)...),
	})
	if err != nil {
		return fmt.Errorf("updating slot config names: %w", err)
	}

	m.logger.Debug("slot config names updated",
		zap.String(logging.FieldResourceGroup, ref.resourceGroup),
		zap.String(logging.FieldResource, ref.name),
		zap.Int(logging.FieldCount, wantApp.Cardinality()+wantCS.Cardinality()),
	)

	return nil
}

func stickyNames[V any](current mapset.Set[string], set map[string]V, remove []string, sticky func(V) bool) mapset.Set[string] {
	res := current.Clone()

	for _, k := range remove {
		res.Remove(k)
	}

	for k, v := range set {
		if sticky(v) {
			res.Add(k)
		} else {
			res.Remove(k)
		}
	}

	return res
}
