// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/resttest"
	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azmgmt/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	subPath   = "/subscriptions/" + resttest.SubscriptionID
	groupPath = subPath + "/resourcegroups/rg1"
)

func newTestManager(t *testing.T) (*resources.Manager, *resttest.Server) {
	t.Helper()

	srv := resttest.NewServer(t)

	m, err := resources.NewManager(resttest.SubscriptionID, srv.Credential(), srv.Options())
	require.NoError(t, err)

	return m, srv
}

func TestResourceGroups_Create(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodPut, groupPath, http.StatusCreated, map[string]any{
		"id":       "/subscriptions/" + resttest.SubscriptionID + "/resourceGroups/rg1",
		"name":     "rg1",
		"location": "westeurope",
		"tags":     map[string]string{"env": "dev"},
	})

	rg, err := m.ResourceGroups().Create(context.Background(), "rg1", core.ParseRegion("West Europe"), map[string]string{"env": "dev"})
	require.NoError(t, err)
	assert.Equal(t, "rg1", to.ValOrZero(rg.Name))

	req := srv.Last(t, http.MethodPut, groupPath)
	assert.Equal(t, "2021-04-01", req.Query.Get("api-version"))
	assert.JSONEq(t, `{"location":"westeurope","tags":{"env":"dev"}}`, string(req.Body))

	_, err = m.ResourceGroups().Create(context.Background(), "rg1", "", nil)
	var nilErr *core.ErrPropertyMustNotBeNil
	assert.ErrorAs(t, err, &nilErr)
}

func TestResourceGroups_GetMissing(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	_, err := m.ResourceGroups().Get(context.Background(), "rg1")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))

	ok, err := m.ResourceGroups().Exists(context.Background(), "rg1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResourceGroups_ListWithTagFilter(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups", http.StatusOK, map[string]any{
		"value": []map[string]any{{"name": "rg1"}, {"name": "rg2"}},
	})

	groups, err := m.ResourceGroups().List(context.Background(), &resources.ResourceGroupsListOptions{TagName: "env", TagValue: "dev"})
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	req := srv.Last(t, http.MethodGet, subPath+"/resourcegroups")
	assert.Equal(t, "tagName eq 'env' and tagValue eq 'dev'", req.Query.Get("$filter"))
}

func TestResourceGroups_UpdateTagsUnchanged(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, groupPath, http.StatusOK, map[string]any{
		"name": "rg1",
		"tags": map[string]string{"env": "dev"},
	})
	srv.HandleJSON(http.MethodPatch, groupPath, http.StatusOK, map[string]any{"name": "rg1"})

	_, err := m.ResourceGroups().UpdateTags(context.Background(), "rg1", map[string]string{"env": "dev"})
	require.NoError(t, err)
	assert.Zero(t, srv.Count(http.MethodPatch, groupPath))

	_, err = m.ResourceGroups().UpdateTags(context.Background(), "rg1", map[string]string{"env": "prod"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":{"env":"prod"}}`, string(srv.Last(t, http.MethodPatch, groupPath).Body))
}

func TestResourceGroups_Delete(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.Handle(http.MethodDelete, groupPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Location", srv.AbsURL("/operationresults/rg1"))
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusAccepted)
	})
	srv.Handle(http.MethodGet, "/operationresults/rg1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, m.ResourceGroups().Delete(context.Background(), "rg1"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/operationresults/rg1"))
}

func TestResourceGroups_DeleteForced(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.Handle(http.MethodDelete, groupPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	p, err := m.ResourceGroups().BeginDelete(context.Background(), "rg1", &resources.ResourceGroupsBeginDeleteOptions{
		ForceDeletionTypes: []string{"Microsoft.Compute/virtualMachines"},
	})
	require.NoError(t, err)
	assert.True(t, p.Done())
	assert.Equal(t, "Microsoft.Compute/virtualMachines", srv.Last(t, http.MethodDelete, groupPath).Query.Get("forceDeletionTypes"))
}

func TestProviders_DefaultAPIVersion(t *testing.T) {
	t.Parallel()

	p := &resources.Provider{
		Namespace: to.Ptr("Microsoft.Web"),
		ResourceTypes: []*resources.ProviderResourceType{
			{ResourceType: to.Ptr("sites"), APIVersions: to.SliceOfPtrs("2022-03-01", "2023-12-01-preview", "2023-01-01")},
			{ResourceType: to.Ptr("serverFarms"), APIVersions: to.SliceOfPtrs("2024-01-01-preview")},
			{ResourceType: to.Ptr("staticSites"), DefaultAPIVersion: to.Ptr("2020-01-01"), APIVersions: to.SliceOfPtrs("2023-01-01")},
		},
	}

	tcs := []struct {
		name     string
		rt       string
		expected string
		ok       bool
	}{
		{"newest stable", "sites", "2023-01-01", true},
		{"case insensitive", "SITES", "2023-01-01", true},
		{"parent fallback", "sites/slots", "2023-01-01", true},
		{"preview only", "serverfarms", "2024-01-01-preview", true},
		{"provider default wins", "staticSites", "2020-01-01", true},
		{"unknown", "certificates", "", false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := p.DefaultAPIVersion(tc.rt)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, v)
		})
	}

	assert.Equal(t, []string{"2023-12-01-preview", "2023-01-01", "2022-03-01"}, p.APIVersions("sites"))
	assert.True(t, p.ResourceTypeNames().Contains("serverFarms"))
}

func TestProviders_Register(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodPost, subPath+"/providers/Microsoft.ContainerInstance/register", http.StatusOK, map[string]any{
		"namespace":         "Microsoft.ContainerInstance",
		"registrationState": "Registering",
	})

	p, err := m.Providers().Register(context.Background(), "Microsoft.ContainerInstance")
	require.NoError(t, err)
	assert.False(t, p.IsRegistered())
	assert.Equal(t, "Registering", to.ValOrZero(p.RegistrationState))
}

func TestGenericResources_GetByIDResolvesAPIVersion(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	siteID := subPath + "/resourceGroups/rg1/providers/Microsoft.Web/sites/app1"
	slotID := siteID + "/slots/staging"

	srv.HandleJSON(http.MethodGet, subPath+"/providers/Microsoft.Web", http.StatusOK, map[string]any{
		"namespace": "Microsoft.Web",
		"resourceTypes": []map[string]any{
			{"resourceType": "sites", "apiVersions": []string{"2022-09-01", "2023-01-01", "2023-12-01-preview"}},
		},
	})
	srv.HandleJSON(http.MethodGet, siteID, http.StatusOK, map[string]any{"id": siteID, "name": "app1", "kind": "app"})
	srv.HandleJSON(http.MethodGet, slotID, http.StatusOK, map[string]any{"id": slotID, "name": "app1/staging"})

	r, err := m.GenericResources().GetByID(context.Background(), siteID)
	require.NoError(t, err)
	assert.Equal(t, "app", to.ValOrZero(r.Kind))
	assert.Equal(t, "2023-01-01", srv.Last(t, http.MethodGet, siteID).Query.Get("api-version"))

	_, err = m.GenericResources().GetByID(context.Background(), slotID)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", srv.Last(t, http.MethodGet, slotID).Query.Get("api-version"))

	assert.Equal(t, 1, srv.Count(http.MethodGet, subPath+"/providers/Microsoft.Web"))

	_, err = m.GenericResources().Get(context.Background(), siteID, "2021-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2021-01-01", srv.Last(t, http.MethodGet, siteID).Query.Get("api-version"))
}

func TestGenericResources_NoAPIVersion(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, subPath+"/providers/Microsoft.Web", http.StatusOK, map[string]any{"namespace": "Microsoft.Web"})

	_, err := m.GenericResources().GetByID(context.Background(), subPath+"/resourceGroups/rg1/providers/Microsoft.Web/sites/app1")
	assert.ErrorIs(t, err, resources.ErrNoAPIVersion)
}

func TestGenericResources_ListByResourceGroup(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, groupPath+"/resources", http.StatusOK, map[string]any{
		"value": []map[string]any{{"name": "a", "type": "Microsoft.Web/sites"}},
	})

	res, err := m.GenericResources().ListByResourceGroup(context.Background(), "rg1", &resources.GenericResourcesListOptions{
		Filter: "resourceType eq 'Microsoft.Web/sites'",
		Top:    5,
	})
	require.NoError(t, err)
	require.Len(t, res, 1)

	req := srv.Last(t, http.MethodGet, groupPath+"/resources")
	assert.Equal(t, "5", req.Query.Get("$top"))
	assert.Equal(t, "resourceType eq 'Microsoft.Web/sites'", req.Query.Get("$filter"))
}

func TestGenericResources_BeginMoveResources(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.Handle(http.MethodPost, groupPath+"/moveResources", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	target := core.ResourceGroupID(resttest.SubscriptionID, "rg2")
	p, err := m.GenericResources().BeginMoveResources(context.Background(), "rg1", target, []string{"/x/a"})
	require.NoError(t, err)
	assert.True(t, p.Done())
	assert.JSONEq(t, `{"resources":["/x/a"],"targetResourceGroup":"`+target+`"}`, string(srv.Last(t, http.MethodPost, groupPath+"/moveResources").Body))

	_, err = m.GenericResources().BeginMoveResources(context.Background(), "rg1", target, nil)
	assert.Error(t, err)
}

func TestTags_UpdateAtScope(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	scope := subPath + "/resourceGroups/rg1"
	tagsPath := scope + "/providers/Microsoft.Resources/tags/default"
	srv.HandleJSON(http.MethodPatch, tagsPath, http.StatusOK, map[string]any{
		"properties": map[string]any{"tags": map[string]string{"a": "1", "b": "2"}},
	})

	tags, err := m.Tags().UpdateAtScope(context.Background(), scope, resources.TagsPatchOperationMerge, map[string]string{"b": "2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, tags)
	assert.JSONEq(t, `{"operation":"Merge","properties":{"tags":{"b":"2"}}}`, string(srv.Last(t, http.MethodPatch, tagsPath).Body))

	_, err = m.Tags().UpdateAtScope(context.Background(), scope, "Upsert", nil)
	assert.Error(t, err)
}

func TestTags_Values(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodPut, subPath+"/tagNames/env/tagValues/dev", http.StatusCreated, map[string]any{"tagValue": "dev"})
	srv.Handle(http.MethodDelete, subPath+"/tagNames/env", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	v, err := m.Tags().CreateOrUpdateValue(context.Background(), "env", "dev")
	require.NoError(t, err)
	assert.Equal(t, "dev", to.ValOrZero(v.TagValue))
	require.NoError(t, m.Tags().Delete(context.Background(), "env"))
	assert.Error(t, m.Tags().DeleteValue(context.Background(), "env", "dev"))
}

func TestSubscriptions(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, "/subscriptions", http.StatusOK, map[string]any{
		"value": []map[string]any{{"subscriptionId": resttest.SubscriptionID, "state": "Enabled"}},
	})
	srv.HandleJSON(http.MethodGet, subPath, http.StatusOK, map[string]any{"subscriptionId": resttest.SubscriptionID, "state": "Warned"})
	srv.HandleJSON(http.MethodGet, subPath+"/locations", http.StatusOK, map[string]any{
		"value": []map[string]any{{"name": "westeurope", "displayName": "West Europe"}},
	})

	subs, err := m.Subscriptions().List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].IsEnabled())
	assert.Equal(t, "2021-01-01", srv.Last(t, http.MethodGet, "/subscriptions").Query.Get("api-version"))

	sub, err := m.Subscriptions().Get(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, sub.IsEnabled())

	locs, err := m.Subscriptions().ListLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, core.RegionWestEurope, locs[0].Region())
}
