// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azmgmt_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Azure/azmgmt"
	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/resttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const subPath = "/subscriptions/" + resttest.SubscriptionID

func newTestAzure(t *testing.T) (*azmgmt.Azure, *resttest.Server) {
	t.Helper()

	srv := resttest.NewServer(t)

	az, err := azmgmt.Authenticate(srv.Credential(), resttest.SubscriptionID, srv.Options())
	require.NoError(t, err)

	return az, srv
}

func group(name string) map[string]any {
	return map[string]any{
		"id":       subPath + "/resourceGroups/" + name,
		"name":     name,
		"location": "westeurope",
	}
}

func genericResource(group, name, typ string) map[string]any {
	return map[string]any{
		"id":       subPath + "/resourceGroups/" + group + "/providers/" + typ + "/" + name,
		"name":     name,
		"type":     typ,
		"location": "westeurope",
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	srv := resttest.NewServer(t)

	_, err := azmgmt.Authenticate(srv.Credential(), "", srv.Options())
	require.ErrorIs(t, err, azmgmt.ErrNoSubscription)

	az, err := azmgmt.Authenticate(srv.Credential(), resttest.SubscriptionID, nil)
	require.NoError(t, err)
	assert.Equal(t, resttest.SubscriptionID, az.SubscriptionID())
	assert.NotNil(t, az.ResourceGroups())
	assert.NotNil(t, az.ContainerGroups())
	assert.NotNil(t, az.KubernetesClusters())
	assert.NotNil(t, az.WebApps())
	assert.NotNil(t, az.MediaServices())
}

func TestInventory_AllGroups(t *testing.T) {
	t.Parallel()

	az, srv := newTestAzure(t)
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups", http.StatusOK, map[string]any{
		"value": []any{group("rg1"), group("rg2")},
	})
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups/rg1/resources", http.StatusOK, map[string]any{
		"value": []any{
			genericResource("rg1", "web1", "Microsoft.Web/sites"),
			genericResource("rg1", "plan1", "Microsoft.Web/serverfarms"),
			genericResource("rg1", "web2", "Microsoft.Web/sites"),
		},
	})
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups/rg2/resources", http.StatusOK, map[string]any{
		"value": []any{genericResource("rg2", "aci1", "Microsoft.ContainerInstance/containerGroups")},
	})
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups/rg1/providers/Microsoft.Resources/deployments", http.StatusOK, map[string]any{
		"value": []any{map[string]any{"name": "deploy1", "properties": map[string]any{"provisioningState": "Succeeded"}}},
	})
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups/rg2/providers/Microsoft.Resources/deployments", http.StatusOK, map[string]any{
		"value": []any{},
	})

	inv, err := az.Inventory(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, resttest.SubscriptionID, inv.SubscriptionID)
	assert.False(t, inv.CollectedAt.IsZero())
	require.Len(t, inv.Groups, 2)
	assert.Equal(t, 4, inv.ResourceCount())

	rg1 := inv.Groups[0]
	assert.Equal(t, "rg1", rg1.Name())
	assert.Equal(t, "westeurope", rg1.Location())
	assert.Equal(t, []string{"Microsoft.Web/serverfarms", "Microsoft.Web/sites"}, rg1.ResourceTypes())
	assert.Len(t, rg1.ResourcesOfType("microsoft.web/SITES"), 2)
	assert.Len(t, rg1.Deployments, 1)

	assert.Equal(t, "rg2", inv.Groups[1].Name())
	assert.Empty(t, inv.Groups[1].Deployments)
}

func TestInventory_SingleGroup(t *testing.T) {
	t.Parallel()

	az, srv := newTestAzure(t)
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups/rg1", http.StatusOK, group("rg1"))
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups/rg1/resources", http.StatusOK, map[string]any{"value": []any{}})
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups/rg1/providers/Microsoft.Resources/deployments", http.StatusOK, map[string]any{"value": []any{}})

	inv, err := az.Inventory(context.Background(), "rg1")
	require.NoError(t, err)
	require.Len(t, inv.Groups, 1)
	assert.Zero(t, inv.ResourceCount())
	assert.Equal(t, 0, srv.Count(http.MethodGet, subPath+"/resourcegroups"))
}

func TestInventory_MissingGroup(t *testing.T) {
	t.Parallel()

	az, _ := newTestAzure(t)

	_, err := az.Inventory(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}
