// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package doc

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Azure/azmgmt"
	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azmgmt/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInventory() *azmgmt.Inventory {
	return &azmgmt.Inventory{
		SubscriptionID: "00000000-0000-0000-0000-000000000000",
		CollectedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Groups: []*azmgmt.GroupInventory{
			{
				Group: &resources.ResourceGroup{
					Name:     to.Ptr("rg1"),
					Location: to.Ptr("westeurope"),
					Tags:     map[string]*string{"env": to.Ptr("dev"), "app": to.Ptr("shop")},
				},
				Resources: []*resources.GenericResource{
					{Name: to.Ptr("web1"), Type: to.Ptr("Microsoft.Web/sites"), Location: to.Ptr("westeurope"), Kind: to.Ptr("app,linux")},
					{Name: to.Ptr("plan1"), Type: to.Ptr("Microsoft.Web/serverfarms"), SKU: &resources.SKU{Name: to.Ptr("P1v3")}},
				},
				Deployments: []*resources.Deployment{
					{DeploymentExtended: resources.DeploymentExtended{
						Name:       to.Ptr("deploy1"),
						Properties: &resources.DeploymentPropertiesExtended{ProvisioningState: to.Ptr("Succeeded")},
					}},
				},
			},
			{
				Group: &resources.ResourceGroup{Name: to.Ptr("empty"), Location: to.Ptr("northeurope")},
			},
		},
	}
}

func TestInventoryMd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, InventoryMd(context.Background(), &buf, testInventory()))

	out := buf.String()
	assert.Contains(t, out, "# Subscription 00000000-0000-0000-0000-000000000000")
	assert.Contains(t, out, "2 resources in 2 resource groups")
	assert.Contains(t, out, "## Resource groups")
	assert.Contains(t, out, "resource group `rg1`")
	assert.Contains(t, out, "Tags: app=shop, env=dev")
	assert.Contains(t, out, "### Microsoft.Web/sites (1)")
	assert.Contains(t, out, "P1v3")
	assert.Contains(t, out, "deploy1 (Succeeded)")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "No resources.")
}

func TestInventoryMd_Errors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.ErrorIs(t, InventoryMd(context.Background(), &buf, nil), ErrReportGenerationFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := InventoryMd(ctx, &buf, testInventory())
	require.ErrorIs(t, err, ErrReportGenerationFailed)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTagsString(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tagsString(nil))
	assert.Equal(t, "a=1, b=2", tagsString(map[string]string{"b": "2", "a": "1"}))
}
