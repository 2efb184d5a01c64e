// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testVMID   = "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/myResourceGroup/providers/Microsoft.Compute/virtualMachines/myVM"
	testSlotID = "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/web/providers/Microsoft.Web/sites/myapp/slots/staging"
)

func TestResourceIDHelpers(t *testing.T) {
	t.Parallel()

	name, err := NameFromID(testVMID)
	require.NoError(t, err)
	assert.Equal(t, "myVM", name)

	rg, err := ResourceGroupFromID(testVMID)
	require.NoError(t, err)
	assert.Equal(t, "myResourceGroup", rg)

	sub, err := SubscriptionFromID(testVMID)
	require.NoError(t, err)
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", sub)

	ns, err := ProviderNamespaceFromID(testSlotID)
	require.NoError(t, err)
	assert.Equal(t, "Microsoft.Web", ns)

	typ, err := ResourceTypeFromID(testSlotID)
	require.NoError(t, err)
	assert.Equal(t, "Microsoft.Web/sites/slots", typ)
}

func TestParentResourcePathFromID(t *testing.T) {
	t.Parallel()

	p, err := ParentResourcePathFromID(testSlotID)
	require.NoError(t, err)
	assert.Equal(t, "sites/myapp", p)

	p, err = ParentResourcePathFromID(testVMID)
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestParseResourceID_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NameFromID("not-an-id")
	assert.Error(t, err)
}

func TestConstructResourceID(t *testing.T) {
	t.Parallel()

	id := ConstructResourceID("00000000-0000-0000-0000-000000000000", "web", "Microsoft.Web", "/sites/myapp/", "slots", "staging")
	assert.Equal(t, testSlotID, id)

	id = ConstructResourceID("00000000-0000-0000-0000-000000000000", "myResourceGroup", "Microsoft.Compute", "", "virtualMachines", "myVM")
	assert.Equal(t, testVMID, id)

	assert.Equal(t, "/subscriptions/s/resourceGroups/rg", ResourceGroupID("s", "rg"))
}

func TestParseRegion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RegionEastUS2, ParseRegion("East US 2"))
	assert.Equal(t, RegionWestEurope, ParseRegion(" west-europe "))
	assert.True(t, Region("North Europe").Equal(RegionNorthEurope))
	assert.Equal(t, "uksouth", RegionUKSouth.String())
}
