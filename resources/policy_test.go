// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armpolicy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAssignment() armpolicy.Assignment {
	return armpolicy.Assignment{
		Name: to.Ptr("deny-public-ip"),
		Properties: &armpolicy.AssignmentProperties{
			DisplayName:        to.Ptr("Deny public IPs"),
			Description:        to.Ptr("Denies public IP addresses"),
			PolicyDefinitionID: to.Ptr("/providers/Microsoft.Authorization/policyDefinitions/6c112d4e-5bc7-47ae-a041-ea2d9dccd749"),
			Parameters: map[string]*armpolicy.ParameterValuesValue{
				"effect": {Value: "Deny"},
			},
		},
	}
}

func TestNewPolicyAssignment_Defaults(t *testing.T) {
	t.Parallel()

	src := validAssignment()
	pa, err := resources.NewPolicyAssignment(src)
	require.NoError(t, err)

	assert.Equal(t, armpolicy.EnforcementModeDefault, *pa.Properties.EnforcementMode)
	assert.Equal(t, armpolicy.ResourceIdentityTypeNone, *pa.Identity.Type)
	assert.NotNil(t, pa.Properties.Metadata)
	assert.NotNil(t, pa.Properties.NotScopes)
	assert.Nil(t, src.Properties.EnforcementMode, "source must not be modified")

	v, err := pa.ParameterValueAsString("effect")
	require.NoError(t, err)
	assert.Equal(t, "Deny", v)

	_, err = pa.ParameterValueAsString("missing")
	assert.Error(t, err)
}

func TestNewPolicyAssignment_CopiesParameterValues(t *testing.T) {
	t.Parallel()

	src := validAssignment()
	src.Properties.Parameters["allowedLocations"] = &armpolicy.ParameterValuesValue{Value: []any{"westeurope", "northeurope"}}
	src.Properties.Metadata = map[string]any{"category": "Network"}

	pa, err := resources.NewPolicyAssignment(src)
	require.NoError(t, err)

	assert.Equal(t, "Deny", pa.Properties.Parameters["effect"].Value)
	assert.Equal(t, []any{"westeurope", "northeurope"}, pa.Properties.Parameters["allowedLocations"].Value)
	assert.Equal(t, map[string]any{"category": "Network"}, pa.Properties.Metadata)

	pa.Properties.Parameters["effect"].Value = "Audit"
	assert.Equal(t, "Deny", src.Properties.Parameters["effect"].Value, "source must not be modified")
}

func TestNewPolicyAssignment_Invalid(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name   string
		modify func(*armpolicy.Assignment)
		check  func(*testing.T, error)
	}{
		{
			name:   "nil name",
			modify: func(a *armpolicy.Assignment) { a.Name = nil },
			check: func(t *testing.T, err error) {
				var e *core.ErrPropertyMustNotBeNil
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name: "long name",
			modify: func(a *armpolicy.Assignment) {
				a.Name = to.Ptr(strings.Repeat("n", resources.PolicyAssignmentNameMaxLength+1))
			},
			check: func(t *testing.T, err error) {
				var e *core.ErrPropertyLength
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "name", e.PropertyName)
			},
		},
		{
			name:   "empty display name",
			modify: func(a *armpolicy.Assignment) { a.Properties.DisplayName = to.Ptr("") },
			check: func(t *testing.T, err error) {
				var e *core.ErrPropertyLength
				require.ErrorAs(t, err, &e)
				assert.Equal(t, "properties.displayName", e.PropertyName)
			},
		},
		{
			name:   "long description",
			modify: func(a *armpolicy.Assignment) { a.Properties.Description = to.Ptr(strings.Repeat("d", 513)) },
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "properties.description")
			},
		},
		{
			name:   "bad definition id",
			modify: func(a *armpolicy.Assignment) { a.Properties.PolicyDefinitionID = to.Ptr("not-an-id") },
			check: func(t *testing.T, err error) {
				var e *core.ErrPropertyInvalid
				assert.ErrorAs(t, err, &e)
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			a := validAssignment()
			tc.modify(&a)

			_, err := resources.NewPolicyAssignment(a)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestPolicyDefinitions_GetBuiltIn(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, "/providers/Microsoft.Authorization/policyDefinitions/pd1", http.StatusOK, map[string]any{
		"name": "pd1",
		"properties": map[string]any{
			"displayName": "Allowed locations",
			"policyType":  "BuiltIn",
		},
	})

	pd, err := m.PolicyDefinitions().GetBuiltIn(context.Background(), "pd1")
	require.NoError(t, err)
	assert.Equal(t, "Allowed locations", to.ValOrZero(pd.Properties.DisplayName))

	_, err = m.PolicyDefinitions().CreateOrUpdate(context.Background(), "pd2", armpolicy.Definition{})
	assert.Error(t, err)
}
