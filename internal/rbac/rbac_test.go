// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package rbac

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Azure/azmgmt/internal/resttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	scope         = "/subscriptions/" + resttest.SubscriptionID + "/resourceGroups/rg1"
	contributorID = "/subscriptions/" + resttest.SubscriptionID + "/providers/Microsoft.Authorization/roleDefinitions/b24988ac-6180-42a0-ab88-20f7382dd24c"
)

func newTestAssigner(t *testing.T) (*Assigner, *resttest.Server) {
	t.Helper()

	srv := resttest.NewServer(t)
	srv.HandleJSON(http.MethodGet, scope+"/providers/Microsoft.Authorization/roleDefinitions", http.StatusOK, map[string]any{
		"value": []map[string]any{{
			"id":         contributorID,
			"name":       "b24988ac-6180-42a0-ab88-20f7382dd24c",
			"properties": map[string]any{"roleName": "Contributor"},
		}},
	})

	a, err := NewAssigner(resttest.SubscriptionID, srv.Credential(), srv.Options())
	require.NoError(t, err)

	return a, srv
}

func TestAssignmentNameDeterministic(t *testing.T) {
	t.Parallel()

	n1 := AssignmentName("p1", scope, contributorID)
	assert.Equal(t, n1, AssignmentName("p1", scope, contributorID))
	assert.NotEqual(t, n1, AssignmentName("p2", scope, contributorID))
	assert.Len(t, n1, 36)
}

func TestResolveRoleDefinitionID(t *testing.T) {
	t.Parallel()

	a, srv := newTestAssigner(t)
	listPath := scope + "/providers/Microsoft.Authorization/roleDefinitions"

	id, err := a.ResolveRoleDefinitionID(context.Background(), scope, RoleContributor)
	require.NoError(t, err)
	assert.Equal(t, contributorID, id)
	assert.Equal(t, "roleName eq 'Contributor'", srv.Last(t, http.MethodGet, listPath).Query.Get("$filter"))

	_, err = a.ResolveRoleDefinitionID(context.Background(), scope, RoleContributor)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(http.MethodGet, listPath))

	id, err = a.ResolveRoleDefinitionID(context.Background(), scope, "acdd72a7-3385-48ef-bd42-f606fba81ae7")
	require.NoError(t, err)
	assert.Equal(t, scope+"/providers/Microsoft.Authorization/roleDefinitions/acdd72a7-3385-48ef-bd42-f606fba81ae7", id)

	id, err = a.ResolveRoleDefinitionID(context.Background(), scope, contributorID)
	require.NoError(t, err)
	assert.Equal(t, contributorID, id)

	_, err = a.ResolveRoleDefinitionID(context.Background(), scope, "Nonexistent Role")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestAssign(t *testing.T) {
	t.Parallel()

	a, srv := newTestAssigner(t)
	name := AssignmentName("principal-1", scope, contributorID)
	putPath := scope + "/providers/Microsoft.Authorization/roleAssignments/" + name
	srv.HandleJSON(http.MethodPut, putPath, http.StatusCreated, map[string]any{"name": name})

	require.NoError(t, a.Assign(context.Background(), "principal-1", Assignment{Scope: scope, Role: RoleContributor}))

	var body struct {
		Properties struct {
			PrincipalID      string `json:"principalId"`
			RoleDefinitionID string `json:"roleDefinitionId"`
			PrincipalType    string `json:"principalType"`
		} `json:"properties"`
	}
	srv.Last(t, http.MethodPut, putPath).DecodeBody(t, &body)
	assert.Equal(t, "principal-1", body.Properties.PrincipalID)
	assert.Equal(t, contributorID, body.Properties.RoleDefinitionID)
	assert.Equal(t, "ServicePrincipal", body.Properties.PrincipalType)
}

func TestAssign_ExistingIsNotAnError(t *testing.T) {
	t.Parallel()

	a, srv := newTestAssigner(t)
	name := AssignmentName("principal-1", scope, contributorID)
	srv.Handle(http.MethodPut, scope+"/providers/Microsoft.Authorization/roleAssignments/"+name, func(w http.ResponseWriter, _ *http.Request) {
		resttest.WriteError(w, http.StatusConflict, "RoleAssignmentExists", "The role assignment already exists.")
	})

	assert.NoError(t, a.Assign(context.Background(), "principal-1", Assignment{Scope: scope, Role: RoleContributor}))
}

func TestAssign_RetriesUntilPrincipalReplicates(t *testing.T) {
	t.Parallel()

	a, srv := newTestAssigner(t)
	name := AssignmentName("principal-1", scope, contributorID)
	putPath := scope + "/providers/Microsoft.Authorization/roleAssignments/" + name

	var calls atomic.Int32

	srv.Handle(http.MethodPut, putPath, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			resttest.WriteError(w, http.StatusBadRequest, "PrincipalNotFound", "Principal principal-1 does not exist in the directory.")

			return
		}

		resttest.WriteJSON(w, http.StatusCreated, map[string]any{"name": name})
	})

	require.NoError(t, a.Assign(context.Background(), "principal-1", Assignment{Scope: scope, Role: RoleContributor}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestAssign_PrincipalNotFoundGivesUp(t *testing.T) {
	t.Parallel()

	a, srv := newTestAssigner(t)
	name := AssignmentName("principal-1", scope, contributorID)
	putPath := scope + "/providers/Microsoft.Authorization/roleAssignments/" + name
	srv.Handle(http.MethodPut, putPath, func(w http.ResponseWriter, _ *http.Request) {
		resttest.WriteError(w, http.StatusBadRequest, "PrincipalNotFound", "Principal principal-1 does not exist in the directory.")
	})

	err := a.Assign(context.Background(), "principal-1", Assignment{Scope: scope, Role: RoleContributor})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PrincipalNotFound")
	assert.Equal(t, principalRetries, srv.Count(http.MethodPut, putPath))
}

func TestAssign_RetryHonoursContext(t *testing.T) {
	t.Parallel()

	a, srv := newTestAssigner(t)
	a.retryDelay = time.Hour
	name := AssignmentName("principal-1", scope, contributorID)
	putPath := scope + "/providers/Microsoft.Authorization/roleAssignments/" + name

	ctx, cancel := context.WithCancel(context.Background())

	srv.Handle(http.MethodPut, putPath, func(w http.ResponseWriter, _ *http.Request) {
		cancel()
		resttest.WriteError(w, http.StatusBadRequest, "PrincipalNotFound", "Principal principal-1 does not exist in the directory.")
	})

	err := a.Assign(ctx, "principal-1", Assignment{Scope: scope, Role: RoleContributor})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, srv.Count(http.MethodPut, putPath))
}

func TestResolveRoleDefinitionID_EscapesQuotes(t *testing.T) {
	t.Parallel()

	a, srv := newTestAssigner(t)

	_, err := a.ResolveRoleDefinitionID(context.Background(), scope, "Operator's Role")
	require.ErrorIs(t, err, ErrRoleNotFound)
	assert.Equal(t, "roleName eq 'Operator''s Role'",
		srv.Last(t, http.MethodGet, scope+"/providers/Microsoft.Authorization/roleDefinitions").Query.Get("$filter"))
}

func TestAssignAll_CollectsErrors(t *testing.T) {
	t.Parallel()

	a, _ := newTestAssigner(t)

	err := a.AssignAll(context.Background(), "principal-1", []Assignment{
		{Scope: scope, Role: RoleContributor},
		{Scope: scope, Role: "Nonexistent Role"},
	})
	require.Error(t, err)

	var raErrs *RoleAssignmentErrors
	require.True(t, errors.As(err, &raErrs))
	require.Len(t, raErrs.Errors(), 2)
	assert.Equal(t, scope, raErrs.Errors()[0].Scope())
	assert.ErrorIs(t, raErrs.Errors()[1], ErrRoleNotFound)

	assert.NoError(t, NewRoleAssignmentErrors().ErrorOrNil())
}
