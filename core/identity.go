// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package core

import (
	"sort"
	"strings"

	"github.com/Azure/azmgmt/to"
	"github.com/brunoga/deep"
)

// IdentityType is the managed identity kind attached to a resource.
type IdentityType string

// Identity types accepted by Resource Manager.
const (
	IdentityTypeNone                       IdentityType = "None"
	IdentityTypeSystemAssigned             IdentityType = "SystemAssigned"
	IdentityTypeUserAssigned               IdentityType = "UserAssigned"
	IdentityTypeSystemAssignedUserAssigned IdentityType = "SystemAssigned, UserAssigned"
)

// hasSystem and hasUser read an identity type without caring about spacing or casing,
// as some providers return "SystemAssigned,UserAssigned".
func (t IdentityType) hasSystem() bool {
	return strings.Contains(strings.ToLower(string(t)), "systemassigned")
}

func (t IdentityType) hasUser() bool {
	return strings.Contains(strings.ToLower(string(t)), "userassigned")
}

func identityTypeOf(system, user bool) IdentityType {
	switch {
	case system && user:
		return IdentityTypeSystemAssignedUserAssigned
	case system:
		return IdentityTypeSystemAssigned
	case user:
		return IdentityTypeUserAssigned
	default:
		return IdentityTypeNone
	}
}

// MergeIdentityType returns the identity type after enabling add on top of current.
// Adding SystemAssigned to UserAssigned (or the reverse) yields both.
func MergeIdentityType(current, add IdentityType) IdentityType {
	return identityTypeOf(current.hasSystem() || add.hasSystem(), current.hasUser() || add.hasUser())
}

// RemoveIdentityType returns the identity type after disabling remove from current.
// Removing SystemAssigned from both yields UserAssigned; removing the only kind yields None.
func RemoveIdentityType(current, remove IdentityType) IdentityType {
	return identityTypeOf(current.hasSystem() && !remove.hasSystem(), current.hasUser() && !remove.hasUser())
}

// UserAssignedIdentity describes a user assigned identity attached to a resource.
type UserAssignedIdentity struct {
	// READ-ONLY
	PrincipalID *string `json:"principalId,omitempty"`
	// READ-ONLY
	ClientID *string `json:"clientId,omitempty"`
}

// ManagedServiceIdentity is the identity block shared by container groups, clusters, sites and media accounts.
// A nil value in UserAssignedIdentities marks an identity for removal and is sent as JSON null.
type ManagedServiceIdentity struct {
	Type IdentityType `json:"type,omitempty"`
	// READ-ONLY
	PrincipalID *string `json:"principalId,omitempty"`
	// READ-ONLY
	TenantID               *string                          `json:"tenantId,omitempty"`
	UserAssignedIdentities map[string]*UserAssignedIdentity `json:"userAssignedIdentities,omitempty"`
}

// EnableSystemAssigned returns a copy of m with the system assigned identity enabled. m may be nil.
func (m *ManagedServiceIdentity) EnableSystemAssigned() *ManagedServiceIdentity {
	res := m.clone()
	res.Type = MergeIdentityType(res.Type, IdentityTypeSystemAssigned)

	return res
}

// DisableSystemAssigned returns a copy of m with the system assigned identity removed.
func (m *ManagedServiceIdentity) DisableSystemAssigned() *ManagedServiceIdentity {
	res := m.clone()
	res.Type = RemoveIdentityType(res.Type, IdentityTypeSystemAssigned)

	return res
}

// AddUserAssigned returns a copy of m with the user assigned identity id attached.
func (m *ManagedServiceIdentity) AddUserAssigned(id string) *ManagedServiceIdentity {
	res := m.clone()
	if res.UserAssignedIdentities == nil {
		res.UserAssignedIdentities = make(map[string]*UserAssignedIdentity)
	}

	if existing := res.UserAssignedIdentities[id]; existing == nil {
		res.UserAssignedIdentities[id] = &UserAssignedIdentity{}
	}

	res.Type = MergeIdentityType(res.Type, IdentityTypeUserAssigned)

	return res
}

// RemoveUserAssigned returns a copy of m with id marked for removal.
// When no user assigned identities remain, UserAssigned is dropped from the type.
func (m *ManagedServiceIdentity) RemoveUserAssigned(id string) *ManagedServiceIdentity {
	res := m.clone()
	if res.UserAssignedIdentities == nil {
		res.UserAssignedIdentities = make(map[string]*UserAssignedIdentity)
	}

	res.UserAssignedIdentities[id] = nil

	if len(res.UserAssignedIDs()) == 0 {
		res.Type = RemoveIdentityType(res.Type, IdentityTypeUserAssigned)
	}

	return res
}

// UserAssignedIDs returns the sorted IDs of the attached user assigned identities, excluding removals.
func (m *ManagedServiceIdentity) UserAssignedIDs() []string {
	if m == nil {
		return nil
	}

	ids := make([]string, 0, len(m.UserAssignedIdentities))
	for id, v := range m.UserAssignedIdentities {
		if v != nil {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)

	return ids
}

// SystemAssignedPrincipalID returns the principal of the system assigned identity, or "".
func (m *ManagedServiceIdentity) SystemAssignedPrincipalID() string {
	if m == nil || !m.Type.hasSystem() {
		return ""
	}

	return to.ValOrZero(m.PrincipalID)
}

func (m *ManagedServiceIdentity) clone() *ManagedServiceIdentity {
	if m == nil {
		return &ManagedServiceIdentity{Type: IdentityTypeNone}
	}

	res := deep.MustCopy(*m)
	if res.Type == "" {
		res.Type = IdentityTypeNone
	}

	return &res
}
