// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package rbac assigns Azure roles to the managed identities of resources created by the service managers.
package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Built-in roles commonly granted to managed identities.
const (
	RoleOwner       = "Owner"
	RoleContributor = "Contributor"
	RoleReader      = "Reader"
)

const (
	roleAssignmentExistsCode = "RoleAssignmentExists"
	principalNotFoundCode    = "PrincipalNotFound"

	// principalRetries bounds the attempts made while a new principal replicates in the directory.
	principalRetries = 30
)

// ErrRoleNotFound is returned when a role name cannot be resolved at a scope.
var ErrRoleNotFound = errors.New("role definition not found")

// Assignment is a role to grant at a scope once the principal exists.
type Assignment struct {
	Scope string
	// Role is a role name such as Contributor, a role definition GUID or a full role definition ID.
	Role string
}

// Assigner creates role assignments.
type Assigner struct {
	assignments *armauthorization.RoleAssignmentsClient
	definitions *armauthorization.RoleDefinitionsClient
	logger      *zap.Logger
	// retryDelay is multiplied by the attempt number between PrincipalNotFound retries.
	retryDelay time.Duration

	mu    sync.Mutex
	roles map[string]string
}

// NewAssigner creates an Assigner for subscriptionID.
func NewAssigner(subscriptionID string, cred azcore.TokenCredential, opts *core.ClientOptions) (*Assigner, error) {
	armOpts, err := opts.ARMOptions()
	if err != nil {
		return nil, fmt.Errorf("rbac.NewAssigner: %w", err)
	}

	factory, err := armauthorization.NewClientFactory(subscriptionID, cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("rbac.NewAssigner: creating client factory: %w", err)
	}

	return &Assigner{
		assignments: factory.NewRoleAssignmentsClient(),
		definitions: factory.NewRoleDefinitionsClient(),
		logger:      opts.Log().Named("rbac"),
		retryDelay:  opts.PollOptions().Frequency / 10,
		roles:       make(map[string]string),
	}, nil
}

// AssignmentName returns the deterministic role assignment name for principalID, scope and roleDefinitionID.
func AssignmentName(principalID, scope, roleDefinitionID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join([]string{principalID, strings.ToLower(scope), strings.ToLower(roleDefinitionID)}, ""))).String()
}

// ResolveRoleDefinitionID returns the role definition ID of role at scope.
// role may be a full ID, a GUID or a role name.
func (a *Assigner) ResolveRoleDefinitionID(ctx context.Context, scope, role string) (string, error) {
	if strings.Contains(role, "/providers/Microsoft.Authorization/roleDefinitions/") {
		return role, nil
	}

	if _, err := uuid.Parse(role); err == nil {
		return fmt.Sprintf("%s/providers/Microsoft.Authorization/roleDefinitions/%s", strings.TrimSuffix(scope, "/"), role), nil
	}

	key := strings.ToLower(scope + "|" + role)

	a.mu.Lock()
	id, ok := a.roles[key]
	a.mu.Unlock()

	if ok {
		return id, nil
	}

	pager := a.definitions.NewListPager(scope, &armauthorization.RoleDefinitionsClientListOptions{
		Filter: to.Ptr(fmt.Sprintf("roleName eq '%s'", strings.ReplaceAll(role, "'", "''"))),
	})

	defs, err := core.ListAll(ctx, pager, func(p armauthorization.RoleDefinitionsClientListResponse) []*armauthorization.RoleDefinition {
		return p.Value
	})
	if err != nil {
		return "", fmt.Errorf("Assigner.ResolveRoleDefinitionID: %w", err)
	}

	for _, d := range defs {
		if d.Properties != nil && strings.EqualFold(to.ValOrZero(d.Properties.RoleName), role) {
			id = to.ValOrZero(d.ID)

			break
		}
	}

	if id == "" {
		return "", fmt.Errorf("Assigner.ResolveRoleDefinitionID: %s at %s: %w", role, scope, ErrRoleNotFound)
	}

	a.mu.Lock()
	a.roles[key] = id
	a.mu.Unlock()

	return id, nil
}

// Assign grants role to principalID at scope. An existing identical assignment is not an error.
func (a *Assigner) Assign(ctx context.Context, principalID string, asg Assignment) error {
	roleID, err := a.ResolveRoleDefinitionID(ctx, asg.Scope, asg.Role)
	if err != nil {
		return err
	}

	name := AssignmentName(principalID, asg.Scope, roleID)

	params := armauthorization.RoleAssignmentCreateParameters{
		Properties: &armauthorization.RoleAssignmentProperties{
			PrincipalID:      to.Ptr(principalID),
			RoleDefinitionID: to.Ptr(roleID),
			PrincipalType:    to.Ptr(armauthorization.PrincipalTypeServicePrincipal),
		},
	}

	for attempt := 1; ; attempt++ {
		_, err = a.assignments.Create(ctx, asg.Scope, name, params, nil)
		if core.ErrorCode(err) != principalNotFoundCode || attempt >= principalRetries {
			break
		}

		a.logger.Debug("principal not found, retrying role assignment",
			zap.String("principal_id", principalID),
			zap.Int("attempt", attempt),
		)

		if werr := wait(ctx, a.retryDelay*time.Duration(attempt)); werr != nil {
			return fmt.Errorf("Assigner.Assign: %w", werr)
		}
	}

	switch {
	case err == nil:
		a.logger.Info("role assigned",
			zap.String(logging.FieldResourceID, asg.Scope),
			zap.String("role_definition_id", roleID),
			zap.String("principal_id", principalID),
		)
	case core.IsConflict(err) && core.ErrorCode(err) == roleAssignmentExistsCode:
		a.logger.Debug("role assignment exists", zap.String(logging.FieldResourceID, asg.Scope), zap.String("name", name))
	default:
		return fmt.Errorf("Assigner.Assign: %w", err)
	}

	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-t.C:
		return nil
	}
}

// AssignAll grants every assignment to principalID. Failures are collected in a *RoleAssignmentErrors.
func (a *Assigner) AssignAll(ctx context.Context, principalID string, assignments []Assignment) error {
	errs := NewRoleAssignmentErrors()

	for _, asg := range assignments {
		if err := a.Assign(ctx, principalID, asg); err != nil {
			errs.Add(NewRoleAssignmentError(principalID, asg.Scope, asg.Role, err))
		}
	}

	return errs.ErrorOrNil()
}
