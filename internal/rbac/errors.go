// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package rbac

import (
	"fmt"
	"strings"
)

var _ error = &RoleAssignmentError{}
var _ error = &RoleAssignmentErrors{}

// RoleAssignmentError is a failed role assignment for a managed identity.
type RoleAssignmentError struct {
	principalID      string
	scope            string
	roleDefinitionID string
	wrappedError     error
}

// RoleAssignmentErrors is a collection of RoleAssignmentError.
// It can be used by the caller to emit a warning rather than halt execution.
type RoleAssignmentErrors struct {
	errors []*RoleAssignmentError
}

// NewRoleAssignmentError creates a new RoleAssignmentError.
func NewRoleAssignmentError(principalID, scope, roleDefinitionID string, innerError error) *RoleAssignmentError {
	return &RoleAssignmentError{
		principalID:      principalID,
		scope:            scope,
		roleDefinitionID: roleDefinitionID,
		wrappedError:     innerError,
	}
}

// NewRoleAssignmentErrors creates an empty RoleAssignmentErrors collection.
func NewRoleAssignmentErrors() *RoleAssignmentErrors {
	return &RoleAssignmentErrors{errors: make([]*RoleAssignmentError, 0)}
}

// Error implements the error interface.
func (e *RoleAssignmentError) Error() string {
	return fmt.Sprintf(
		"RoleAssignmentError: could not assign role definition `%s` to principal `%s` at scope `%s`. InnerError: %v",
		e.roleDefinitionID,
		e.principalID,
		e.scope,
		e.wrappedError,
	)
}

func (e *RoleAssignmentError) Unwrap() error {
	return e.wrappedError
}

// Scope returns the scope of the failed assignment.
func (e *RoleAssignmentError) Scope() string { return e.scope }

// Add adds one or more RoleAssignmentError to the collection.
func (e *RoleAssignmentErrors) Add(err ...*RoleAssignmentError) {
	e.errors = append(e.errors, err...)
}

// Error implements the error interface.
func (e *RoleAssignmentErrors) Error() string {
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, "\n---\n")
}

// Errors returns the collected errors.
func (e *RoleAssignmentErrors) Errors() []*RoleAssignmentError {
	return e.errors
}

// ErrorOrNil returns e when it holds at least one error, otherwise nil.
func (e *RoleAssignmentErrors) ErrorOrNil() error {
	if e == nil || len(e.errors) == 0 {
		return nil
	}

	return e
}
