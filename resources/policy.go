// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armpolicy"
)

const (
	PolicyAssignmentNameMaxLength        = 24  // PolicyAssignmentNameMaxLength is the maximum length of a policy assignment name, at MG scope this is 24.
	PolicyAssignmentDisplayNameMaxLength = 128 // PolicyAssignmentDisplayNameMaxLength is the maximum length of a policy assignment display name.
	PolicyAssignmentDescriptionMaxLength = 512 // PolicyAssignmentDescriptionMaxLength is the maximum length of a policy assignment description.
)

// PolicyDefinitions manages policy definitions of the subscription and reads built-in definitions.
type PolicyDefinitions struct {
	client *armpolicy.DefinitionsClient
}

// Get returns the custom policy definition name.
func (c *PolicyDefinitions) Get(ctx context.Context, name string) (*armpolicy.Definition, error) {
	resp, err := c.client.Get(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("PolicyDefinitions.Get: %w", err)
	}

	return &resp.Definition, nil
}

// GetBuiltIn returns the built-in policy definition name.
func (c *PolicyDefinitions) GetBuiltIn(ctx context.Context, name string) (*armpolicy.Definition, error) {
	resp, err := c.client.GetBuiltIn(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("PolicyDefinitions.GetBuiltIn: %w", err)
	}

	return &resp.Definition, nil
}

// CreateOrUpdate creates or replaces the policy definition name.
func (c *PolicyDefinitions) CreateOrUpdate(ctx context.Context, name string, def armpolicy.Definition) (*armpolicy.Definition, error) {
	if def.Properties == nil || def.Properties.PolicyRule == nil {
		return nil, fmt.Errorf("PolicyDefinitions.CreateOrUpdate: %w", core.NewErrPropertyMustNotBeNil("properties.policyRule"))
	}

	resp, err := c.client.CreateOrUpdate(ctx, name, def, nil)
	if err != nil {
		return nil, fmt.Errorf("PolicyDefinitions.CreateOrUpdate: %w", err)
	}

	return &resp.Definition, nil
}

// Delete removes the policy definition name.
func (c *PolicyDefinitions) Delete(ctx context.Context, name string) error {
	if _, err := c.client.Delete(ctx, name, nil); err != nil {
		return fmt.Errorf("PolicyDefinitions.Delete: %w", err)
	}

	return nil
}

// List returns the policy definitions of the subscription, built-in ones included. filter is an OData filter
// such as policyType eq 'Custom'.
func (c *PolicyDefinitions) List(ctx context.Context, filter string) ([]*armpolicy.Definition, error) {
	opts := &armpolicy.DefinitionsClientListOptions{}
	if filter != "" {
		opts.Filter = to.Ptr(filter)
	}

	res, err := core.ListAll(ctx, c.client.NewListPager(opts), func(p armpolicy.DefinitionsClientListResponse) []*armpolicy.Definition {
		return p.Value
	})
	if err != nil {
		return nil, fmt.Errorf("PolicyDefinitions.List: %w", err)
	}

	return res, nil
}

// PolicyAssignment is a validated policy assignment.
type PolicyAssignment struct {
	armpolicy.Assignment
}

// NewPolicyAssignment copies pa, fills optional fields with empty values and validates the result.
func NewPolicyAssignment(pa armpolicy.Assignment) (*PolicyAssignment, error) {
	cp, err := copyAssignment(pa)
	if err != nil {
		return nil, fmt.Errorf("NewPolicyAssignment: %w", err)
	}

	res := &PolicyAssignment{cp}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("NewPolicyAssignment: %w", err)
	}

	return res, nil
}

// copyAssignment copies pa through its wire form so that the untyped parameter, metadata and
// override values are copied along with the typed fields.
func copyAssignment(pa armpolicy.Assignment) (armpolicy.Assignment, error) {
	var res armpolicy.Assignment

	b, err := pa.MarshalJSON()
	if err != nil {
		return res, fmt.Errorf("copyAssignment: %w", err)
	}

	if err := res.UnmarshalJSON(b); err != nil {
		return res, fmt.Errorf("copyAssignment: %w", err)
	}

	return res, nil
}

// Validate checks the mandatory fields and their lengths. Optional fields left nil are set to empty values.
func (pa *PolicyAssignment) Validate() error {
	if pa.Name == nil {
		return core.NewErrPropertyMustNotBeNil("name")
	}

	if pa.Properties == nil {
		return core.NewErrPropertyMustNotBeNil("properties")
	}

	err := checker.NewValidator(
		checker.NewValidatorCheck("name", lengthCheck("name", pa.Name, PolicyAssignmentNameMaxLength)),
		checker.NewValidatorCheck("policy definition", func() error {
			if pa.Properties.PolicyDefinitionID == nil {
				return core.NewErrPropertyMustNotBeNil("properties.policyDefinitionId")
			}

			if _, err := arm.ParseResourceID(*pa.Properties.PolicyDefinitionID); err != nil {
				return core.NewErrPropertyInvalid("properties.policyDefinitionId", err.Error())
			}

			return nil
		}),
		checker.NewValidatorCheck("display name", lengthCheck("properties.displayName", pa.Properties.DisplayName, PolicyAssignmentDisplayNameMaxLength)),
		checker.NewValidatorCheck("description", lengthCheck("properties.description", pa.Properties.Description, PolicyAssignmentDescriptionMaxLength)),
	).Validate()
	if err != nil {
		return err //nolint:wrapcheck
	}

	if pa.Properties.Metadata == nil {
		pa.Properties.Metadata = any(map[string]any{})
	}

	if pa.Properties.EnforcementMode == nil {
		pa.Properties.EnforcementMode = to.Ptr(armpolicy.EnforcementModeDefault)
	}

	if pa.Identity == nil {
		pa.Identity = &armpolicy.Identity{
			Type:                   to.Ptr(armpolicy.ResourceIdentityTypeNone),
			UserAssignedIdentities: make(map[string]*armpolicy.UserAssignedIdentitiesValue),
		}
	}

	if pa.Properties.Parameters == nil {
		pa.Properties.Parameters = make(map[string]*armpolicy.ParameterValuesValue)
	}

	if pa.Properties.NotScopes == nil {
		pa.Properties.NotScopes = make([]*string, 0)
	}

	return nil
}

func lengthCheck(property string, v *string, maxLength int) checker.ValidateFunc {
	return func() error {
		if v == nil {
			return core.NewErrPropertyMustNotBeNil(property)
		}

		if l := utf8.RuneCountInString(*v); l == 0 || l > maxLength {
			return core.NewErrPropertyLength(property, 1, maxLength, l)
		}

		return nil
	}
}

// ParameterValueAsString returns the string value of the assignment parameter paramName.
func (pa *PolicyAssignment) ParameterValueAsString(paramName string) (string, error) {
	v, ok := pa.Properties.Parameters[paramName]
	if !ok || v == nil || v.Value == nil {
		return "", fmt.Errorf("PolicyAssignment.ParameterValueAsString: parameter %s not set in policy assignment %s", paramName, to.ValOrZero(pa.Name))
	}

	s, ok := v.Value.(string)
	if !ok {
		return "", fmt.Errorf("PolicyAssignment.ParameterValueAsString: parameter %s in policy assignment %s is not a string", paramName, to.ValOrZero(pa.Name))
	}

	return s, nil
}

// PolicyAssignments manages policy assignments.
type PolicyAssignments struct {
	client *armpolicy.AssignmentsClient
}

// Create validates pa and assigns it at scope.
func (c *PolicyAssignments) Create(ctx context.Context, scope string, pa *PolicyAssignment) (*PolicyAssignment, error) {
	if err := pa.Validate(); err != nil {
		return nil, fmt.Errorf("PolicyAssignments.Create: %w", err)
	}

	resp, err := c.client.Create(ctx, scope, *pa.Name, pa.Assignment, nil)
	if err != nil {
		return nil, fmt.Errorf("PolicyAssignments.Create: %w", err)
	}

	return &PolicyAssignment{resp.Assignment}, nil
}

// Get returns the policy assignment name at scope.
func (c *PolicyAssignments) Get(ctx context.Context, scope, name string) (*PolicyAssignment, error) {
	resp, err := c.client.Get(ctx, scope, name, nil)
	if err != nil {
		return nil, fmt.Errorf("PolicyAssignments.Get: %w", err)
	}

	return &PolicyAssignment{resp.Assignment}, nil
}

// Delete removes the policy assignment name at scope.
func (c *PolicyAssignments) Delete(ctx context.Context, scope, name string) error {
	if _, err := c.client.Delete(ctx, scope, name, nil); err != nil {
		return fmt.Errorf("PolicyAssignments.Delete: %w", err)
	}

	return nil
}

// ListForResourceGroup returns the policy assignments that apply to resourceGroup.
func (c *PolicyAssignments) ListForResourceGroup(ctx context.Context, resourceGroup string) ([]*PolicyAssignment, error) {
	items, err := core.ListAll(ctx, c.client.NewListForResourceGroupPager(resourceGroup, nil),
		func(p armpolicy.AssignmentsClientListForResourceGroupResponse) []*armpolicy.Assignment {
			return p.Value
		})
	if err != nil {
		return nil, fmt.Errorf("PolicyAssignments.ListForResourceGroup: %w", err)
	}

	res := make([]*PolicyAssignment, 0, len(items))
	for _, a := range items {
		res = append(res, &PolicyAssignment{*a})
	}

	return res, nil
}
