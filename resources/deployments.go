// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	deploymentsPath = "/subscriptions/{subscriptionId}/resourcegroups/{resourceGroupName}/providers/Microsoft.Resources/deployments"
	deploymentPath  = deploymentsPath + "/{deploymentName}"
)

// Provisioning states reported by deployments.
const (
	ProvisioningStateSucceeded = "Succeeded"
	ProvisioningStateFailed    = "Failed"
	ProvisioningStateCanceled  = "Canceled"
)

// Deployments manages template deployments at resource group scope.
type Deployments struct {
	m *Manager
}

// Deployment wraps a deployment returned by the service.
type Deployment struct {
	DeploymentExtended

	c             *Deployments
	resourceGroup string
}

func (c *Deployments) wrap(rg string, d DeploymentExtended) *Deployment {
	if rg == "" && d.ID != nil {
		rg, _ = core.ResourceGroupFromID(*d.ID)
	}

	return &Deployment{DeploymentExtended: d, c: c, resourceGroup: rg}
}

// ResourceGroup returns the resource group of the deployment.
func (d *Deployment) ResourceGroup() string { return d.resourceGroup }

// ProvisioningState returns the provisioning state, or "".
func (d *Deployment) ProvisioningState() string {
	if d.Properties == nil {
		return ""
	}

	return to.ValOrZero(d.Properties.ProvisioningState)
}

// IsFinal reports whether the deployment reached a terminal state.
func (d *Deployment) IsFinal() bool {
	switch d.ProvisioningState() {
	case ProvisioningStateSucceeded, ProvisioningStateFailed, ProvisioningStateCanceled:
		return true
	}

	return false
}

// Outputs returns the template outputs keyed by name with the type envelope removed.
func (d *Deployment) Outputs() map[string]any {
	res := make(map[string]any)
	if d.Properties == nil {
		return res
	}

	for k, v := range d.Properties.Outputs {
		if m, ok := v.(map[string]any); ok {
			if val, ok := m["value"]; ok {
				res[k] = val
				continue
			}
		}

		res[k] = v
	}

	return res
}

// Refresh reloads the deployment from the service.
func (d *Deployment) Refresh(ctx context.Context) error {
	fresh, err := d.c.Get(ctx, d.resourceGroup, to.ValOrZero(d.Name))
	if err != nil {
		return err
	}

	d.DeploymentExtended = fresh.DeploymentExtended

	return nil
}

// Cancel cancels the running deployment.
func (d *Deployment) Cancel(ctx context.Context) error {
	return d.c.Cancel(ctx, d.resourceGroup, to.ValOrZero(d.Name))
}

// ExportTemplate returns the template used by the deployment.
func (d *Deployment) ExportTemplate(ctx context.Context) (*ExportTemplateResult, error) {
	return d.c.ExportTemplate(ctx, d.resourceGroup, to.ValOrZero(d.Name))
}

// Operations returns the operations performed by the deployment.
func (d *Deployment) Operations(ctx context.Context) ([]*DeploymentOperation, error) {
	return d.c.ListOperations(ctx, d.resourceGroup, to.ValOrZero(d.Name))
}

// Define returns a new definition for a deployment named name in resourceGroup.
func (c *Deployments) Define(resourceGroup, name string) *DeploymentDefinition {
	return &DeploymentDefinition{ResourceGroup: resourceGroup, Name: name, Mode: DeploymentModeIncremental}
}

// DeploymentsBeginCreateOptions configures BeginCreate.
type DeploymentsBeginCreateOptions struct {
	ResumeToken string
}

// BeginCreate validates def and submits the deployment. An empty def.Name is replaced with a generated name.
func (c *Deployments) BeginCreate(ctx context.Context, def *DeploymentDefinition, opts *DeploymentsBeginCreateOptions) (*runtime.Poller[DeploymentExtended], error) {
	if opts != nil && opts.ResumeToken != "" {
		return rest.BeginOperation[DeploymentExtended](ctx, c.m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: opts.ResumeToken})
	}

	if def.Name == "" {
		def.Name = "azmgmt-" + uuid.NewString()
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("Deployments.BeginCreate: invalid definition: %w", err)
	}

	body, err := def.request()
	if err != nil {
		return nil, fmt.Errorf("Deployments.BeginCreate: %w", err)
	}

	p, err := rest.BeginOperation[DeploymentExtended](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   deploymentPath,
		Params: rest.P{"resourceGroupName": def.ResourceGroup, "deploymentName": def.Name},
		Body:   body,
		Accept: []int{http.StatusOK, http.StatusCreated},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("Deployments.BeginCreate: %w", err)
	}

	c.m.logger.Info("deployment submitted",
		zap.String(logging.FieldResourceGroup, def.ResourceGroup),
		zap.String(logging.FieldResource, def.Name),
	)

	return p, nil
}

// Create submits def and waits for the deployment to finish.
func (c *Deployments) Create(ctx context.Context, def *DeploymentDefinition) (*Deployment, error) {
	p, err := c.BeginCreate(ctx, def, nil)
	if err != nil {
		return nil, err
	}

	d, err := p.PollUntilDone(ctx, c.m.opts.PollOptions())
	if err != nil {
		return nil, fmt.Errorf("Deployments.Create: %w", err)
	}

	return c.wrap(def.ResourceGroup, d), nil
}

// Get returns the deployment name of resourceGroup.
func (c *Deployments) Get(ctx context.Context, resourceGroup, name string) (*Deployment, error) {
	d, err := rest.Do[DeploymentExtended](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   deploymentPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "deploymentName": name},
	})
	if err != nil {
		return nil, fmt.Errorf("Deployments.Get: %w", err)
	}

	return c.wrap(resourceGroup, d), nil
}

// Exists reports whether the deployment exists.
func (c *Deployments) Exists(ctx context.Context, resourceGroup, name string) (bool, error) {
	ok, err := c.m.client.Exists(ctx, deploymentPath, rest.P{"resourceGroupName": resourceGroup, "deploymentName": name})
	if err != nil {
		return false, fmt.Errorf("Deployments.Exists: %w", err)
	}

	return ok, nil
}

// NewListByResourceGroupPager lists the deployments of resourceGroup. filter is an OData filter such as
// provisioningState eq 'Failed'.
func (c *Deployments) NewListByResourceGroupPager(resourceGroup, filter string) *runtime.Pager[rest.Page[DeploymentExtended]] {
	q := url.Values{}
	if filter != "" {
		q.Set("$filter", filter)
	}

	return rest.NewPager[DeploymentExtended](c.m.client, rest.Call{
		Path:   deploymentsPath,
		Params: rest.P{"resourceGroupName": resourceGroup},
		Query:  q,
	})
}

// ListByResourceGroup returns every deployment of resourceGroup.
func (c *Deployments) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*Deployment, error) {
	items, err := core.ListAll(ctx, c.NewListByResourceGroupPager(resourceGroup, ""), rest.Page[DeploymentExtended].Items)
	if err != nil {
		return nil, fmt.Errorf("Deployments.ListByResourceGroup: %w", err)
	}

	res := make([]*Deployment, 0, len(items))
	for _, d := range items {
		res = append(res, c.wrap(resourceGroup, *d))
	}

	return res, nil
}

// BeginDelete deletes the deployment history entry. Deployed resources are kept.
func (c *Deployments) BeginDelete(ctx context.Context, resourceGroup, name string) (*runtime.Poller[rest.Empty], error) {
	p, err := rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   deploymentPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "deploymentName": name},
	}, &rest.PollerOptions{FinalStateVia: runtime.FinalStateViaLocation})
	if err != nil {
		return nil, fmt.Errorf("Deployments.BeginDelete: %w", err)
	}

	return p, nil
}

// Cancel cancels a running deployment. Only Accepted or Running deployments can be canceled.
func (c *Deployments) Cancel(ctx context.Context, resourceGroup, name string) error {
	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   deploymentPath + "/cancel",
		Params: rest.P{"resourceGroupName": resourceGroup, "deploymentName": name},
		Accept: []int{http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("Deployments.Cancel: %w", err)
	}

	return nil
}

// ExportTemplate returns the template used by the deployment.
func (c *Deployments) ExportTemplate(ctx context.Context, resourceGroup, name string) (*ExportTemplateResult, error) {
	res, err := rest.Do[ExportTemplateResult](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   deploymentPath + "/exportTemplate",
		Params: rest.P{"resourceGroupName": resourceGroup, "deploymentName": name},
	})
	if err != nil {
		return nil, fmt.Errorf("Deployments.ExportTemplate: %w", err)
	}

	return &res, nil
}

// ListOperations returns the operations performed by the deployment.
func (c *Deployments) ListOperations(ctx context.Context, resourceGroup, name string) ([]*DeploymentOperation, error) {
	pager := rest.NewPager[DeploymentOperation](c.m.client, rest.Call{
		Path:   deploymentPath + "/operations",
		Params: rest.P{"resourceGroupName": resourceGroup, "deploymentName": name},
	})

	res, err := core.ListAll(ctx, pager, rest.Page[DeploymentOperation].Items)
	if err != nil {
		return nil, fmt.Errorf("Deployments.ListOperations: %w", err)
	}

	return res, nil
}

// BeginWhatIf predicts the changes def would make to its resource group.
func (c *Deployments) BeginWhatIf(ctx context.Context, def *DeploymentDefinition, format WhatIfResultFormat) (*runtime.Poller[WhatIfOperationResult], error) {
	name := def.Name
	if name == "" {
		name = "whatif-" + uuid.NewString()
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("Deployments.BeginWhatIf: invalid definition: %w", err)
	}

	props, err := def.properties()
	if err != nil {
		return nil, fmt.Errorf("Deployments.BeginWhatIf: %w", err)
	}

	body := WhatIfRequest{Properties: &WhatIfProperties{DeploymentProperties: *props}}
	if format != "" {
		body.Properties.WhatIfSettings = &WhatIfSettings{ResultFormat: format}
	}

	p, err := rest.BeginOperation[WhatIfOperationResult](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   deploymentPath + "/whatIf",
		Params: rest.P{"resourceGroupName": def.ResourceGroup, "deploymentName": name},
		Body:   body,
		Accept: []int{http.StatusOK, http.StatusAccepted},
	}, &rest.PollerOptions{FinalStateVia: runtime.FinalStateViaLocation})
	if err != nil {
		return nil, fmt.Errorf("Deployments.BeginWhatIf: %w", err)
	}

	return p, nil
}

// ValidateTemplate asks the service whether def would be accepted. A rejected template is reported through
// the Error field of the result, not as an error.
func (c *Deployments) ValidateTemplate(ctx context.Context, def *DeploymentDefinition) (*DeploymentValidateResult, error) {
	name := def.Name
	if name == "" {
		name = "validate-" + uuid.NewString()
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("Deployments.ValidateTemplate: invalid definition: %w", err)
	}

	body, err := def.request()
	if err != nil {
		return nil, fmt.Errorf("Deployments.ValidateTemplate: %w", err)
	}

	resp, err := c.m.client.Send(ctx, rest.Call{
		Method: http.MethodPost,
		Path:   deploymentPath + "/validate",
		Params: rest.P{"resourceGroupName": def.ResourceGroup, "deploymentName": name},
		Body:   body,
		Accept: []int{http.StatusOK, http.StatusAccepted, http.StatusBadRequest},
	})
	if err != nil {
		return nil, fmt.Errorf("Deployments.ValidateTemplate: %w", err)
	}

	if resp.StatusCode == http.StatusAccepted {
		p, err := runtime.NewPoller(resp, c.m.client.Pipeline(), &runtime.NewPollerOptions[DeploymentValidateResult]{
			FinalStateVia: runtime.FinalStateViaLocation,
		})
		if err != nil {
			return nil, fmt.Errorf("Deployments.ValidateTemplate: %w", err)
		}

		res, err := p.PollUntilDone(ctx, c.m.opts.PollOptions())
		if err != nil {
			return nil, fmt.Errorf("Deployments.ValidateTemplate: %w", err)
		}

		return &res, nil
	}

	var res DeploymentValidateResult
	if err := runtime.UnmarshalAsJSON(resp, &res); err != nil {
		return nil, fmt.Errorf("Deployments.ValidateTemplate: %w", err)
	}

	return &res, nil
}

// IsValid reports whether the validation result carries no error.
func (r *DeploymentValidateResult) IsValid() bool {
	return r.Error == nil || to.ValOrZero(r.Error.Code) == ""
}

// Summary returns a one line description of the validation error, or "".
func (r *DeploymentValidateResult) Summary() string {
	if r.IsValid() {
		return ""
	}

	parts := []string{to.ValOrZero(r.Error.Code) + ": " + to.ValOrZero(r.Error.Message)}
	for _, d := range r.Error.Details {
		parts = append(parts, to.ValOrZero(d.Code)+": "+to.ValOrZero(d.Message))
	}

	return strings.Join(parts, "; ")
}
