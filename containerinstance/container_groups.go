// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerinstance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rbac"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

const (
	groupsPath        = "/subscriptions/{subscriptionId}/providers/Microsoft.ContainerInstance/containerGroups"
	groupsInGroupPath = "/subscriptions/{subscriptionId}/resourceGroups/{resourceGroupName}/providers/Microsoft.ContainerInstance/containerGroups"
	groupPath         = groupsInGroupPath + "/{containerGroupName}"
	containerPath     = groupPath + "/containers/{containerName}"
)

// ErrRoleAssignment is joined to the error returned by Create when the group exists but a role assignment failed.
var ErrRoleAssignment = errors.New("container group created but role assignment failed")

// ContainerGroups manages container groups.
type ContainerGroups struct {
	m *Manager
}

// Define returns a new definition for a Linux container group named name in resourceGroup.
func (c *ContainerGroups) Define(resourceGroup, name string) *ContainerGroupDefinition {
	return &ContainerGroupDefinition{
		ResourceGroup: resourceGroup,
		Name:          name,
		OSType:        OperatingSystemTypesLinux,
		RestartPolicy: RestartPolicyAlways,
	}
}

// ContainerGroupsBeginOptions configures the Begin operations.
type ContainerGroupsBeginOptions struct {
	ResumeToken string
}

func resumeToken(opts *ContainerGroupsBeginOptions) string {
	if opts == nil {
		return ""
	}

	return opts.ResumeToken
}

// BeginCreate validates def and submits the container group.
func (c *ContainerGroups) BeginCreate(ctx context.Context, def *ContainerGroupDefinition, opts *ContainerGroupsBeginOptions) (*runtime.Poller[ContainerGroupResource], error) {
	if tok := resumeToken(opts); tok != "" {
		return rest.BeginOperation[ContainerGroupResource](ctx, c.m.client, rest.Call{}, &rest.PollerOptions{ResumeToken: tok})
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("ContainerGroups.BeginCreate: invalid definition: %w", err)
	}

	p, err := rest.BeginOperation[ContainerGroupResource](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   groupPath,
		Params: rest.P{"resourceGroupName": def.ResourceGroup, "containerGroupName": def.Name},
		Body:   def.resource(),
		Accept: []int{http.StatusOK, http.StatusCreated},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.BeginCreate: %w", err)
	}

	c.m.logger.Info("container group submitted",
		zap.String(logging.FieldResourceGroup, def.ResourceGroup),
		zap.String(logging.FieldResource, def.Name),
	)

	return p, nil
}

// Create submits def, waits for the group and performs the role assignments of def.
// When a role assignment fails the created group is returned together with an error wrapping ErrRoleAssignment.
func (c *ContainerGroups) Create(ctx context.Context, def *ContainerGroupDefinition) (*ContainerGroup, error) {
	p, err := c.BeginCreate(ctx, def, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.PollUntilDone(ctx, c.m.opts.PollOptions())
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.Create: %w", err)
	}

	cg := c.wrap(res)

	if len(def.roleAssignments) == 0 {
		return cg, nil
	}

	principal := cg.SystemAssignedPrincipalID()
	if principal == "" {
		return cg, fmt.Errorf("ContainerGroups.Create: %w", errors.Join(ErrRoleAssignment, errors.New("no system assigned principal returned")))
	}

	assignments := make([]rbac.Assignment, 0, len(def.roleAssignments))
	for _, ra := range def.roleAssignments {
		assignments = append(assignments, rbac.Assignment{Scope: ra.Scope, Role: ra.Role})
	}

	if err := c.m.assigner.AssignAll(ctx, principal, assignments); err != nil {
		c.m.logger.Warn("role assignment failed", zap.String(logging.FieldResource, def.Name), zap.Error(err))
		return cg, fmt.Errorf("ContainerGroups.Create: %w", errors.Join(ErrRoleAssignment, err))
	}

	return cg, nil
}

// Get returns the container group name of resourceGroup, including its instance view.
func (c *ContainerGroups) Get(ctx context.Context, resourceGroup, name string) (*ContainerGroup, error) {
	res, err := rest.Do[ContainerGroupResource](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   groupPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "containerGroupName": name},
	})
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.Get: %w", err)
	}

	return c.wrap(res), nil
}

// NewListPager lists the container groups of the subscription. List responses carry no instance view.
func (c *ContainerGroups) NewListPager() *runtime.Pager[rest.Page[ContainerGroupResource]] {
	return rest.NewPager[ContainerGroupResource](c.m.client, rest.Call{Path: groupsPath})
}

// NewListByResourceGroupPager lists the container groups of resourceGroup.
func (c *ContainerGroups) NewListByResourceGroupPager(resourceGroup string) *runtime.Pager[rest.Page[ContainerGroupResource]] {
	return rest.NewPager[ContainerGroupResource](c.m.client, rest.Call{
		Path:   groupsInGroupPath,
		Params: rest.P{"resourceGroupName": resourceGroup},
	})
}

// List returns every container group of the subscription, each refreshed to include its instance view.
func (c *ContainerGroups) List(ctx context.Context) ([]*ContainerGroup, error) {
	res, err := c.listAndRefresh(ctx, c.NewListPager())
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.List: %w", err)
	}

	return res, nil
}

// ListByResourceGroup returns every container group of resourceGroup, each refreshed to include its instance view.
func (c *ContainerGroups) ListByResourceGroup(ctx context.Context, resourceGroup string) ([]*ContainerGroup, error) {
	res, err := c.listAndRefresh(ctx, c.NewListByResourceGroupPager(resourceGroup))
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.ListByResourceGroup: %w", err)
	}

	return res, nil
}

func (c *ContainerGroups) listAndRefresh(ctx context.Context, pager *runtime.Pager[rest.Page[ContainerGroupResource]]) ([]*ContainerGroup, error) {
	items, err := core.ListAll(ctx, pager, rest.Page[ContainerGroupResource].Items)
	if err != nil {
		return nil, err
	}

	c.m.logger.Debug("refreshing container groups", zap.Int(logging.FieldCount, len(items)))

	return core.MapParallel(ctx, c.m.opts.Limit(), items, func(ctx context.Context, r *ContainerGroupResource) (*ContainerGroup, error) {
		id := to.ValOrZero(r.ID)

		rg, err := core.ResourceGroupFromID(id)
		if err != nil {
			return nil, err
		}

		return c.Get(ctx, rg, to.ValOrZero(r.Name))
	})
}

// UpdateTags replaces the tags of the container group.
func (c *ContainerGroups) UpdateTags(ctx context.Context, resourceGroup, name string, tags map[string]string) (*ContainerGroup, error) {
	res, err := rest.Do[ContainerGroupResource](ctx, c.m.client, rest.Call{
		Method: http.MethodPatch,
		Path:   groupPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "containerGroupName": name},
		Body:   TagsPatch{Tags: to.PtrMap(tags)},
	})
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.UpdateTags: %w", err)
	}

	return c.wrap(res), nil
}

// BeginDelete deletes the container group.
func (c *ContainerGroups) BeginDelete(ctx context.Context, resourceGroup, name string, opts *ContainerGroupsBeginOptions) (*runtime.Poller[rest.Empty], error) {
	p, err := rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   groupPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "containerGroupName": name},
	}, &rest.PollerOptions{ResumeToken: resumeToken(opts)})
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.BeginDelete: %w", err)
	}

	c.m.logger.Info("container group delete requested",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
	)

	return p, nil
}

// Delete deletes the container group and waits for completion.
func (c *ContainerGroups) Delete(ctx context.Context, resourceGroup, name string) error {
	p, err := c.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return err
	}

	if _, err := p.PollUntilDone(ctx, c.m.opts.PollOptions()); err != nil {
		return fmt.Errorf("ContainerGroups.Delete: %w", err)
	}

	return nil
}

// BeginRestart restarts every container of the group in place.
func (c *ContainerGroups) BeginRestart(ctx context.Context, resourceGroup, name string, opts *ContainerGroupsBeginOptions) (*runtime.Poller[rest.Empty], error) {
	p, err := rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   groupPath + "/restart",
		Params: rest.P{"resourceGroupName": resourceGroup, "containerGroupName": name},
		Accept: []int{http.StatusNoContent, http.StatusAccepted},
	}, &rest.PollerOptions{ResumeToken: resumeToken(opts)})
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.BeginRestart: %w", err)
	}

	return p, nil
}

// Stop stops every container of the group. Compute resources are released.
func (c *ContainerGroups) Stop(ctx context.Context, resourceGroup, name string) error {
	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   groupPath + "/stop",
		Params: rest.P{"resourceGroupName": resourceGroup, "containerGroupName": name},
		Accept: []int{http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("ContainerGroups.Stop: %w", err)
	}

	return nil
}

// BeginStart starts a stopped container group.
func (c *ContainerGroups) BeginStart(ctx context.Context, resourceGroup, name string, opts *ContainerGroupsBeginOptions) (*runtime.Poller[rest.Empty], error) {
	p, err := rest.BeginOperation[rest.Empty](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   groupPath + "/start",
		Params: rest.P{"resourceGroupName": resourceGroup, "containerGroupName": name},
		Accept: []int{http.StatusAccepted, http.StatusNoContent},
	}, &rest.PollerOptions{ResumeToken: resumeToken(opts)})
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.BeginStart: %w", err)
	}

	return p, nil
}

// GetLogContent returns the logs of container. A positive tail limits the output to the last tail lines.
func (c *ContainerGroups) GetLogContent(ctx context.Context, resourceGroup, name, container string, tail int) (string, error) {
	q := url.Values{}
	if tail > 0 {
		q.Set("tail", strconv.Itoa(tail))
	}

	res, err := rest.Do[Logs](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   containerPath + "/logs",
		Params: rest.P{"resourceGroupName": resourceGroup, "containerGroupName": name, "containerName": container},
		Query:  q,
	})
	if err != nil {
		return "", fmt.Errorf("ContainerGroups.GetLogContent: %w", err)
	}

	return to.ValOrZero(res.Content), nil
}

// ExecuteCommand starts command in container and returns the websocket endpoint of the session.
func (c *ContainerGroups) ExecuteCommand(ctx context.Context, resourceGroup, name, container, command string, rows, cols int32) (*ContainerExecResponse, error) {
	if command == "" {
		return nil, fmt.Errorf("ContainerGroups.ExecuteCommand: %w", core.NewErrPropertyMustNotBeNil("command"))
	}

	res, err := rest.Do[ContainerExecResponse](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   containerPath + "/exec",
		Params: rest.P{"resourceGroupName": resourceGroup, "containerGroupName": name, "containerName": container},
		Body: ContainerExecRequest{
			Command:      to.Ptr(command),
			TerminalSize: &TerminalSize{Rows: to.Ptr(rows), Cols: to.Ptr(cols)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ContainerGroups.ExecuteCommand: %w", err)
	}

	return &res, nil
}
