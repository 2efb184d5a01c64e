// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerinstance_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/Azure/azmgmt/containerinstance"
	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/rbac"
	"github.com/Azure/azmgmt/internal/resttest"
	"github.com/Azure/azmgmt/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	subPath   = "/subscriptions/" + resttest.SubscriptionID
	groupsRG  = subPath + "/resourceGroups/rg1/providers/Microsoft.ContainerInstance/containerGroups"
	groupPath = groupsRG + "/web"
	groupID   = groupPath
)

func newTestManager(t *testing.T) (*containerinstance.Manager, *resttest.Server) {
	t.Helper()

	srv := resttest.NewServer(t)

	m, err := containerinstance.NewManager(resttest.SubscriptionID, srv.Credential(), srv.Options())
	require.NoError(t, err)

	return m, srv
}

func validDefinition(m *containerinstance.Manager) *containerinstance.ContainerGroupDefinition {
	def := m.ContainerGroups().Define("rg1", "web")
	def.Region = core.RegionWestEurope
	def.Containers = []containerinstance.ContainerSpec{{
		Name:  "nginx",
		Image: "nginx:latest",
		Ports: []containerinstance.PortSpec{{Port: 80, External: true}},
		Env:   map[string]string{"B": "2", "A": "1"},
	}}

	return def
}

func groupResponse(state string) map[string]any {
	return map[string]any{
		"id":       groupID,
		"name":     "web",
		"location": "westeurope",
		"identity": map[string]any{"type": "SystemAssigned", "principalId": "principal-1"},
		"properties": map[string]any{
			"provisioningState": "Succeeded",
			"osType":            "Linux",
			"containers": []map[string]any{{
				"name":       "nginx",
				"properties": map[string]any{"image": "nginx:latest", "resources": map[string]any{"requests": map[string]any{"cpu": 1, "memoryInGB": 1.5}}},
			}},
			"ipAddress": map[string]any{
				"type":         "Public",
				"ip":           "20.1.2.3",
				"dnsNameLabel": "web",
				"fqdn":         "web.westeurope.azurecontainer.io",
				"ports":        []map[string]any{{"port": 80, "protocol": "TCP"}, {"port": 443, "protocol": "TCP"}},
			},
			"imageRegistryCredentials": []map[string]any{{"server": "myregistry.azurecr.io", "username": "u"}},
			"volumes":                  []map[string]any{{"name": "cache", "emptyDir": map[string]any{}}},
			"instanceView": map[string]any{
				"state":  state,
				"events": []map[string]any{{"name": "Pulling", "message": "pulling image"}},
			},
		},
	}
}

func TestContainerGroupDefinition_Validate(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	tests := []struct {
		name   string
		mutate func(d *containerinstance.ContainerGroupDefinition)
		errMsg string
	}{
		{
			name:   "valid",
			mutate: func(*containerinstance.ContainerGroupDefinition) {},
		},
		{
			name:   "missing region",
			mutate: func(d *containerinstance.ContainerGroupDefinition) { d.Region = "" },
			errMsg: "property 'location' must not be nil",
		},
		{
			name:   "uppercase name",
			mutate: func(d *containerinstance.ContainerGroupDefinition) { d.Name = "Web" },
			errMsg: "property 'name' is invalid",
		},
		{
			name:   "no containers",
			mutate: func(d *containerinstance.ContainerGroupDefinition) { d.Containers = nil },
			errMsg: "property 'containers' must not be nil",
		},
		{
			name: "duplicate container names",
			mutate: func(d *containerinstance.ContainerGroupDefinition) {
				d.Containers = append(d.Containers, containerinstance.ContainerSpec{Name: "nginx", Image: "busybox"})
			},
			errMsg: `duplicate container name "nginx"`,
		},
		{
			name: "same external port twice",
			mutate: func(d *containerinstance.ContainerGroupDefinition) {
				d.Containers = append(d.Containers, containerinstance.ContainerSpec{
					Name: "sidecar", Image: "busybox", Ports: []containerinstance.PortSpec{{Port: 80, External: true}},
				})
			},
			errMsg: "port 80 exposed by more than one container",
		},
		{
			name: "negative cpu",
			mutate: func(d *containerinstance.ContainerGroupDefinition) {
				d.Containers[0].CPU = -1
			},
			errMsg: "containers[nginx].cpu",
		},
		{
			name: "negative memory",
			mutate: func(d *containerinstance.ContainerGroupDefinition) {
				d.Containers[0].MemoryInGB = -0.5
			},
			errMsg: "containers[nginx].memoryInGB",
		},
		{
			name: "undefined volume",
			mutate: func(d *containerinstance.ContainerGroupDefinition) {
				d.Containers[0].VolumeMounts = []containerinstance.VolumeMount{{Name: to.Ptr("data"), MountPath: to.Ptr("/data")}}
			},
			errMsg: `volume "data" is not defined`,
		},
		{
			name: "volume with two sources",
			mutate: func(d *containerinstance.ContainerGroupDefinition) {
				v := containerinstance.EmptyDirVolume("data")
				v.GitRepo = &containerinstance.GitRepoVolumeSource{Repository: to.Ptr("https://example.com/repo.git")}
				d.Volumes = []*containerinstance.Volume{v}
			},
			errMsg: "exactly one volume source must be set",
		},
		{
			name: "dns label on private ip",
			mutate: func(d *containerinstance.ContainerGroupDefinition) {
				d.IPAddressType = containerinstance.IPAddressTypePrivate
				d.SubnetIDs = []string{"subnet"}
				d.DNSNameLabel = "web"
			},
			errMsg: "requires a public IP address",
		},
		{
			name: "private ip without subnet",
			mutate: func(d *containerinstance.ContainerGroupDefinition) {
				d.IPAddressType = containerinstance.IPAddressTypePrivate
			},
			errMsg: "property 'subnetIds' must not be nil",
		},
		{
			name: "missing os type",
			mutate: func(d *containerinstance.ContainerGroupDefinition) {
				d.OSType = ""
			},
			errMsg: "property 'osType' must not be nil",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			def := validDefinition(m)
			tc.mutate(def)

			err := def.Validate()
			if tc.errMsg == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestContainerGroupDefinition_Identity(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	def := validDefinition(m)
	assert.Nil(t, def.Identity())

	def.WithUserAssignedIdentity("/id/a").WithSystemAssignedIdentity()
	assert.Equal(t, core.IdentityTypeSystemAssignedUserAssigned, def.Identity().Type)

	def.WithoutSystemAssignedIdentity()
	assert.Equal(t, core.IdentityTypeUserAssigned, def.Identity().Type)

	def.WithoutUserAssignedIdentity("/id/a")
	assert.Equal(t, core.IdentityTypeNone, def.Identity().Type)

	def.WithRoleAssignment(subPath, rbac.RoleReader)
	assert.Equal(t, core.IdentityTypeSystemAssigned, def.Identity().Type)
	assert.Equal(t, []containerinstance.RoleAssignment{{Scope: subPath, Role: rbac.RoleReader}}, def.RoleAssignments())
}

func TestContainerGroups_Create(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodPut, groupPath, http.StatusOK, groupResponse("Running"))

	def := validDefinition(m)
	def.DNSNameLabel = "web"
	def.Volumes = []*containerinstance.Volume{containerinstance.SecretVolume("secrets", map[string]string{"token": "s3cret"})}
	def.Containers[0].VolumeMounts = []containerinstance.VolumeMount{{Name: to.Ptr("secrets"), MountPath: to.Ptr("/mnt/secrets")}}
	def.Containers[0].SecureEnv = map[string]string{"PASSWORD": "p"}

	cg, err := m.ContainerGroups().Create(context.Background(), def)
	require.NoError(t, err)
	assert.Equal(t, "Running", cg.State())

	req := srv.Last(t, http.MethodPut, groupPath)
	assert.Equal(t, "2023-05-01", req.Query.Get("api-version"))

	var body containerinstance.ContainerGroupResource
	req.DecodeBody(t, &body)
	assert.Equal(t, "westeurope", to.ValOrZero(body.Location))
	assert.Equal(t, containerinstance.RestartPolicyAlways, to.ValOrZero(body.Properties.RestartPolicy))
	assert.Equal(t, containerinstance.IPAddressTypePublic, to.ValOrZero(body.Properties.IPAddress.Type))
	assert.Equal(t, "web", to.ValOrZero(body.Properties.IPAddress.DNSNameLabel))
	require.Len(t, body.Properties.IPAddress.Ports, 1)
	assert.Equal(t, int32(80), to.ValOrZero(body.Properties.IPAddress.Ports[0].Port))

	props := body.Properties.Containers[0].Properties
	assert.Equal(t, 1.0, to.ValOrZero(props.Resources.Requests.CPU))
	assert.Equal(t, 1.5, to.ValOrZero(props.Resources.Requests.MemoryInGB))
	require.Len(t, props.EnvironmentVariables, 3)
	assert.Equal(t, "A", to.ValOrZero(props.EnvironmentVariables[0].Name))
	assert.Equal(t, "B", to.ValOrZero(props.EnvironmentVariables[1].Name))
	assert.Equal(t, "p", to.ValOrZero(props.EnvironmentVariables[2].SecureValue))
	assert.Nil(t, props.EnvironmentVariables[2].Value)

	secret := body.Properties.Volumes[0].Secret["token"]
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("s3cret")), to.ValOrZero(secret))
}

func TestContainerGroups_CreateInvalidNotSent(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	def := validDefinition(m)
	def.Containers = nil

	_, err := m.ContainerGroups().Create(context.Background(), def)
	require.Error(t, err)
	assert.Empty(t, srv.Requests())
}

func TestContainerGroups_CreateWithRoleAssignment(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodPut, groupPath, http.StatusOK, groupResponse("Running"))

	roleID := subPath + "/providers/Microsoft.Authorization/roleDefinitions/acdd72a7-3385-48ef-bd42-f606fba81ae7"
	scope := subPath + "/resourceGroups/data"
	raPath := scope + "/providers/Microsoft.Authorization/roleAssignments/" + rbac.AssignmentName("principal-1", scope, roleID)

	def := validDefinition(m).WithRoleAssignment(scope, roleID)

	// Role assignment endpoint is not routed yet: the group is still returned.
	cg, err := m.ContainerGroups().Create(context.Background(), def)
	require.Error(t, err)
	assert.True(t, errors.Is(err, containerinstance.ErrRoleAssignment))
	require.NotNil(t, cg)
	assert.Equal(t, "principal-1", cg.SystemAssignedPrincipalID())

	srv.HandleJSON(http.MethodPut, raPath, http.StatusCreated, map[string]any{"name": "ra"})

	_, err = m.ContainerGroups().Create(context.Background(), def)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Count(http.MethodPut, raPath))

	var body containerinstance.ContainerGroupResource
	srv.Last(t, http.MethodPut, groupPath).DecodeBody(t, &body)
	assert.Equal(t, core.IdentityTypeSystemAssigned, body.Identity.Type)
}

func TestContainerGroup_Accessors(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, groupPath, http.StatusOK, groupResponse("Running"))

	cg, err := m.ContainerGroups().Get(context.Background(), "rg1", "web")
	require.NoError(t, err)

	assert.Equal(t, "rg1", cg.ResourceGroup())
	assert.Equal(t, "Succeeded", cg.ProvisioningState())
	assert.Equal(t, "20.1.2.3", cg.IPAddress())
	assert.True(t, cg.IsIPAddressPublic())
	assert.Equal(t, "web.westeurope.azurecontainer.io", cg.FQDN())
	assert.Equal(t, "web", cg.DNSPrefix())
	assert.True(t, cg.ExternalPorts().Contains(80, 443))
	assert.Contains(t, cg.Containers(), "nginx")
	assert.Contains(t, cg.Volumes(), "cache")
	assert.True(t, cg.ImageRegistryServers().Contains("myregistry.azurecr.io"))
	require.Len(t, cg.Events(), 1)
	assert.Equal(t, "Pulling", to.ValOrZero(cg.Events()[0].Name))
}

func TestContainerGroups_GetMissing(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	_, err := m.ContainerGroups().Get(context.Background(), "rg1", "web")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}

func TestContainerGroups_ListRefreshesEachGroup(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	other := subPath + "/resourceGroups/rg2/providers/Microsoft.ContainerInstance/containerGroups/api"

	srv.HandleJSON(http.MethodGet, subPath+"/providers/Microsoft.ContainerInstance/containerGroups", http.StatusOK, map[string]any{
		"value": []map[string]any{
			{"id": groupID, "name": "web"},
			{"id": other, "name": "api"},
		},
	})
	srv.HandleJSON(http.MethodGet, groupPath, http.StatusOK, groupResponse("Running"))
	srv.HandleJSON(http.MethodGet, other, http.StatusOK, map[string]any{
		"id": other, "name": "api",
		"properties": map[string]any{"instanceView": map[string]any{"state": "Stopped"}},
	})

	groups, err := m.ContainerGroups().List(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Running", groups[0].State())
	assert.Equal(t, "Stopped", groups[1].State())
	assert.Equal(t, "rg2", groups[1].ResourceGroup())
	assert.Equal(t, 1, srv.Count(http.MethodGet, other))
}

func TestContainerGroups_Lifecycle(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, groupPath, http.StatusOK, groupResponse("Running"))
	srv.HandleJSON(http.MethodPost, groupPath+"/restart", http.StatusNoContent, nil)
	srv.HandleJSON(http.MethodPost, groupPath+"/stop", http.StatusNoContent, nil)
	srv.HandleJSON(http.MethodPost, groupPath+"/start", http.StatusNoContent, nil)
	srv.HandleJSON(http.MethodDelete, groupPath, http.StatusOK, groupResponse("Running"))
	srv.HandleJSON(http.MethodPatch, groupPath, http.StatusOK, groupResponse("Running"))

	ctx := context.Background()

	cg, err := m.ContainerGroups().Get(ctx, "rg1", "web")
	require.NoError(t, err)

	require.NoError(t, cg.Restart(ctx))
	require.NoError(t, cg.Stop(ctx))

	p, err := m.ContainerGroups().BeginStart(ctx, "rg1", "web", nil)
	require.NoError(t, err)
	_, err = p.PollUntilDone(ctx, nil)
	require.NoError(t, err)

	_, err = m.ContainerGroups().UpdateTags(ctx, "rg1", "web", map[string]string{"env": "prod"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":{"env":"prod"}}`, string(srv.Last(t, http.MethodPatch, groupPath).Body))

	require.NoError(t, m.ContainerGroups().Delete(ctx, "rg1", "web"))

	assert.Equal(t, 1, srv.Count(http.MethodPost, groupPath+"/restart"))
	assert.Equal(t, 1, srv.Count(http.MethodPost, groupPath+"/stop"))
	assert.Equal(t, 1, srv.Count(http.MethodDelete, groupPath))
}

func TestContainerGroups_LogsAndExec(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	logsPath := groupPath + "/containers/nginx/logs"
	execPath := groupPath + "/containers/nginx/exec"
	srv.HandleJSON(http.MethodGet, logsPath, http.StatusOK, map[string]any{"content": "line1\nline2\n"})
	srv.HandleJSON(http.MethodPost, execPath, http.StatusOK, map[string]any{"webSocketUri": "wss://exec", "password": "pw"})

	ctx := context.Background()

	logs, err := m.ContainerGroups().GetLogContent(ctx, "rg1", "web", "nginx", 10)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", logs)
	assert.Equal(t, "10", srv.Last(t, http.MethodGet, logsPath).Query.Get("tail"))

	_, err = m.ContainerGroups().GetLogContent(ctx, "rg1", "web", "nginx", 0)
	require.NoError(t, err)
	assert.False(t, srv.Last(t, http.MethodGet, logsPath).Query.Has("tail"))

	res, err := m.ContainerGroups().ExecuteCommand(ctx, "rg1", "web", "nginx", "/bin/sh", 24, 80)
	require.NoError(t, err)
	assert.Equal(t, "wss://exec", to.ValOrZero(res.WebSocketURI))
	assert.JSONEq(t, `{"command":"/bin/sh","terminalSize":{"rows":24,"cols":80}}`, string(srv.Last(t, http.MethodPost, execPath).Body))

	_, err = m.ContainerGroups().ExecuteCommand(ctx, "rg1", "web", "nginx", "", 24, 80)
	var nilErr *core.ErrPropertyMustNotBeNil
	assert.ErrorAs(t, err, &nilErr)
}

func TestLocations(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	loc := subPath + "/providers/Microsoft.ContainerInstance/locations/westeurope"
	srv.HandleJSON(http.MethodGet, loc+"/cachedImages", http.StatusOK, map[string]any{
		"value": []map[string]any{{"osType": "Linux", "image": "mcr.microsoft.com/azuredocs/aci-helloworld"}},
	})
	srv.HandleJSON(http.MethodGet, loc+"/capabilities", http.StatusOK, map[string]any{
		"value": []map[string]any{{"osType": "Linux", "capabilities": map[string]any{"maxCpu": 4, "maxMemoryInGB": 16}}},
	})
	srv.HandleJSON(http.MethodGet, loc+"/usages", http.StatusOK, map[string]any{
		"value": []map[string]any{{"currentValue": 3, "limit": 100, "name": map[string]any{"value": "ContainerGroups"}}},
	})
	srv.HandleJSON(http.MethodGet, "/providers/Microsoft.ContainerInstance/operations", http.StatusOK, map[string]any{
		"value": []map[string]any{{"name": "Microsoft.ContainerInstance/containerGroups/read"}},
	})

	ctx := context.Background()

	images, err := m.Locations().ListCachedImages(ctx, core.RegionWestEurope)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "Linux", to.ValOrZero(images[0].OSType))

	caps, err := m.Locations().ListCapabilities(ctx, core.RegionWestEurope)
	require.NoError(t, err)
	require.Len(t, caps, 1)
	assert.Equal(t, 4.0, to.ValOrZero(caps[0].Capabilities.MaxCPU))

	usages, err := m.Locations().ListUsages(ctx, core.RegionWestEurope)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, int32(100), to.ValOrZero(usages[0].Limit))

	ops, err := m.ListOperations(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
}
