// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerservice_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/Azure/azmgmt/containerservice"
	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/resttest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	subPath      = "/subscriptions/" + resttest.SubscriptionID
	clustersRG   = subPath + "/resourceGroups/rg1/providers/Microsoft.ContainerService/managedClusters"
	clusterPath  = clustersRG + "/aks1"
	versionsPath = subPath + "/providers/Microsoft.ContainerService/locations/westeurope/kubernetesVersions"
)

var fastPoll = &runtime.PollUntilDoneOptions{Frequency: time.Millisecond}

func newTestManager(t *testing.T) (*containerservice.Manager, *resttest.Server) {
	t.Helper()

	srv := resttest.NewServer(t)

	m, err := containerservice.NewManager(resttest.SubscriptionID, srv.Credential(), srv.Options())
	require.NoError(t, err)

	return m, srv
}

func versionList() containerservice.KubernetesVersionListResult {
	return containerservice.KubernetesVersionListResult{
		Values: []*containerservice.KubernetesVersion{
			{
				Version: to.Ptr("1.27"),
				PatchVersions: map[string]*containerservice.PatchVersion{
					"1.27.7": {Upgrades: to.SliceOfPtrs("1.27.9", "1.28.3")},
					"1.27.9": {Upgrades: to.SliceOfPtrs("1.28.5", "1.28.3")},
				},
			},
			{
				Version: to.Ptr("1.28"),
				PatchVersions: map[string]*containerservice.PatchVersion{
					"1.28.3": {Upgrades: to.SliceOfPtrs("1.28.5")},
					"1.28.5": {},
				},
			},
			{
				Version:       to.Ptr("1.29"),
				IsPreview:     to.Ptr(true),
				PatchVersions: map[string]*containerservice.PatchVersion{"1.29.0": {}},
			},
		},
	}
}

func TestKubernetesVersions(t *testing.T) {
	t.Parallel()

	kv, err := containerservice.NewKubernetesVersions(versionList())
	require.NoError(t, err)

	assert.Equal(t, []string{"1.27.7", "1.27.9", "1.28.3", "1.28.5", "1.29.0"}, kv.Versions())
	assert.True(t, kv.Set().Contains("1.28.3"))

	latest, err := kv.Latest(false)
	require.NoError(t, err)
	assert.Equal(t, "1.28.5", latest)

	latest, err = kv.Latest(true)
	require.NoError(t, err)
	assert.Equal(t, "1.29.0", latest)

	tests := []struct {
		constraint string
		want       string
		errIs      error
	}{
		{constraint: "latest", want: "1.28.5"},
		{constraint: "", want: "1.28.5"},
		{constraint: "~1.27", want: "1.27.9"},
		{constraint: ">= 1.27, < 1.28", want: "1.27.9"},
		{constraint: "1.28.3", want: "1.28.3"},
		{constraint: ">= 1.29", want: "1.29.0"},
		{constraint: "~1.30", errIs: containerservice.ErrNoVersionFound},
		{constraint: "not a version", errIs: containerservice.ErrVersionConstraintInvalid},
	}

	for _, tc := range tests {
		got, err := kv.Resolve(tc.constraint)
		if tc.errIs != nil {
			assert.ErrorIs(t, err, tc.errIs, tc.constraint)
			continue
		}

		require.NoError(t, err, tc.constraint)
		assert.Equal(t, tc.want, got, tc.constraint)
	}

	upgrades, err := kv.UpgradesFrom("1.27.9")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.28.3", "1.28.5"}, upgrades)

	_, err = kv.UpgradesFrom("1.20.0")
	assert.ErrorIs(t, err, containerservice.ErrNoVersionFound)
}

func validDefinition(m *containerservice.Manager) *containerservice.KubernetesClusterDefinition {
	def := m.KubernetesClusters().Define("rg1", "aks1")
	def.Region = core.RegionWestEurope
	def.WithAgentPool(containerservice.AgentPoolSpec{Name: "system", Mode: containerservice.AgentPoolModeSystem, Count: 3})

	return def
}

func TestKubernetesClusterDefinition_Validate(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	tests := []struct {
		name   string
		mutate func(d *containerservice.KubernetesClusterDefinition)
		errMsg string
	}{
		{
			name:   "valid",
			mutate: func(*containerservice.KubernetesClusterDefinition) {},
		},
		{
			name:   "no pools",
			mutate: func(d *containerservice.KubernetesClusterDefinition) { d.AgentPools = nil },
			errMsg: "property 'agentPoolProfiles' must not be nil",
		},
		{
			name: "no system pool",
			mutate: func(d *containerservice.KubernetesClusterDefinition) {
				d.AgentPools[0].Mode = containerservice.AgentPoolModeUser
			},
			errMsg: "exactly one System mode agent pool is required, found 0",
		},
		{
			name: "two system pools",
			mutate: func(d *containerservice.KubernetesClusterDefinition) {
				d.WithAgentPool(containerservice.AgentPoolSpec{Name: "system2", Mode: containerservice.AgentPoolModeSystem})
			},
			errMsg: "found 2",
		},
		{
			name: "duplicate pool name",
			mutate: func(d *containerservice.KubernetesClusterDefinition) {
				d.WithAgentPool(containerservice.AgentPoolSpec{Name: "system"})
			},
			errMsg: `duplicate agent pool name "system"`,
		},
		{
			name:   "pool name too long",
			mutate: func(d *containerservice.KubernetesClusterDefinition) { d.AgentPools[0].Name = "systempool123" },
			errMsg: "length must be between 1 and 12, but is 13",
		},
		{
			name: "windows pool name too long",
			mutate: func(d *containerservice.KubernetesClusterDefinition) {
				d.WithAgentPool(containerservice.AgentPoolSpec{Name: "winpool", OSType: containerservice.OSTypeWindows})
			},
			errMsg: "length must be between 1 and 6, but is 7",
		},
		{
			name:   "uppercase pool name",
			mutate: func(d *containerservice.KubernetesClusterDefinition) { d.AgentPools[0].Name = "System" },
			errMsg: "lowercase letters and numbers",
		},
		{
			name:   "count too large",
			mutate: func(d *containerservice.KubernetesClusterDefinition) { d.AgentPools[0].Count = 1001 },
			errMsg: "must be between 1 and 1000, but is 1001",
		},
		{
			name: "count outside autoscale range",
			mutate: func(d *containerservice.KubernetesClusterDefinition) {
				d.AgentPools[0].EnableAutoScaling = true
				d.AgentPools[0].MinCount = 4
				d.AgentPools[0].MaxCount = 10
			},
			errMsg: "must be between minCount 4 and maxCount 10",
		},
		{
			name: "dns service ip outside service cidr",
			mutate: func(d *containerservice.KubernetesClusterDefinition) {
				d.Network = &containerservice.NetworkSpec{ServiceCidr: "10.0.0.0/16", DNSServiceIP: "10.1.0.10"}
			},
			errMsg: "10.1.0.10 is not within service CIDR 10.0.0.0/16",
		},
		{
			name: "dns service ip without service cidr",
			mutate: func(d *containerservice.KubernetesClusterDefinition) {
				d.Network = &containerservice.NetworkSpec{DNSServiceIP: "10.0.0.10"}
			},
			errMsg: "requires serviceCidr",
		},
		{
			name: "service principal without secret",
			mutate: func(d *containerservice.KubernetesClusterDefinition) {
				d.ServicePrincipalClientID = "client"
			},
			errMsg: "client ID and secret must be set together",
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

func clusterResponse() map[string]any {
	return map[string]any{
		"id":       clusterPath,
		"name":     "aks1",
		"location": "westeurope",
		"identity": map[string]any{"type": "SystemAssigned", "principalId": "p1"},
		"properties": map[string]any{
			"provisioningState":        "Succeeded",
			"powerState":               map[string]any{"code": "Running"},
			"kubernetesVersion":        "1.28",
			"currentKubernetesVersion": "1.28.5",
			"dnsPrefix":                "aks1-dns",
			"fqdn":                     "aks1-dns.hcp.westeurope.azmk8s.io",
			"nodeResourceGroup":        "MC_rg1_aks1_westeurope",
			"enableRBAC":               true,
			"linuxProfile": map[string]any{
				"adminUsername": "azureuser",
				"ssh":           map[string]any{"publicKeys": []map[string]any{{"keyData": "ssh-rsa AAAA"}}},
			},
			"agentPoolProfiles": []map[string]any{{"name": "system", "count": 3, "mode": "System"}},
			"networkProfile":    map[string]any{"networkPlugin": "azure"},
		},
	}
}

func TestKubernetesClusters_CreateResolvesVersion(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, versionsPath, http.StatusOK, versionList())
	srv.HandleJSON(http.MethodPut, clusterPath, http.StatusOK, clusterResponse())

	def := validDefinition(m)
	def.Version = "~1.28"
	def.LinuxAdminUsername = "azureuser"
	def.SSHPublicKey = "ssh-rsa AAAA"

	cluster, err := m.KubernetesClusters().Create(context.Background(), def)
	require.NoError(t, err)
	assert.Equal(t, "1.28.5", cluster.Version())

	req := srv.Last(t, http.MethodPut, clusterPath)
	assert.Equal(t, "2024-02-01", req.Query.Get("api-version"))

	var body containerservice.ManagedCluster
	req.DecodeBody(t, &body)
	assert.Equal(t, "1.28.5", to.ValOrZero(body.Properties.KubernetesVersion))
	assert.Equal(t, "aks1-dns", to.ValOrZero(body.Properties.DNSPrefix))
	assert.True(t, to.ValOrZero(body.Properties.EnableRBAC))
	assert.Equal(t, core.IdentityTypeSystemAssigned, body.Identity.Type)
	assert.Nil(t, body.Properties.ServicePrincipalProfile)

	require.Len(t, body.Properties.AgentPoolProfiles, 1)
	pool := body.Properties.AgentPoolProfiles[0]
	assert.Equal(t, "system", to.ValOrZero(pool.Name))
	assert.Equal(t, int32(3), to.ValOrZero(pool.Count))
	assert.Equal(t, "Standard_D2s_v3", to.ValOrZero(pool.VMSize))
	assert.Equal(t, containerservice.AgentPoolTypeVirtualMachineScaleSets, to.ValOrZero(pool.Type))
}

func TestKubernetesClusters_CreateExactVersion(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodPut, clusterPath, http.StatusOK, clusterResponse())

	def := validDefinition(m)
	def.Version = "1.27.7"
	def.ServicePrincipalClientID = "client"
	def.ServicePrincipalSecret = "secret"

	_, err := m.KubernetesClusters().Create(context.Background(), def)
	require.NoError(t, err)
	assert.Equal(t, 0, srv.Count(http.MethodGet, versionsPath))

	var body containerservice.ManagedCluster
	srv.Last(t, http.MethodPut, clusterPath).DecodeBody(t, &body)
	assert.Equal(t, "1.27.7", to.ValOrZero(body.Properties.KubernetesVersion))
	assert.Nil(t, body.Identity)
	assert.Equal(t, "client", to.ValOrZero(body.Properties.ServicePrincipalProfile.ClientID))
}

func TestKubernetesCluster_Accessors(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, clusterPath, http.StatusOK, clusterResponse())

	cluster, err := m.KubernetesClusters().Get(context.Background(), "rg1", "aks1")
	require.NoError(t, err)

	assert.Equal(t, "rg1", cluster.ResourceGroup())
	assert.Equal(t, "Succeeded", cluster.ProvisioningState())
	assert.Equal(t, containerservice.PowerStateCodeRunning, cluster.PowerState())
	assert.Equal(t, "aks1-dns", cluster.DNSPrefix())
	assert.Equal(t, "aks1-dns.hcp.westeurope.azmk8s.io", cluster.FQDN())
	assert.Equal(t, "MC_rg1_aks1_westeurope", cluster.NodeResourceGroup())
	assert.Equal(t, "azureuser", cluster.LinuxRootUsername())
	assert.Equal(t, "ssh-rsa AAAA", cluster.SSHKey())
	assert.Empty(t, cluster.ServicePrincipalClientID())
	assert.True(t, cluster.EnableRBAC())
	assert.Contains(t, cluster.AgentPools(), "system")
	assert.Equal(t, containerservice.NetworkPluginAzure, to.ValOrZero(cluster.NetworkProfile().NetworkPlugin))
	assert.Equal(t, "p1", cluster.SystemAssignedPrincipalID())
}

func TestKubernetesClusters_KubeConfig(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	kubeconfig := "apiVersion: v1\nkind: Config\n"
	srv.HandleJSON(http.MethodPost, clusterPath+"/listClusterAdminCredential", http.StatusOK, map[string]any{
		"kubeconfigs": []map[string]any{{"name": "clusterAdmin", "value": base64.StdEncoding.EncodeToString([]byte(kubeconfig))}},
	})
	srv.HandleJSON(http.MethodPost, clusterPath+"/listClusterUserCredential", http.StatusOK, map[string]any{"kubeconfigs": []any{}})

	content, err := m.KubernetesClusters().AdminKubeConfigContent(context.Background(), "rg1", "aks1")
	require.NoError(t, err)
	assert.Equal(t, kubeconfig, string(content))

	_, err = m.KubernetesClusters().UserKubeConfigContent(context.Background(), "rg1", "aks1")
	assert.ErrorIs(t, err, containerservice.ErrNoKubeConfig)
}

func TestKubernetesClusters_ListAcrossResourceGroups(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, subPath+"/resourcegroups", http.StatusOK, map[string]any{
		"value": []map[string]any{{"name": "rg1"}, {"name": "rg2"}},
	})
	srv.HandleJSON(http.MethodGet, clustersRG, http.StatusOK, map[string]any{"value": []any{clusterResponse()}})
	srv.HandleJSON(http.MethodGet, subPath+"/resourceGroups/rg2/providers/Microsoft.ContainerService/managedClusters", http.StatusOK, map[string]any{
		"value": []map[string]any{{"name": "aks2"}},
	})

	clusters, err := m.KubernetesClusters().List(context.Background(), &containerservice.KubernetesClustersListOptions{AcrossResourceGroups: true})
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, "aks1", to.ValOrZero(clusters[0].Name))
	assert.Equal(t, "aks2", to.ValOrZero(clusters[1].Name))
	assert.Equal(t, "2021-04-01", srv.Last(t, http.MethodGet, subPath+"/resourcegroups").Query.Get("api-version"))
	assert.Equal(t, "2024-02-01", srv.Last(t, http.MethodGet, clustersRG).Query.Get("api-version"))
}

func TestKubernetesClusters_StartStop(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)

	for _, action := range []string{"start", "stop"} {
		opPath := "/operationresults/" + action
		srv.Handle(http.MethodPost, clusterPath+"/"+action, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Location", srv.AbsURL(opPath))
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusAccepted)
		})
		srv.Handle(http.MethodGet, opPath, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	}

	ctx := context.Background()

	p, err := m.KubernetesClusters().BeginStop(ctx, "rg1", "aks1", nil)
	require.NoError(t, err)
	_, err = p.PollUntilDone(ctx, fastPoll)
	require.NoError(t, err)

	p, err = m.KubernetesClusters().BeginStart(ctx, "rg1", "aks1", nil)
	require.NoError(t, err)
	_, err = p.PollUntilDone(ctx, fastPoll)
	require.NoError(t, err)

	assert.Equal(t, 1, srv.Count(http.MethodGet, "/operationresults/start"))
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/operationresults/stop"))
}

func TestKubernetesClusters_UpgradeProfile(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	srv.HandleJSON(http.MethodGet, clusterPath+"/upgradeProfiles/default", http.StatusOK, map[string]any{
		"properties": map[string]any{
			"controlPlaneProfile": map[string]any{
				"kubernetesVersion": "1.27.9",
				"upgrades":          []map[string]any{{"kubernetesVersion": "1.28.5"}},
			},
		},
	})

	profile, err := m.KubernetesClusters().GetUpgradeProfile(context.Background(), "rg1", "aks1")
	require.NoError(t, err)
	require.Len(t, profile.Properties.ControlPlaneProfile.Upgrades, 1)
	assert.Equal(t, "1.28.5", to.ValOrZero(profile.Properties.ControlPlaneProfile.Upgrades[0].KubernetesVersion))
}

func TestAgentPools_Scale(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	poolPath := clusterPath + "/agentPools/user1"
	autoPath := clusterPath + "/agentPools/auto1"

	srv.HandleJSON(http.MethodGet, poolPath, http.StatusOK, map[string]any{
		"name": "user1",
		"properties": map[string]any{
			"count": 3, "vmSize": "Standard_D4s_v3", "mode": "User",
			"provisioningState": "Succeeded", "powerState": map[string]any{"code": "Running"},
		},
	})
	srv.HandleJSON(http.MethodPut, poolPath, http.StatusOK, map[string]any{
		"name":       "user1",
		"properties": map[string]any{"count": 5, "provisioningState": "Succeeded"},
	})
	srv.HandleJSON(http.MethodGet, autoPath, http.StatusOK, map[string]any{
		"name":       "auto1",
		"properties": map[string]any{"count": 3, "enableAutoScaling": true, "minCount": 1, "maxCount": 5},
	})

	ctx := context.Background()

	p, err := m.AgentPools().BeginScale(ctx, "rg1", "aks1", "user1", 5)
	require.NoError(t, err)
	pool, err := p.PollUntilDone(ctx, fastPoll)
	require.NoError(t, err)
	assert.Equal(t, int32(5), to.ValOrZero(pool.Properties.Count))

	var body containerservice.AgentPool
	srv.Last(t, http.MethodPut, poolPath).DecodeBody(t, &body)
	assert.Equal(t, int32(5), to.ValOrZero(body.Properties.Count))
	assert.Equal(t, "Standard_D4s_v3", to.ValOrZero(body.Properties.VMSize))
	assert.Nil(t, body.Properties.ProvisioningState)
	assert.Nil(t, body.Properties.PowerState)

	_, err = m.AgentPools().BeginScale(ctx, "rg1", "aks1", "auto1", 4)
	assert.ErrorContains(t, err, "pool is autoscaled")

	_, err = m.AgentPools().BeginScale(ctx, "rg1", "aks1", "user1", 0)
	var rangeErr *core.ErrPropertyOutOfRange
	assert.ErrorAs(t, err, &rangeErr)
}

func TestAgentPools_CreateOrUpdate(t *testing.T) {
	t.Parallel()

	m, srv := newTestManager(t)
	poolPath := clusterPath + "/agentPools/gpu"
	srv.HandleJSON(http.MethodPut, poolPath, http.StatusOK, map[string]any{
		"name":       "gpu",
		"properties": map[string]any{"count": 2, "provisioningState": "Succeeded"},
	})
	srv.HandleJSON(http.MethodGet, clusterPath+"/agentPools", http.StatusOK, map[string]any{
		"value": []map[string]any{{"name": "system"}, {"name": "gpu"}},
	})

	ctx := context.Background()

	p, err := m.AgentPools().BeginCreateOrUpdate(ctx, "rg1", "aks1", containerservice.AgentPoolSpec{
		Name: "gpu", Count: 2, VMSize: "Standard_NC6s_v3", Taints: []string{"sku=gpu:NoSchedule"},
		EnableAutoScaling: true, MinCount: 1, MaxCount: 4,
	})
	require.NoError(t, err)
	_, err = p.PollUntilDone(ctx, fastPoll)
	require.NoError(t, err)

	var body containerservice.AgentPool
	srv.Last(t, http.MethodPut, poolPath).DecodeBody(t, &body)
	assert.Equal(t, containerservice.AgentPoolModeUser, to.ValOrZero(body.Properties.Mode))
	assert.Equal(t, int32(4), to.ValOrZero(body.Properties.MaxCount))
	assert.Equal(t, []string{"sku=gpu:NoSchedule"}, to.SliceOfVals(body.Properties.NodeTaints))

	pools, err := m.AgentPools().List(ctx, "rg1", "aks1")
	require.NoError(t, err)
	assert.Len(t, pools, 2)
}
