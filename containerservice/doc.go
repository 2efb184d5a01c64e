// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

/*
Package containerservice manages Azure Kubernetes Service clusters and their agent pools.

A cluster definition names a Kubernetes version, a semver constraint or "latest". The version is
resolved against the versions offered in the cluster region when the cluster is submitted:

	def := m.KubernetesClusters().Define("my-rg", "aks1")
	def.Region = core.RegionWestEurope
	def.Version = "~1.28"
	def.WithAgentPool(containerservice.AgentPoolSpec{Name: "system", Mode: containerservice.AgentPoolModeSystem, Count: 3})

	cluster, err := m.KubernetesClusters().Create(ctx, def)
*/
package containerservice
