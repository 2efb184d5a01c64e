// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

/*
Package resources manages core Resource Manager entities: resource groups, template deployments,
generic resources, resource providers, tags, subscriptions and policy.

Create a Manager for a subscription and use its collections:

	m, err := resources.NewManager(subscriptionID, cred, nil)
	if err != nil {
	    // handle error
	}

	rg, err := m.ResourceGroups().Create(ctx, "my-rg", core.RegionWestEurope, nil)

Deployments are described by a DeploymentDefinition which is validated before submission:

	def := m.Deployments().Define("my-rg", "deploy-1")
	def.Template = tmpl
	def.Parameters = map[string]any{"sku": "Standard_LRS"}

	poller, err := m.Deployments().BeginCreate(ctx, def, nil)
*/
package resources
