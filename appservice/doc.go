// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

/*
Package appservice manages App Service plans, web apps and their deployment slots.

App settings and connection strings are plain maps. A sticky value stays with its slot when slots are
swapped; stickiness is stored on the production site and shared by every slot:

	def := m.WebApps().Define("my-rg", "web1")
	def.Region = core.RegionWestEurope
	def.AppServicePlanID = plan.ID
	def.RuntimeStack = appservice.RuntimeStackNode20LTS
	def.WithAppSetting("FEATURE", "on").WithStickyAppSetting("ENVIRONMENT", "production")

	app, err := m.WebApps().Create(ctx, def)

Content is deployed through the SCM site of the app with a KuduClient.
*/
package appservice
