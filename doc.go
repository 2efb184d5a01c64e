// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package azmgmt is a typed client for the Azure Resource Manager control plane.
//
// Authenticate builds one manager per service for a subscription:
//
//	cred, _ := azidentity.NewDefaultAzureCredential(nil)
//	az, err := azmgmt.Authenticate(cred, subscriptionID, &core.ClientOptions{Logger: logger})
//	groups, err := az.ResourceGroups().List(ctx, nil)
//
// Service packages (resources, containerinstance, containerservice, appservice and mediaservices) can also be
// used on their own through their NewManager functions. Every call takes a context.Context, long running
// operations return an azcore *runtime.Poller and list operations an azcore *runtime.Pager.
package azmgmt
