// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azmgmt

import (
	"errors"
	"fmt"

	"github.com/Azure/azmgmt/appservice"
	"github.com/Azure/azmgmt/containerinstance"
	"github.com/Azure/azmgmt/containerservice"
	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/mediaservices"
	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.uber.org/zap"
)

// ErrNoSubscription is returned by Authenticate when no subscription is supplied.
var ErrNoSubscription = errors.New("subscription id must not be empty")

// Azure is the entry point to the managers of one subscription.
// Do not create this directly, use Authenticate instead.
type Azure struct {
	subscriptionID string
	opts           *core.ClientOptions
	logger         *zap.Logger

	resources         *resources.Manager
	containerInstance *containerinstance.Manager
	containerService  *containerservice.Manager
	appService        *appservice.Manager
	mediaServices     *mediaservices.Manager
}

// Authenticate builds every manager for subscriptionID once, sharing cred and opts. opts may be nil.
func Authenticate(cred azcore.TokenCredential, subscriptionID string, opts *core.ClientOptions) (*Azure, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("azmgmt.Authenticate: %w", ErrNoSubscription)
	}

	if opts == nil {
		opts = &core.ClientOptions{}
	}

	az := &Azure{
		subscriptionID: subscriptionID,
		opts:           opts,
		logger:         opts.Log(),
	}

	var err error

	if az.resources, err = resources.NewManager(subscriptionID, cred, opts); err != nil {
		return nil, fmt.Errorf("azmgmt.Authenticate: %w", err)
	}

	if az.containerInstance, err = containerinstance.NewManager(subscriptionID, cred, opts); err != nil {
		return nil, fmt.Errorf("azmgmt.Authenticate: %w", err)
	}

	if az.containerService, err = containerservice.NewManager(subscriptionID, cred, opts); err != nil {
		return nil, fmt.Errorf("azmgmt.Authenticate: %w", err)
	}

	if az.appService, err = appservice.NewManager(subscriptionID, cred, opts); err != nil {
		return nil, fmt.Errorf("azmgmt.Authenticate: %w", err)
	}

	if az.mediaServices, err = mediaservices.NewManager(subscriptionID, cred, opts); err != nil {
		return nil, fmt.Errorf("azmgmt.Authenticate: %w", err)
	}

	az.logger.Debug("managers created", zap.String("subscription_id", subscriptionID))

	return az, nil
}

// SubscriptionID returns the subscription the managers operate on.
func (az *Azure) SubscriptionID() string { return az.subscriptionID }

// Resources returns the core Resource Manager manager.
func (az *Azure) Resources() *resources.Manager { return az.resources }

// ContainerInstance returns the Container Instances manager.
func (az *Azure) ContainerInstance() *containerinstance.Manager { return az.containerInstance }

// ContainerService returns the Kubernetes Service manager.
func (az *Azure) ContainerService() *containerservice.Manager { return az.containerService }

// AppService returns the App Service manager.
func (az *Azure) AppService() *appservice.Manager { return az.appService }

// MediaServices returns the Media Services manager.
func (az *Azure) MediaServices() *mediaservices.Manager { return az.mediaServices }

// ResourceGroups returns the resource group collection.
func (az *Azure) ResourceGroups() *resources.ResourceGroups { return az.resources.ResourceGroups() }

// Deployments returns the template deployment collection.
func (az *Azure) Deployments() *resources.Deployments { return az.resources.Deployments() }

// GenericResources returns the collection addressing any resource by id.
func (az *Azure) GenericResources() *resources.GenericResources {
	return az.resources.GenericResources()
}

// Providers returns the resource provider collection.
func (az *Azure) Providers() *resources.Providers { return az.resources.Providers() }

// Tags returns the subscription tag collection.
func (az *Azure) Tags() *resources.TagsClient { return az.resources.Tags() }

// Subscriptions returns the subscription collection.
func (az *Azure) Subscriptions() *resources.Subscriptions { return az.resources.Subscriptions() }

// PolicyDefinitions returns the policy definition collection.
func (az *Azure) PolicyDefinitions() *resources.PolicyDefinitions {
	return az.resources.PolicyDefinitions()
}

// PolicyAssignments returns the policy assignment collection.
func (az *Azure) PolicyAssignments() *resources.PolicyAssignments {
	return az.resources.PolicyAssignments()
}

// ContainerGroups returns the container group collection.
func (az *Azure) ContainerGroups() *containerinstance.ContainerGroups {
	return az.containerInstance.ContainerGroups()
}

// KubernetesClusters returns the managed cluster collection.
func (az *Azure) KubernetesClusters() *containerservice.KubernetesClusters {
	return az.containerService.KubernetesClusters()
}

// AppServicePlans returns the App Service plan collection.
func (az *Azure) AppServicePlans() *appservice.AppServicePlans {
	return az.appService.AppServicePlans()
}

// WebApps returns the web app collection.
func (az *Azure) WebApps() *appservice.WebApps { return az.appService.WebApps() }
