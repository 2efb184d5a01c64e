// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import (
	"fmt"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/rbac"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"go.uber.org/zap"
)

const (
	moduleName = "azmgmt/appservice"
	apiVersion = "2023-01-01"
)

// Manager groups the App Service collections of one subscription.
type Manager struct {
	subscriptionID string
	cred           azcore.TokenCredential
	opts           *core.ClientOptions
	armOpts        *arm.ClientOptions
	logger         *zap.Logger
	client         *rest.Client
	assigner       *rbac.Assigner

	plans   *AppServicePlans
	webApps *WebApps
	slots   *DeploymentSlots
}

// NewManager creates a Manager for subscriptionID.
func NewManager(subscriptionID string, cred azcore.TokenCredential, opts *core.ClientOptions) (*Manager, error) {
	armOpts, err := opts.ARMOptions()
	if err != nil {
		return nil, fmt.Errorf("appservice.NewManager: %w", err)
	}

	client, err := rest.NewClient(moduleName, apiVersion, subscriptionID, cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("appservice.NewManager: %w", err)
	}

	assigner, err := rbac.NewAssigner(subscriptionID, cred, opts)
	if err != nil {
		return nil, fmt.Errorf("appservice.NewManager: %w", err)
	}

	m := &Manager{
		subscriptionID: subscriptionID,
		cred:           cred,
		opts:           opts,
		armOpts:        armOpts,
		logger:         opts.Log().Named("appservice"),
		client:         client,
		assigner:       assigner,
	}
	m.plans = &AppServicePlans{m: m}
	m.webApps = &WebApps{m: m}
	m.slots = &DeploymentSlots{m: m}

	return m, nil
}

// AppServicePlans returns the App Service plan collection.
func (m *Manager) AppServicePlans() *AppServicePlans { return m.plans }

// WebApps returns the web app collection.
func (m *Manager) WebApps() *WebApps { return m.webApps }

// DeploymentSlots returns the deployment slot collection.
func (m *Manager) DeploymentSlots() *DeploymentSlots { return m.slots }
