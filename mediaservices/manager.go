// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.uber.org/zap"
)

const (
	moduleName = "azmgmt/mediaservices"
	apiVersion = "2023-01-01"
	// Transforms and jobs are served by the encoding API, versioned separately.
	encodingAPIVersion = "2022-07-01"
)

const (
	accountsPath        = "/subscriptions/{subscriptionId}/providers/Microsoft.Media/mediaservices"
	accountsInGroupPath = "/subscriptions/{subscriptionId}/resourceGroups/{resourceGroupName}/providers/Microsoft.Media/mediaservices"
	accountPath         = accountsInGroupPath + "/{accountName}"
)

// Manager groups the Media Services collections of one subscription.
type Manager struct {
	subscriptionID string
	opts           *core.ClientOptions
	logger         *zap.Logger
	client         *rest.Client
	encoding       *rest.Client

	accounts           *Accounts
	assets             *Assets
	transforms         *Transforms
	jobs               *Jobs
	contentKeyPolicies *ContentKeyPolicies
	streamingLocators  *StreamingLocators
}

// NewManager creates a Manager for subscriptionID.
func NewManager(subscriptionID string, cred azcore.TokenCredential, opts *core.ClientOptions) (*Manager, error) {
	armOpts, err := opts.ARMOptions()
	if err != nil {
		return nil, fmt.Errorf("mediaservices.NewManager: %w", err)
	}

	client, err := rest.NewClient(moduleName, apiVersion, subscriptionID, cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("mediaservices.NewManager: %w", err)
	}

	m := &Manager{
		subscriptionID: subscriptionID,
		opts:           opts,
		logger:         opts.Log().Named("mediaservices"),
		client:         client,
		encoding:       client.WithAPIVersion(encodingAPIVersion),
	}
	m.accounts = &Accounts{m: m}
	m.assets = &Assets{m: m}
	m.transforms = &Transforms{m: m}
	m.jobs = &Jobs{m: m}
	m.contentKeyPolicies = &ContentKeyPolicies{m: m}
	m.streamingLocators = &StreamingLocators{m: m}

	return m, nil
}

// Accounts returns the Media Services account collection.
func (m *Manager) Accounts() *Accounts { return m.accounts }

// Assets returns the asset collection.
func (m *Manager) Assets() *Assets { return m.assets }

// Transforms returns the transform collection.
func (m *Manager) Transforms() *Transforms { return m.transforms }

// Jobs returns the job collection.
func (m *Manager) Jobs() *Jobs { return m.jobs }

// ContentKeyPolicies returns the content key policy collection.
func (m *Manager) ContentKeyPolicies() *ContentKeyPolicies { return m.contentKeyPolicies }

// StreamingLocators returns the streaming locator collection.
func (m *Manager) StreamingLocators() *StreamingLocators { return m.streamingLocators }

// ListOptions are the OData query options of the list operations inside an account.
type ListOptions struct {
	// Filter is an OData filter such as properties/created gt 2024-01-01.
	Filter string
	// OrderBy is an OData order such as properties/created desc.
	OrderBy string
	// Top limits the number of results per page. Zero leaves it to the service.
	Top int32
}

func (o *ListOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}

	if o.Filter != "" {
		q.Set("$filter", o.Filter)
	}

	if o.OrderBy != "" {
		q.Set("$orderby", o.OrderBy)
	}

	if o.Top > 0 {
		q.Set("$top", strconv.Itoa(int(o.Top)))
	}

	return q
}
