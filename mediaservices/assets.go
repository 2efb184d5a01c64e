// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

const (
	assetsPath = accountPath + "/assets"
	assetPath  = assetsPath + "/{assetName}"
)

// Assets manages the assets of Media Services accounts.
type Assets struct {
	m *Manager
}

func assetParams(resourceGroup, account, name string) rest.P {
	return rest.P{"resourceGroupName": resourceGroup, "accountName": account, "assetName": name}
}

// CreateOrUpdate creates or replaces the asset name of account.
// Container and StorageAccountName are generated by the service when empty.
func (c *Assets) CreateOrUpdate(ctx context.Context, resourceGroup, account, name string, props AssetProperties) (*Asset, error) {
	res, err := rest.Do[Asset](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   assetPath,
		Params: assetParams(resourceGroup, account, name),
		Body:   Asset{Properties: &props},
		Accept: []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return nil, fmt.Errorf("Assets.CreateOrUpdate: %w", err)
	}

	c.m.logger.Debug("asset saved",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
	)

	return &res, nil
}

// Get returns the asset name of account.
func (c *Assets) Get(ctx context.Context, resourceGroup, account, name string) (*Asset, error) {
	res, err := rest.Do[Asset](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   assetPath,
		Params: assetParams(resourceGroup, account, name),
	})
	if err != nil {
		return nil, fmt.Errorf("Assets.Get: %w", err)
	}

	return &res, nil
}

// NewListPager lists the assets of account.
func (c *Assets) NewListPager(resourceGroup, account string, opts *ListOptions) *runtime.Pager[rest.Page[Asset]] {
	return rest.NewPager[Asset](c.m.client, rest.Call{
		Path:   assetsPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "accountName": account},
		Query:  opts.query(),
	})
}

// List returns every asset of account matching opts.
func (c *Assets) List(ctx context.Context, resourceGroup, account string, opts *ListOptions) ([]*Asset, error) {
	res, err := core.ListAll(ctx, c.NewListPager(resourceGroup, account, opts), rest.Page[Asset].Items)
	if err != nil {
		return nil, fmt.Errorf("Assets.List: %w", err)
	}

	return res, nil
}

// Delete deletes the asset. The storage container is deleted with it.
func (c *Assets) Delete(ctx context.Context, resourceGroup, account, name string) error {
	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   assetPath,
		Params: assetParams(resourceGroup, account, name),
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("Assets.Delete: %w", err)
	}

	return nil
}

// ListContainerSas returns SAS URLs granting permissions on the asset container until expiry.
func (c *Assets) ListContainerSas(ctx context.Context, resourceGroup, account, name string, permissions AssetContainerPermission, expiry time.Time) ([]string, error) {
	switch permissions {
	case AssetContainerPermissionRead, AssetContainerPermissionReadWrite, AssetContainerPermissionReadWriteDelete:
	default:
		return nil, fmt.Errorf("Assets.ListContainerSas: %w", core.NewErrPropertyInvalid("permissions", string(permissions)))
	}

	if expiry.IsZero() {
		return nil, fmt.Errorf("Assets.ListContainerSas: %w", core.NewErrPropertyMustNotBeNil("expiryTime"))
	}

	res, err := rest.Do[AssetContainerSas](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   assetPath + "/listContainerSas",
		Params: assetParams(resourceGroup, account, name),
		Body: ListContainerSasInput{
			Permissions: to.Ptr(permissions),
			ExpiryTime:  to.Ptr(expiry.UTC()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Assets.ListContainerSas: %w", err)
	}

	return to.SliceOfVals(res.AssetContainerSasUrls), nil
}
