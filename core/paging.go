// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package core

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"golang.org/x/sync/errgroup"
)

// ListAll drains pager and flattens the items of every page.
func ListAll[P, T any](ctx context.Context, pager *runtime.Pager[P], items func(P) []T) ([]T, error) {
	res := make([]T, 0)

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("core.ListAll: fetching page: %w", err)
		}

		res = append(res, items(page)...)
	}

	return res, nil
}

// MapParallel calls fn for every element of in with at most limit calls in flight.
// Results keep the input order. The first error cancels the remaining calls.
func MapParallel[I, O any](ctx context.Context, limit int, in []I, fn func(context.Context, I) (O, error)) ([]O, error) {
	res := make([]O, len(in))

	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i := range in {
		eg.Go(func() error {
			v, err := fn(egCtx, in[i])
			if err != nil {
				return err
			}

			res[i] = v

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return res, nil
}
