// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	notFound := fmt.Errorf("wrapped: %w", &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "ResourceGroupNotFound"})
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsConflict(notFound))
	assert.Equal(t, "ResourceGroupNotFound", ErrorCode(notFound))

	conflict := &azcore.ResponseError{StatusCode: http.StatusConflict}
	assert.True(t, IsConflict(conflict))

	plain := errors.New("plain")
	assert.Equal(t, 0, StatusCode(plain))
	assert.Empty(t, ErrorCode(plain))
	assert.False(t, IsNotFound(nil))
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "property 'name' must not be nil", NewErrPropertyMustNotBeNil("name").Error())
	assert.Equal(t, "property 'name' length must be between 1 and 24, but is 30", NewErrPropertyLength("name", 1, 24, 30).Error())
	assert.Equal(t, "property 'count' must be between 1 and 1000, but is 0", NewErrPropertyOutOfRange("count", 1, 1000, 0).Error())
	assert.Equal(t, "property 'os' is invalid: unknown", NewErrPropertyInvalid("os", "unknown").Error())

	var target *ErrPropertyLength
	assert.ErrorAs(t, fmt.Errorf("x: %w", NewErrPropertyLength("a", 0, 1, 2)), &target)
}

func TestClientOptions(t *testing.T) {
	t.Parallel()

	t.Run("nil options", func(t *testing.T) {
		t.Parallel()

		var o *ClientOptions
		assert.NotNil(t, o.Log())
		assert.Equal(t, defaultParallelism, o.Limit())
		assert.Equal(t, defaultPollFrequency, o.PollOptions().Frequency)

		arm, err := o.ARMOptions()
		require.NoError(t, err)
		assert.Len(t, arm.PerCallPolicies, 1)
		assert.Len(t, arm.PerRetryPolicies, 1)
	})

	t.Run("with metrics", func(t *testing.T) {
		t.Parallel()

		o := &ClientOptions{
			MetricsRegisterer: prometheus.NewRegistry(),
			PollFrequency:     time.Second,
			Parallelism:       3,
		}
		assert.Equal(t, 3, o.Limit())
		assert.Equal(t, time.Second, o.PollOptions().Frequency)

		arm, err := o.ARMOptions()
		require.NoError(t, err)
		assert.Len(t, arm.PerRetryPolicies, 2)

		// a second client sharing the registry must not fail
		_, err = o.ARMOptions()
		require.NoError(t, err)
		assert.Empty(t, o.ClientOptions.PerRetryPolicies, "source options must not be mutated")
	})

	t.Run("shared throttling", func(t *testing.T) {
		t.Parallel()

		o := &ClientOptions{RequestsPerSecond: 5, Burst: 2}

		first, err := o.ARMOptions()
		require.NoError(t, err)
		second, err := o.ARMOptions()
		require.NoError(t, err)

		require.Len(t, first.PerCallPolicies, 1)
		require.Len(t, second.PerCallPolicies, 1)
		assert.Same(t, first.PerCallPolicies[0], second.PerCallPolicies[0])

		other, err := (&ClientOptions{RequestsPerSecond: 5}).ARMOptions()
		require.NoError(t, err)
		assert.NotSame(t, first.PerCallPolicies[0], other.PerCallPolicies[0])
	})
}

func TestDiffAndMergeTags(t *testing.T) {
	t.Parallel()

	current := map[string]*string{"env": to.Ptr("dev"), "owner": to.Ptr("a"), "old": to.Ptr("x")}
	desired := map[string]*string{"env": to.Ptr("prod"), "owner": to.Ptr("a"), "new": to.Ptr("y")}

	d := DiffTags(current, desired)
	assert.True(t, d.Added.Contains("new"))
	assert.True(t, d.Removed.Contains("old"))
	assert.True(t, d.Changed.Contains("env"))
	assert.False(t, d.Changed.Contains("owner"))
	assert.False(t, d.Empty())
	assert.True(t, DiffTags(current, current).Empty())

	merged := MergeTags(current, map[string]string{"env": "test"})
	assert.Equal(t, "test", *merged["env"])
	assert.Equal(t, "dev", *current["env"])

	stripped := WithoutTags(current, "old")
	assert.NotContains(t, stripped, "old")
	assert.Contains(t, current, "old")
	assert.NotNil(t, WithoutTags(nil))
}

type testPage struct {
	Values []int
	Next   int
}

func TestListAll(t *testing.T) {
	t.Parallel()

	pager := runtime.NewPager(runtime.PagingHandler[testPage]{
		More: func(p testPage) bool { return p.Next > 0 },
		Fetcher: func(_ context.Context, p *testPage) (testPage, error) {
			if p == nil {
				return testPage{Values: []int{1, 2}, Next: 1}, nil
			}

			return testPage{Values: []int{3}}, nil
		},
	})

	got, err := ListAll(context.Background(), pager, func(p testPage) []int { return p.Values })
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestListAll_Error(t *testing.T) {
	t.Parallel()

	errFetch := errors.New("fetch failed")
	pager := runtime.NewPager(runtime.PagingHandler[testPage]{
		More: func(testPage) bool { return false },
		Fetcher: func(context.Context, *testPage) (testPage, error) {
			return testPage{}, errFetch
		},
	})

	_, err := ListAll(context.Background(), pager, func(p testPage) []int { return p.Values })
	assert.ErrorIs(t, err, errFetch)
}

func TestMapParallel(t *testing.T) {
	t.Parallel()

	got, err := MapParallel(context.Background(), 2, []int{1, 2, 3, 4}, func(_ context.Context, i int) (string, error) {
		return fmt.Sprintf("v%d", i*i), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v4", "v9", "v16"}, got)

	errBad := errors.New("bad")
	_, err = MapParallel(context.Background(), 0, []int{1, 2}, func(_ context.Context, i int) (int, error) {
		if i == 2 {
			return 0, errBad
		}
		return i, nil
	})
	assert.ErrorIs(t, err, errBad)
}
