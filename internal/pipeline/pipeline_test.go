// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestPipeline(t *testing.T, h http.HandlerFunc, perCall, perRetry []policy.Policy) (runtime.Pipeline, string) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	pl := runtime.NewPipeline("azmgmttest", "v0.0.1", runtime.PipelineOptions{}, &policy.ClientOptions{
		Transport:        srv.Client(),
		PerCallPolicies:  perCall,
		PerRetryPolicies: perRetry,
		Retry:            policy.RetryOptions{MaxRetries: -1},
		Telemetry:        policy.TelemetryOptions{Disabled: true},
	})

	return pl, srv.URL
}

func doGet(t *testing.T, pl runtime.Pipeline, url string) *http.Response {
	t.Helper()

	req, err := runtime.NewRequest(context.Background(), http.MethodGet, url)
	require.NoError(t, err)

	resp, err := pl.Do(req)
	require.NoError(t, err)

	return resp
}

func TestProviderFromPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/subscriptions/s/resourceGroups/rg/providers/Microsoft.Web/sites/app":                       "Microsoft.Web",
		"/subscriptions/s/resourceGroups/rg":                                                         "resources",
		"/subscriptions/s/providers/Microsoft.ContainerInstance/containerGroups":                     "Microsoft.ContainerInstance",
		"/subscriptions/s/resourceGroups/rg/providers/Microsoft.Web/sites/a/providers/Microsoft.Foo": "Microsoft.Foo",
		"": "resources",
	}

	for in, want := range cases {
		assert.Equal(t, want, ProviderFromPath(in), in)
	}
}

func TestMetricsPolicy(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	pl, base := newTestPipeline(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil, []policy.Policy{NewMetricsPolicy(m)})

	resp := doGet(t, pl, base+"/subscriptions/s/providers/Microsoft.Web/sites")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "Microsoft.Web", "404")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)

	second, err := NewMetrics(reg)
	require.NoError(t, err)

	assert.Same(t, first.Requests, second.Requests)
	assert.Same(t, first.RemainingQuota, second.RemainingQuota)
}

func TestThrottlingPolicy_ObservesRemainingHeaders(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	pl, base := newTestPipeline(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("x-ms-ratelimit-remaining-subscription-reads", "42")
		w.Header().Set("x-ms-ratelimit-remaining-subscription-writes", "1199")
		w.WriteHeader(http.StatusOK)
	}, []policy.Policy{NewThrottlingPolicy(0, 0, zap.New(core), m)}, nil)

	doGet(t, pl, base+"/subscriptions/s")

	assert.InDelta(t, 42, testutil.ToFloat64(m.RemainingQuota.WithLabelValues("subscription-reads")), 0)
	assert.InDelta(t, 1199, testutil.ToFloat64(m.RemainingQuota.WithLabelValues("subscription-writes")), 0)
	require.Equal(t, 1, logs.Len(), "only the low quota should warn")
	assert.Equal(t, "subscription-reads", logs.All()[0].ContextMap()["kind"])
}

func TestThrottlingPolicy_LimitsRate(t *testing.T) {
	t.Parallel()

	pl, base := newTestPipeline(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, []policy.Policy{NewThrottlingPolicy(20, 1, nil, nil)}, nil)

	start := time.Now()
	for range 3 {
		doGet(t, pl, base+"/subscriptions/s")
	}

	// 3 requests with burst 1 at 20 rps need at least two 50ms waits.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestThrottlingPolicy_ContextCanceled(t *testing.T) {
	t.Parallel()

	pl, base := newTestPipeline(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, []policy.Policy{NewThrottlingPolicy(0.001, 1, nil, nil)}, nil)

	doGet(t, pl, base+"/subscriptions/s")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	req, err := runtime.NewRequest(ctx, http.MethodGet, base+"/subscriptions/s")
	require.NoError(t, err)

	_, err = pl.Do(req)
	assert.Error(t, err)
}

func TestLoggingPolicy(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)

	pl, base := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ms-request-id", "req-1")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}, nil, []policy.Policy{NewLoggingPolicy(zap.New(core))})

	doGet(t, pl, base+"/found?api-version=2021-04-01")
	doGet(t, pl, base+"/missing")

	require.Equal(t, 2, logs.Len())

	first := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, first.Level)
	assert.Equal(t, base+"/found", first.ContextMap()["url"])
	assert.Equal(t, "req-1", first.ContextMap()["request_id"])

	second := logs.All()[1]
	assert.Equal(t, zapcore.InfoLevel, second.Level)
	assert.EqualValues(t, http.StatusNotFound, second.ContextMap()["status_code"])
}
