// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package pipeline

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "azmgmt"

// Metrics holds the collectors updated by the ARM pipeline policies.
type Metrics struct {
	// Requests counts ARM requests by method, provider namespace and status code.
	Requests *prometheus.CounterVec
	// Duration measures ARM request latency in seconds.
	Duration *prometheus.HistogramVec
	// RemainingQuota tracks the last seen x-ms-ratelimit-remaining-* header values.
	RemainingQuota *prometheus.GaugeVec
}

// NewMetrics creates the ARM collectors and registers them with reg.
// Collectors already registered by a previous call are reused, so several clients can share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "arm_requests_total",
				Help:      "Total number of Azure Resource Manager requests",
			},
			[]string{"method", "provider", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "arm_request_duration_seconds",
				Help:      "Azure Resource Manager request duration in seconds",
				Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "provider"},
		),
		RemainingQuota: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "arm_ratelimit_remaining",
				Help:      "Remaining Azure Resource Manager requests reported by the service",
			},
			[]string{"kind"},
		),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.Requests, err = register(reg, m.Requests); err != nil {
		return nil, err
	}

	if m.Duration, err = register(reg, m.Duration); err != nil {
		return nil, err
	}

	if m.RemainingQuota, err = register(reg, m.RemainingQuota); err != nil {
		return nil, err
	}

	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}

	return c, err //nolint:wrapcheck
}

// MetricsPolicy records request counts and latency. Add it as a per-retry policy to observe every attempt.
type MetricsPolicy struct {
	m *Metrics
}

// NewMetricsPolicy returns a policy that updates m.
func NewMetricsPolicy(m *Metrics) *MetricsPolicy {
	return &MetricsPolicy{m: m}
}

// Do implements policy.Policy.
func (p *MetricsPolicy) Do(req *policy.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := req.Next()

	method := req.Raw().Method
	provider := ProviderFromPath(req.Raw().URL.Path)

	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	p.m.Requests.WithLabelValues(method, provider, status).Inc()
	p.m.Duration.WithLabelValues(method, provider).Observe(time.Since(start).Seconds())

	return resp, err //nolint:wrapcheck
}

// ProviderFromPath returns the last resource provider namespace in an ARM URL path,
// or "resources" for subscription and resource group level paths.
func ProviderFromPath(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	provider := ""

	for i := 0; i < len(segs)-1; i++ {
		if strings.EqualFold(segs[i], "providers") {
			provider = segs[i+1]
		}
	}

	if provider == "" {
		return "resources"
	}

	return provider
}
