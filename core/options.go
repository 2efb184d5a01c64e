// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package core

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/pipeline"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	defaultParallelism   = 10               // default number of parallel requests made by fan-out operations
	defaultPollFrequency = 10 * time.Second // default interval between long running operation polls
)

// ClientOptions configures the clients created by the service managers.
// The zero value is usable; a nil *ClientOptions is equivalent to the zero value.
// ClientOptions must not be copied after the first call to ARMOptions.
type ClientOptions struct {
	arm.ClientOptions

	// Logger receives structured logs from the managers and the request pipeline. Defaults to a no-op logger.
	Logger *zap.Logger
	// RequestsPerSecond enables client side throttling when positive.
	RequestsPerSecond float64
	// Burst is the throttling bucket size. Defaults to 1 when throttling is enabled.
	Burst int
	// MetricsRegisterer receives the ARM request collectors. Metrics are disabled when nil.
	MetricsRegisterer prometheus.Registerer
	// PollFrequency is the interval between polls of long running operations.
	PollFrequency time.Duration
	// Parallelism bounds the number of concurrent requests issued by fan-out operations.
	Parallelism int

	// the throttling policy and collectors are created once and shared by every client built from these options.
	policiesOnce sync.Once
	throttle     *pipeline.ThrottlingPolicy
	metrics      *pipeline.Metrics
	policiesErr  error
}

// Log returns the configured logger, or a no-op logger.
func (o *ClientOptions) Log() *zap.Logger {
	if o == nil {
		return zap.NewNop()
	}

	return logging.OrNop(o.Logger)
}

// Limit returns the configured parallelism, or the default.
func (o *ClientOptions) Limit() int {
	if o == nil || o.Parallelism < 1 {
		return defaultParallelism
	}

	return o.Parallelism
}

// PollOptions returns the options passed to runtime.Poller.PollUntilDone.
func (o *ClientOptions) PollOptions() *runtime.PollUntilDoneOptions {
	freq := defaultPollFrequency
	if o != nil && o.PollFrequency > 0 {
		freq = o.PollFrequency
	}

	return &runtime.PollUntilDoneOptions{Frequency: freq}
}

// ARMOptions returns a copy of the embedded arm.ClientOptions with the azmgmt policies appended:
// throttling per call, logging and metrics per retry. Every call on the same options shares one
// rate limiter, so RequestsPerSecond bounds all the clients together.
func (o *ClientOptions) ARMOptions() (*arm.ClientOptions, error) {
	res := &arm.ClientOptions{}
	if o != nil {
		*res = o.ClientOptions
	}

	logger := o.Log()

	throttle, metrics, err := o.policies()
	if err != nil {
		return nil, err
	}

	res.PerCallPolicies = append(slices.Clone(res.PerCallPolicies), throttle)

	perRetry := []policy.Policy{pipeline.NewLoggingPolicy(logger)}
	if metrics != nil {
		perRetry = append(perRetry, pipeline.NewMetricsPolicy(metrics))
	}

	res.PerRetryPolicies = append(slices.Clone(res.PerRetryPolicies), perRetry...)

	return res, nil
}

func (o *ClientOptions) policies() (*pipeline.ThrottlingPolicy, *pipeline.Metrics, error) {
	if o == nil {
		return pipeline.NewThrottlingPolicy(0, 0, nil, nil), nil, nil
	}

	o.policiesOnce.Do(func() {
		if o.MetricsRegisterer != nil {
			m, err := pipeline.NewMetrics(o.MetricsRegisterer)
			if err != nil {
				o.policiesErr = fmt.Errorf("core.ClientOptions.ARMOptions: registering metrics: %w", err)

				return
			}

			o.metrics = m
		}

		o.throttle = pipeline.NewThrottlingPolicy(o.RequestsPerSecond, o.Burst, o.Log(), o.metrics)
	})

	return o.throttle, o.metrics, o.policiesErr
}
