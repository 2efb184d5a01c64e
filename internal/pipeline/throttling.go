// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package pipeline

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	headerRemainingPrefix = "x-ms-ratelimit-remaining-"
	// DefaultLowWatermark is the remaining request count under which a warning is logged.
	DefaultLowWatermark = 100
)

// ThrottlingPolicy limits the request rate on the client side and watches the
// x-ms-ratelimit-remaining-* headers returned by Resource Manager.
type ThrottlingPolicy struct {
	limiter      *rate.Limiter
	logger       *zap.Logger
	metrics      *Metrics
	lowWatermark int
}

// NewThrottlingPolicy returns a policy allowing rps requests per second with the given burst.
// A non-positive rps disables client side limiting while keeping header observation.
func NewThrottlingPolicy(rps float64, burst int, logger *zap.Logger, m *Metrics) *ThrottlingPolicy {
	p := &ThrottlingPolicy{
		logger:       logging.OrNop(logger),
		metrics:      m,
		lowWatermark: DefaultLowWatermark,
	}

	if rps > 0 {
		if burst < 1 {
			burst = 1
		}

		p.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	return p
}

// Do implements policy.Policy.
func (p *ThrottlingPolicy) Do(req *policy.Request) (*http.Response, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(req.Raw().Context()); err != nil {
			return nil, fmt.Errorf("pipeline.ThrottlingPolicy: waiting for rate limiter: %w", err)
		}
	}

	resp, err := req.Next()
	if err != nil {
		return resp, err //nolint:wrapcheck
	}

	p.observe(resp)

	return resp, nil
}

func (p *ThrottlingPolicy) observe(resp *http.Response) {
	for name, values := range resp.Header {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, headerRemainingPrefix) || len(values) == 0 {
			continue
		}

		remaining, err := strconv.Atoi(values[0])
		if err != nil {
			continue
		}

		kind := strings.TrimPrefix(lower, headerRemainingPrefix)
		if p.metrics != nil {
			p.metrics.RemainingQuota.WithLabelValues(kind).Set(float64(remaining))
		}

		if remaining < p.lowWatermark {
			p.logger.Warn("resource manager request quota is running low",
				zap.String("kind", kind),
				zap.Int(logging.FieldRemaining, remaining),
			)
		}
	}
}
