// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package pipeline

import (
	"net/http"
	"time"

	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"go.uber.org/zap"
)

// LoggingPolicy writes one structured log line per ARM request attempt.
type LoggingPolicy struct {
	logger *zap.Logger
}

// NewLoggingPolicy returns a policy logging to logger.
func NewLoggingPolicy(logger *zap.Logger) *LoggingPolicy {
	return &LoggingPolicy{logger: logging.OrNop(logger).Named("arm")}
}

// Do implements policy.Policy.
func (p *LoggingPolicy) Do(req *policy.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := req.Next()

	u := *req.Raw().URL
	u.RawQuery = ""

	fields := []zap.Field{
		zap.String(logging.FieldMethod, req.Raw().Method),
		zap.String(logging.FieldURL, u.String()),
		zap.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	}

	if err != nil {
		p.logger.Warn("resource manager request failed", append(fields, zap.Error(err))...)
		return resp, err //nolint:wrapcheck
	}

	fields = append(fields,
		zap.Int(logging.FieldStatusCode, resp.StatusCode),
		zap.String(logging.FieldRequestID, resp.Header.Get("x-ms-request-id")),
		zap.String(logging.FieldCorrelationID, resp.Header.Get("x-ms-correlation-request-id")),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		p.logger.Info("resource manager request returned an error status", fields...)
	} else {
		p.logger.Debug("resource manager request", fields...)
	}

	return resp, nil
}
