// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logging

import (
	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"go.uber.org/zap"
)

// DefaultAzureEvents are the Azure SDK events forwarded when none are specified.
var DefaultAzureEvents = []azlog.Event{
	azlog.EventRequest,
	azlog.EventResponse,
	azlog.EventRetryPolicy,
	azlog.EventLRO,
}

// AttachAzureSDKListener routes Azure SDK log events to logger at debug level.
// The Azure SDK listener is process wide; the returned func detaches it.
func AttachAzureSDKListener(logger *zap.Logger, events ...azlog.Event) func() {
	if len(events) == 0 {
		events = DefaultAzureEvents
	}

	azlog.SetEvents(events...)
	azlog.SetListener(azureSDKListener(logger))

	return func() {
		azlog.SetListener(nil)
	}
}

func azureSDKListener(logger *zap.Logger) func(azlog.Event, string) {
	l := logger.Named("azure-sdk")

	return func(ev azlog.Event, msg string) {
		l.Debug(msg, zap.String(FieldAzureEvent, string(ev)))
	}
}
