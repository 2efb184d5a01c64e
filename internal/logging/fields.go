// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logging

// Standard field names for consistent logging across the module.
const (
	FieldOperation     = "operation"
	FieldResourceGroup = "resource_group"
	FieldResource      = "resource"
	FieldResourceID    = "resource_id"
	FieldMethod        = "method"
	FieldURL           = "url"
	FieldStatusCode    = "status_code"
	FieldDurationMS    = "duration_ms"
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldRemaining     = "remaining"
	FieldAzureEvent    = "azure_event"
	FieldCount         = "count"
)
