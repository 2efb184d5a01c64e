// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package pipeline contains azcore pipeline policies added to every ARM client built by azmgmt:
// client side throttling, prometheus metrics and structured request logging.
package pipeline
