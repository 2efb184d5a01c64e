// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package export writes inventories of a subscription to the local filesystem.
package export
