// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package core holds the concerns shared by every azmgmt service package: client options,
// resource ID helpers, regions, managed identities, tags, paging and error inspection.
package core
