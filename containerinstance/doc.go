// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package containerinstance manages Azure Container Instances container groups.
package containerinstance
