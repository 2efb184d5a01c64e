// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package mediaservices manages Azure Media Services accounts and the assets, transforms, jobs,
// content key policies and streaming locators they hold.
//
// Transform presets, job inputs and content key policy options are polymorphic on the wire. Each is
// modelled as an interface implemented by pointer types that add their @odata.type discriminator when
// marshalled. Values with a discriminator this package does not know decode to *UnknownObject and are
// sent back unchanged.
package mediaservices
