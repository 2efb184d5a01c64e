// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package core

import "strings"

// Region is an Azure location in its canonical short form, e.g. eastus.
type Region string

// Commonly used regions.
const (
	RegionAustraliaEast      Region = "australiaeast"
	RegionBrazilSouth        Region = "brazilsouth"
	RegionCanadaCentral      Region = "canadacentral"
	RegionCentralUS          Region = "centralus"
	RegionEastAsia           Region = "eastasia"
	RegionEastUS             Region = "eastus"
	RegionEastUS2            Region = "eastus2"
	RegionFranceCentral      Region = "francecentral"
	RegionGermanyWestCentral Region = "germanywestcentral"
	RegionJapanEast          Region = "japaneast"
	RegionKoreaCentral       Region = "koreacentral"
	RegionNorthCentralUS     Region = "northcentralus"
	RegionNorthEurope        Region = "northeurope"
	RegionSouthCentralUS     Region = "southcentralus"
	RegionSoutheastAsia      Region = "southeastasia"
	RegionSwedenCentral      Region = "swedencentral"
	RegionUKSouth            Region = "uksouth"
	RegionWestEurope         Region = "westeurope"
	RegionWestUS             Region = "westus"
	RegionWestUS2            Region = "westus2"
	RegionWestUS3            Region = "westus3"
)

// ParseRegion normalizes a display name such as "East US" or "east-us" into a Region.
func ParseRegion(s string) Region {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)

	return Region(s)
}

// String implements fmt.Stringer.
func (r Region) String() string {
	return string(r)
}

// Equal compares two regions ignoring display formatting.
func (r Region) Equal(other Region) bool {
	return ParseRegion(string(r)) == ParseRegion(string(other))
}
