// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package core

import (
	"maps"

	"github.com/Azure/azmgmt/to"
	mapset "github.com/deckarep/golang-set/v2"
)

// TagChanges describes the difference between two tag maps.
type TagChanges struct {
	Added   mapset.Set[string]
	Removed mapset.Set[string]
	Changed mapset.Set[string]
}

// Empty reports whether there are no changes.
func (c TagChanges) Empty() bool {
	return c.Added.Cardinality() == 0 && c.Removed.Cardinality() == 0 && c.Changed.Cardinality() == 0
}

// DiffTags compares the current tags of a resource with the desired ones.
func DiffTags(current, desired map[string]*string) TagChanges {
	res := TagChanges{
		Added:   mapset.NewThreadUnsafeSet[string](),
		Removed: mapset.NewThreadUnsafeSet[string](),
		Changed: mapset.NewThreadUnsafeSet[string](),
	}

	for k, v := range desired {
		old, ok := current[k]
		switch {
		case !ok:
			res.Added.Add(k)
		case to.ValOrZero(old) != to.ValOrZero(v):
			res.Changed.Add(k)
		}
	}

	for k := range current {
		if _, ok := desired[k]; !ok {
			res.Removed.Add(k)
		}
	}

	return res
}

// MergeTags returns a new map with overrides applied on top of base.
func MergeTags(base map[string]*string, overrides map[string]string) map[string]*string {
	res := make(map[string]*string, len(base)+len(overrides))
	maps.Copy(res, base)

	for k, v := range overrides {
		res[k] = to.Ptr(v)
	}

	return res
}

// WithoutTags returns a new map with keys removed from base.
func WithoutTags(base map[string]*string, keys ...string) map[string]*string {
	res := maps.Clone(base)
	if res == nil {
		res = make(map[string]*string)
	}

	for _, k := range keys {
		delete(res, k)
	}

	return res
}
