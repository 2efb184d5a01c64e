// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package containerservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Masterminds/semver/v3"
	mapset "github.com/deckarep/golang-set/v2"
)

const versionsPath = "/subscriptions/{subscriptionId}/providers/Microsoft.ContainerService/locations/{location}/kubernetesVersions"

// VersionLatest asks for the newest generally available version when used as a cluster version.
const VersionLatest = "latest"

var (
	// ErrNoVersionFound is returned when no Kubernetes version satisfies a constraint.
	ErrNoVersionFound = errors.New("no kubernetes version found")
	// ErrVersionConstraintInvalid is returned when a version constraint cannot be parsed.
	ErrVersionConstraintInvalid = errors.New("kubernetes version constraint is invalid")
)

type patchInfo struct {
	preview  bool
	upgrades []string
}

// KubernetesVersions is the set of Kubernetes patch versions offered in a region.
type KubernetesVersions struct {
	versions map[semver.Version]patchInfo
	original map[semver.Version]string
}

// NewKubernetesVersions indexes the patch versions of res.
func NewKubernetesVersions(res KubernetesVersionListResult) (*KubernetesVersions, error) {
	kv := &KubernetesVersions{
		versions: make(map[semver.Version]patchInfo),
		original: make(map[semver.Version]string),
	}

	for _, minor := range res.Values {
		if minor == nil {
			continue
		}

		for patch, pv := range minor.PatchVersions {
			sv, err := semver.NewVersion(patch)
			if err != nil {
				return nil, fmt.Errorf("NewKubernetesVersions: invalid version `%s`: %w", patch, err)
			}

			info := patchInfo{preview: to.ValOrZero(minor.IsPreview)}
			if pv != nil {
				info.upgrades = to.SliceOfVals(pv.Upgrades)
			}

			kv.versions[*sv] = info
			kv.original[*sv] = patch
		}
	}

	return kv, nil
}

func (kv *KubernetesVersions) sorted() []*semver.Version {
	res := make([]*semver.Version, 0, len(kv.versions))
	for v := range kv.versions {
		res = append(res, &v)
	}

	sort.Sort(semver.Collection(res))

	return res
}

// Versions returns every patch version in ascending order.
func (kv *KubernetesVersions) Versions() []string {
	sorted := kv.sorted()

	res := make([]string, len(sorted))
	for i, v := range sorted {
		res[i] = kv.original[*v]
	}

	return res
}

// Set returns the patch versions as a set.
func (kv *KubernetesVersions) Set() mapset.Set[string] {
	return mapset.NewSet(kv.Versions()...)
}

// Latest returns the newest version. Preview versions are only considered when includePreview is set.
func (kv *KubernetesVersions) Latest(includePreview bool) (string, error) {
	sorted := kv.sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		v := sorted[i]
		if kv.versions[*v].preview && !includePreview {
			continue
		}

		return kv.original[*v], nil
	}

	return "", ErrNoVersionFound
}

// Resolve returns the newest version satisfying constraint, such as `~1.28` or `>= 1.27, < 1.29`.
// Generally available versions are preferred over preview versions.
// "latest" or "" resolve to the newest generally available version.
func (kv *KubernetesVersions) Resolve(constraint string) (string, error) {
	if constraint == "" || strings.EqualFold(constraint, VersionLatest) {
		return kv.Latest(false)
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return "", errors.Join(ErrVersionConstraintInvalid, err)
	}

	sorted := kv.sorted()

	for _, preview := range []bool{false, true} {
		for i := len(sorted) - 1; i >= 0; i-- {
			v := sorted[i]
			if kv.versions[*v].preview != preview || !c.Check(v) {
				continue
			}

			return kv.original[*v], nil
		}
	}

	return "", errors.Join(ErrNoVersionFound, fmt.Errorf("constraint %s", constraint))
}

// UpgradesFrom returns the versions version can be upgraded to, in ascending order.
func (kv *KubernetesVersions) UpgradesFrom(version string) ([]string, error) {
	sv, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Join(ErrVersionConstraintInvalid, err)
	}

	info, ok := kv.versions[*sv]
	if !ok {
		return nil, errors.Join(ErrNoVersionFound, fmt.Errorf("version %s", version))
	}

	res := make([]*semver.Version, 0, len(info.upgrades))
	for _, u := range info.upgrades {
		uv, err := semver.NewVersion(u)
		if err != nil {
			return nil, fmt.Errorf("KubernetesVersions.UpgradesFrom: invalid version `%s`: %w", u, err)
		}

		res = append(res, uv)
	}

	sort.Sort(semver.Collection(res))

	out := make([]string, len(res))
	for i, v := range res {
		out[i] = v.Original()
	}

	return out, nil
}

// ListKubernetesVersions returns the Kubernetes versions offered in region.
func (c *KubernetesClusters) ListKubernetesVersions(ctx context.Context, region core.Region) (*KubernetesVersions, error) {
	res, err := rest.Do[KubernetesVersionListResult](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   versionsPath,
		Params: rest.P{"location": region.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.ListKubernetesVersions: %w", err)
	}

	kv, err := NewKubernetesVersions(res)
	if err != nil {
		return nil, fmt.Errorf("KubernetesClusters.ListKubernetesVersions: %w", err)
	}

	return kv, nil
}
