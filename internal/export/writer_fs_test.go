// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Azure/azmgmt"
	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azmgmt/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInventory() *azmgmt.Inventory {
	return &azmgmt.Inventory{
		SubscriptionID: "00000000-0000-0000-0000-000000000000",
		CollectedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Groups: []*azmgmt.GroupInventory{
			{
				Group: &resources.ResourceGroup{Name: to.Ptr("rg1"), Location: to.Ptr("westeurope")},
				Resources: []*resources.GenericResource{
					{Name: to.Ptr("web1"), Type: to.Ptr("Microsoft.Web/sites")},
					{Name: to.Ptr("web1/staging"), Type: to.Ptr("Microsoft.Web/sites/slots")},
					{Name: to.Ptr("plan1"), Type: to.Ptr("Microsoft.Web/serverfarms")},
				},
			},
			{
				Group: &resources.ResourceGroup{Name: to.Ptr("rg2"), Location: to.Ptr("northeurope")},
			},
		},
	}
}

func TestFSWriter_Write(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	require.NoError(t, NewFSWriter().Write(context.Background(), testInventory(), outDir))

	for _, f := range []string{
		filepath.Join("rg1", GroupFileName),
		filepath.Join("rg1", "web1.sites.json"),
		filepath.Join("rg1", "web1_staging.sites.slots.json"),
		filepath.Join("rg1", "plan1.serverfarms.json"),
		filepath.Join("rg2", GroupFileName),
	} {
		fi, err := os.Stat(filepath.Join(outDir, f))
		require.NoError(t, err, "expected file %s", f)
		assert.Equal(t, os.FileMode(filePerm), fi.Mode().Perm())
	}

	b, err := os.ReadFile(filepath.Join(outDir, "rg1", "web1.sites.json"))
	require.NoError(t, err)

	var res resources.GenericResource
	require.NoError(t, json.Unmarshal(b, &res))
	assert.Equal(t, "Microsoft.Web/sites", to.ValOrZero(res.Type))

	b, err = os.ReadFile(filepath.Join(outDir, SummaryFileName))
	require.NoError(t, err)

	var summary Summary
	require.NoError(t, json.Unmarshal(b, &summary))
	assert.Equal(t, 3, summary.ResourceCount)
	assert.Equal(t, map[string]int{"rg1": 3, "rg2": 0}, summary.Groups)
	assert.Equal(t, "2026-01-02T03:04:05Z", summary.CollectedAt)

	matches, err := filepath.Glob(filepath.Join(outDir, "rg1", ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFSWriter_Errors(t *testing.T) {
	t.Parallel()

	w := NewFSWriter()
	require.Error(t, w.Write(context.Background(), nil, t.TempDir()))
	require.Error(t, w.Write(context.Background(), testInventory(), " "))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Write(ctx, testInventory(), t.TempDir()), context.Canceled)
}

func TestResourceFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "aks1.managedclusters.json", ResourceFileName("aks1", "Microsoft.ContainerService/managedClusters"))
	assert.Equal(t, "x.resource.json", ResourceFileName("x", ""))
	assert.Equal(t, "unnamed.sites.json", ResourceFileName("", "Microsoft.Web/sites"))
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	require.Equal(t, "unnamed", sanitizeFilename(""))
	require.Equal(t, "unnamed", sanitizeFilename("   "))
	require.Equal(t, "unnamed", sanitizeFilename(".."))
	require.Equal(t, "my-file_name", sanitizeFilename("my-file_name"))
	require.Equal(t, "a_b_c_d_e_f_g_h_i_j__", sanitizeFilename("a/b\\c:d*e?f\"g<h>i|j\t\n"))
}

func TestCtxErr(t *testing.T) {
	t.Parallel()

	require.NoError(t, ctxErr(nil)) //nolint:staticcheck
	require.NoError(t, ctxErr(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, ctxErr(ctx))
}
