// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/Azure/azmgmt/resources"
	"github.com/Azure/azmgmt/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storageTemplate = `{
  "$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#",
  "contentVersion": "1.0.0.0",
  "parameters": {"name": {"type": "string"}, "count": {"type": "int"}},
  "resources": []
}`

func TestLoad_JSONEnvelope(t *testing.T) {
	fsys := fstest.MapFS{
		"azuredeploy.json": {Data: []byte(storageTemplate)},
		"azuredeploy.parameters.json": {Data: []byte(`{
			"$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json#",
			"contentVersion": "1.0.0.0",
			"parameters": {
				"name": {"value": "store1"},
				"password": {"reference": {"keyVault": {"id": "/subscriptions/s/resourceGroups/rg/providers/Microsoft.KeyVault/vaults/kv"}, "secretName": "pw"}}
			}
		}`)},
		"README.md": {Data: []byte("# docs")},
	}

	tpl, err := Load(fsys)
	require.NoError(t, err)
	assert.Equal(t, "azuredeploy.json", tpl.TemplatePath)
	assert.Equal(t, "azuredeploy.parameters.json", tpl.ParametersPath)
	assert.Equal(t, "1.0.0.0", tpl.Body["contentVersion"])

	require.Len(t, tpl.Parameters, 2)
	assert.Equal(t, &resources.ParameterValue{Value: "store1"}, tpl.Parameters["name"])

	pw, ok := tpl.Parameters["password"].(*resources.ParameterValue)
	require.True(t, ok)
	require.NotNil(t, pw.Reference)
	assert.Equal(t, "pw", to.ValOrZero(pw.Reference.SecretName))
	assert.Equal(t, "/subscriptions/s/resourceGroups/rg/providers/Microsoft.KeyVault/vaults/kv", to.ValOrZero(pw.Reference.KeyVault.ID))
}

func TestLoad_YAMLFlatParameters(t *testing.T) {
	fsys := fstest.MapFS{
		"infra/storage.template.yaml": {Data: []byte("contentVersion: 1.0.0.0\nresources: []\n")},
		"infra/dev.parameters.yml":    {Data: []byte("name: store1\ncount: 2\ntags:\n  env: dev\n")},
	}

	tpl, err := Load(fsys)
	require.NoError(t, err)
	assert.Equal(t, "infra/storage.template.yaml", tpl.TemplatePath)
	assert.Equal(t, &resources.ParameterValue{Value: "store1"}, tpl.Parameters["name"])
	assert.Equal(t, &resources.ParameterValue{Value: 2}, tpl.Parameters["count"])
	assert.Equal(t, &resources.ParameterValue{Value: map[string]any{"env": "dev"}}, tpl.Parameters["tags"])
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(fstest.MapFS{"main.bicep": {Data: []byte("param x string")}})
	require.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = Load(fstest.MapFS{
		"a.template.json": {Data: []byte(`{}`)},
		"b.template.json": {Data: []byte(`{}`)},
	})
	require.ErrorIs(t, err, ErrMultipleFiles)

	_, err = Load(fstest.MapFS{"azuredeploy.json": {Data: []byte(`{`)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding azuredeploy.json")
}

func TestLoad_SkipsHiddenDirectories(t *testing.T) {
	tpl, err := Load(fstest.MapFS{
		"azuredeploy.json":             {Data: []byte(storageTemplate)},
		".git/x.template.json":         {Data: []byte(`{}`)},
		".terraform/a.parameters.json": {Data: []byte(`{}`)},
	})
	require.NoError(t, err)
	assert.Empty(t, tpl.ParametersPath)
	assert.Nil(t, tpl.Parameters)
}

func TestNormalizeParameters_FlatValueObjects(t *testing.T) {
	params, err := NormalizeParameters(map[string]any{
		"parameters": map[string]any{"value": 1},
		"other":      "x",
	})
	require.NoError(t, err)
	assert.Equal(t, &resources.ParameterValue{Value: 1}, params["parameters"])
	assert.Equal(t, &resources.ParameterValue{Value: "x"}, params["other"])
}

func TestApplyOverrides(t *testing.T) {
	var tmpl *Template

	params, err := tmpl.ApplyOverrides(nil, []string{"count=3", "enabled=true", "name=web", "csv=a=b", "empty=", "tilde=~"})
	require.NoError(t, err)
	assert.Equal(t, &resources.ParameterValue{Value: 3}, params["count"])
	assert.Equal(t, &resources.ParameterValue{Value: true}, params["enabled"])
	assert.Equal(t, &resources.ParameterValue{Value: "web"}, params["name"])
	assert.Equal(t, &resources.ParameterValue{Value: "a=b"}, params["csv"])
	assert.Equal(t, &resources.ParameterValue{Value: ""}, params["empty"])
	assert.Equal(t, &resources.ParameterValue{Value: "~"}, params["tilde"])

	_, err = tmpl.ApplyOverrides(params, []string{"novalue"})
	require.ErrorIs(t, err, ErrInvalidOverride)
}

func TestApplyOverrides_DeclaredStringsKeepRawText(t *testing.T) {
	tmpl := &Template{Body: map[string]any{
		"parameters": map[string]any{
			"code":     map[string]any{"type": "string"},
			"Password": map[string]any{"type": "secureString"},
			"count":    map[string]any{"type": "int"},
		},
	}}

	params, err := tmpl.ApplyOverrides(nil, []string{"code=007", "password=true", "count=12", "undeclared=42"})
	require.NoError(t, err)
	assert.Equal(t, &resources.ParameterValue{Value: "007"}, params["code"])
	assert.Equal(t, &resources.ParameterValue{Value: "true"}, params["password"])
	assert.Equal(t, &resources.ParameterValue{Value: 12}, params["count"])
	assert.Equal(t, &resources.ParameterValue{Value: 42}, params["undeclared"])
}

func TestFetch_LocalDirectory(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "azuredeploy.json"), []byte(storageTemplate), 0o600))

	dst := filepath.Join(t.TempDir(), "fetched")

	fsys, err := Fetch(context.Background(), src, dst)
	require.NoError(t, err)

	tpl, err := Load(fsys)
	require.NoError(t, err)
	assert.Equal(t, "azuredeploy.json", tpl.TemplatePath)
}

func TestFetchDir(t *testing.T) {
	t.Setenv("AZMGMT_DIR", "/tmp/azmgmt")
	assert.Equal(t, filepath.Join("/tmp/azmgmt", "templates", "web"), FetchDir("web"))
}
