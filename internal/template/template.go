// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package template loads ARM templates and parameter files, in JSON or YAML, from local or remote sources.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/Azure/azmgmt/resources"
	"gopkg.in/yaml.v3"
)

const (
	templateFileName   = `^(?:azuredeploy|.+\.template)\.(?:json|yaml|yml)$`
	parametersFileName = `^.+\.parameters\.(?:json|yaml|yml)$`
)

var (
	templateRegex   = regexp.MustCompile(templateFileName)
	parametersRegex = regexp.MustCompile(parametersFileName)

	supportedFileTypes = []string{".json", ".yaml", ".yml"}
	envelopeKeys       = []string{"$schema", "contentVersion", "parameters"}
)

var (
	// ErrTemplateNotFound is returned by Load when no template file exists.
	ErrTemplateNotFound = errors.New("no template file found")
	// ErrMultipleFiles is returned by Load when more than one template or parameters file exists.
	ErrMultipleFiles = errors.New("multiple files of the same kind found")
	// ErrInvalidOverride is returned by ApplyOverrides for values not in key=value form.
	ErrInvalidOverride = errors.New("override must be in key=value form")
)

// Template is a deployment template with its optional parameters.
type Template struct {
	// Body is the decoded template, ready to be sent as the deployment template.
	Body map[string]any
	// Parameters maps parameter names to *resources.ParameterValue.
	Parameters map[string]any

	TemplatePath   string
	ParametersPath string
}

// Load finds the template and parameters files of fsys.
// Templates are named azuredeploy.json or *.template.json, parameters *.parameters.json; the yaml and yml
// extensions are accepted for both.
func Load(fsys fs.FS) (*Template, error) {
	res := &Template{}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("template.Load: error walking directory %s: %w", p, err)
		}

		if d.IsDir() {
			// go-getter metadata
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}

			return nil
		}

		if !slices.Contains(supportedFileTypes, strings.ToLower(path.Ext(p))) {
			return nil
		}

		switch n := strings.ToLower(d.Name()); {
		case parametersRegex.MatchString(n):
			if res.ParametersPath != "" {
				return fmt.Errorf("template.Load: %s and %s: %w", res.ParametersPath, p, ErrMultipleFiles)
			}

			res.ParametersPath = p
		case templateRegex.MatchString(n):
			if res.TemplatePath != "" {
				return fmt.Errorf("template.Load: %s and %s: %w", res.TemplatePath, p, ErrMultipleFiles)
			}

			res.TemplatePath = p
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.TemplatePath == "" {
		return nil, fmt.Errorf("template.Load: %w", ErrTemplateNotFound)
	}

	if err := readFile(fsys, res.TemplatePath, &res.Body); err != nil {
		return nil, fmt.Errorf("template.Load: %w", err)
	}

	if res.ParametersPath == "" {
		return res, nil
	}

	params, err := LoadParameters(fsys, res.ParametersPath)
	if err != nil {
		return nil, fmt.Errorf("template.Load: %w", err)
	}

	res.Parameters = params

	return res, nil
}

// LoadParameters reads the parameters file name of fsys.
// The file is either an ARM parameters file with the parameters envelope or a flat map of names to values.
func LoadParameters(fsys fs.FS, name string) (map[string]any, error) {
	var raw map[string]any
	if err := readFile(fsys, name, &raw); err != nil {
		return nil, err
	}

	params, err := NormalizeParameters(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return params, nil
}

func readFile(fsys fs.FS, name string, dst any) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	if err := newUnmarshaler(data, path.Ext(name)).unmarshal(dst); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}

	return nil
}

// NormalizeParameters converts raw, either {"parameters": {"name": {"value": v}}} or {"name": v}, into a map of
// *resources.ParameterValue. Entries holding a reference become Key Vault references.
func NormalizeParameters(raw map[string]any) (map[string]any, error) {
	if isEnvelope(raw) {
		inner, ok := raw["parameters"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parameters: expected an object, got %T", raw["parameters"])
		}

		raw = inner
	}

	res := make(map[string]any, len(raw))

	for name, v := range raw {
		pv, err := parameterValue(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}

		res[name] = pv
	}

	return res, nil
}

func isEnvelope(raw map[string]any) bool {
	if _, ok := raw["parameters"]; !ok {
		return false
	}

	for k := range raw {
		if !slices.Contains(envelopeKeys, k) {
			return false
		}
	}

	return true
}

func parameterValue(v any) (*resources.ParameterValue, error) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return &resources.ParameterValue{Value: v}, nil
	}

	if val, ok := m["value"]; ok {
		return &resources.ParameterValue{Value: val}, nil
	}

	ref, ok := m["reference"]
	if !ok {
		return &resources.ParameterValue{Value: v}, nil
	}

	data, err := json.Marshal(ref)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	kv := new(resources.KeyVaultReference)
	if err := json.Unmarshal(data, kv); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	return &resources.ParameterValue{Reference: kv}, nil
}

// ApplyOverrides sets the parameters named by overrides, each in name=value form, on params.
// Values are decoded as YAML scalars so numbers and booleans keep their type, except for empty values
// and parameters the template declares as string or securestring, which keep the raw text.
func (t *Template) ApplyOverrides(params map[string]any, overrides []string) (map[string]any, error) {
	if params == nil {
		params = make(map[string]any, len(overrides))
	}

	for _, o := range overrides {
		name, value, ok := strings.Cut(o, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%q: %w", o, ErrInvalidOverride)
		}

		var v any = value

		if value != "" && !t.isStringParameter(name) {
			var decoded any
			if err := yaml.Unmarshal([]byte(value), &decoded); err == nil && decoded != nil {
				v = decoded
			}
		}

		params[name] = &resources.ParameterValue{Value: v}
	}

	return params, nil
}

// isStringParameter reports whether the template declares name with a string type.
func (t *Template) isStringParameter(name string) bool {
	if t == nil {
		return false
	}

	declared, _ := t.Body["parameters"].(map[string]any)

	for k, def := range declared {
		if !strings.EqualFold(k, name) {
			continue
		}

		d, _ := def.(map[string]any)
		typ, _ := d["type"].(string)

		return strings.EqualFold(typ, "string") || strings.EqualFold(typ, "securestring")
	}

	return false
}
