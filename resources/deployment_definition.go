// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/to"
)

const (
	DeploymentNameMaxLength = 64 // DeploymentNameMaxLength is the maximum length of a deployment name.
)

var (
	deploymentNameRegex = regexp.MustCompile(`^[-\w._()]+$`)
	debugDetailLevels   = []string{"", "none", "requestContent", "responseContent", "requestContent,responseContent"}

	// ErrTemplateSource is returned when a definition sets both or neither of Template and TemplateLink.
	ErrTemplateSource = errors.New("exactly one of template or template link must be set")
	// ErrParametersSource is returned when a definition sets both Parameters and ParametersLink.
	ErrParametersSource = errors.New("parameters and parameters link are mutually exclusive")
)

// DeploymentDefinition describes a template deployment to a resource group.
type DeploymentDefinition struct {
	ResourceGroup string
	// Name is generated when empty.
	Name string
	// Template is the template body, typically map[string]any or json.RawMessage.
	Template any
	// TemplateLink is the URI of a template. Mutually exclusive with Template.
	TemplateLink string
	// Parameters maps parameter names to plain values. *ParameterValue values are sent unchanged and
	// a map holding only a "reference" key is sent as a Key Vault reference.
	Parameters map[string]any
	// ParametersLink is the URI of a parameters file. Mutually exclusive with Parameters.
	ParametersLink string
	// Mode defaults to Incremental.
	Mode DeploymentMode
	// DebugLevel is one of none, requestContent, responseContent or requestContent,responseContent.
	DebugLevel        string
	OnErrorDeployment *OnErrorDeployment
	Tags              map[string]string
}

// Validate checks the definition before it is submitted.
func (d *DeploymentDefinition) Validate() error {
	return checker.NewValidator(
		checker.NewValidatorCheck("resource group", func() error {
			if d.ResourceGroup == "" {
				return core.NewErrPropertyMustNotBeNil("resourceGroup")
			}
			return nil
		}),
		checker.NewValidatorCheck("name", func() error {
			if d.Name == "" {
				return nil
			}
			if l := utf8.RuneCountInString(d.Name); l > DeploymentNameMaxLength {
				return core.NewErrPropertyLength("name", 1, DeploymentNameMaxLength, l)
			}
			if !deploymentNameRegex.MatchString(d.Name) {
				return core.NewErrPropertyInvalid("name", "only alphanumerics, underscores, parentheses, hyphens and periods are allowed")
			}
			return nil
		}),
		checker.NewValidatorCheck("template", func() error {
			if (d.Template == nil) == (d.TemplateLink == "") {
				return ErrTemplateSource
			}
			return nil
		}),
		checker.NewValidatorCheck("parameters", func() error {
			if len(d.Parameters) > 0 && d.ParametersLink != "" {
				return ErrParametersSource
			}
			return nil
		}),
		checker.NewValidatorCheck("mode", func() error {
			switch d.Mode {
			case "", DeploymentModeIncremental, DeploymentModeComplete:
				return nil
			}
			return core.NewErrPropertyInvalid("mode", fmt.Sprintf("unknown deployment mode %q", d.Mode))
		}),
		checker.NewValidatorCheck("debug level", func() error {
			if !slices.Contains(debugDetailLevels, d.DebugLevel) {
				return core.NewErrPropertyInvalid("debugSetting.detailLevel", d.DebugLevel)
			}
			return nil
		}),
		checker.NewValidatorCheck("on error deployment", func() error {
			if d.OnErrorDeployment == nil {
				return nil
			}
			if d.OnErrorDeployment.Type == OnErrorDeploymentSpecificDeployment && to.ValOrZero(d.OnErrorDeployment.DeploymentName) == "" {
				return core.NewErrPropertyMustNotBeNil("onErrorDeployment.deploymentName")
			}
			return nil
		}),
	).Validate()
}

func (d *DeploymentDefinition) properties() (*DeploymentProperties, error) {
	mode := d.Mode
	if mode == "" {
		mode = DeploymentModeIncremental
	}

	props := &DeploymentProperties{
		Mode:              mode,
		Template:          d.Template,
		OnErrorDeployment: d.OnErrorDeployment,
	}

	if d.TemplateLink != "" {
		props.TemplateLink = &TemplateLink{URI: to.Ptr(d.TemplateLink)}
	}

	if d.ParametersLink != "" {
		props.ParametersLink = &ParametersLink{URI: to.Ptr(d.ParametersLink)}
	}

	if d.DebugLevel != "" {
		props.DebugSetting = &DebugSetting{DetailLevel: to.Ptr(d.DebugLevel)}
	}

	if len(d.Parameters) > 0 {
		props.Parameters = make(map[string]*ParameterValue, len(d.Parameters))

		for name, v := range d.Parameters {
			pv, err := toParameterValue(v)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", name, err)
			}

			props.Parameters[name] = pv
		}
	}

	return props, nil
}

func (d *DeploymentDefinition) request() (*DeploymentRequest, error) {
	props, err := d.properties()
	if err != nil {
		return nil, err
	}

	return &DeploymentRequest{
		Tags:       to.PtrMap(d.Tags),
		Properties: props,
	}, nil
}

func toParameterValue(v any) (*ParameterValue, error) {
	switch t := v.(type) {
	case *ParameterValue:
		return t, nil
	case ParameterValue:
		return &t, nil
	case map[string]any:
		ref, ok := t["reference"]
		if !ok || len(t) != 1 {
			break
		}

		b, err := json.Marshal(ref)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		kvr := &KeyVaultReference{}
		if err := json.Unmarshal(b, kvr); err != nil {
			return nil, fmt.Errorf("decoding key vault reference: %w", err)
		}

		return &ParameterValue{Reference: kvr}, nil
	}

	return &ParameterValue{Value: v}, nil
}
