// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

const (
	transformsPath = accountPath + "/transforms"
	transformPath  = transformsPath + "/{transformName}"
)

// TransformDefinition is the recipe applied by the jobs of a transform.
type TransformDefinition struct {
	Description string
	Outputs     []*TransformOutput
}

// AddOutput appends an output using preset, stopping the job when it fails.
func (d *TransformDefinition) AddOutput(preset Preset) *TransformDefinition {
	d.Outputs = append(d.Outputs, &TransformOutput{
		Preset:  preset,
		OnError: to.Ptr(OnErrorTypeStopProcessingJob),
	})

	return d
}

// Validate checks the outputs of the definition.
func (d *TransformDefinition) Validate() error {
	checks := []checker.ValidatorCheck{
		checker.NewValidatorCheck("outputs", func() error {
			if len(d.Outputs) == 0 {
				return core.NewErrPropertyMustNotBeNil("outputs")
			}
			return nil
		}),
	}

	for i, o := range d.Outputs {
		name := fmt.Sprintf("outputs[%d]", i)
		checks = append(checks, checker.NewValidatorCheck(name, func() error {
			return validateTransformOutput(o)
		}))
	}

	return checker.NewValidator(checks...).Validate()
}

func validateTransformOutput(o *TransformOutput) error {
	if o == nil || o.Preset == nil {
		return core.NewErrPropertyMustNotBeNil("preset")
	}

	if p, ok := o.Preset.(*BuiltInStandardEncoderPreset); ok && p.PresetName == "" {
		return core.NewErrPropertyMustNotBeNil("preset.presetName")
	}

	if o.OnError != nil && *o.OnError != OnErrorTypeStopProcessingJob && *o.OnError != OnErrorTypeContinueJob {
		return core.NewErrPropertyInvalid("onError", string(*o.OnError))
	}

	if o.RelativePriority != nil && !validPriority(*o.RelativePriority) {
		return core.NewErrPropertyInvalid("relativePriority", string(*o.RelativePriority))
	}

	return nil
}

func validPriority(p Priority) bool {
	for _, v := range PossiblePriorityValues() {
		if p == v {
			return true
		}
	}

	return false
}

// Transforms manages the transforms of Media Services accounts.
type Transforms struct {
	m *Manager
}

func transformParams(resourceGroup, account, name string) rest.P {
	return rest.P{"resourceGroupName": resourceGroup, "accountName": account, "transformName": name}
}

// CreateOrUpdate creates or replaces the transform name of account.
func (c *Transforms) CreateOrUpdate(ctx context.Context, resourceGroup, account, name string, def *TransformDefinition) (*Transform, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("Transforms.CreateOrUpdate: invalid definition: %w", err)
	}

	props := &TransformProperties{Outputs: def.Outputs}
	if def.Description != "" {
		props.Description = to.Ptr(def.Description)
	}

	res, err := rest.Do[Transform](ctx, c.m.encoding, rest.Call{
		Method: http.MethodPut,
		Path:   transformPath,
		Params: transformParams(resourceGroup, account, name),
		Body:   Transform{Properties: props},
		Accept: []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return nil, fmt.Errorf("Transforms.CreateOrUpdate: %w", err)
	}

	c.m.logger.Info("transform saved",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
		zap.Int(logging.FieldCount, len(def.Outputs)),
	)

	return &res, nil
}

// Get returns the transform name of account.
func (c *Transforms) Get(ctx context.Context, resourceGroup, account, name string) (*Transform, error) {
	res, err := rest.Do[Transform](ctx, c.m.encoding, rest.Call{
		Method: http.MethodGet,
		Path:   transformPath,
		Params: transformParams(resourceGroup, account, name),
	})
	if err != nil {
		return nil, fmt.Errorf("Transforms.Get: %w", err)
	}

	return &res, nil
}

// NewListPager lists the transforms of account.
func (c *Transforms) NewListPager(resourceGroup, account string, opts *ListOptions) *runtime.Pager[rest.Page[Transform]] {
	return rest.NewPager[Transform](c.m.encoding, rest.Call{
		Path:   transformsPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "accountName": account},
		Query:  opts.query(),
	})
}

// List returns the transforms of account matching opts.
func (c *Transforms) List(ctx context.Context, resourceGroup, account string, opts *ListOptions) ([]*Transform, error) {
	res, err := core.ListAll(ctx, c.NewListPager(resourceGroup, account, opts), rest.Page[Transform].Items)
	if err != nil {
		return nil, fmt.Errorf("Transforms.List: %w", err)
	}

	return res, nil
}

// Delete deletes the transform.
func (c *Transforms) Delete(ctx context.Context, resourceGroup, account, name string) error {
	err := rest.DoNoContent(ctx, c.m.encoding, rest.Call{
		Method: http.MethodDelete,
		Path:   transformPath,
		Params: transformParams(resourceGroup, account, name),
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("Transforms.Delete: %w", err)
	}

	return nil
}
