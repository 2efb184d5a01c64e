// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"go.uber.org/zap"
)

const (
	jobsPath = transformPath + "/jobs"
	jobPath  = jobsPath + "/{jobName}"
)

// ErrJobFailed is returned by Wait when the job ends in the Error state.
var ErrJobFailed = errors.New("job failed")

// JobDefinition describes a job to submit to a transform.
type JobDefinition struct {
	Description     string
	Input           JobInput
	Outputs         []*JobOutputAsset
	Priority        Priority
	CorrelationData map[string]string
}

// Validate checks the input and outputs of the definition.
func (d *JobDefinition) Validate() error {
	return checker.NewValidator(
		checker.NewValidatorCheck("input", func() error {
			switch in := d.Input.(type) {
			case nil:
				return core.NewErrPropertyMustNotBeNil("input")
			case *JobInputAsset:
				if in.AssetName == "" {
					return core.NewErrPropertyMustNotBeNil("input.assetName")
				}
			case *JobInputHTTP:
				if to.ValOrZero(in.BaseURI) == "" && len(in.Files) == 0 {
					return core.NewErrPropertyInvalid("input", "baseUri or files must be set")
				}
			}
			return nil
		}),
		checker.NewValidatorCheck("outputs", func() error {
			if len(d.Outputs) == 0 {
				return core.NewErrPropertyMustNotBeNil("outputs")
			}
			for i, o := range d.Outputs {
				if o == nil || o.AssetName == "" {
					return core.NewErrPropertyMustNotBeNil(fmt.Sprintf("outputs[%d].assetName", i))
				}
			}
			return nil
		}),
		checker.NewValidatorCheck("priority", func() error {
			if d.Priority != "" && !validPriority(d.Priority) {
				return core.NewErrPropertyInvalid("priority", string(d.Priority))
			}
			return nil
		}),
	).Validate()
}

// State returns the state of the job, or "" when unknown.
func (j *Job) State() JobState {
	if j.Properties == nil {
		return ""
	}

	return to.ValOrZero(j.Properties.State)
}

// IsFinal reports whether the job is Finished, Error or Canceled.
func (j *Job) IsFinal() bool { return j.State().IsFinal() }

// OutputErrors returns the errors of the failed outputs of the job.
func (j *Job) OutputErrors() []*JobError {
	if j.Properties == nil {
		return nil
	}

	var res []*JobError

	for _, o := range j.Properties.Outputs {
		if o != nil && o.Error != nil {
			res = append(res, o.Error)
		}
	}

	return res
}

// Jobs manages the jobs of transforms.
type Jobs struct {
	m *Manager
}

func jobParams(resourceGroup, account, transform, name string) rest.P {
	return rest.P{
		"resourceGroupName": resourceGroup,
		"accountName":       account,
		"transformName":     transform,
		"jobName":           name,
	}
}

// Create submits the job name to transform.
func (c *Jobs) Create(ctx context.Context, resourceGroup, account, transform, name string, def *JobDefinition) (*Job, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("Jobs.Create: invalid definition: %w", err)
	}

	props := &JobProperties{
		Input:           def.Input,
		Outputs:         def.Outputs,
		CorrelationData: to.PtrMap(def.CorrelationData),
	}
	if def.Description != "" {
		props.Description = to.Ptr(def.Description)
	}

	if def.Priority != "" {
		props.Priority = to.Ptr(def.Priority)
	}

	res, err := rest.Do[Job](ctx, c.m.encoding, rest.Call{
		Method: http.MethodPut,
		Path:   jobPath,
		Params: jobParams(resourceGroup, account, transform, name),
		Body:   Job{Properties: props},
		Accept: []int{http.StatusCreated, http.StatusOK},
	})
	if err != nil {
		return nil, fmt.Errorf("Jobs.Create: %w", err)
	}

	c.m.logger.Info("job submitted",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
		zap.String("transform", transform),
	)

	return &res, nil
}

// Get returns the job name of transform.
func (c *Jobs) Get(ctx context.Context, resourceGroup, account, transform, name string) (*Job, error) {
	res, err := rest.Do[Job](ctx, c.m.encoding, rest.Call{
		Method: http.MethodGet,
		Path:   jobPath,
		Params: jobParams(resourceGroup, account, transform, name),
	})
	if err != nil {
		return nil, fmt.Errorf("Jobs.Get: %w", err)
	}

	return &res, nil
}

// NewListPager lists the jobs of transform.
func (c *Jobs) NewListPager(resourceGroup, account, transform string, opts *ListOptions) *runtime.Pager[rest.Page[Job]] {
	return rest.NewPager[Job](c.m.encoding, rest.Call{
		Path:   jobsPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "accountName": account, "transformName": transform},
		Query:  opts.query(),
	})
}

// List returns the jobs of transform matching opts.
func (c *Jobs) List(ctx context.Context, resourceGroup, account, transform string, opts *ListOptions) ([]*Job, error) {
	res, err := core.ListAll(ctx, c.NewListPager(resourceGroup, account, transform, opts), rest.Page[Job].Items)
	if err != nil {
		return nil, fmt.Errorf("Jobs.List: %w", err)
	}

	return res, nil
}

// Delete deletes the job.
func (c *Jobs) Delete(ctx context.Context, resourceGroup, account, transform, name string) error {
	err := rest.DoNoContent(ctx, c.m.encoding, rest.Call{
		Method: http.MethodDelete,
		Path:   jobPath,
		Params: jobParams(resourceGroup, account, transform, name),
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("Jobs.Delete: %w", err)
	}

	return nil
}

// Cancel requests the cancellation of the job. The job moves to Canceling, then Canceled.
func (c *Jobs) Cancel(ctx context.Context, resourceGroup, account, transform, name string) error {
	err := rest.DoNoContent(ctx, c.m.encoding, rest.Call{
		Method: http.MethodPost,
		Path:   jobPath + "/cancelJob",
		Params: jobParams(resourceGroup, account, transform, name),
	})
	if err != nil {
		return fmt.Errorf("Jobs.Cancel: %w", err)
	}

	c.m.logger.Info("job cancellation requested",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
	)

	return nil
}

// Wait polls the job until it reaches a final state, at the poll frequency of the client options.
// A job ending in the Error state is returned together with an error wrapping ErrJobFailed.
func (c *Jobs) Wait(ctx context.Context, resourceGroup, account, transform, name string) (*Job, error) {
	ticker := time.NewTicker(c.m.opts.PollOptions().Frequency)
	defer ticker.Stop()

	for {
		job, err := c.Get(ctx, resourceGroup, account, transform, name)
		if err != nil {
			return nil, fmt.Errorf("Jobs.Wait: %w", err)
		}

		if job.IsFinal() {
			if job.State() == JobStateError {
				return job, fmt.Errorf("Jobs.Wait: %s: %w", name, ErrJobFailed)
			}

			return job, nil
		}

		c.m.logger.Debug("job in progress",
			zap.String(logging.FieldResource, name),
			zap.String("state", string(job.State())),
		)

		select {
		case <-ctx.Done():
			return job, fmt.Errorf("Jobs.Wait: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
