// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package checker runs named validation checks and aggregates their failures.
package checker

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Validator is a struct that holds a list of checks to be performed.
type Validator struct {
	checks []ValidatorCheck
	logger *zap.Logger // optional; receives check start/finish messages at debug level
}

// ValidatorCheck is a struct that holds the name and function of a check to be performed.
// Use closures to capture the value under validation.
type ValidatorCheck struct {
	name string
	f    ValidateFunc
}

// NewValidatorCheck creates a new ValidatorCheck with the given name and function.
func NewValidatorCheck(name string, f ValidateFunc) ValidatorCheck {
	return ValidatorCheck{
		name: name,
		f:    f,
	}
}

// Name returns the name of the check.
func (c ValidatorCheck) Name() string {
	return c.name
}

// ValidateFunc returns an error if the validation fails.
type ValidateFunc func() error

// NewValidator creates a new Validator with the given checks.
func NewValidator(c ...ValidatorCheck) Validator {
	return Validator{
		checks: c,
	}
}

// WithLogger returns a copy of the Validator that logs each check to logger.
func (v Validator) WithLogger(logger *zap.Logger) Validator {
	v.logger = logger
	return v
}

// AddChecks adds additional checks to the Validator.
func (v Validator) AddChecks(c ...ValidatorCheck) Validator {
	v.checks = append(v.checks, c...)
	return v
}

// Validate runs all the checks and returns a *multierror.Error holding every failure, or nil.
// Each failure is prefixed with the name of the check that produced it.
func (v Validator) Validate() error {
	var errs *multierror.Error

	for _, c := range v.checks {
		if v.logger != nil {
			v.logger.Debug("starting check", zap.String("check", c.name))
		}

		if err := c.f(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}

	return errs.ErrorOrNil()
}
