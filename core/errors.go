// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package core

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

var (
	_ error = (*ErrPropertyMustNotBeNil)(nil)
	_ error = (*ErrPropertyLength)(nil)
	_ error = (*ErrPropertyOutOfRange)(nil)
	_ error = (*ErrPropertyInvalid)(nil)
)

// ErrPropertyMustNotBeNil is an error type that indicates a required property is nil or empty.
type ErrPropertyMustNotBeNil struct {
	PropertyName string
}

// Error implements the error interface for type ErrPropertyMustNotBeNil.
func (e *ErrPropertyMustNotBeNil) Error() string {
	return fmt.Sprintf("property '%s' must not be nil", e.PropertyName)
}

// NewErrPropertyMustNotBeNil creates a new ErrPropertyMustNotBeNil error.
func NewErrPropertyMustNotBeNil(propertyName string) error {
	return &ErrPropertyMustNotBeNil{PropertyName: propertyName}
}

// ErrPropertyLength is an error type that indicates a property has an invalid length.
type ErrPropertyLength struct {
	PropertyName string
	MinLength    int
	MaxLength    int
	ActualLength int
}

// Error implements the error interface for type ErrPropertyLength.
func (e *ErrPropertyLength) Error() string {
	return fmt.Sprintf("property '%s' length must be between %d and %d, but is %d",
		e.PropertyName, e.MinLength, e.MaxLength, e.ActualLength)
}

// NewErrPropertyLength creates a new ErrPropertyLength error.
func NewErrPropertyLength(propertyName string, minLength, maxLength, actualLength int) error {
	return &ErrPropertyLength{
		PropertyName: propertyName,
		MinLength:    minLength,
		MaxLength:    maxLength,
		ActualLength: actualLength,
	}
}

// ErrPropertyOutOfRange is an error type that indicates a numeric property is outside its allowed range.
type ErrPropertyOutOfRange struct {
	PropertyName string
	Min          float64
	Max          float64
	Actual       float64
}

// Error implements the error interface for type ErrPropertyOutOfRange.
func (e *ErrPropertyOutOfRange) Error() string {
	return fmt.Sprintf("property '%s' must be between %g and %g, but is %g", e.PropertyName, e.Min, e.Max, e.Actual)
}

// NewErrPropertyOutOfRange creates a new ErrPropertyOutOfRange error.
func NewErrPropertyOutOfRange(propertyName string, minimum, maximum, actual float64) error {
	return &ErrPropertyOutOfRange{PropertyName: propertyName, Min: minimum, Max: maximum, Actual: actual}
}

// ErrPropertyInvalid is an error type that indicates a property value is not accepted.
type ErrPropertyInvalid struct {
	PropertyName string
	Reason       string
}

// Error implements the error interface for type ErrPropertyInvalid.
func (e *ErrPropertyInvalid) Error() string {
	return fmt.Sprintf("property '%s' is invalid: %s", e.PropertyName, e.Reason)
}

// NewErrPropertyInvalid creates a new ErrPropertyInvalid error.
func NewErrPropertyInvalid(propertyName, reason string) error {
	return &ErrPropertyInvalid{PropertyName: propertyName, Reason: reason}
}

// StatusCode returns the HTTP status code carried by an *azcore.ResponseError in err's chain, or 0.
func StatusCode(err error) int {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}

	return 0
}

// ErrorCode returns the ARM error code carried by an *azcore.ResponseError in err's chain, or "".
func ErrorCode(err error) string {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.ErrorCode
	}

	return ""
}

// IsNotFound reports whether err is a 404 from Resource Manager.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether err is a 409 from Resource Manager.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}
