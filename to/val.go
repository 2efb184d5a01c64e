// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package to contains helpers for moving between values and the pointer-heavy shapes used by ARM models.
package to

// Ptr returns a pointer to the supplied value.
func Ptr[T any](v T) *T {
	return &v
}

// ValOrZero returns the value of the pointer or the zero value of the type if the pointer is nil.
func ValOrZero[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}

	return *v
}

// ValOr returns the value of the pointer or fallback if the pointer is nil.
func ValOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}

	return *v
}

// SliceOfPtrs returns a slice of pointers to copies of the supplied values.
func SliceOfPtrs[T any](vv ...T) []*T {
	if vv == nil {
		return nil
	}

	res := make([]*T, len(vv))
	for i := range vv {
		res[i] = Ptr(vv[i])
	}

	return res
}

// SliceOfVals dereferences each element, skipping nil pointers.
func SliceOfVals[T any](pp []*T) []T {
	if pp == nil {
		return nil
	}

	res := make([]T, 0, len(pp))
	for _, p := range pp {
		if p == nil {
			continue
		}

		res = append(res, *p)
	}

	return res
}

// StringMap converts an ARM style map of string pointers into a plain map.
// Nil values become empty strings.
func StringMap(m map[string]*string) map[string]string {
	if m == nil {
		return nil
	}

	res := make(map[string]string, len(m))
	for k, v := range m {
		res[k] = ValOrZero(v)
	}

	return res
}

// PtrMap converts a plain map into the ARM style map of string pointers.
func PtrMap(m map[string]string) map[string]*string {
	if m == nil {
		return nil
	}

	res := make(map[string]*string, len(m))
	for k, v := range m {
		res[k] = Ptr(v)
	}

	return res
}
