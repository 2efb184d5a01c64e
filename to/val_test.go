// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package to

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	t.Parallel()

	p := Ptr("value")
	assert.Equal(t, "value", *p)

	n := Ptr(3)
	*n = 4
	assert.Equal(t, 4, ValOrZero(n))
}

func TestValOr(t *testing.T) {
	t.Parallel()

	var nilPtr *string
	assert.Equal(t, "fallback", ValOr(nilPtr, "fallback"))
	assert.Equal(t, "set", ValOr(Ptr("set"), "fallback"))
}

func TestSliceOfPtrsAndVals(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SliceOfPtrs[string]())

	ptrs := SliceOfPtrs("a", "b")
	assert.Len(t, ptrs, 2)
	assert.Equal(t, "b", *ptrs[1])

	vals := SliceOfVals([]*string{Ptr("a"), nil, Ptr("c")})
	assert.Equal(t, []string{"a", "c"}, vals)
	assert.Nil(t, SliceOfVals[int](nil))
}

func TestStringMapRoundTrip(t *testing.T) {
	t.Parallel()

	in := map[string]*string{"env": Ptr("prod"), "empty": nil}
	out := StringMap(in)
	assert.Equal(t, map[string]string{"env": "prod", "empty": ""}, out)

	back := PtrMap(out)
	assert.Equal(t, "prod", *back["env"])
	assert.Nil(t, StringMap(nil))
	assert.Nil(t, PtrMap(nil))
}

func TestValOrZero(t *testing.T) {
	t.Parallel()

	t.Run("nil pointer returns zero value", func(t *testing.T) {
		t.Parallel()

		var ptr *int32
		assert.Equal(t, int32(0), ValOrZero(ptr))
	})

	t.Run("nil slice pointer returns nil slice", func(t *testing.T) {
		t.Parallel()

		var ptr *[]string
		assert.Nil(t, ValOrZero(ptr))
	})

	t.Run("non-nil pointer returns pointed value", func(t *testing.T) {
		t.Parallel()

		type sample struct{ Name string }

		assert.Equal(t, sample{Name: "x"}, ValOrZero(&sample{Name: "x"}))
	})
}
