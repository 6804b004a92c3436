// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ordmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddIfNew(t *testing.T) {
	var om Map[string, int]
	for i, k := range []string{"c", "a", "b"} {
		idx, added := om.AddIfNew(k, i)
		assert.True(t, added)
		assert.Equal(t, i, idx)
	}
	idx, added := om.AddIfNew("a", 10)
	assert.False(t, added)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1, om.ValueByIndex(1))

	assert.Equal(t, 3, om.Len())
	assert.Equal(t, "b", om.KeyByIndex(2))
	assert.Equal(t, []int{0, 1, 2}, om.Values())
}

func TestIndex(t *testing.T) {
	var om Map[int, string]
	_, ok := om.Index(7)
	assert.False(t, ok)
	om.AddIfNew(3, "x")
	om.AddIfNew(7, "y")
	idx, ok := om.Index(7)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	vals := om.Values()
	vals[0] = "changed"
	assert.Equal(t, "x", om.ValueByIndex(0))

	var nilMap *Map[int, string]
	assert.Equal(t, 0, nilMap.Len())
	assert.Nil(t, nilMap.Values())
}
