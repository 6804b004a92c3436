// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"fmt"
	"math"
	"slices"

	"cogentcore.org/meshedit/base/ordmap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Key is the quantized position used to weld vertices: two vertices
// are joined when their keys are equal.
type Key struct {
	X, Y, Z int64
}

// String returns the key in the "x,y,z" form.
func (k Key) String() string {
	return fmt.Sprintf("%d,%d,%d", k.X, k.Y, k.Z)
}

// tolShift returns the multiplier that quantizes coordinates
// to the given tolerance.
func tolShift(tolerance float64) float64 {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return math.Pow(10, math.Round(math.Log10(1/tolerance)))
}

func quantize(p r3.Vec, shift float64) Key {
	return Key{
		X: int64(math.Trunc(p.X * shift)),
		Y: int64(math.Trunc(p.Y * shift)),
		Z: int64(math.Trunc(p.Z * shift)),
	}
}

// HashKey returns the weld key of the given position, truncating each
// coordinate toward zero to a multiple of the tolerance. Positions that
// straddle a quantization boundary get different keys even when they are
// closer than the tolerance.
func HashKey(p r3.Vec, tolerance float64) Key {
	return quantize(p, tolShift(tolerance))
}

// weldBucket is the set of vertices sharing one weld key.
// faces is the union of the faces of all its members, which the
// join invariant makes identical to the faces of each member.
type weldBucket struct {

	// members in ascending order of creation.
	members []VertexID

	// faces are face slots in ascending order, without duplicates.
	faces []int32
}

func (b *weldBucket) addFace(slot int32) {
	i, found := slices.BinarySearch(b.faces, slot)
	if !found {
		b.faces = slices.Insert(b.faces, i, slot)
	}
}

func (b *weldBucket) removeFace(slot int32) {
	i, found := slices.BinarySearch(b.faces, slot)
	if found {
		b.faces = slices.Delete(b.faces, i, i+1)
	}
}

// weldIndex maps weld keys to buckets. It only ever grows,
// because vertices are never removed.
type weldIndex struct {
	shift   float64
	buckets ordmap.Map[Key, *weldBucket]
}

func newWeldIndex(tolerance float64) *weldIndex {
	return &weldIndex{shift: tolShift(tolerance)}
}

func (w *weldIndex) key(p r3.Vec) Key {
	return quantize(p, w.shift)
}

// add joins v at position p into the bucket of its key,
// creating the bucket if needed, and returns the bucket index.
func (w *weldIndex) add(v VertexID, p r3.Vec) int {
	k := w.key(p)
	idx, ok := w.buckets.Index(k)
	if !ok {
		idx, _ = w.buckets.AddIfNew(k, &weldBucket{})
	}
	b := w.buckets.ValueByIndex(idx)
	b.members = append(b.members, v)
	return idx
}

func (w *weldIndex) bucket(idx int) *weldBucket {
	return w.buckets.ValueByIndex(idx)
}

func (w *weldIndex) len() int {
	return w.buckets.Len()
}
