// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed for double precision mesh editing.

// Package geom provides the pure geometry functions used by mesh
// editing: barycentric coordinates, UV sampling, normals,
// rotations and texture wrap resolution.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Degenerate is the barycentric coordinate returned by [Barycoord]
// for a collinear or zero-area triangle. It lies outside of every
// triangle, so callers must check for it before using the weights.
var Degenerate = r3.Vec{X: -2, Y: -1, Z: -1}

// Normal returns the unit normal of the triangle abc,
// following the counter-clockwise winding of a, b, c.
// It returns the zero vector for a degenerate triangle.
func Normal(a, b, c r3.Vec) r3.Vec {
	nv := r3.Cross(r3.Sub(c, b), r3.Sub(a, b))
	lenSq := r3.Norm2(nv)
	if lenSq > 0 {
		return r3.Scale(1/math.Sqrt(lenSq), nv)
	}
	return r3.Vec{}
}

// Barycoord returns the barycentric coordinates (w1, w2, w3) of the
// given point with respect to the triangle abc, as the X, Y, Z of
// the result. It returns [Degenerate] if the triangle is collinear
// or singular.
func Barycoord(point, a, b, c r3.Vec) r3.Vec {
	v0 := r3.Sub(c, a)
	v1 := r3.Sub(b, a)
	v2 := r3.Sub(point, a)

	dot00 := r3.Dot(v0, v0)
	dot01 := r3.Dot(v0, v1)
	dot02 := r3.Dot(v0, v2)
	dot11 := r3.Dot(v1, v1)
	dot12 := r3.Dot(v1, v2)

	denom := dot00*dot11 - dot01*dot01

	// colinear or singular triangle
	if denom == 0 {
		return Degenerate
	}

	invDenom := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	// barycoordinates must always sum to 1
	return r3.Vec{X: 1 - u - v, Y: v, Z: u}
}

// IsDegenerate returns whether the given barycentric
// coordinate is the [Degenerate] sentinel.
func IsDegenerate(w r3.Vec) bool {
	return w == Degenerate
}

// ContainsPoint returns whether the triangle abc contains the point,
// which is assumed to lie in the plane of the triangle.
func ContainsPoint(point, a, b, c r3.Vec) bool {
	w := Barycoord(point, a, b, c)
	return w.X >= 0 && w.Y >= 0 && w.Z >= 0
}

// BlendUV returns the weighted sum of the three corner UVs,
// using the X, Y, Z of w as the weights.
func BlendUV(w r3.Vec, uvA, uvB, uvC r2.Vec) r2.Vec {
	uv := r2.Scale(w.X, uvA)
	uv = r2.Add(uv, r2.Scale(w.Y, uvB))
	return r2.Add(uv, r2.Scale(w.Z, uvC))
}

// SampleUV returns the UV at the given point of the triangle abc,
// blending the corner UVs with the barycentric coordinates of the point.
// For a degenerate triangle the result is blended from [Degenerate]
// and is meaningless; use [Barycoord] first when that matters.
func SampleUV(point, a, b, c r3.Vec, uvA, uvB, uvC r2.Vec) r2.Vec {
	return BlendUV(Barycoord(point, a, b, c), uvA, uvB, uvC)
}

// Area returns the area of the triangle abc.
func Area(a, b, c r3.Vec) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// Midpoint returns the arithmetic midpoint of a and b.
func Midpoint(a, b r3.Vec) r3.Vec {
	return r3.Scale(0.5, r3.Add(a, b))
}

// Centroid returns the centroid of the triangle abc.
func Centroid(a, b, c r3.Vec) r3.Vec {
	return r3.Scale(1.0/3.0, r3.Add(r3.Add(a, b), c))
}
