// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the +Y axis that surface patches are rotated onto
// before being flattened into the XZ plane.
var Up = r3.Vec{Y: 1}

// RotationBetween returns the rotation taking the unit vector from
// onto the unit vector to. Both vectors must be normalized.
// Opposite vectors produce a half turn around an axis
// perpendicular to from.
func RotationBetween(from, to r3.Vec) r3.Rotation {
	const eps = 1e-6

	var v1 r3.Vec
	r := r3.Dot(from, to) + 1
	if r < eps {
		r = 0
		if math.Abs(from.X) > math.Abs(from.Z) {
			v1 = r3.Vec{X: -from.Y, Y: from.X}
		} else {
			v1 = r3.Vec{Y: -from.Z, Z: from.Y}
		}
	} else {
		v1 = r3.Cross(from, to)
	}
	q := quat.Number{Real: r, Imag: v1.X, Jmag: v1.Y, Kmag: v1.Z}
	return r3.Rotation(quat.Scale(1/quat.Abs(q), q))
}

// Flatten rotates p with the given rotation and returns the
// resulting X and Z coordinates, which is the projection onto the
// plane perpendicular to [Up] of a patch rotated to face [Up].
func Flatten(rot r3.Rotation, p r3.Vec) (x, y float64) {
	rp := rot.Rotate(p)
	return rp.X, rp.Z
}
