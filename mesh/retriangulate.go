// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/meshedit/base/ordmap"
	"cogentcore.org/meshedit/geom"
	"github.com/fogleman/delaunay"
	"gonum.org/v1/gonum/spatial/r3"
)

// RemoveJointFacesRetriangulate removes the island of f as in
// [Operator.RemoveJointFaces] and fills the hole with a Delaunay
// triangulation of the boundary ring: the island vertices that are not
// corners of f, nor welded to one. The ring is flattened onto the plane
// perpendicular to the average normal of the island.
//
// New faces are oriented to agree with the average normal and take the
// material of a face on their first corner with the same three corners
// if there is one, or else of the lowest slot face on that corner.
//
// If the ring cannot be triangulated the mesh is left unchanged and
// the error wraps [ErrDegenerateRing] or [ErrRingTooLarge].
func (op *Operator) RemoveJointFacesRetriangulate(f FaceID) ([]FaceID, error) {
	fc, err := op.face(f)
	if err != nil {
		return nil, err
	}
	isl := op.island(fc)

	excl := make(map[int]bool, 3)
	for _, c := range fc.v {
		excl[op.verts[c].weld] = true
	}

	var avg r3.Vec
	var ring ordmap.Map[Key, VertexID]
	for _, s := range isl {
		ifc := &op.faces[s]
		p := op.positions(ifc)
		avg = r3.Add(avg, geom.Normal(p[0], p[1], p[2]))
		for _, c := range ifc.v {
			w := op.verts[c].weld
			if excl[w] {
				continue
			}
			ring.AddIfNew(op.welds.buckets.KeyByIndex(w), c)
		}
	}

	n := ring.Len()
	if op.opts.MaxRingVertices > 0 && n > op.opts.MaxRingVertices {
		return nil, fmt.Errorf("%w: %d vertices, limit %d", ErrRingTooLarge, n, op.opts.MaxRingVertices)
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: %d ring vertices", ErrDegenerateRing, n)
	}
	if r3.Norm2(avg) == 0 {
		return nil, fmt.Errorf("%w: zero average normal", ErrDegenerateRing)
	}
	avg = r3.Unit(avg)

	rot := geom.RotationBetween(avg, geom.Up)
	rv := ring.Values()
	pts := make([]delaunay.Point, n)
	for i, v := range rv {
		pts[i].X, pts[i].Y = geom.Flatten(rot, op.verts[v].pos)
	}
	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDegenerateRing, err)
	}

	type newFace struct {
		v        [3]VertexID
		material int
	}
	nfs := make([]newFace, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		v := [3]VertexID{rv[tri.Triangles[i]], rv[tri.Triangles[i+1]], rv[tri.Triangles[i+2]]}
		p := [3]r3.Vec{op.verts[v[0]].pos, op.verts[v[1]].pos, op.verts[v[2]].pos}
		nrm := geom.Normal(p[0], p[1], p[2])
		if nrm == (r3.Vec{}) {
			continue // collinear ring vertices
		}
		if r3.Dot(nrm, avg) < 0 {
			v[1], v[2] = v[2], v[1]
		}
		nfs = append(nfs, newFace{v: v, material: op.fillMaterial(v)})
	}
	if len(nfs) == 0 {
		return nil, fmt.Errorf("%w: no faces in triangulation", ErrDegenerateRing)
	}

	for _, s := range isl {
		op.removeFace(s)
	}
	nf := make([]FaceID, len(nfs))
	for i, f := range nfs {
		nf[i] = op.addFace(f.v, f.material)
	}
	slog.Debug("mesh: retriangulated", "removed", len(isl), "ring", n, "added", len(nf))
	return nf, nil
}

// fillMaterial returns the material for a fill face with corners v,
// before the island is removed: that of any face on the first corner
// with the same three corners, or else of the lowest slot face on it.
func (op *Operator) fillMaterial(v [3]VertexID) int {
	fl := op.welds.bucket(op.verts[v[0]].weld).faces
	if len(fl) == 0 {
		return -1
	}
	ck := cornerKey(v)
	for _, s := range fl {
		if cornerKey(op.faces[s].v) == ck {
			return op.faces[s].material
		}
	}
	return op.faces[fl[0]].material
}

// cornerKey returns the corners in sorted order, so that
// faces with the same corners have the same key.
func cornerKey(v [3]VertexID) [3]VertexID {
	slices.Sort(v[:])
	return v
}
