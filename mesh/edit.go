// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"log/slog"
	"slices"

	"cogentcore.org/meshedit/geom"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// edge is an undirected edge between two vertices, with a < b.
type edge struct {
	a, b VertexID
}

func newEdge(a, b VertexID) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

var (
	insertWeights = r3.Vec{X: 1.0 / 3, Y: 1.0 / 3, Z: 1.0 / 3}

	// midpoint weights of edges 01, 12, 20
	edgeWeights = [3]r3.Vec{{X: 0.5, Y: 0.5}, {Y: 0.5, Z: 0.5}, {X: 0.5, Z: 0.5}}
)

// AddVertexInFace inserts a new vertex at point p, which should lie in
// face f, and replaces f with the three faces (v1, v2, p), (v2, v3, p)
// and (v3, v1, p). The uv of the new vertex is sampled from f. The new
// faces keep the material of f.
func (op *Operator) AddVertexInFace(f FaceID, p r3.Vec) ([3]FaceID, error) {
	fc, err := op.face(f)
	if err != nil {
		return [3]FaceID{}, err
	}
	old := *fc
	uv := op.sampleUV(&old, p, insertWeights)
	op.removeFace(f.slot)
	nv := op.addVertex(p, uv)
	v := old.v
	var nf [3]FaceID
	for i := range 3 {
		nf[i] = op.addFace([3]VertexID{v[i], v[(i+1)%3], nv}, old.material)
		op.faces[nf[i].slot].selected = old.selected
	}
	return nf, nil
}

// AddLoopFaceInFace splits face f into four by inserting a vertex at
// the midpoint of each of its edges. The new faces are the three corner
// faces (v1, m12, m31), (v2, m23, m12), (v3, m31, m23) followed by the
// center face (m12, m23, m31). Midpoint uvs are sampled from f.
func (op *Operator) AddLoopFaceInFace(f FaceID) ([4]FaceID, error) {
	fc, err := op.face(f)
	if err != nil {
		return [4]FaceID{}, err
	}
	old := *fc
	var mids [3]VertexID
	for i := range 3 {
		mids[i] = op.newMidpoint(&old, i)
	}
	return op.split4(f.slot, mids), nil
}

// RemoveJointFaces removes the island of f: every face incident on a
// corner of f or on any join point of a corner, including f. The hole
// is left open. It returns the number of removed faces.
func (op *Operator) RemoveJointFaces(f FaceID) (int, error) {
	fc, err := op.face(f)
	if err != nil {
		return 0, err
	}
	isl := op.island(fc)
	for _, s := range isl {
		op.removeFace(s)
	}
	return len(isl), nil
}

// RemoveJointFacesByVertex removes every face incident on corner
// (taken modulo 3) of face f or on any join point of that corner.
// It returns the number of removed faces.
func (op *Operator) RemoveJointFacesByVertex(f FaceID, corner int) (int, error) {
	fc, err := op.face(f)
	if err != nil {
		return 0, err
	}
	corner = ((corner % 3) + 3) % 3
	isl := slices.Clone(op.welds.bucket(op.verts[fc.v[corner]].weld).faces)
	for _, s := range isl {
		op.removeFace(s)
	}
	return len(isl), nil
}

// SimpleSubdivision splits every face into four as in
// [Operator.AddLoopFaceInFace]. Faces sharing an edge share the
// midpoint vertex, so no cracks open between them. It returns the
// new faces in order.
func (op *Operator) SimpleSubdivision() ([]FaceID, error) {
	if op.consumed {
		return nil, ErrConsumed
	}
	var slots []int32
	for i := range op.faces {
		if op.faces[i].alive {
			slots = append(slots, int32(i))
		}
	}
	return op.subdivide(slots), nil
}

// SimpleSubdivisionFaces splits the given faces into four as in
// [Operator.SimpleSubdivision], sharing midpoints only among the given
// faces. The edges they share with unselected neighbors get a midpoint
// that the neighbor does not use. It returns the new faces in order.
func (op *Operator) SimpleSubdivisionFaces(ids []FaceID) ([]FaceID, error) {
	slots, err := op.selection(ids)
	if err != nil {
		return nil, err
	}
	return op.subdivide(slots), nil
}

func (op *Operator) subdivide(slots []int32) []FaceID {
	mids := make(map[edge]VertexID)
	nf := make([]FaceID, 0, 4*len(slots))
	for _, s := range slots {
		old := op.faces[s]
		var m [3]VertexID
		for i := range 3 {
			e := newEdge(old.v[i], old.v[(i+1)%3])
			mv, ok := mids[e]
			if !ok {
				mv = op.newMidpoint(&old, i)
				mids[e] = mv
			}
			m[i] = mv
		}
		sf := op.split4(s, m)
		nf = append(nf, sf[:]...)
	}
	slog.Debug("mesh: subdivided", "faces", len(slots), "midpoints", len(mids))
	return nf
}

// split4 replaces the face in slot with the four faces formed
// with the given midpoints of edges 01, 12 and 20.
func (op *Operator) split4(slot int32, m [3]VertexID) [4]FaceID {
	old := op.faces[slot]
	op.removeFace(slot)
	v := old.v
	tris := [4][3]VertexID{
		{v[0], m[0], m[2]},
		{v[1], m[1], m[0]},
		{v[2], m[2], m[1]},
		{m[0], m[1], m[2]},
	}
	var nf [4]FaceID
	for i, t := range tris {
		nf[i] = op.addFace(t, old.material)
		op.faces[nf[i].slot].selected = old.selected
	}
	return nf
}

// newMidpoint adds a vertex at the midpoint of edge i of fc,
// which runs from corner i to corner i+1.
func (op *Operator) newMidpoint(fc *face, i int) VertexID {
	p := op.positions(fc)
	mp := geom.Midpoint(p[i], p[(i+1)%3])
	return op.addVertex(mp, op.sampleUV(fc, mp, edgeWeights[i]))
}

// sampleUV returns the uv at p in face fc. For a degenerate face it
// blends the corner uvs with the given fallback weights.
func (op *Operator) sampleUV(fc *face, p r3.Vec, fallback r3.Vec) r2.Vec {
	if !op.hasUV {
		return r2.Vec{}
	}
	pos := op.positions(fc)
	uv := op.uvs(fc)
	w := geom.Barycoord(p, pos[0], pos[1], pos[2])
	if geom.IsDegenerate(w) {
		slog.Debug("mesh: degenerate face, blending corner uvs", "corners", fc.v)
		w = fallback
	}
	return geom.BlendUV(w, uv[0], uv[1], uv[2])
}

// selection validates the handles and returns their slots
// in ascending order without duplicates.
func (op *Operator) selection(ids []FaceID) ([]int32, error) {
	if op.consumed {
		return nil, ErrConsumed
	}
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	slots := make([]int32, len(ids))
	for i, f := range ids {
		if _, err := op.face(f); err != nil {
			return nil, err
		}
		slots[i] = f.slot
	}
	return sortedUnique(slots), nil
}

func sortedUnique(sl []int32) []int32 {
	slices.Sort(sl)
	return slices.Compact(sl)
}

func faceArea(p [3]r3.Vec) float64 {
	return geom.Area(p[0], p[1], p[2])
}
