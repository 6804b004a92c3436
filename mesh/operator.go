// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh provides an editable triangle mesh built from a flat
// indexed [Buffer]. An [Operator] welds coincident vertices, tracks
// the faces around every vertex, applies local topology edits, and
// rebuilds a compact buffer.
//
// Faces are addressed with [FaceID] handles. A handle stays valid until
// its face is removed by an edit; after that every operation given the
// handle returns [ErrStaleFace]. Vertices are never removed, so a
// [VertexID] is valid for the life of the operator.
package mesh

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// VertexID identifies a vertex of an [Operator].
type VertexID int

// FaceID is a handle to a face of an [Operator]. The zero value is
// never a valid handle.
type FaceID struct {
	slot int32
	gen  uint32
}

// Slot returns the arena slot of the face. Slots of removed faces
// are reused by later edits, so only the full handle identifies a face.
func (f FaceID) Slot() int {
	return int(f.slot)
}

func (f FaceID) String() string {
	return fmt.Sprintf("face %d.%d", f.slot, f.gen)
}

type vertex struct {
	pos  r3.Vec
	uv   r2.Vec
	weld int
}

type face struct {
	v        [3]VertexID
	material int

	// gen is bumped when the face is removed,
	// which invalidates outstanding handles.
	gen uint32

	alive    bool
	selected bool
}

// Operator is the editable mesh graph. It is not safe for
// concurrent use. After [Operator.Rebuild] it is consumed and
// every other operation returns [ErrConsumed].
type Operator struct {
	opts Options

	hasUV    bool
	hasGroup bool

	verts []vertex
	faces []face

	// free is a LIFO stack of removed face slots.
	free []int32

	live  int
	welds *weldIndex

	consumed bool

	// outIndex maps face slots to triangle indexes of the rebuilt buffer.
	outIndex []int
}

// NewOperator returns a new operator for the given buffer, which is not
// retained. Vertices are welded with the weld tolerance of opts, which
// may be nil for the defaults. A buffer without an index is treated as
// a triangle soup with an identity index.
func NewOperator(buf *Buffer, opts *Options) (*Operator, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	op := &Operator{}
	if opts != nil {
		op.opts = *opts
	}
	op.opts.Defaults()
	op.welds = newWeldIndex(op.opts.Tolerance)
	op.hasUV = buf.HasUV()
	op.hasGroup = buf.HasGroups()

	nv := buf.NumVertex()
	op.verts = make([]vertex, 0, nv)
	for i := range nv {
		op.addVertex(buf.Vertex(i), buf.TexCoord(i))
	}

	if len(buf.Index) == 0 {
		slog.Warn("mesh: buffer has no index, using identity index", "vertices", nv)
	}
	nt := buf.NumTriangle()
	op.faces = make([]face, 0, nt)
	for i := range nt {
		vi := buf.TriangleVertices(i)
		mat := -1
		if op.hasGroup {
			m, ok := buf.MaterialOf(i)
			if !ok {
				m = buf.Groups[0].MaterialIndex
				slog.Warn("mesh: no group contains triangle, using first group", "triangle", i, "indexSlot", 3*i, "material", m)
			}
			mat = m
		}
		op.addFace([3]VertexID{VertexID(vi[0]), VertexID(vi[1]), VertexID(vi[2])}, mat)
	}
	return op, nil
}

// Options returns the options in effect, with defaults applied.
func (op *Operator) Options() Options {
	return op.opts
}

// HasUV returns whether the mesh carries texture coordinates.
func (op *Operator) HasUV() bool {
	return op.hasUV
}

// HasGroup returns whether faces carry material indexes.
func (op *Operator) HasGroup() bool {
	return op.hasGroup
}

// NumVertex returns the number of vertices, including
// vertices no longer used by any face.
func (op *Operator) NumVertex() int {
	return len(op.verts)
}

// NumFaces returns the number of live faces.
func (op *Operator) NumFaces() int {
	return op.live
}

// NumWeldKeys returns the number of distinct weld keys.
func (op *Operator) NumWeldKeys() int {
	return op.welds.len()
}

// FaceAt returns the handle of the face in the given arena slot. For a
// new operator the slot of a face is its triangle index in the buffer,
// which is how a picked triangle is turned into a handle. The handle of
// a removed or out of range slot fails validation in every operation.
func (op *Operator) FaceAt(i int) FaceID {
	if i < 0 || i >= len(op.faces) {
		return FaceID{slot: -1}
	}
	return FaceID{slot: int32(i), gen: op.faces[i].gen}
}

// Faces returns the handles of all live faces in slot order.
func (op *Operator) Faces() []FaceID {
	fl := make([]FaceID, 0, op.live)
	for i := range op.faces {
		if op.faces[i].alive {
			fl = append(fl, op.handle(int32(i)))
		}
	}
	return fl
}

// IsValid returns whether the handle refers to a live face.
func (op *Operator) IsValid(f FaceID) bool {
	_, err := op.face(f)
	return err == nil
}

// Corners returns the three corner vertices of the face.
func (op *Operator) Corners(f FaceID) ([3]VertexID, error) {
	fc, err := op.face(f)
	if err != nil {
		return [3]VertexID{}, err
	}
	return fc.v, nil
}

// Material returns the material index of the face, which is -1
// when the mesh has no groups.
func (op *Operator) Material(f FaceID) (int, error) {
	fc, err := op.face(f)
	if err != nil {
		return 0, err
	}
	return fc.material, nil
}

// FacePositions returns the corner positions of the face.
func (op *Operator) FacePositions(f FaceID) ([3]r3.Vec, error) {
	fc, err := op.face(f)
	if err != nil {
		return [3]r3.Vec{}, err
	}
	return op.positions(fc), nil
}

// Position returns the position of the vertex.
func (op *Operator) Position(v VertexID) r3.Vec {
	return op.verts[v].pos
}

// UV returns the texture coordinate of the vertex.
func (op *Operator) UV(v VertexID) r2.Vec {
	return op.verts[v].uv
}

// WeldKey returns the weld key of the vertex.
func (op *Operator) WeldKey(v VertexID) Key {
	return op.welds.buckets.KeyByIndex(op.verts[v].weld)
}

// JoinPoints returns the other vertices that share the weld key of v,
// in order of creation.
func (op *Operator) JoinPoints(v VertexID) []VertexID {
	members := op.welds.bucket(op.verts[v].weld).members
	jp := make([]VertexID, 0, len(members)-1)
	for _, m := range members {
		if m != v {
			jp = append(jp, m)
		}
	}
	return jp
}

// VertexFaces returns the faces incident on v or on any of its join
// points, in slot order.
func (op *Operator) VertexFaces(v VertexID) []FaceID {
	return op.handles(op.welds.bucket(op.verts[v].weld).faces)
}

// JointFaces returns the island of faces incident on any corner of f
// or on any join point of a corner, in slot order. It includes f.
func (op *Operator) JointFaces(f FaceID) ([]FaceID, error) {
	fc, err := op.face(f)
	if err != nil {
		return nil, err
	}
	return op.handles(op.island(fc)), nil
}

// Area returns the area of the face.
func (op *Operator) Area(f FaceID) (float64, error) {
	fc, err := op.face(f)
	if err != nil {
		return 0, err
	}
	return faceArea(op.positions(fc)), nil
}

// TotalArea returns the summed area of all live faces.
func (op *Operator) TotalArea() float64 {
	area := 0.0
	for i := range op.faces {
		if op.faces[i].alive {
			area += faceArea(op.positions(&op.faces[i]))
		}
	}
	return area
}

// OutputIndex returns the triangle index of the face in the buffer
// returned by [Operator.Rebuild], and false if the operator has not
// been rebuilt or the handle is not live.
func (op *Operator) OutputIndex(f FaceID) (int, bool) {
	if op.outIndex == nil || f.slot < 0 || int(f.slot) >= len(op.faces) {
		return 0, false
	}
	fc := &op.faces[f.slot]
	if !fc.alive || fc.gen != f.gen {
		return 0, false
	}
	return op.outIndex[f.slot], true
}

////////  internal graph maintenance

func (op *Operator) handle(slot int32) FaceID {
	return FaceID{slot: slot, gen: op.faces[slot].gen}
}

func (op *Operator) handles(slots []int32) []FaceID {
	fl := make([]FaceID, len(slots))
	for i, s := range slots {
		fl[i] = op.handle(s)
	}
	return fl
}

// face returns the live face for the handle.
func (op *Operator) face(f FaceID) (*face, error) {
	if op.consumed {
		return nil, ErrConsumed
	}
	if f.slot < 0 || int(f.slot) >= len(op.faces) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFaceOutOfRange, f.slot, len(op.faces))
	}
	fc := &op.faces[f.slot]
	if !fc.alive || fc.gen != f.gen {
		return nil, fmt.Errorf("%w: %v", ErrStaleFace, f)
	}
	return fc, nil
}

func (op *Operator) positions(fc *face) [3]r3.Vec {
	return [3]r3.Vec{op.verts[fc.v[0]].pos, op.verts[fc.v[1]].pos, op.verts[fc.v[2]].pos}
}

func (op *Operator) uvs(fc *face) [3]r2.Vec {
	return [3]r2.Vec{op.verts[fc.v[0]].uv, op.verts[fc.v[1]].uv, op.verts[fc.v[2]].uv}
}

// addVertex adds a vertex and joins it into the weld index. A vertex
// whose key already exists inherits the faces of its join points.
func (op *Operator) addVertex(p r3.Vec, uv r2.Vec) VertexID {
	v := VertexID(len(op.verts))
	op.verts = append(op.verts, vertex{pos: p, uv: uv})
	op.verts[v].weld = op.welds.add(v, p)
	return v
}

// addFace adds a live face, reusing the most recently freed slot,
// and registers it on the weld buckets of its corners.
func (op *Operator) addFace(v [3]VertexID, material int) FaceID {
	var slot int32
	if n := len(op.free); n > 0 {
		slot = op.free[n-1]
		op.free = op.free[:n-1]
	} else {
		slot = int32(len(op.faces))
		op.faces = append(op.faces, face{gen: 1})
	}
	fc := &op.faces[slot]
	fc.v = v
	fc.material = material
	fc.alive = true
	fc.selected = false
	for _, c := range v {
		op.welds.bucket(op.verts[c].weld).addFace(slot)
	}
	op.live++
	return FaceID{slot: slot, gen: fc.gen}
}

// removeFace removes the face from the weld buckets of its corners
// and frees its slot.
func (op *Operator) removeFace(slot int32) {
	fc := &op.faces[slot]
	for _, c := range fc.v {
		op.welds.bucket(op.verts[c].weld).removeFace(slot)
	}
	fc.alive = false
	fc.selected = false
	fc.gen++
	op.free = append(op.free, slot)
	op.live--
}

// island returns the sorted union of the faces registered
// on the weld buckets of the corners of fc.
func (op *Operator) island(fc *face) []int32 {
	var sl []int32
	for _, c := range fc.v {
		sl = append(sl, op.welds.bucket(op.verts[c].weld).faces...)
	}
	return sortedUnique(sl)
}
