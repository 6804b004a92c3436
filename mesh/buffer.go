// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"fmt"

	"cogentcore.org/meshedit/geom"
	"github.com/jinzhu/copier"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Group is a contiguous range of the index buffer that is drawn
// with one material. Count is in index units, so it is always
// a multiple of 3.
type Group struct {
	Start         int `json:"start"`
	Count         int `json:"count"`
	MaterialIndex int `json:"materialIndex"`
}

// Buffer is a flat indexed triangle mesh, as consumed and produced
// by an [Operator]. UV, Normal, Index and Groups are optional.
type Buffer struct {

	// Position has 3 values (x, y, z) per vertex.
	Position []float64 `json:"position"`

	// UV has 2 values (u, v) per vertex, if present.
	UV []float64 `json:"uv,omitempty"`

	// Normal has 3 values per vertex, if present.
	Normal []float64 `json:"normal,omitempty"`

	// Index has 3 vertex indexes per triangle. If empty,
	// every 3 consecutive vertices form a triangle.
	Index []uint32 `json:"index,omitempty"`

	// Groups are the material ranges over Index, ordered by Start.
	Groups []Group `json:"groups,omitempty"`
}

// NumVertex returns the number of vertices.
func (b *Buffer) NumVertex() int {
	return len(b.Position) / 3
}

// NumIndex returns the number of indexes, which is the
// number of vertices for a buffer without an index.
func (b *Buffer) NumIndex() int {
	if len(b.Index) == 0 {
		return b.NumVertex()
	}
	return len(b.Index)
}

// NumTriangle returns the number of triangles.
func (b *Buffer) NumTriangle() int {
	return b.NumIndex() / 3
}

// HasUV returns whether the buffer has texture coordinates.
func (b *Buffer) HasUV() bool {
	return len(b.UV) > 0
}

// HasGroups returns whether the buffer has material groups.
func (b *Buffer) HasGroups() bool {
	return len(b.Groups) > 0
}

// Vertex returns the position of vertex i.
func (b *Buffer) Vertex(i int) r3.Vec {
	return r3.Vec{X: b.Position[3*i], Y: b.Position[3*i+1], Z: b.Position[3*i+2]}
}

// TexCoord returns the UV of vertex i, or the zero vector
// if the buffer has no UVs.
func (b *Buffer) TexCoord(i int) r2.Vec {
	if !b.HasUV() {
		return r2.Vec{}
	}
	return r2.Vec{X: b.UV[2*i], Y: b.UV[2*i+1]}
}

// VertexNormal returns the normal of vertex i, or the zero vector
// if the buffer has no normals.
func (b *Buffer) VertexNormal(i int) r3.Vec {
	if len(b.Normal) == 0 {
		return r3.Vec{}
	}
	return r3.Vec{X: b.Normal[3*i], Y: b.Normal[3*i+1], Z: b.Normal[3*i+2]}
}

// IndexAt returns the vertex index at the given index slot,
// which is the slot itself for a buffer without an index.
func (b *Buffer) IndexAt(slot int) int {
	if len(b.Index) == 0 {
		return slot
	}
	return int(b.Index[slot])
}

// TriangleVertices returns the vertex indexes of triangle i.
func (b *Buffer) TriangleVertices(i int) [3]int {
	return [3]int{b.IndexAt(3 * i), b.IndexAt(3*i + 1), b.IndexAt(3*i + 2)}
}

// TrianglePositions returns the corner positions of triangle i.
func (b *Buffer) TrianglePositions(i int) [3]r3.Vec {
	vi := b.TriangleVertices(i)
	return [3]r3.Vec{b.Vertex(vi[0]), b.Vertex(vi[1]), b.Vertex(vi[2])}
}

// FaceUVs returns the corner UVs of triangle i.
func (b *Buffer) FaceUVs(i int) [3]r2.Vec {
	vi := b.TriangleVertices(i)
	return [3]r2.Vec{b.TexCoord(vi[0]), b.TexCoord(vi[1]), b.TexCoord(vi[2])}
}

// MaterialOf returns the material index of triangle i according to
// the groups, and false if no group contains its first index slot.
func (b *Buffer) MaterialOf(i int) (int, bool) {
	slot := 3 * i
	for _, g := range b.Groups {
		if slot >= g.Start && slot < g.Start+g.Count {
			return g.MaterialIndex, true
		}
	}
	return 0, false
}

// TotalArea returns the summed area of all triangles.
func (b *Buffer) TotalArea() float64 {
	area := 0.0
	for i := range b.NumTriangle() {
		p := b.TrianglePositions(i)
		area += geom.Area(p[0], p[1], p[2])
	}
	return area
}

// BBox returns the bounding box of all vertex positions.
func (b *Buffer) BBox() r3.Box {
	var bb r3.Box
	for i := range b.NumVertex() {
		p := b.Vertex(i)
		if i == 0 {
			bb = r3.Box{Min: p, Max: p}
			continue
		}
		bb.Min = r3.Vec{X: min(bb.Min.X, p.X), Y: min(bb.Min.Y, p.Y), Z: min(bb.Min.Z, p.Z)}
		bb.Max = r3.Vec{X: max(bb.Max.X, p.X), Y: max(bb.Max.Y, p.Y), Z: max(bb.Max.Z, p.Z)}
	}
	return bb
}

// Validate returns an error wrapping [ErrInvalidBuffer] if the
// attribute lengths or the indexes are inconsistent.
func (b *Buffer) Validate() error {
	if len(b.Position)%3 != 0 {
		return fmt.Errorf("%w: %d position values is not a multiple of 3", ErrInvalidBuffer, len(b.Position))
	}
	nv := b.NumVertex()
	if b.HasUV() && len(b.UV) != 2*nv {
		return fmt.Errorf("%w: %d uv values for %d vertices", ErrInvalidBuffer, len(b.UV), nv)
	}
	if len(b.Normal) > 0 && len(b.Normal) != 3*nv {
		return fmt.Errorf("%w: %d normal values for %d vertices", ErrInvalidBuffer, len(b.Normal), nv)
	}
	if b.NumIndex()%3 != 0 {
		return fmt.Errorf("%w: %d indexes is not a multiple of 3", ErrInvalidBuffer, b.NumIndex())
	}
	for slot, vi := range b.Index {
		if int(vi) >= nv {
			return fmt.Errorf("%w: index %d at slot %d is out of range of %d vertices", ErrInvalidBuffer, vi, slot, nv)
		}
	}
	for gi, g := range b.Groups {
		if g.Start < 0 || g.Count < 0 {
			return fmt.Errorf("%w: group %d has a negative range", ErrInvalidBuffer, gi)
		}
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	cb := &Buffer{}
	if err := copier.CopyWithOption(cb, b, copier.Option{DeepCopy: true}); err != nil {
		panic(err) // only fails for mismatched types
	}
	return cb
}

// ComputeNormals sets the vertex normals from the triangles,
// accumulating the area weighted face normal of every triangle
// that uses the vertex and normalizing the sum. Vertices that are
// not used by any triangle, or only by degenerate ones, get a zero normal.
func (b *Buffer) ComputeNormals() {
	nv := b.NumVertex()
	acc := make([]r3.Vec, nv)
	for i := range b.NumTriangle() {
		vi := b.TriangleVertices(i)
		pa, pb, pc := b.Vertex(vi[0]), b.Vertex(vi[1]), b.Vertex(vi[2])
		fn := r3.Cross(r3.Sub(pc, pb), r3.Sub(pa, pb))
		for _, v := range vi {
			acc[v] = r3.Add(acc[v], fn)
		}
	}
	b.Normal = make([]float64, 3*nv)
	for i, n := range acc {
		if r3.Norm2(n) > 0 {
			n = r3.Unit(n)
		}
		b.Normal[3*i] = n.X
		b.Normal[3*i+1] = n.Y
		b.Normal[3*i+2] = n.Z
	}
}

// SplitTriangles converts the buffer so that every triangle corner
// has its own vertex, with an identity index. Index slots keep their
// order, so the groups remain valid. Normals are recomputed, which
// makes every triangle flat shaded.
func (b *Buffer) SplitTriangles() {
	ni := b.NumIndex()
	pos := make([]float64, 0, 3*ni)
	var uv []float64
	if b.HasUV() {
		uv = make([]float64, 0, 2*ni)
	}
	index := make([]uint32, ni)
	for slot := range ni {
		vi := b.IndexAt(slot)
		pos = append(pos, b.Position[3*vi:3*vi+3]...)
		if uv != nil {
			uv = append(uv, b.UV[2*vi:2*vi+2]...)
		}
		index[slot] = uint32(slot)
	}
	b.Position = pos
	b.UV = uv
	b.Index = index
	b.ComputeNormals()
}

// Wireframe returns line segments along every triangle edge, as
// 6 position values per segment. Each corner is pushed along its
// vertex normal by offset, so that the lines draw on top of the
// surface. Normals are computed if the buffer has none.
func (b *Buffer) Wireframe(offset float64) []float64 {
	nb := b
	if len(b.Normal) == 0 {
		nb = b.Clone()
		nb.ComputeNormals()
	}
	nt := nb.NumTriangle()
	lines := make([]float64, 0, nt*18)
	for i := range nt {
		vi := nb.TriangleVertices(i)
		var vs [3]r3.Vec
		for j, v := range vi {
			vs[j] = r3.Add(nb.Vertex(v), r3.Scale(offset, nb.VertexNormal(v)))
		}
		for j := range 3 {
			a, c := vs[j], vs[(j+1)%3]
			lines = append(lines, a.X, a.Y, a.Z, c.X, c.Y, c.Z)
		}
	}
	return lines
}
