// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"cogentcore.org/meshedit/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// quadBuffer is a unit quad in the XY plane made of the
// triangles (0, 1, 2) and (0, 2, 3), all in material 0.
func quadBuffer() *Buffer {
	return &Buffer{
		Position: []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		UV:       []float64{0, 0, 1, 0, 1, 1, 0, 1},
		Index:    []uint32{0, 1, 2, 0, 2, 3},
		Groups:   []Group{{Start: 0, Count: 6, MaterialIndex: 0}},
	}
}

// gridBuffer is a planar 4x4 vertex grid spanning [-1, 2] in X and Y,
// with every square split along its (i, j) to (i+1, j+1) diagonal.
// Triangle 8 is (0,0) (1,0) (1,1).
func gridBuffer() *Buffer {
	b := &Buffer{}
	for j := range 4 {
		for i := range 4 {
			b.Position = append(b.Position, float64(i-1), float64(j-1), 0)
			b.UV = append(b.UV, float64(i)/3, float64(j)/3)
		}
	}
	vi := func(i, j int) uint32 { return uint32(i + 4*j) }
	for j := range 3 {
		for i := range 3 {
			b.Index = append(b.Index, vi(i, j), vi(i+1, j), vi(i+1, j+1), vi(i, j), vi(i+1, j+1), vi(i, j+1))
		}
	}
	return b
}

func newOp(t *testing.T, b *Buffer, opts *Options) *Operator {
	t.Helper()
	op, err := NewOperator(b, opts)
	require.NoError(t, err)
	return op
}

func TestHashKey(t *testing.T) {
	k := HashKey(r3.Vec{X: 1.23456, Y: -0.00005, Z: 2}, 1e-4)
	assert.Equal(t, Key{X: 12345, Y: 0, Z: 20000}, k)
	assert.Equal(t, "12345,0,20000", k.String())
	assert.Equal(t, HashKey(r3.Vec{X: 0.50001}, 0), HashKey(r3.Vec{X: 0.50009}, 0))
	assert.NotEqual(t, HashKey(r3.Vec{X: 0.50009}, 0), HashKey(r3.Vec{X: 0.50011}, 0))
	assert.Equal(t, Key{X: 123}, HashKey(r3.Vec{X: 1.23456}, 0.01))
}

func TestRoundTrip(t *testing.T) {
	in := quadBuffer()
	op := newOp(t, in, nil)
	assert.Equal(t, 2, op.NumFaces())
	out, err := op.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, in.NumTriangle(), out.NumTriangle())
	assert.Equal(t, in.Groups, out.Groups)
	for i := range in.NumTriangle() {
		assert.Equal(t, in.FaceUVs(i), out.FaceUVs(i))
		assert.Equal(t, in.TrianglePositions(i), out.TrianglePositions(i))
	}
	assert.Len(t, out.Normal, 3*out.NumVertex())
	assert.InDelta(t, 1, out.VertexNormal(0).Z, 1e-12)

	_, err = op.Rebuild()
	assert.ErrorIs(t, err, ErrConsumed)
	_, err = op.AddLoopFaceInFace(op.FaceAt(0))
	assert.ErrorIs(t, err, ErrConsumed)
}

func TestRoundTripReorderedGroups(t *testing.T) {
	in := quadBuffer()
	in.Groups = []Group{{Start: 0, Count: 3, MaterialIndex: 1}, {Start: 3, Count: 3, MaterialIndex: 0}}
	op := newOp(t, in, nil)
	out, err := op.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, []Group{{Start: 0, Count: 3, MaterialIndex: 0}, {Start: 3, Count: 3, MaterialIndex: 1}}, out.Groups)
	for i := range in.NumTriangle() {
		oi, ok := op.OutputIndex(op.FaceAt(i))
		require.True(t, ok)
		assert.Equal(t, in.FaceUVs(i), out.FaceUVs(oi))
	}
	oi, _ := op.OutputIndex(op.FaceAt(0))
	assert.Equal(t, 1, oi)
}

func TestConstructionDiagnostics(t *testing.T) {
	soup := &Buffer{Position: []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0}}
	op := newOp(t, soup, nil)
	assert.Equal(t, 2, op.NumFaces())
	assert.Equal(t, 6, op.NumVertex())
	assert.Equal(t, 4, op.NumWeldKeys())
	assert.False(t, op.HasGroup())
	m, err := op.Material(op.FaceAt(1))
	require.NoError(t, err)
	assert.Equal(t, -1, m)

	b := quadBuffer()
	b.Groups = []Group{{Start: 0, Count: 3, MaterialIndex: 5}}
	op = newOp(t, b, nil)
	m, err = op.Material(op.FaceAt(1))
	require.NoError(t, err)
	assert.Equal(t, 5, m)

	_, err = NewOperator(&Buffer{Position: []float64{0, 0, 0, 1}}, nil)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
	b = quadBuffer()
	b.Index[4] = 7
	_, err = NewOperator(b, nil)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
	b = quadBuffer()
	b.UV = b.UV[:6]
	_, err = NewOperator(b, nil)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
}

func TestWeldSymmetry(t *testing.T) {
	soup := &Buffer{Position: []float64{
		0, 0, 0, 1, 0, 0, 1, 1, 0,
		0.00002, 0, 0, 1, 1.00003, 0, 0, 1, 0,
	}}
	op := newOp(t, soup, nil)
	for v := range op.NumVertex() {
		for _, jp := range op.JoinPoints(VertexID(v)) {
			assert.NotEqual(t, VertexID(v), jp)
			assert.Contains(t, op.JoinPoints(jp), VertexID(v))
			assert.Equal(t, op.WeldKey(VertexID(v)), op.WeldKey(jp))
		}
	}
	assert.Equal(t, []VertexID{3}, op.JoinPoints(0))
	assert.Equal(t, []VertexID{4}, op.JoinPoints(2))
	assert.Empty(t, op.JoinPoints(1))

	// the island sees through the seam
	isl, err := op.JointFaces(op.FaceAt(0))
	require.NoError(t, err)
	assert.Len(t, isl, 2)
	assert.Len(t, op.VertexFaces(3), 2)
}

func TestAddVertexInFace(t *testing.T) {
	in := quadBuffer()
	op := newOp(t, in, nil)
	f0 := op.FaceAt(0)
	p, err := op.FacePositions(f0)
	require.NoError(t, err)
	ctr := geom.Centroid(p[0], p[1], p[2])
	area := op.TotalArea()

	nf, err := op.AddVertexInFace(f0, ctr)
	require.NoError(t, err)
	assert.Equal(t, 4, op.NumFaces())
	assert.InDelta(t, area, op.TotalArea(), 1e-12)
	for _, f := range nf {
		m, err := op.Material(f)
		require.NoError(t, err)
		assert.Equal(t, 0, m)
	}
	c, err := op.Corners(nf[0])
	require.NoError(t, err)
	nv := c[2]
	assert.Equal(t, ctr, op.Position(nv))
	assert.InDelta(t, 2.0/3, op.UV(nv).X, 1e-12)
	assert.InDelta(t, 1.0/3, op.UV(nv).Y, 1e-12)

	_, err = op.AddVertexInFace(f0, ctr)
	assert.ErrorIs(t, err, ErrStaleFace)
	_, err = op.AddVertexInFace(op.FaceAt(99), ctr)
	assert.ErrorIs(t, err, ErrFaceOutOfRange)

	out, err := op.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, 4, out.NumTriangle())
	assert.Equal(t, 5, out.NumVertex())
	oi, ok := op.OutputIndex(op.FaceAt(1))
	require.True(t, ok)
	assert.Equal(t, in.TrianglePositions(1), out.TrianglePositions(oi))
	assert.Equal(t, in.FaceUVs(1), out.FaceUVs(oi))
	assert.Equal(t, []Group{{Start: 0, Count: 12, MaterialIndex: 0}}, out.Groups)
}

func TestAddVertexInDegenerateFace(t *testing.T) {
	b := &Buffer{
		Position: []float64{0, 0, 0, 1, 0, 0, 2, 0, 0},
		UV:       []float64{0, 0, 0.3, 0, 0.9, 0.6},
	}
	op := newOp(t, b, nil)
	nf, err := op.AddVertexInFace(op.FaceAt(0), r3.Vec{X: 1})
	require.NoError(t, err)
	c, _ := op.Corners(nf[0])
	assert.InDelta(t, 0.4, op.UV(c[2]).X, 1e-12)
	assert.InDelta(t, 0.2, op.UV(c[2]).Y, 1e-12)
}

func TestAddLoopFaceInFace(t *testing.T) {
	b := &Buffer{
		Position: []float64{0.1, 0.7, 0.3, 1.3, -0.2, 0.9, -0.4, 1.1, 2.7},
		UV:       []float64{0, 0, 1, 0, 0, 1},
	}
	op := newOp(t, b, nil)
	f := op.FaceAt(0)
	p, _ := op.FacePositions(f)
	nf, err := op.AddLoopFaceInFace(f)
	require.NoError(t, err)
	assert.Equal(t, 4, op.NumFaces())

	mid := func(a, b r3.Vec) r3.Vec {
		return r3.Vec{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
	}
	center, err := op.FacePositions(nf[3])
	require.NoError(t, err)
	assert.Equal(t, mid(p[0], p[1]), center[0])
	assert.Equal(t, mid(p[1], p[2]), center[1])
	assert.Equal(t, mid(p[2], p[0]), center[2])

	corner, _ := op.FacePositions(nf[0])
	assert.Equal(t, [3]r3.Vec{p[0], center[0], center[2]}, corner)

	cv, _ := op.Corners(nf[3])
	assert.InDelta(t, 0.5, op.UV(cv[0]).X, 1e-12)
	assert.InDelta(t, 0.5, op.UV(cv[1]).Y, 1e-12)
	assert.InDelta(t, 0, op.UV(cv[2]).X, 1e-12)
}

func TestRemoveJointFaces(t *testing.T) {
	op := newOp(t, gridBuffer(), nil)
	f := op.FaceAt(8)
	isl, err := op.JointFaces(f)
	require.NoError(t, err)
	assert.Len(t, isl, 13)

	// vertices used only by island faces
	inIsland := make(map[FaceID]bool)
	for _, i := range isl {
		inIsland[i] = true
	}
	owned := make(map[VertexID]bool)
	for _, i := range isl {
		c, _ := op.Corners(i)
		for _, v := range c {
			owned[v] = true
		}
	}
	for _, of := range op.Faces() {
		if inIsland[of] {
			continue
		}
		c, _ := op.Corners(of)
		for _, v := range c {
			delete(owned, v)
		}
	}
	// the three clicked corners and the (-1,-1), (0,-1), (2,1) and (2,2) grid points
	assert.Len(t, owned, 7)

	n, err := op.RemoveJointFaces(f)
	require.NoError(t, err)
	assert.Equal(t, 13, n)
	assert.Equal(t, 5, op.NumFaces())
	for _, of := range op.Faces() {
		c, _ := op.Corners(of)
		for _, v := range c {
			assert.False(t, owned[v])
		}
	}
	assert.False(t, op.IsValid(f))
	_, err = op.RemoveJointFaces(f)
	assert.ErrorIs(t, err, ErrStaleFace)
}

func TestRemoveJointFacesByVertex(t *testing.T) {
	op := newOp(t, gridBuffer(), nil)
	// corner 0 of triangle 8 is the (0,0) grid point, with 6 faces
	n, err := op.RemoveJointFacesByVertex(op.FaceAt(8), 3)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, 12, op.NumFaces())

	op = newOp(t, gridBuffer(), nil)
	// corner 1 is (1,0), taken modulo 3
	n, err = op.RemoveJointFacesByVertex(op.FaceAt(8), -2)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestRetriangulateArea(t *testing.T) {
	op := newOp(t, gridBuffer(), nil)
	f := op.FaceAt(8)
	isl, err := op.JointFaces(f)
	require.NoError(t, err)
	removed := 0.0
	for _, i := range isl {
		a, _ := op.Area(i)
		removed += a
	}
	assert.InDelta(t, 6.5, removed, 1e-12)
	total := op.TotalArea()

	nf, err := op.RemoveJointFacesRetriangulate(f)
	require.NoError(t, err)
	require.NotEmpty(t, nf)
	added := 0.0
	for _, i := range nf {
		a, err := op.Area(i)
		require.NoError(t, err)
		added += a
		p, _ := op.FacePositions(i)
		assert.Greater(t, geom.Normal(p[0], p[1], p[2]).Z, 0.0)
		m, _ := op.Material(i)
		assert.Equal(t, -1, m)
	}
	assert.InDelta(t, removed, added, 1e-9)
	assert.InDelta(t, total, op.TotalArea(), 1e-9)
	assert.InDelta(t, 9, op.TotalArea(), 1e-9)
	assert.False(t, op.IsValid(f))

	out, err := op.Rebuild()
	require.NoError(t, err)
	assert.InDelta(t, 9, out.TotalArea(), 1e-9)
	assert.Empty(t, out.Groups)
}

func TestRetriangulateMaterial(t *testing.T) {
	b := gridBuffer()
	b.Groups = []Group{{Start: 0, Count: len(b.Index), MaterialIndex: 2}}
	op := newOp(t, b, nil)
	nf, err := op.RemoveJointFacesRetriangulate(op.FaceAt(8))
	require.NoError(t, err)
	for _, f := range nf {
		m, _ := op.Material(f)
		assert.Equal(t, 2, m)
	}
}

// capBuffer is a triangle A B C with an inner face P Q R in material 0,
// joined to A B C by six material 0 faces, and a material 5 face
// A B C laid over all of them as triangle 7.
func capBuffer() *Buffer {
	return &Buffer{
		Position: []float64{
			0, 0, 0, 4, 0, 0, 2, 4, 0, // A B C
			1.5, 1, 0, 2.5, 1, 0, 2, 2, 0, // P Q R
		},
		Index: []uint32{
			3, 4, 5,
			0, 1, 4, 0, 4, 3,
			1, 2, 5, 1, 5, 4,
			2, 0, 3, 2, 3, 5,
			0, 1, 2,
		},
		Groups: []Group{{Start: 0, Count: 21, MaterialIndex: 0}, {Start: 21, Count: 3, MaterialIndex: 5}},
	}
}

func TestRetriangulateSharedFaceMaterial(t *testing.T) {
	op := newOp(t, capBuffer(), nil)
	capFace := op.FaceAt(7)
	nf, err := op.RemoveJointFacesRetriangulate(op.FaceAt(0))
	require.NoError(t, err)
	require.Len(t, nf, 1)
	assert.Equal(t, 2, op.NumFaces())
	assert.True(t, op.IsValid(capFace))
	m, err := op.Material(nf[0])
	require.NoError(t, err)
	assert.Equal(t, 5, m)
	p, err := op.FacePositions(nf[0])
	require.NoError(t, err)
	assert.Positive(t, geom.Normal(p[0], p[1], p[2]).Z)
}

func TestRetriangulateCollinearRing(t *testing.T) {
	// ring A(0,0) B(1,0) C(2,0) around the face P Q R
	b := &Buffer{
		Position: []float64{
			0, 0, 0, 1, 0, 0, 2, 0, 0, // A B C
			0.5, 1, 0, 1.5, 1, 0, 1, 2, 0, // P Q R
		},
		Index: []uint32{3, 4, 5, 0, 1, 3, 1, 4, 3, 1, 2, 4},
	}
	op := newOp(t, b, nil)
	f := op.FaceAt(0)
	_, err := op.RemoveJointFacesRetriangulate(f)
	assert.ErrorIs(t, err, ErrDegenerateRing)
	assert.Equal(t, 4, op.NumFaces())
	assert.True(t, op.IsValid(f))
	assert.InDelta(t, 2, op.TotalArea(), 1e-12)
}

func TestRetriangulateDegenerate(t *testing.T) {
	op := newOp(t, quadBuffer(), nil)
	_, err := op.RemoveJointFacesRetriangulate(op.FaceAt(0))
	assert.ErrorIs(t, err, ErrDegenerateRing)
	assert.Equal(t, 2, op.NumFaces())
	assert.True(t, op.IsValid(op.FaceAt(0)))

	op = newOp(t, gridBuffer(), &Options{MaxRingVertices: 4})
	_, err = op.RemoveJointFacesRetriangulate(op.FaceAt(8))
	assert.ErrorIs(t, err, ErrRingTooLarge)
	assert.Equal(t, 18, op.NumFaces())
}

func TestSimpleSubdivision(t *testing.T) {
	op := newOp(t, quadBuffer(), nil)
	nf, err := op.SimpleSubdivision()
	require.NoError(t, err)
	assert.Len(t, nf, 8)
	assert.Equal(t, 8, op.NumFaces())
	assert.InDelta(t, 1, op.TotalArea(), 1e-12)
	out, err := op.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, 9, out.NumVertex())
	assert.Equal(t, 8, out.NumTriangle())
}

func TestSimpleSubdivisionFaces(t *testing.T) {
	op := newOp(t, quadBuffer(), nil)
	_, err := op.SimpleSubdivisionFaces(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)

	f1 := op.FaceAt(1)
	nf, err := op.SimpleSubdivisionFaces([]FaceID{op.FaceAt(0), op.FaceAt(0)})
	require.NoError(t, err)
	assert.Len(t, nf, 4)
	assert.Equal(t, 5, op.NumFaces())
	assert.True(t, op.IsValid(f1))
	assert.Equal(t, 7, op.NumVertex())
	assert.InDelta(t, 1, op.TotalArea(), 1e-12)
}

func TestSelectAndExtract(t *testing.T) {
	op := newOp(t, quadBuffer(), nil)
	assert.ErrorIs(t, op.SelectFaces(nil), ErrEmptySelection)
	require.NoError(t, op.SelectFaces([]FaceID{op.FaceAt(1)}))
	assert.Equal(t, []FaceID{op.FaceAt(1)}, op.Selection())

	nf, err := op.AddLoopFaceInFace(op.FaceAt(1))
	require.NoError(t, err)
	assert.ElementsMatch(t, nf[:], op.Selection())

	mat, err := op.ExtractSelection()
	require.NoError(t, err)
	assert.Equal(t, 1, mat)
	out, err := op.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, []Group{{Start: 0, Count: 3, MaterialIndex: 0}, {Start: 3, Count: 12, MaterialIndex: 1}}, out.Groups)
}

func TestExtractUngrouped(t *testing.T) {
	op := newOp(t, gridBuffer(), nil)
	assert.False(t, op.HasGroup())
	mat, err := op.ExtractFacesToGroup([]FaceID{op.FaceAt(3), op.FaceAt(4)})
	require.NoError(t, err)
	assert.Equal(t, 1, mat)
	assert.True(t, op.HasGroup())
	m, _ := op.Material(op.FaceAt(0))
	assert.Equal(t, 0, m)
	mat, err = op.ExtractFacesToGroup([]FaceID{op.FaceAt(0)})
	require.NoError(t, err)
	assert.Equal(t, 2, mat)

	_, err = op.ExtractFacesToGroup([]FaceID{op.FaceAt(40)})
	assert.ErrorIs(t, err, ErrFaceOutOfRange)
	out, err := op.Rebuild()
	require.NoError(t, err)
	require.Len(t, out.Groups, 3)
	assert.Equal(t, Group{Start: 0, Count: 45, MaterialIndex: 0}, out.Groups[0])
	assert.Equal(t, Group{Start: 45, Count: 6, MaterialIndex: 1}, out.Groups[1])
	assert.Equal(t, Group{Start: 51, Count: 3, MaterialIndex: 2}, out.Groups[2])
}

func TestSlotReuse(t *testing.T) {
	op := newOp(t, quadBuffer(), nil)
	f0 := op.FaceAt(0)
	nf, err := op.AddVertexInFace(f0, r3.Vec{X: 0.6, Y: 0.3})
	require.NoError(t, err)
	assert.Equal(t, f0.Slot(), nf[0].Slot())
	assert.NotEqual(t, f0, nf[0])
	assert.False(t, op.IsValid(f0))
	assert.True(t, op.IsValid(nf[0]))
}
