// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// EditOps are the edit operation names accepted by [Operator.Apply].
const (
	EditInsert       = "insert"        // AddVertexInFace at Point
	EditSplit        = "split"         // AddLoopFaceInFace
	EditDelete       = "delete"        // RemoveJointFaces
	EditFill         = "fill"          // RemoveJointFacesRetriangulate
	EditDeleteVertex = "delete-vertex" // RemoveJointFacesByVertex at Corner
	EditSubdivide    = "subdivide"     // SimpleSubdivision, or SimpleSubdivisionFaces of Faces
	EditSelect       = "select"        // SelectFaces
	EditExtract      = "extract"       // ExtractFacesToGroup of Faces, or of the selection
)

// Edit is a serializable edit command. Faces are addressed by arena
// slot as in [Operator.FaceAt], which for faces not yet touched by an
// edit is their triangle index in the source buffer.
type Edit struct {
	Op     string      `json:"op" yaml:"op"`
	Face   int         `json:"face,omitempty" yaml:"face,omitempty"`
	Faces  []int       `json:"faces,omitempty" yaml:"faces,omitempty"`
	Point  *[3]float64 `json:"point,omitempty" yaml:"point,omitempty"`
	Corner int         `json:"corner,omitempty" yaml:"corner,omitempty"`
}

// EditResult is the outcome of an [Edit].
type EditResult struct {

	// Faces are the faces created by the edit.
	Faces []FaceID

	// Removed is the number of faces removed by the edit.
	Removed int

	// Material is the new material index of an extract edit.
	Material int
}

// Apply applies the edit.
func (op *Operator) Apply(e Edit) (EditResult, error) {
	var res EditResult
	var err error
	f := op.FaceAt(e.Face)
	switch strings.ToLower(e.Op) {
	case EditInsert:
		if e.Point == nil {
			return res, fmt.Errorf("%w: %s edit needs a point", ErrInvalidEdit, e.Op)
		}
		p := r3.Vec{X: e.Point[0], Y: e.Point[1], Z: e.Point[2]}
		var nf [3]FaceID
		nf, err = op.AddVertexInFace(f, p)
		res.Faces, res.Removed = nf[:], 1
	case EditSplit:
		var nf [4]FaceID
		nf, err = op.AddLoopFaceInFace(f)
		res.Faces, res.Removed = nf[:], 1
	case EditDelete:
		res.Removed, err = op.RemoveJointFaces(f)
	case EditDeleteVertex:
		res.Removed, err = op.RemoveJointFacesByVertex(f, e.Corner)
	case EditFill:
		var isl []FaceID
		if isl, err = op.JointFaces(f); err != nil {
			break
		}
		res.Faces, err = op.RemoveJointFacesRetriangulate(f)
		if err == nil {
			res.Removed = len(isl)
		}
	case EditSubdivide:
		n := op.NumFaces()
		if len(e.Faces) == 0 {
			res.Faces, err = op.SimpleSubdivision()
		} else {
			res.Faces, err = op.SimpleSubdivisionFaces(op.facesAt(e.Faces))
		}
		res.Removed = n + len(res.Faces) - op.NumFaces()
	case EditSelect:
		err = op.SelectFaces(op.facesAt(e.Faces))
	case EditExtract:
		if len(e.Faces) == 0 {
			res.Material, err = op.ExtractSelection()
		} else {
			res.Material, err = op.ExtractFacesToGroup(op.facesAt(e.Faces))
		}
	default:
		return res, fmt.Errorf("%w: unknown edit %q", ErrInvalidEdit, e.Op)
	}
	return res, err
}

func (op *Operator) facesAt(idx []int) []FaceID {
	fl := make([]FaceID, len(idx))
	for i, fi := range idx {
		fl[i] = op.FaceAt(fi)
	}
	return fl
}
