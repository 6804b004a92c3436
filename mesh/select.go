// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

// SelectFaces replaces the current selection with the given faces.
// Faces created by splitting a selected face are selected, and
// removed faces leave the selection.
func (op *Operator) SelectFaces(ids []FaceID) error {
	slots, err := op.selection(ids)
	if err != nil {
		return err
	}
	op.ClearSelection()
	for _, s := range slots {
		op.faces[s].selected = true
	}
	return nil
}

// ClearSelection deselects all faces.
func (op *Operator) ClearSelection() {
	for i := range op.faces {
		op.faces[i].selected = false
	}
}

// Selection returns the selected faces in slot order.
func (op *Operator) Selection() []FaceID {
	var fl []FaceID
	for i := range op.faces {
		if op.faces[i].alive && op.faces[i].selected {
			fl = append(fl, op.handle(int32(i)))
		}
	}
	return fl
}

// ExtractFacesToGroup moves the given faces into a new material group
// and returns its material index, which is one more than the largest
// material index in use. A mesh without groups first gets a single
// group 0 holding every face.
func (op *Operator) ExtractFacesToGroup(ids []FaceID) (int, error) {
	slots, err := op.selection(ids)
	if err != nil {
		return 0, err
	}
	if !op.hasGroup {
		op.hasGroup = true
		for i := range op.faces {
			op.faces[i].material = 0
		}
	}
	mat := 0
	for i := range op.faces {
		if op.faces[i].alive {
			mat = max(mat, op.faces[i].material+1)
		}
	}
	for _, s := range slots {
		op.faces[s].material = mat
	}
	return mat, nil
}

// ExtractSelection moves the selected faces into a new material group,
// as in [Operator.ExtractFacesToGroup].
func (op *Operator) ExtractSelection() (int, error) {
	return op.ExtractFacesToGroup(op.Selection())
}
