// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"cogentcore.org/meshedit/mesh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// editCmds returns the commands that apply operator edits to a mesh.
func (a *app) editCmds() []*cobra.Command {
	var face, corner int
	var point []float64
	var faces []int
	var fill bool
	var editsFile string

	faceFlag := func(cmd *cobra.Command) *cobra.Command {
		cmd.Flags().IntVar(&face, "face", 0, "the triangle index of the face to edit")
		return cmd
	}
	facesFlag := func(cmd *cobra.Command, usage string) *cobra.Command {
		cmd.Flags().IntSliceVar(&faces, "faces", nil, usage)
		return cmd
	}
	editCmd := func(use, short string, edits func() ([]mesh.Edit, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [mesh]",
			Short: short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				el, err := edits()
				if err != nil {
					return err
				}
				return a.transform(args, func(buf *mesh.Buffer) (*mesh.Buffer, error) {
					return a.apply(buf, el)
				})
			},
		}
	}
	one := func(e func() mesh.Edit) func() ([]mesh.Edit, error) {
		return func() ([]mesh.Edit, error) { return []mesh.Edit{e()}, nil }
	}

	insert := faceFlag(editCmd("insert", "Insert a vertex into a face, splitting it in three",
		func() ([]mesh.Edit, error) {
			if len(point) != 3 {
				return nil, fmt.Errorf("--point needs three coordinates, got %d", len(point))
			}
			return []mesh.Edit{{Op: mesh.EditInsert, Face: face, Point: &[3]float64{point[0], point[1], point[2]}}}, nil
		}))
	insert.Flags().Float64SliceVar(&point, "point", nil, "the x,y,z position of the new vertex")

	split := faceFlag(editCmd("split", "Split a face in four at its edge midpoints",
		one(func() mesh.Edit { return mesh.Edit{Op: mesh.EditSplit, Face: face} })))

	del := faceFlag(editCmd("delete", "Remove the faces joined to a face",
		one(func() mesh.Edit {
			if fill {
				return mesh.Edit{Op: mesh.EditFill, Face: face}
			}
			return mesh.Edit{Op: mesh.EditDelete, Face: face}
		})))
	del.Flags().BoolVar(&fill, "fill", false, "retriangulate the hole left by the removed faces")

	delVertex := faceFlag(editCmd("delete-vertex", "Remove the faces joined at a corner of a face",
		one(func() mesh.Edit { return mesh.Edit{Op: mesh.EditDeleteVertex, Face: face, Corner: corner} })))
	delVertex.Flags().IntVar(&corner, "corner", 0, "the corner of the face, 0 to 2")

	subdiv := facesFlag(editCmd("subdivide", "Split faces in four, all of them if no faces are given",
		one(func() mesh.Edit { return mesh.Edit{Op: mesh.EditSubdivide, Faces: faces} })),
		"the triangle indexes of the faces to subdivide")

	extract := facesFlag(editCmd("extract", "Move faces into a new material group",
		func() ([]mesh.Edit, error) {
			if len(faces) == 0 {
				return nil, fmt.Errorf("--faces is required")
			}
			return []mesh.Edit{{Op: mesh.EditExtract, Faces: faces}}, nil
		}),
		"the triangle indexes of the faces to extract")

	apply := editCmd("apply", "Apply a YAML or JSON list of edits in one transaction",
		func() ([]mesh.Edit, error) {
			b, err := os.ReadFile(editsFile)
			if err != nil {
				return nil, err
			}
			var el []mesh.Edit
			if err := yaml.Unmarshal(b, &el); err != nil {
				return nil, fmt.Errorf("%v: %w", editsFile, err)
			}
			return el, nil
		})
	apply.Flags().StringVarP(&editsFile, "edits", "e", "", "the file of edits to apply")
	apply.MarkFlagRequired("edits")

	return []*cobra.Command{insert, split, del, delVertex, subdiv, extract, apply}
}

// apply runs the edits on a new operator over buf and returns the
// rebuilt mesh. No mesh is returned if any edit fails.
func (a *app) apply(buf *mesh.Buffer, edits []mesh.Edit) (*mesh.Buffer, error) {
	op, err := mesh.NewOperator(buf, a.cfg.MeshOptions())
	if err != nil {
		return nil, err
	}
	for i, e := range edits {
		res, err := op.Apply(e)
		if err != nil {
			return nil, fmt.Errorf("edit %d (%s): %w", i, e.Op, err)
		}
		slog.Info("applied edit", "op", e.Op, "created", len(res.Faces), "removed", res.Removed, "faces", op.NumFaces())
	}
	return op.Rebuild()
}
