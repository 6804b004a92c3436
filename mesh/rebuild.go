// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"log/slog"
	"slices"
)

// Rebuild returns a new compact buffer for the live faces. Only vertices
// used by a live face are emitted, numbered in order of first use. Faces
// are emitted in slot order, stably sorted by material when the mesh has
// groups, with one group per run of equal material. Vertex normals are
// recomputed.
//
// The operator is consumed: after Rebuild only [Operator.OutputIndex]
// is meaningful, and every edit returns [ErrConsumed].
func (op *Operator) Rebuild() (*Buffer, error) {
	if op.consumed {
		return nil, ErrConsumed
	}
	op.consumed = true

	order := make([]int32, 0, op.live)
	for i := range op.faces {
		if op.faces[i].alive {
			order = append(order, int32(i))
		}
	}
	if op.hasGroup {
		slices.SortStableFunc(order, func(a, b int32) int {
			return op.faces[a].material - op.faces[b].material
		})
	}

	ids := make([]int, len(op.verts))
	for i := range ids {
		ids[i] = -1
	}
	buf := &Buffer{Index: make([]uint32, 0, 3*len(order))}
	op.outIndex = make([]int, len(op.faces))
	nv := 0
	for ti, s := range order {
		fc := &op.faces[s]
		op.outIndex[s] = ti
		for _, v := range fc.v {
			if ids[v] < 0 {
				ids[v] = nv
				nv++
				vx := &op.verts[v]
				buf.Position = append(buf.Position, vx.pos.X, vx.pos.Y, vx.pos.Z)
				if op.hasUV {
					buf.UV = append(buf.UV, vx.uv.X, vx.uv.Y)
				}
			}
			buf.Index = append(buf.Index, uint32(ids[v]))
		}
		if !op.hasGroup {
			continue
		}
		ng := len(buf.Groups)
		if ng > 0 && buf.Groups[ng-1].MaterialIndex == fc.material {
			buf.Groups[ng-1].Count += 3
		} else {
			buf.Groups = append(buf.Groups, Group{Start: 3 * ti, Count: 3, MaterialIndex: fc.material})
		}
	}
	buf.ComputeNormals()
	slog.Debug("mesh: rebuilt", "faces", len(order), "vertices", nv, "groups", len(buf.Groups))
	return buf, nil
}
