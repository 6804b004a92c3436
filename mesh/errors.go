// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "cogentcore.org/meshedit/base/errors"

var (
	// ErrInvalidBuffer is returned for a buffer with inconsistent
	// attribute lengths or out of range indexes.
	ErrInvalidBuffer = errors.New("mesh: invalid buffer")

	// ErrFaceOutOfRange is returned for a face index that
	// does not address any face slot.
	ErrFaceOutOfRange = errors.New("mesh: face index out of range")

	// ErrStaleFace is returned for a face handle whose face
	// has been removed by an earlier edit.
	ErrStaleFace = errors.New("mesh: stale face handle")

	// ErrEmptySelection is returned by selection operations
	// given no faces.
	ErrEmptySelection = errors.New("mesh: empty face selection")

	// ErrDegenerateRing is returned when the boundary ring of a
	// removed face island cannot be triangulated.
	ErrDegenerateRing = errors.New("mesh: degenerate boundary ring")

	// ErrRingTooLarge is returned when the boundary ring of a removed
	// face island has more vertices than [Options.MaxRingVertices].
	ErrRingTooLarge = errors.New("mesh: boundary ring too large")

	// ErrInvalidEdit is returned by [Operator.Apply] for an
	// unknown or incomplete edit.
	ErrInvalidEdit = errors.New("mesh: invalid edit")

	// ErrConsumed is returned by every operation on an
	// [Operator] after [Operator.Rebuild].
	ErrConsumed = errors.New("mesh: operator already rebuilt")
)
