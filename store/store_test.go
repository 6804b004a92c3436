// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"cogentcore.org/meshedit/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() *mesh.Buffer {
	return &mesh.Buffer{
		Position: []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		UV:       []float64{0, 0, 1, 0, 1, 1, 0, 1},
		Index:    []uint32{0, 1, 2, 0, 2, 3},
		Groups:   []mesh.Group{{Start: 0, Count: 6, MaterialIndex: 0}},
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "meshedit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	sn, err := s.Save(ctx, "terrain", "v0", "", quad())
	require.NoError(t, err)
	assert.Len(t, sn.UUID, 36)
	assert.Equal(t, 2, sn.Faces)
	assert.Nil(t, sn.Parent)

	ld, err := s.Load(ctx, "terrain", "v0")
	require.NoError(t, err)
	assert.Equal(t, sn.UUID, ld.UUID)
	buf, err := ld.Buffer()
	require.NoError(t, err)
	assert.Equal(t, quad().Position, buf.Position)
	assert.Equal(t, quad().Index, buf.Index)
	assert.Equal(t, quad().Groups, buf.Groups)

	_, err = s.Load(ctx, "terrain", "v9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVersions(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	_, err := s.Save(ctx, "terrain", "v0", "", quad())
	require.NoError(t, err)
	sn, err := s.Save(ctx, "terrain", "v1", "v0", quad())
	require.NoError(t, err)
	require.NotNil(t, sn.Parent)
	assert.Equal(t, "v0", *sn.Parent)
	_, err = s.Save(ctx, "terrain", "v2", "v0", quad())
	require.NoError(t, err)
	_, err = s.Save(ctx, "rocks", "v0", "", quad())
	require.NoError(t, err)

	_, err = s.Save(ctx, "terrain", "v1", "v0", quad())
	assert.ErrorIs(t, err, ErrDuplicateVersion)
	_, err = s.Save(ctx, "terrain", "v3", "missing", quad())
	assert.ErrorIs(t, err, ErrNotFound)

	vs, err := s.Versions(ctx, "terrain")
	require.NoError(t, err)
	require.Len(t, vs.Nodes, 3)
	assert.Equal(t, "v2", vs.Nodes[2].Tag)
	assert.Empty(t, vs.Nodes[1].Mesh)
	assert.Equal(t, []Link{{From: 0, To: 1}, {From: 0, To: 2}}, vs.Links)

	ld, err := s.Load(ctx, "terrain", "v2")
	require.NoError(t, err)
	require.NotNil(t, ld.Parent)
	assert.Equal(t, "v0", *ld.Parent)

	vs, err = s.Versions(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, vs.Nodes)
	assert.Empty(t, vs.Links)

	scenes, err := s.Scenes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"rocks", "terrain"}, scenes)
}
