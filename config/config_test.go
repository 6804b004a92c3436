// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/meshedit/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, 0.0001, cfg.Tolerance)
	assert.Equal(t, geom.WrapRepeat, cfg.WrapS)
	assert.Equal(t, "meshedit.db", cfg.Database)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "default", cfg.Scene)
	assert.False(t, cfg.Verbose)

	opts := cfg.MeshOptions()
	assert.Equal(t, 0.0001, opts.Tolerance)
	assert.Equal(t, 0, opts.MaxRingVertices)

	type bad struct {
		N int `default:"x"`
	}
	assert.Error(t, SetFromDefaults(&bad{}))
	assert.Error(t, SetFromDefaults(bad{}))
}

func TestOpenTOML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "meshedit.toml")
	src := `input = "in.obj"
tolerance = 0.001
max_ring_vertices = 64
wrap_t = "Clamp"
`
	require.NoError(t, os.WriteFile(fn, []byte(src), 0666))
	cfg := New()
	require.NoError(t, Open(cfg, fn))
	assert.Equal(t, "in.obj", cfg.Input)
	assert.Equal(t, 0.001, cfg.Tolerance)
	assert.Equal(t, 64, cfg.MaxRingVertices)
	assert.Equal(t, geom.WrapClamp, cfg.WrapT)
	assert.Equal(t, geom.WrapRepeat, cfg.WrapS)
	assert.Equal(t, ":8080", cfg.Addr)

	require.NoError(t, os.WriteFile(fn, []byte("colour = 3\n"), 0666))
	assert.Error(t, Open(cfg, fn))
	assert.Error(t, Open(cfg, filepath.Join(t.TempDir(), "missing.toml")))
}

func TestOpenYAML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "meshedit.yaml")
	src := "output: out.json\nscene: terrain\nwrap_s: none\nquiet: true\n"
	require.NoError(t, os.WriteFile(fn, []byte(src), 0666))
	cfg := New()
	require.NoError(t, Open(cfg, fn))
	assert.Equal(t, "out.json", cfg.Output)
	assert.Equal(t, "terrain", cfg.Scene)
	assert.Equal(t, geom.WrapNone, cfg.WrapS)
	assert.True(t, cfg.Quiet)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Input = "a.obj"
	cfg.WrapT = geom.WrapClamp
	for _, fn := range []string{"c.toml", "c.yaml"} {
		fn = filepath.Join(dir, fn)
		require.NoError(t, Save(cfg, fn))
		rc := &Config{}
		require.NoError(t, Open(rc, fn))
		assert.Equal(t, cfg, rc)
	}
}
