// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false, true))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, true, false))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, false, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, false, false))
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelInfo))
	l.Debug("hidden")
	l.Info("rebuilt", "faces", 4)
	l.With("mesh", "quad").WithGroup("edit").Warn("group mismatch", "indexSlot", 9)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "rebuilt faces=4")
	assert.Contains(t, out, "group mismatch mesh=quad edit.indexSlot=9")
}

func TestDefaultLogger(t *testing.T) {
	UserLevel = slog.LevelDebug
	defer func() { UserLevel = slog.LevelWarn }()
	SetDefaultLogger()

	slog.Debug("this is debug")
	slog.Info("this is info")
	slog.Warn("this is warn")
}
