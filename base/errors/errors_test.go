// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = New("sentinel")

func TestLog(t *testing.T) {
	var b bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&b, nil)))
	defer slog.SetDefault(prev)

	assert.NoError(t, Log(nil))
	assert.Empty(t, b.String())

	err := fmt.Errorf("wrapped: %w", errSentinel)
	assert.Equal(t, err, Log(err))
	assert.True(t, Is(Log(err), errSentinel))
	assert.Contains(t, b.String(), "wrapped: sentinel")
}

func TestJoin(t *testing.T) {
	other := New("other")
	j := Join(errSentinel, nil, other)
	assert.True(t, Is(j, errSentinel))
	assert.True(t, Is(j, other))
	assert.Nil(t, Join(nil, nil))
}
