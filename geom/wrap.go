// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// WrapMode is how texture coordinates outside of [0,1]
// are mapped back into the texture.
type WrapMode int32

const (
	// WrapClamp clamps each coordinate to [0,1].
	WrapClamp WrapMode = iota

	// WrapRepeat tiles the texture, mapping each
	// coordinate into [0,1).
	WrapRepeat

	// WrapNone leaves the coordinate unchanged.
	WrapNone
)

var wrapModeNames = [...]string{"Clamp", "Repeat", "None"}

// String returns the name of the wrap mode.
func (wm WrapMode) String() string {
	if wm >= 0 && int(wm) < len(wrapModeNames) {
		return wrapModeNames[wm]
	}
	return fmt.Sprintf("WrapMode(%d)", int32(wm))
}

// WrapModeValues returns all possible values for the type WrapMode.
func WrapModeValues() []WrapMode {
	return []WrapMode{WrapClamp, WrapRepeat, WrapNone}
}

// SetString sets the wrap mode from its name, case insensitively.
func (wm *WrapMode) SetString(s string) error {
	for i, nm := range wrapModeNames {
		if strings.EqualFold(nm, s) {
			*wm = WrapMode(i)
			return nil
		}
	}
	return fmt.Errorf("%q is not a valid value for type WrapMode", s)
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (wm WrapMode) MarshalText() ([]byte, error) {
	return []byte(wm.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (wm *WrapMode) UnmarshalText(text []byte) error {
	return wm.SetString(string(text))
}

// Wrap returns the coordinate mapped into the texture by the wrap mode.
func (wm WrapMode) Wrap(c float64) float64 {
	switch wm {
	case WrapClamp:
		return min(max(c, 0), 1)
	case WrapRepeat:
		c = math.Mod(c, 1)
		if c < 0 {
			c += 1
		}
		if c >= 1 || c == 0 { // -tiny + 1 rounds up to 1; no -0
			c = 0
		}
		return c
	}
	return c
}

// ResolveWrapUV maps the given uv into the texture in place,
// applying wrapS to U and wrapT to V independently.
func ResolveWrapUV(uv *r2.Vec, wrapS, wrapT WrapMode) {
	uv.X = wrapS.Wrap(uv.X)
	uv.Y = wrapT.Wrap(uv.Y)
}
