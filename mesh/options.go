// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

// DefaultTolerance is the default weld tolerance: positions that agree
// to 4 decimal places are the same geometric point.
const DefaultTolerance = 1e-4

// Options are the tuning parameters of an [Operator].
type Options struct {

	// Tolerance is the quantization step of the weld index.
	// Positions whose coordinates truncate to the same multiples
	// of Tolerance are joined. It is rounded to the nearest power
	// of ten. 0 means [DefaultTolerance].
	Tolerance float64 `default:"0.0001"`

	// MaxRingVertices is the largest boundary ring that
	// retriangulation accepts; 0 means no limit.
	MaxRingVertices int `default:"0"`
}

// Defaults sets zero fields to their default values.
func (o *Options) Defaults() {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxRingVertices < 0 {
		o.MaxRingVertices = 0
	}
}
