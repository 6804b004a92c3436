// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshio reads and writes [mesh.Buffer] files, using format
// specific decoders and encoders registered by file extension.
// Formats register themselves when their package is imported:
//
//	import _ "cogentcore.org/meshedit/meshio/obj"
package meshio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/meshedit/mesh"
)

// Decoder parses a mesh file into a buffer.
// This interface is implemented by the different format-specific decoders.
type Decoder interface {

	// New returns a new instance of the decoder used for a specific decoding.
	New() Decoder

	// Desc returns the description of this decoder.
	Desc() string

	// Decode reads the given data and decodes it into a new buffer.
	Decode(r io.Reader) (*mesh.Buffer, error)
}

// Encoder writes a buffer in a mesh file format.
type Encoder interface {

	// Desc returns the description of this encoder.
	Desc() string

	// Encode writes the buffer to w.
	Encode(w io.Writer, buf *mesh.Buffer) error
}

// Decoders is the master list of decoders, indexed by the primary extension.
var Decoders = map[string]Decoder{}

// Encoders is the master list of encoders, indexed by the primary extension.
var Encoders = map[string]Encoder{}

// Ext returns the registry key for the given file name, or for the
// format name if it is not empty: ".obj" for "x.OBJ" or for "obj".
func Ext(fname, format string) string {
	if format != "" {
		return "." + strings.TrimPrefix(strings.ToLower(format), ".")
	}
	return strings.ToLower(filepath.Ext(fname))
}

// Formats returns the sorted list of extensions that can be decoded.
func Formats() []string {
	fl := make([]string, 0, len(Decoders))
	for ext := range Decoders {
		fl = append(fl, ext)
	}
	slices.Sort(fl)
	return fl
}

// Read decodes a buffer from r with the decoder for the given
// file name or format name (see [Ext]).
func Read(r io.Reader, fname, format string) (*mesh.Buffer, error) {
	ext := Ext(fname, format)
	dt, has := Decoders[ext]
	if !has {
		return nil, fmt.Errorf("meshio.Read: file extension: %v not found in Decoders list for file %v", ext, fname)
	}
	buf, err := dt.New().Decode(r)
	if err != nil {
		return nil, fmt.Errorf("meshio.Read: %v: %w", fname, err)
	}
	return buf, nil
}

// DecodeFile decodes the given file using a decoder based on the file
// extension, or on format if it is not empty.
func DecodeFile(fname, format string) (*mesh.Buffer, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, fname, format)
}

// Write encodes the buffer to w with the encoder for the given
// file name or format name (see [Ext]).
func Write(w io.Writer, buf *mesh.Buffer, fname, format string) error {
	ext := Ext(fname, format)
	et, has := Encoders[ext]
	if !has {
		return fmt.Errorf("meshio.Write: file extension: %v not found in Encoders list for file %v", ext, fname)
	}
	return et.Encode(w, buf)
}

// EncodeFile encodes the buffer into the given file using an encoder
// based on the file extension, or on format if it is not empty.
func EncodeFile(fname, format string, buf *mesh.Buffer) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = Write(f, buf, fname, format)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
