// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonmesh reads and writes buffers in the BufferGeometry JSON
// format of three.js, so that meshes can be exchanged with web viewers.
package jsonmesh

import (
	"fmt"
	"io"
	"strings"

	"cogentcore.org/meshedit/mesh"
	"cogentcore.org/meshedit/meshio"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

func init() {
	meshio.Decoders[".json"] = &Decoder{}
	meshio.Encoders[".json"] = &Encoder{}
}

// Metadata identifies the JSON document.
type Metadata struct {
	Version   float64 `json:"version"`
	Type      string  `json:"type"`
	Generator string  `json:"generator"`
}

// Attribute is a vertex attribute with ItemSize values per vertex.
type Attribute struct {
	ItemSize   int       `json:"itemSize"`
	Type       string    `json:"type"`
	Array      []float64 `json:"array"`
	Normalized bool      `json:"normalized"`
}

// Index is the index attribute.
type Index struct {
	Type  string   `json:"type"`
	Array []uint32 `json:"array"`
}

// Data is the geometry data.
type Data struct {
	Attributes map[string]*Attribute `json:"attributes"`
	Index      *Index                `json:"index,omitempty"`
	Groups     []mesh.Group          `json:"groups,omitempty"`
}

// Geometry is a BufferGeometry JSON document.
type Geometry struct {
	Metadata Metadata `json:"metadata"`
	UUID     string   `json:"uuid"`
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Data     Data     `json:"data"`
}

// FromBuffer returns the geometry document for the buffer,
// with a new uuid.
func FromBuffer(buf *mesh.Buffer) *Geometry {
	g := &Geometry{
		Metadata: Metadata{Version: 4.6, Type: "BufferGeometry", Generator: "BufferGeometry.toJSON"},
		UUID:     strings.ToUpper(uuid.NewString()),
		Type:     "BufferGeometry",
		Data:     Data{Attributes: map[string]*Attribute{}, Groups: buf.Groups},
	}
	attr := func(name string, size int, vals []float64) {
		if len(vals) > 0 {
			g.Data.Attributes[name] = &Attribute{ItemSize: size, Type: "Float32Array", Array: vals}
		}
	}
	attr("position", 3, buf.Position)
	attr("normal", 3, buf.Normal)
	attr("uv", 2, buf.UV)
	if len(buf.Index) > 0 {
		g.Data.Index = &Index{Type: "Uint32Array", Array: buf.Index}
	}
	return g
}

// Buffer returns the buffer for the geometry document.
func (g *Geometry) Buffer() (*mesh.Buffer, error) {
	if g.Type != "" && g.Type != "BufferGeometry" {
		return nil, fmt.Errorf("%w: jsonmesh: unsupported geometry type %q", mesh.ErrInvalidBuffer, g.Type)
	}
	buf := &mesh.Buffer{Groups: g.Data.Groups}
	get := func(name string, size int) ([]float64, error) {
		a := g.Data.Attributes[name]
		if a == nil {
			return nil, nil
		}
		if a.ItemSize != size {
			return nil, fmt.Errorf("%w: jsonmesh: %s attribute has item size %d, not %d", mesh.ErrInvalidBuffer, name, a.ItemSize, size)
		}
		return a.Array, nil
	}
	var err error
	if buf.Position, err = get("position", 3); err != nil {
		return nil, err
	}
	if buf.Position == nil {
		return nil, fmt.Errorf("%w: jsonmesh: no position attribute", mesh.ErrInvalidBuffer)
	}
	if buf.Normal, err = get("normal", 3); err != nil {
		return nil, err
	}
	if buf.UV, err = get("uv", 2); err != nil {
		return nil, err
	}
	if g.Data.Index != nil {
		buf.Index = g.Data.Index.Array
	}
	return buf, buf.Validate()
}

// Unmarshal decodes a buffer from BufferGeometry JSON.
func Unmarshal(data []byte) (*mesh.Buffer, error) {
	var g Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return g.Buffer()
}

// Marshal encodes the buffer as BufferGeometry JSON.
func Marshal(buf *mesh.Buffer) ([]byte, error) {
	return json.Marshal(FromBuffer(buf))
}

// Decoder implements the [meshio.Decoder] interface for .json files.
type Decoder struct{}

func (dec *Decoder) New() meshio.Decoder {
	return &Decoder{}
}

func (dec *Decoder) Desc() string {
	return ".json = three.js BufferGeometry JSON format, with position, normal and uv attributes, index and groups."
}

func (dec *Decoder) Decode(r io.Reader) (*mesh.Buffer, error) {
	var g Geometry
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, err
	}
	return g.Buffer()
}

// Encoder implements the [meshio.Encoder] interface for .json files.
type Encoder struct {

	// Indent is the indentation of the output; none if empty.
	Indent string
}

func (enc *Encoder) Desc() string {
	return ".json = three.js BufferGeometry JSON format."
}

func (enc *Encoder) Encode(w io.Writer, buf *mesh.Buffer) error {
	je := json.NewEncoder(w)
	if enc.Indent != "" {
		je.SetIndent("", enc.Indent)
	}
	return je.Encode(FromBuffer(buf))
}
