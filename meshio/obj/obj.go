// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This package is based extensively on https://github.com/g3n/engine :
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obj reads and writes the Wavefront OBJ file format (*.obj).
// Only the geometry is supported: positions, texture coordinates,
// normals, polygonal faces and usemtl material switches. Materials
// become the groups of the buffer. Basic format info:
// https://en.wikipedia.org/wiki/Wavefront_.obj_file
package obj

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"cogentcore.org/meshedit/base/errors"
	"cogentcore.org/meshedit/mesh"
	"cogentcore.org/meshedit/meshio"
)

func init() {
	meshio.Decoders[".obj"] = &Decoder{}
	meshio.Encoders[".obj"] = &Encoder{}
}

// MaterialPrefix is the prefix of material names written by [Encoder],
// followed by the material index.
const MaterialPrefix = "material"

// Local constants
const (
	blanks   = "\r\n\t "
	invINDEX = -1
)

// corner is one vertex reference of a face: v/vt/vn.
type corner struct {
	v, vt, vn int
}

// Face contains all information about a decoded face.
type Face struct {
	corners  []corner
	Material int // index into the usemtl names in order of first use, -1 for none
}

// Decoder contains all decoded data from an obj file.
// It implements the [meshio.Decoder] interface and an instance
// is registered to handle .obj files.
type Decoder struct {
	Objects    []string       // object and group names, in order
	Materials  map[string]int // maps material name to material index
	Vertices   []float64      // vertices positions array
	Normals    []float64      // vertices normals
	Uvs        []float64      // vertices texture coordinates
	Faces      []Face         // decoded faces
	Warnings   []string       // warning messages
	line       uint           // current line number
	matNames   []string       // usemtl names in order of first use
	matCurrent int            // current index in matNames, -1 before any usemtl
}

func (dec *Decoder) New() meshio.Decoder {
	di := new(Decoder)
	di.Materials = make(map[string]int)
	di.line = 1
	di.matCurrent = -1
	return di
}

func (dec *Decoder) Desc() string {
	return ".obj = Wavefront OBJ format. Only geometry is read: usemtl material switches become groups, and .mtl files are ignored."
}

// Decode reads the given obj data and builds a buffer from it.
func (dec *Decoder) Decode(r io.Reader) (*mesh.Buffer, error) {
	if dec.Materials == nil {
		*dec = *dec.New().(*Decoder)
	}
	if err := dec.parse(r, dec.parseObjLine); err != nil {
		return nil, err
	}
	for _, w := range dec.Warnings {
		slog.Debug("obj: " + w)
	}
	return dec.Buffer()
}

// Buffer builds a buffer from the decoded faces. Every distinct
// v/vt/vn corner becomes one vertex, and polygons are split into
// triangle fans.
func (dec *Decoder) Buffer() (*mesh.Buffer, error) {
	hasUV, hasNorm := len(dec.Faces) > 0, len(dec.Faces) > 0
	for fi := range dec.Faces {
		for _, c := range dec.Faces[fi].corners {
			hasUV = hasUV && c.vt != invINDEX
			hasNorm = hasNorm && c.vn != invINDEX
		}
	}
	buf := &mesh.Buffer{}
	vidx := make(map[corner]uint32)
	copyVertex := func(c corner) (uint32, error) {
		if !hasUV {
			c.vt = invINDEX
		}
		if !hasNorm {
			c.vn = invINDEX
		}
		if vi, ok := vidx[c]; ok {
			return vi, nil
		}
		if c.v < 0 || 3*c.v+3 > len(dec.Vertices) {
			return 0, fmt.Errorf("vertex index %d out of range", c.v+1)
		}
		vi := uint32(buf.NumVertex())
		buf.Position = append(buf.Position, dec.Vertices[3*c.v:3*c.v+3]...)
		if hasUV {
			if c.vt < 0 || 2*c.vt+2 > len(dec.Uvs) {
				return 0, fmt.Errorf("uv index %d out of range", c.vt+1)
			}
			buf.UV = append(buf.UV, dec.Uvs[2*c.vt:2*c.vt+2]...)
		}
		if hasNorm {
			if c.vn < 0 || 3*c.vn+3 > len(dec.Normals) {
				return 0, fmt.Errorf("normal index %d out of range", c.vn+1)
			}
			buf.Normal = append(buf.Normal, dec.Normals[3*c.vn:3*c.vn+3]...)
		}
		vidx[c] = vi
		return vi, nil
	}

	hasMat := len(dec.matNames) > 0
	matIdx, defMat := dec.materialIndexes()
	for fi := range dec.Faces {
		face := &dec.Faces[fi]
		start := len(buf.Index)
		// triangle fan: 0, i-1, i
		for i := 2; i < len(face.corners); i++ {
			for _, ci := range [3]int{0, i - 1, i} {
				vi, err := copyVertex(face.corners[ci])
				if err != nil {
					return nil, fmt.Errorf("face %d: %w", fi+1, err)
				}
				buf.Index = append(buf.Index, vi)
			}
		}
		if !hasMat {
			continue
		}
		mat := defMat
		if face.Material >= 0 {
			mat = matIdx[face.Material]
		}
		ng := len(buf.Groups)
		if ng > 0 && buf.Groups[ng-1].MaterialIndex == mat {
			buf.Groups[ng-1].Count += len(buf.Index) - start
		} else {
			buf.Groups = append(buf.Groups, mesh.Group{Start: start, Count: len(buf.Index) - start, MaterialIndex: mat})
		}
	}
	return buf, nil
}

// parse reads the lines from the specified reader and dispatch them
// to the specified line parser.
func (dec *Decoder) parse(reader io.Reader, parseLine func(string) error) error {
	bufin := bufio.NewReader(reader)
	dec.line = 1
	for {
		// Reads next line and abort on errors (not EOF)
		line, err := bufin.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		// Parses the line
		line = strings.Trim(line, blanks)
		perr := parseLine(line)
		if perr != nil {
			return perr
		}
		// If EOF ends of parsing.
		if err == io.EOF {
			break
		}
		dec.line++
	}
	return nil
}

// Parses obj file line, dispatching to specific parsers
func (dec *Decoder) parseObjLine(line string) error {
	// Ignore empty lines
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	// Ignore comment lines
	ltype := fields[0]
	if strings.HasPrefix(ltype, "#") {
		return nil
	}
	switch ltype {
	case "o", "g":
		if len(fields) > 1 {
			dec.Objects = append(dec.Objects, fields[1])
		}
	case "v":
		return dec.parseFloats(fields[1:], 3, "v", &dec.Vertices)
	case "vn":
		return dec.parseFloats(fields[1:], 3, "vn", &dec.Normals)
	case "vt":
		return dec.parseFloats(fields[1:], 2, "vt", &dec.Uvs)
	case "f":
		return dec.parseFace(fields[1:])
	case "usemtl":
		return dec.parseUsemtl(fields[1:])
	case "mtllib", "s":
	default:
		dec.appendWarn("field not supported: " + ltype)
	}
	return nil
}

// parseFloats parses the first n values of a v, vn or vt line
// and appends them to vals.
func (dec *Decoder) parseFloats(fields []string, n int, ltype string, vals *[]float64) error {
	if len(fields) < n {
		return dec.formatError(fmt.Sprintf("Less than %d values in '%s' line", n, ltype))
	}
	for _, f := range fields[:n] {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return dec.formatError(err.Error())
		}
		*vals = append(*vals, val)
	}
	return nil
}

// parseIndex parses one index of a face field. Positive indexes are
// absolute and 1 based; negative ones are relative to the last of
// the count values parsed so far.
func (dec *Decoder) parseIndex(s string, count int, what string) (int, error) {
	val, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, dec.formatError(err.Error())
	}
	switch {
	case val > 0:
		return int(val - 1), nil
	case val < 0:
		return count + int(val), nil
	}
	return 0, dec.formatError("Face " + what + " index value equal to 0")
}

// parseFace parses a face decription line:
// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (dec *Decoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return dec.formatError("Face line with less 3 fields")
	}
	face := Face{corners: make([]corner, len(fields)), Material: dec.matCurrent}
	for pos, f := range fields {
		// Separate the current field in its components: v vt vn
		vfields := strings.Split(f, "/")
		c := &face.corners[pos]
		var err error
		c.v, err = dec.parseIndex(vfields[0], len(dec.Vertices)/3, "vertex")
		if err != nil {
			return err
		}
		c.vt, c.vn = invINDEX, invINDEX
		if len(vfields) > 1 && len(vfields[1]) > 0 {
			if c.vt, err = dec.parseIndex(vfields[1], len(dec.Uvs)/2, "uv"); err != nil {
				return err
			}
		}
		if len(vfields) > 2 && len(vfields[2]) > 0 {
			if c.vn, err = dec.parseIndex(vfields[2], len(dec.Normals)/3, "normal"); err != nil {
				return err
			}
		}
	}
	dec.Faces = append(dec.Faces, face)
	return nil
}

// parseUsemtl parses a "usemtl" decription line:
// usemtl <name>
func (dec *Decoder) parseUsemtl(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("Usemtl with no fields")
	}
	mat := slices.Index(dec.matNames, fields[0])
	if mat < 0 {
		mat = len(dec.matNames)
		dec.matNames = append(dec.matNames, fields[0])
	}
	dec.matCurrent = mat
	return nil
}

// materialIndexes sets [Decoder.Materials] and returns the material
// index of each usemtl name, and of the faces before any usemtl.
// Names written by [Encoder] keep their index. Other names, and the
// faces without a material, take the lowest unused indexes in order
// of first use.
func (dec *Decoder) materialIndexes() ([]int, int) {
	idx := make([]int, len(dec.matNames))
	used := make(map[int]bool, len(idx))
	for i, name := range dec.matNames {
		idx[i] = -1
		if ns, ok := strings.CutPrefix(name, MaterialPrefix); ok {
			if n, err := strconv.Atoi(ns); err == nil && n >= 0 {
				idx[i] = n
				used[n] = true
			}
		}
	}
	next := 0
	free := func() int {
		for used[next] {
			next++
		}
		used[next] = true
		return next
	}
	def := 0
	if slices.ContainsFunc(dec.Faces, func(f Face) bool { return f.Material < 0 }) {
		def = free()
	}
	dec.Materials = make(map[string]int, len(idx))
	for i, name := range dec.matNames {
		if idx[i] < 0 {
			idx[i] = free()
		}
		dec.Materials[name] = idx[i]
	}
	return idx, def
}

func (dec *Decoder) formatError(msg string) error {
	return fmt.Errorf("%s in line:%d", msg, dec.line)
}

func (dec *Decoder) appendWarn(msg string) {
	wline := fmt.Sprintf("obj(%d): %s", dec.line, msg)
	dec.Warnings = append(dec.Warnings, wline)
}

// Encoder writes buffers as obj files. It implements the
// [meshio.Encoder] interface.
type Encoder struct{}

func (enc *Encoder) Desc() string {
	return ".obj = Wavefront OBJ format. Groups are written as usemtl material<N> switches."
}

// Encode writes the buffer as an obj file.
func (enc *Encoder) Encode(w io.Writer, buf *mesh.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	ff := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	fmt.Fprintf(bw, "# %d vertices, %d triangles\n", buf.NumVertex(), buf.NumTriangle())
	for i := range buf.NumVertex() {
		p := buf.Vertex(i)
		fmt.Fprintf(bw, "v %s %s %s\n", ff(p.X), ff(p.Y), ff(p.Z))
	}
	if buf.HasUV() {
		for i := range buf.NumVertex() {
			uv := buf.TexCoord(i)
			fmt.Fprintf(bw, "vt %s %s\n", ff(uv.X), ff(uv.Y))
		}
	}
	hasNorm := len(buf.Normal) > 0
	if hasNorm {
		for i := range buf.NumVertex() {
			n := buf.VertexNormal(i)
			fmt.Fprintf(bw, "vn %s %s %s\n", ff(n.X), ff(n.Y), ff(n.Z))
		}
	}
	ref := func(vi int) string {
		s := strconv.Itoa(vi + 1)
		switch {
		case buf.HasUV() && hasNorm:
			return s + "/" + s + "/" + s
		case buf.HasUV():
			return s + "/" + s
		case hasNorm:
			return s + "//" + s
		}
		return s
	}
	mat := -1
	for i := range buf.NumTriangle() {
		if buf.HasGroups() {
			m, ok := buf.MaterialOf(i)
			if !ok {
				m = buf.Groups[0].MaterialIndex
			}
			if m != mat {
				mat = m
				fmt.Fprintf(bw, "usemtl %s%d\n", MaterialPrefix, mat)
			}
		}
		vi := buf.TriangleVertices(i)
		fmt.Fprintf(bw, "f %s %s %s\n", ref(vi[0]), ref(vi[1]), ref(vi[2]))
	}
	return bw.Flush()
}

// ErrNoFaces is returned by [Decode] for data without any face.
var ErrNoFaces = errors.New("obj: no faces")

// Decode decodes obj data from r into a buffer.
func Decode(r io.Reader) (*mesh.Buffer, error) {
	buf, err := new(Decoder).New().Decode(r)
	if err != nil {
		return nil, err
	}
	if buf.NumTriangle() == 0 {
		return nil, ErrNoFaces
	}
	return buf, nil
}
