// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration
// struct for the meshedit tool and service.
package config

import (
	"bytes"
	"encoding"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"cogentcore.org/meshedit/base/errors"
	"cogentcore.org/meshedit/geom"
	"cogentcore.org/meshedit/mesh"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the
// current directory when none is given.
const DefaultFile = "meshedit.toml"

// Config is the main config struct that contains
// all of the configuration options for meshedit.
type Config struct {

	// the input mesh file
	Input string `toml:"input" yaml:"input" desc:"the input mesh file"`

	// the output mesh file; empty writes to standard output
	Output string `toml:"output" yaml:"output" desc:"the output mesh file; empty writes to standard output"`

	// the mesh format name (obj, json); empty selects it from the file extension
	Format string `toml:"format" yaml:"format" desc:"the mesh format name (obj, json); empty selects it from the file extension"`

	// the weld tolerance for joining coincident vertices
	Tolerance float64 `toml:"tolerance" yaml:"tolerance" default:"0.0001" desc:"the weld tolerance for joining coincident vertices"`

	// the largest boundary ring that hole filling accepts; 0 is unlimited
	MaxRingVertices int `toml:"max_ring_vertices" yaml:"max_ring_vertices" default:"0" desc:"the largest boundary ring that hole filling accepts; 0 is unlimited"`

	// the wrap mode applied to U by the wrap command
	WrapS geom.WrapMode `toml:"wrap_s" yaml:"wrap_s" default:"Repeat" desc:"the wrap mode applied to U by the wrap command"`

	// the wrap mode applied to V by the wrap command
	WrapT geom.WrapMode `toml:"wrap_t" yaml:"wrap_t" default:"Repeat" desc:"the wrap mode applied to V by the wrap command"`

	// the SQLite database file of the snapshot store
	Database string `toml:"database" yaml:"database" default:"meshedit.db" desc:"the SQLite database file of the snapshot store"`

	// the scene that snapshots are recorded in
	Scene string `toml:"scene" yaml:"scene" default:"default" desc:"the scene that snapshots are recorded in"`

	// the address the edit service listens on
	Addr string `toml:"addr" yaml:"addr" default:":8080" desc:"the address the edit service listens on"`

	// whether to print verbose information
	Verbose bool `toml:"verbose" yaml:"verbose" desc:"whether to print verbose information"`

	// whether to print very verbose debugging information
	VeryVerbose bool `toml:"very_verbose" yaml:"very_verbose" desc:"whether to print very verbose debugging information"`

	// whether to only print warnings and errors
	Quiet bool `toml:"quiet" yaml:"quiet" desc:"whether to only print warnings and errors"`
}

// New returns a new config with the default values set.
func New() *Config {
	cfg := &Config{}
	errors.Log(SetFromDefaults(cfg))
	return cfg
}

// MeshOptions returns the mesh editing options of the config.
func (cfg *Config) MeshOptions() *mesh.Options {
	return &mesh.Options{Tolerance: cfg.Tolerance, MaxRingVertices: cfg.MaxRingVertices}
}

// Open reads the config from the given TOML or YAML file,
// selected by its extension, on top of the current values.
func Open(cfg *Config, file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cfg)
	default:
		err = toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields().Decode(cfg)
	}
	if err != nil {
		return fmt.Errorf("config.Open: %v: %w", file, err)
	}
	return nil
}

// Save writes the config to the given TOML or YAML file,
// selected by its extension.
func Save(cfg *Config, file string) error {
	var b []byte
	var err error
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		b, err = yaml.Marshal(cfg)
	default:
		b, err = toml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0666)
}

// SetFromDefaults sets values of fields in the given struct based on
// `default:` field tags. It supports string, bool, integer and float
// fields, and fields implementing [encoding.TextUnmarshaler].
func SetFromDefaults(obj any) error {
	val := reflect.ValueOf(obj)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return fmt.Errorf("config.SetFromDefaults: need a non-nil pointer, not %T", obj)
	}
	val = val.Elem()
	typ := val.Type()
	var errs []error
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		def, ok := f.Tag.Lookup("default")
		if !ok || !f.IsExported() {
			continue
		}
		if err := setString(val.Field(i), def); err != nil {
			errs = append(errs, fmt.Errorf("config.SetFromDefaults: field %s from %q: %w", f.Name, def, err))
		}
	}
	return errors.Join(errs...)
}

func setString(fv reflect.Value, s string) error {
	if tu, ok := fv.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return tu.UnmarshalText([]byte(s))
	}
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Float32, reflect.Float64:
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		fv.SetFloat(x)
	default:
		return fmt.Errorf("unsupported kind %v", fv.Kind())
	}
	return nil
}
