// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command meshedit edits triangle meshes from the command line and
// serves the versioned edit service.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cogentcore.org/meshedit/base/errors"
	"cogentcore.org/meshedit/base/logx"
	"cogentcore.org/meshedit/config"
	"cogentcore.org/meshedit/mesh"
	"cogentcore.org/meshedit/meshio"
	_ "cogentcore.org/meshedit/meshio/jsonmesh"
	_ "cogentcore.org/meshedit/meshio/obj"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		errors.Log(err)
		os.Exit(1)
	}
}

// app holds the state shared by all commands.
type app struct {
	cfg     *config.Config
	cfgFile string
	wrapS   string
	wrapT   string
	out     io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{cfg: config.New(), out: out}
	root := &cobra.Command{
		Use:           "meshedit",
		Short:         "meshedit edits triangle meshes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", config.DefaultFile, "the config file to read")
	pf.StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "the output mesh file; empty writes to standard output")
	pf.StringVarP(&a.cfg.Format, "format", "f", a.cfg.Format, "the mesh format name ("+strings.Join(meshio.Formats(), ", ")+")")
	pf.Float64Var(&a.cfg.Tolerance, "tolerance", a.cfg.Tolerance, "the weld tolerance for joining coincident vertices")
	pf.IntVar(&a.cfg.MaxRingVertices, "max-ring", a.cfg.MaxRingVertices, "the largest boundary ring that hole filling accepts; 0 is unlimited")
	pf.StringVar(&a.cfg.Database, "db", a.cfg.Database, "the SQLite database file of the snapshot store")
	pf.StringVar(&a.cfg.Scene, "scene", a.cfg.Scene, "the scene that snapshots are recorded in")
	pf.BoolVarP(&a.cfg.Verbose, "verbose", "v", false, "print verbose information")
	pf.BoolVar(&a.cfg.VeryVerbose, "vv", false, "print very verbose debugging information")
	pf.BoolVarP(&a.cfg.Quiet, "quiet", "q", false, "only print warnings and errors")

	root.AddCommand(
		a.infoCmd(), a.convertCmd(), a.normalsCmd(), a.wrapCmd(),
		a.splitTrianglesCmd(), a.wireframeCmd(), a.configCmd(),
	)
	root.AddCommand(a.editCmds()...)
	root.AddCommand(a.serveCmd(), a.saveCmd(), a.versionsCmd(), a.checkoutCmd())
	return root
}

// load reads the config file, if any, underneath the flags
// given on the command line, and sets up logging.
func (a *app) load(cmd *cobra.Command) error {
	fl := cmd.Flags()
	if _, err := os.Stat(a.cfgFile); err == nil {
		fc := config.New()
		if err := config.Open(fc, a.cfgFile); err != nil {
			return err
		}
		keep := func(name string, set func()) {
			if !fl.Changed(name) {
				set()
			}
		}
		keep("output", func() { a.cfg.Output = fc.Output })
		keep("format", func() { a.cfg.Format = fc.Format })
		keep("tolerance", func() { a.cfg.Tolerance = fc.Tolerance })
		keep("max-ring", func() { a.cfg.MaxRingVertices = fc.MaxRingVertices })
		keep("db", func() { a.cfg.Database = fc.Database })
		keep("scene", func() { a.cfg.Scene = fc.Scene })
		keep("verbose", func() { a.cfg.Verbose = fc.Verbose })
		keep("vv", func() { a.cfg.VeryVerbose = fc.VeryVerbose })
		keep("quiet", func() { a.cfg.Quiet = fc.Quiet })
		a.cfg.Input, a.cfg.Addr = fc.Input, fc.Addr
		a.cfg.WrapS, a.cfg.WrapT = fc.WrapS, fc.WrapT
	} else if fl.Changed("config") {
		return err
	}
	logx.UserLevel = logx.LevelFromFlags(a.cfg.VeryVerbose, a.cfg.Verbose, a.cfg.Quiet)
	logx.SetDefaultLogger()
	return nil
}

// input sets the input file from the first argument, if any.
func (a *app) input(args []string) error {
	if len(args) > 0 {
		a.cfg.Input = args[0]
	}
	if a.cfg.Input == "" {
		return fmt.Errorf("no input mesh file given")
	}
	return nil
}

// read decodes the input mesh.
func (a *app) read(args []string) (*mesh.Buffer, error) {
	if err := a.input(args); err != nil {
		return nil, err
	}
	buf, err := meshio.DecodeFile(a.cfg.Input, a.cfg.Format)
	if err != nil {
		return nil, err
	}
	slog.Info("read mesh", "file", a.cfg.Input, "vertices", buf.NumVertex(), "triangles", buf.NumTriangle())
	return buf, nil
}

// write encodes the mesh to the output file, or to standard
// output in the input format when there is none.
func (a *app) write(buf *mesh.Buffer) error {
	if a.cfg.Output == "" {
		return meshio.Write(a.out, buf, a.cfg.Input, a.cfg.Format)
	}
	slog.Info("write mesh", "file", a.cfg.Output, "vertices", buf.NumVertex(), "triangles", buf.NumTriangle())
	return meshio.EncodeFile(a.cfg.Output, a.cfg.Format, buf)
}

// transform runs fn on the input mesh and writes the result.
func (a *app) transform(args []string, fn func(buf *mesh.Buffer) (*mesh.Buffer, error)) error {
	buf, err := a.read(args)
	if err != nil {
		return err
	}
	if buf, err = fn(buf); err != nil {
		return err
	}
	return a.write(buf)
}
