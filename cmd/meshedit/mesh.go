// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"cogentcore.org/meshedit/config"
	"cogentcore.org/meshedit/geom"
	"cogentcore.org/meshedit/mesh"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [mesh]",
		Short: "Print a summary of a mesh",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := a.read(args)
			if err != nil {
				return err
			}
			op, err := mesh.NewOperator(buf, a.cfg.MeshOptions())
			if err != nil {
				return err
			}
			bb := buf.BBox()
			fmt.Fprintf(a.out, "vertices:  %d\n", buf.NumVertex())
			fmt.Fprintf(a.out, "triangles: %d\n", buf.NumTriangle())
			fmt.Fprintf(a.out, "groups:    %d\n", len(buf.Groups))
			fmt.Fprintf(a.out, "uv:        %v\n", buf.HasUV())
			fmt.Fprintf(a.out, "weld keys: %d\n", op.NumWeldKeys())
			fmt.Fprintf(a.out, "area:      %g\n", buf.TotalArea())
			fmt.Fprintf(a.out, "bbox:      (%g, %g, %g) - (%g, %g, %g)\n",
				bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z)
			return nil
		},
	}
}

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [mesh]",
		Short: "Convert a mesh to the format of the output file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(args, func(buf *mesh.Buffer) (*mesh.Buffer, error) {
				return buf, nil
			})
		},
	}
}

func (a *app) normalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normals [mesh]",
		Short: "Recompute the area weighted vertex normals of a mesh",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(args, func(buf *mesh.Buffer) (*mesh.Buffer, error) {
				buf.ComputeNormals()
				return buf, nil
			})
		},
	}
}

func (a *app) wrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wrap [mesh]",
		Short: "Map the texture coordinates of a mesh into the unit square",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("wrap-s") {
				if err := a.cfg.WrapS.SetString(a.wrapS); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("wrap-t") {
				if err := a.cfg.WrapT.SetString(a.wrapT); err != nil {
					return err
				}
			}
			return a.transform(args, func(buf *mesh.Buffer) (*mesh.Buffer, error) {
				if !buf.HasUV() {
					return nil, fmt.Errorf("mesh %v has no texture coordinates", a.cfg.Input)
				}
				for i := range buf.NumVertex() {
					uv := buf.TexCoord(i)
					geom.ResolveWrapUV(&uv, a.cfg.WrapS, a.cfg.WrapT)
					buf.UV[2*i], buf.UV[2*i+1] = uv.X, uv.Y
				}
				return buf, nil
			})
		},
	}
	cmd.Flags().StringVar(&a.wrapS, "wrap-s", a.cfg.WrapS.String(), "the wrap mode of U (Clamp, Repeat, None)")
	cmd.Flags().StringVar(&a.wrapT, "wrap-t", a.cfg.WrapT.String(), "the wrap mode of V (Clamp, Repeat, None)")
	return cmd
}

func (a *app) splitTrianglesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split-triangles [mesh]",
		Short: "Give every triangle its own three vertices",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.transform(args, func(buf *mesh.Buffer) (*mesh.Buffer, error) {
				buf.SplitTriangles()
				return buf, nil
			})
		},
	}
}

func (a *app) wireframeCmd() *cobra.Command {
	var offset float64
	cmd := &cobra.Command{
		Use:   "wireframe [mesh]",
		Short: "Print the edge segments of a mesh as a JSON position array",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := a.read(args)
			if err != nil {
				return err
			}
			b, err := json.Marshal(map[string][]float64{"position": buf.Wireframe(offset)})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s\n", b)
			return err
		},
	}
	cmd.Flags().Float64Var(&offset, "offset", 0, "the distance segments are moved along the vertex normals")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config file",
		Short: "Write the current config to a TOML or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(a.cfg, args[0])
		},
	}
}
