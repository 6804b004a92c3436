// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cogentcore.org/meshedit/server"
	"cogentcore.org/meshedit/store"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// withStore opens the snapshot store for the duration of fn.
func (a *app) withStore(fn func(st *store.Store) error) error {
	st, err := store.Open(a.cfg.Database)
	if err != nil {
		return err
	}
	err = fn(st)
	if cerr := st.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the versioned mesh edit service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr, _ = cmd.Flags().GetString("addr")
			}
			if !a.cfg.VeryVerbose {
				gin.SetMode(gin.ReleaseMode)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.withStore(func(st *store.Store) error {
				return server.New(st, a.cfg.MeshOptions()).Run(ctx, a.cfg.Addr)
			})
		},
	}
	cmd.Flags().String("addr", a.cfg.Addr, "the address to listen on")
	return cmd
}

func (a *app) saveCmd() *cobra.Command {
	var tag, parent string
	cmd := &cobra.Command{
		Use:   "save [mesh]",
		Short: "Record a mesh as a new version of the scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := a.read(args)
			if err != nil {
				return err
			}
			return a.withStore(func(st *store.Store) error {
				sn, err := st.Save(cmd.Context(), a.cfg.Scene, tag, parent, buf)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, sn.UUID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "the tag of the new version")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "the tag of the version it was edited from")
	cmd.MarkFlagRequired("tag")
	return cmd
}

func (a *app) versionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the versions of the scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *store.Store) error {
				vs, err := st.Versions(cmd.Context(), a.cfg.Scene)
				if err != nil {
					return err
				}
				parents := make(map[int]string, len(vs.Links))
				for _, l := range vs.Links {
					parents[l.To] = vs.Nodes[l.From].Tag
				}
				for i, n := range vs.Nodes {
					fmt.Fprintf(a.out, "%s\t%d faces\t%d vertices", n.Tag, n.Faces, n.Vertices)
					if p, ok := parents[i]; ok {
						fmt.Fprintf(a.out, "\tfrom %s", p)
					}
					fmt.Fprintln(a.out)
				}
				return nil
			})
		},
	}
}

func (a *app) checkoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout tag",
		Short: "Write a stored version of the scene to the output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *store.Store) error {
				sn, err := st.Load(cmd.Context(), a.cfg.Scene, args[0])
				if err != nil {
					return err
				}
				buf, err := sn.Buffer()
				if err != nil {
					return err
				}
				if a.cfg.Output == "" && a.cfg.Format == "" {
					a.cfg.Format = "json"
				}
				return a.write(buf)
			})
		},
	}
}
