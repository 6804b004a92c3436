// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server provides the HTTP edit service. Each request loads a
// stored mesh version, applies a transaction of edits with a new
// [mesh.Operator], rebuilds the mesh and records it as a new version.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cogentcore.org/meshedit/base/errors"
	"cogentcore.org/meshedit/mesh"
	"cogentcore.org/meshedit/meshio/jsonmesh"
	"cogentcore.org/meshedit/store"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// Server is the edit service.
type Server struct {
	store  *store.Store
	opts   mesh.Options
	engine *gin.Engine
}

// New returns a new server on the given store, editing
// meshes with the given options, which may be nil.
func New(st *store.Store, opts *mesh.Options) *Server {
	s := &Server{store: st}
	if opts != nil {
		s.opts = *opts
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), requestLogger())
	s.routes(s.engine)
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until the context is canceled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.engine}
	errc := make(chan error, 1)
	go func() {
		slog.Info("server: listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(sctx)
}

func (s *Server) routes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/scenes", s.scenes)
		api.GET("/scenes/:scene/versions", s.versions)
		api.POST("/scenes/:scene/versions", s.create)
		api.GET("/scenes/:scene/versions/:tag", s.get)
		api.POST("/scenes/:scene/versions/:tag/edit", s.edit)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("server: request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "duration", time.Since(start))
	}
}

// CreateRequest is the body of a request creating
// a version from an uploaded mesh.
type CreateRequest struct {
	Tag    string             `json:"tag"`
	Parent string             `json:"parent,omitempty"`
	Mesh   *jsonmesh.Geometry `json:"mesh"`
}

// EditRequest is the body of an edit request.
type EditRequest struct {

	// Tag is the tag of the new version.
	Tag string `json:"tag"`

	// Edits are applied in order; a failing edit aborts the request
	// without recording a version.
	Edits []mesh.Edit `json:"edits"`
}

// EditResponse is the result of an edit request.
type EditResponse struct {
	Version *store.Snapshot `json:"version"`

	// Faces are the triangle indexes in the new version of the
	// faces created by the edits that still exist.
	Faces []int `json:"faces"`

	// Removed is the total number of removed faces.
	Removed int `json:"removed"`

	// Materials are the material indexes created by extract edits.
	Materials []int `json:"materials,omitempty"`
}

func (s *Server) scenes(c *gin.Context) {
	scenes, err := s.store.Scenes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenes": scenes})
}

func (s *Server) versions(c *gin.Context) {
	vs, err := s.store.Versions(c.Request.Context(), c.Param("scene"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vs)
}

func (s *Server) get(c *gin.Context) {
	sn, err := s.store.Load(c.Request.Context(), c.Param("scene"), c.Param("tag"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", sn.Mesh)
}

func (s *Server) create(c *gin.Context) {
	var req CreateRequest
	if err := bind(c, &req); err != nil {
		return
	}
	if req.Tag == "" || req.Mesh == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tag and mesh are required"})
		return
	}
	buf, err := req.Mesh.Buffer()
	if err != nil {
		fail(c, err)
		return
	}
	sn, err := s.store.Save(c.Request.Context(), c.Param("scene"), req.Tag, req.Parent, buf)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sn)
}

func (s *Server) edit(c *gin.Context) {
	var req EditRequest
	if err := bind(c, &req); err != nil {
		return
	}
	if req.Tag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tag is required"})
		return
	}
	ctx := c.Request.Context()
	scene, from := c.Param("scene"), c.Param("tag")
	sn, err := s.store.Load(ctx, scene, from)
	if err != nil {
		fail(c, err)
		return
	}
	buf, err := sn.Buffer()
	if err != nil {
		fail(c, err)
		return
	}
	op, err := mesh.NewOperator(buf, &s.opts)
	if err != nil {
		fail(c, err)
		return
	}
	resp := &EditResponse{Faces: []int{}}
	var created []mesh.FaceID
	for _, e := range req.Edits {
		res, err := op.Apply(e)
		if err != nil {
			fail(c, err)
			return
		}
		created = append(created, res.Faces...)
		resp.Removed += res.Removed
		if strings.EqualFold(e.Op, mesh.EditExtract) {
			resp.Materials = append(resp.Materials, res.Material)
		}
	}
	out, err := op.Rebuild()
	if err != nil {
		fail(c, err)
		return
	}
	for _, f := range created {
		if ti, ok := op.OutputIndex(f); ok {
			resp.Faces = append(resp.Faces, ti)
		}
	}
	resp.Version, err = s.store.Save(ctx, scene, req.Tag, from, out)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bind decodes the JSON body into v,
// writing a bad request response on failure.
func bind(c *gin.Context, v any) error {
	data, err := c.GetRawData()
	if err == nil {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
	return err
}

// fail writes the error response for err.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateVersion):
		status = http.StatusConflict
	case errors.Is(err, mesh.ErrFaceOutOfRange), errors.Is(err, mesh.ErrStaleFace),
		errors.Is(err, mesh.ErrEmptySelection), errors.Is(err, mesh.ErrInvalidBuffer),
		errors.Is(err, mesh.ErrInvalidEdit):
		status = http.StatusBadRequest
	case errors.Is(err, mesh.ErrDegenerateRing), errors.Is(err, mesh.ErrRingTooLarge):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		slog.Error("server: request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
