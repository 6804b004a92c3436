// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store keeps versioned snapshots of edited meshes in a SQLite
// database. Each scene has a graph of versions: every snapshot has a
// unique tag within its scene and links to the version it was edited from.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"cogentcore.org/meshedit/base/errors"
	"cogentcore.org/meshedit/mesh"
	"cogentcore.org/meshedit/meshio/jsonmesh"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned for a scene or version that does not exist.
	ErrNotFound = errors.New("store: version not found")

	// ErrDuplicateVersion is returned when saving a tag
	// that already exists in the scene.
	ErrDuplicateVersion = errors.New("store: duplicate version")
)

// Snapshot is one stored version of a mesh.
type Snapshot struct {
	ID       uint    `gorm:"primaryKey" json:"-"`
	UUID     string  `gorm:"uniqueIndex;not null" json:"id"`
	Scene    string  `gorm:"uniqueIndex:idx_scene_tag;not null" json:"scene"`
	Tag      string  `gorm:"uniqueIndex:idx_scene_tag;not null" json:"tagName"`
	ParentID *uint   `json:"-"`
	Parent   *string `gorm:"-" json:"parent,omitempty"`
	Faces    int     `json:"faces"`
	Vertices int     `json:"vertices"`
	Mesh     []byte  `gorm:"type:BLOB" json:"-"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}

// Buffer decodes the mesh of the snapshot.
func (sn *Snapshot) Buffer() (*mesh.Buffer, error) {
	return jsonmesh.Unmarshal(sn.Mesh)
}

// Link is an edit from one version to another, as
// indexes into [Versions.Nodes].
type Link struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Versions is the version graph of a scene, with
// nodes in order of creation.
type Versions struct {
	Nodes []*Snapshot `json:"nodes"`
	Links []Link      `json:"links"`
}

// Store is a snapshot database.
type Store struct {
	db *gorm.DB
}

// Open opens the SQLite database at the given path,
// creating it and its tables if needed.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store.Open: %v: %w", path, err)
	}
	return New(db)
}

// New returns a store using the given database,
// migrating its tables.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("store: migrating tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sdb, err := s.db.DB()
	if err != nil {
		return err
	}
	return sdb.Close()
}

// Save records the buffer as version tag of the scene, edited from the
// version parent, which is empty for the first version of a scene.
func (s *Store) Save(ctx context.Context, scene, tag, parent string, buf *mesh.Buffer) (*Snapshot, error) {
	data, err := jsonmesh.Marshal(buf)
	if err != nil {
		return nil, err
	}
	sn := &Snapshot{
		UUID:     uuid.NewString(),
		Scene:    scene,
		Tag:      tag,
		Faces:    buf.NumTriangle(),
		Vertices: buf.NumVertex(),
		Mesh:     data,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Snapshot{}).Where("scene = ? AND tag = ?", scene, tag).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %q in scene %q", ErrDuplicateVersion, tag, scene)
		}
		if parent != "" {
			var ps Snapshot
			if err := tx.Select("id").Where("scene = ? AND tag = ?", scene, parent).First(&ps).Error; err != nil {
				return notFound(err, scene, parent)
			}
			sn.ParentID = &ps.ID
			sn.Parent = &parent
		}
		return tx.Create(sn).Error
	})
	if err != nil {
		return nil, err
	}
	slog.Info("store: saved version", "scene", scene, "tag", tag, "parent", parent, "faces", sn.Faces)
	return sn, nil
}

// Load returns the snapshot with the given tag in the scene.
func (s *Store) Load(ctx context.Context, scene, tag string) (*Snapshot, error) {
	var sn Snapshot
	if err := s.db.WithContext(ctx).Where("scene = ? AND tag = ?", scene, tag).First(&sn).Error; err != nil {
		return nil, notFound(err, scene, tag)
	}
	if sn.ParentID != nil {
		var ps Snapshot
		if err := s.db.WithContext(ctx).Select("tag").First(&ps, *sn.ParentID).Error; err == nil {
			sn.Parent = &ps.Tag
		}
	}
	return &sn, nil
}

// Versions returns the version graph of the scene, without mesh data.
// It returns an empty graph for a scene without versions.
func (s *Store) Versions(ctx context.Context, scene string) (*Versions, error) {
	var nodes []*Snapshot
	err := s.db.WithContext(ctx).Omit("mesh").Where("scene = ?", scene).Order("id").Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	vs := &Versions{Nodes: nodes, Links: []Link{}}
	index := make(map[uint]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	for i, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		if from, ok := index[*n.ParentID]; ok {
			vs.Links = append(vs.Links, Link{From: from, To: i})
			n.Parent = &nodes[from].Tag
		}
	}
	return vs, nil
}

// Scenes returns the names of all scenes with at least one version.
func (s *Store) Scenes(ctx context.Context) ([]string, error) {
	var scenes []string
	err := s.db.WithContext(ctx).Model(&Snapshot{}).Distinct().Order("scene").Pluck("scene", &scenes).Error
	return scenes, err
}

func notFound(err error, scene, tag string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %q in scene %q", ErrNotFound, tag, scene)
	}
	return err
}
