package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"outliner-cli/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	sceneFileName   = "scene.json"
	journalFileName = "journal.sqlite"
)

// DB is the in-memory scene graph. Finders return pointers into the slices, so
// callers must not hold them across appends to the same slice.
type DB struct {
	Version            int                `json:"version" yaml:"version"`
	ActiveSceneID      string             `json:"activeSceneId" yaml:"activeSceneId"`
	ActiveCollectionID string             `json:"activeCollectionId,omitempty" yaml:"activeCollectionId,omitempty"`
	Scenes             []model.Scene      `json:"scenes" yaml:"scenes"`
	Collections        []model.Collection `json:"collections" yaml:"collections"`
	Objects            []model.Object     `json:"objects" yaml:"objects"`
	StackItems         []model.StackItem  `json:"stackItems" yaml:"stackItems"`
	Materials          []model.Material   `json:"materials" yaml:"materials"`
}

// Store reads and writes a scene file. Dir-style paths resolve to <dir>/scene.json.
type Store struct {
	Path string
}

// ScenePath is the resolved scene file.
func (s Store) ScenePath() string {
	p := filepath.Clean(strings.TrimSpace(s.Path))
	if st, err := os.Stat(p); err == nil && st.IsDir() {
		return filepath.Join(p, sceneFileName)
	}
	return p
}

// JournalPath is the sqlite drop journal stored next to the scene file.
func (s Store) JournalPath() string {
	return filepath.Join(filepath.Dir(s.ScenePath()), journalFileName)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func (s Store) Load() (*DB, error) {
	path := s.ScenePath()
	if path == "" || path == "." {
		return nil, errors.New("missing scene path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var db DB
	if isYAML(path) {
		err = yaml.Unmarshal(b, &db)
	} else {
		err = json.Unmarshal(b, &db)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := db.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &db, nil
}

func (s Store) Save(db *DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	path := s.ScenePath()
	var (
		b   []byte
		err error
	)
	if isYAML(path) {
		b, err = yaml.Marshal(db)
	} else {
		b, err = json.MarshalIndent(db, "", "  ")
	}
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, ".scene-*.tmp", path, b, 0o644)
}

// Validate checks that IDs are unique and the active scene exists.
func (db *DB) Validate() error {
	seen := map[string]string{}
	add := func(kind, id string) error {
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("%s with empty id", kind)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("duplicate id %q (%s and %s)", id, prev, kind)
		}
		seen[id] = kind
		return nil
	}
	for _, sc := range db.Scenes {
		if err := add("scene", sc.ID); err != nil {
			return err
		}
		if err := add("collection", sc.MasterCollection.ID); err != nil {
			return err
		}
	}
	for _, c := range db.Collections {
		if err := add("collection", c.ID); err != nil {
			return err
		}
	}
	for _, o := range db.Objects {
		if err := add("object", o.ID); err != nil {
			return err
		}
	}
	for _, it := range db.StackItems {
		if err := add(string(it.Kind), it.ID); err != nil {
			return err
		}
	}
	for _, m := range db.Materials {
		if err := add("material", m.ID); err != nil {
			return err
		}
	}
	if len(db.Scenes) > 0 {
		if _, ok := db.FindScene(db.ActiveSceneID); !ok {
			return fmt.Errorf("active scene not found: %q", db.ActiveSceneID)
		}
	}
	return nil
}

func (db *DB) FindScene(id string) (*model.Scene, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Scenes {
		if db.Scenes[i].ID == id {
			return &db.Scenes[i], true
		}
	}
	return nil, false
}

// FindCollection also resolves scene master collections.
func (db *DB) FindCollection(id string) (*model.Collection, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	for i := range db.Collections {
		if db.Collections[i].ID == id {
			return &db.Collections[i], true
		}
	}
	for i := range db.Scenes {
		if db.Scenes[i].MasterCollection.ID == id {
			return &db.Scenes[i].MasterCollection, true
		}
	}
	return nil, false
}

func (db *DB) FindObject(id string) (*model.Object, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Objects {
		if db.Objects[i].ID == id {
			return &db.Objects[i], true
		}
	}
	return nil, false
}

func (db *DB) FindStackItem(id string) (*model.StackItem, bool) {
	id = strings.TrimSpace(id)
	for i := range db.StackItems {
		if db.StackItems[i].ID == id {
			return &db.StackItems[i], true
		}
	}
	return nil, false
}

func (db *DB) FindMaterial(id string) (*model.Material, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Materials {
		if db.Materials[i].ID == id {
			return &db.Materials[i], true
		}
	}
	return nil, false
}

func (db *DB) ActiveScene() (*model.Scene, bool) {
	return db.FindScene(db.ActiveSceneID)
}

// ActiveCollection falls back to the active scene's master collection.
func (db *DB) ActiveCollection() (*model.Collection, bool) {
	if c, ok := db.FindCollection(db.ActiveCollectionID); ok {
		return c, true
	}
	sc, ok := db.ActiveScene()
	if !ok {
		return nil, false
	}
	return &sc.MasterCollection, true
}

// SceneOfMaster returns the scene owning the given master collection.
func (db *DB) SceneOfMaster(collectionID string) (*model.Scene, bool) {
	for i := range db.Scenes {
		if db.Scenes[i].MasterCollection.ID == collectionID {
			return &db.Scenes[i], true
		}
	}
	return nil, false
}

// FindBone returns the pose channel of an armature object.
func (db *DB) FindBone(objectID, bone string) (*model.PoseChannel, bool) {
	ob, ok := db.FindObject(objectID)
	if !ok {
		return nil, false
	}
	for i := range ob.Pose {
		if ob.Pose[i].Name == bone {
			return &ob.Pose[i], true
		}
	}
	return nil, false
}
