package store

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"outliner-cli/internal/model"
)

var ErrDoctorIssuesFound = errors.New("doctor found errors")

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level    DoctorIssueLevel `json:"level"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	EntityID string           `json:"entityId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks the scene graph for broken references and cycles that Validate does not
// catch. Drops on a graph with errors may misbehave, so the CLI refuses to apply them.
func Doctor(db *DB) DoctorReport {
	var issues []DoctorIssue
	add := func(level DoctorIssueLevel, code, id, format string, args ...any) {
		issues = append(issues, DoctorIssue{Level: level, Code: code, EntityID: id, Message: fmt.Sprintf(format, args...)})
	}
	if db == nil {
		return DoctorReport{Issues: []DoctorIssue{}}
	}
	if err := db.Validate(); err != nil {
		add(DoctorIssueLevelError, "invalid", "", "%v", err)
	}

	checkCollection := func(c *model.Collection) {
		for _, ob := range c.Objects {
			if _, ok := db.FindObject(ob); !ok {
				add(DoctorIssueLevelError, "dangling_object", c.ID, "collection %q links missing object %q", c.ID, ob)
			}
		}
		for _, ch := range c.Children {
			cc, ok := db.FindCollection(ch)
			switch {
			case !ok:
				add(DoctorIssueLevelError, "dangling_collection", c.ID, "collection %q has missing child %q", c.ID, ch)
			case db.IsMasterCollection(cc.ID):
				add(DoctorIssueLevelError, "master_as_child", c.ID, "collection %q lists master collection %q as a child", c.ID, ch)
			case ch == c.ID || db.CollectionContains(ch, c.ID):
				add(DoctorIssueLevelError, "collection_cycle", c.ID, "collection %q is its own ancestor", c.ID)
			}
		}
		if len(slices.Compact(slices.Sorted(slices.Values(c.Objects)))) != len(c.Objects) {
			add(DoctorIssueLevelWarn, "duplicate_object_link", c.ID, "collection %q links an object twice", c.ID)
		}
	}
	for i := range db.Scenes {
		sc := &db.Scenes[i]
		if !sc.MasterCollection.IsMaster {
			add(DoctorIssueLevelWarn, "master_flag", sc.ID, "master collection of scene %q is not flagged as master", sc.ID)
		}
		checkCollection(&sc.MasterCollection)
		for _, vl := range sc.ViewLayers {
			for _, ex := range vl.Excluded {
				if _, ok := db.FindCollection(ex); !ok {
					add(DoctorIssueLevelWarn, "dangling_exclude", sc.ID, "view layer %q excludes missing collection %q", vl.Name, ex)
				}
			}
		}
	}
	for i := range db.Collections {
		checkCollection(&db.Collections[i])
	}

	linkedSomewhere := map[string]bool{}
	for _, c := range db.allCollections() {
		for _, ob := range c.Objects {
			linkedSomewhere[ob] = true
		}
	}
	for i := range db.Objects {
		ob := &db.Objects[i]
		if ob.ParentID != nil {
			if _, ok := db.FindObject(*ob.ParentID); !ok {
				add(DoctorIssueLevelError, "dangling_parent", ob.ID, "object %q has missing parent %q", ob.ID, *ob.ParentID)
			} else if *ob.ParentID == ob.ID || db.IsObjectDescendant(*ob.ParentID, ob.ID) {
				add(DoctorIssueLevelError, "parent_cycle", ob.ID, "object %q is its own ancestor", ob.ID)
			}
		}
		if !linkedSomewhere[ob.ID] {
			add(DoctorIssueLevelWarn, "orphan_object", ob.ID, "object %q is not linked in any collection", ob.ID)
		}
		checkStack := func(list []string, kind model.StackKind, owner string) {
			for _, id := range list {
				it, ok := db.FindStackItem(id)
				switch {
				case !ok:
					add(DoctorIssueLevelError, "dangling_stack_item", ob.ID, "%s references missing %s %q", owner, kind, id)
				case it.Kind != kind:
					add(DoctorIssueLevelError, "stack_kind_mismatch", ob.ID, "%s lists %s %q as a %s", owner, it.Kind, id, kind)
				case kind == model.StackModifier && it.GPencil != (ob.Type == model.ObjectGPencil):
					add(DoctorIssueLevelWarn, "modifier_family", ob.ID, "%s carries modifier %q of the other family", owner, id)
				}
			}
		}
		checkStack(ob.Modifiers, model.StackModifier, "object "+ob.ID)
		checkStack(ob.Constraints, model.StackConstraint, "object "+ob.ID)
		checkStack(ob.Effects, model.StackEffect, "object "+ob.ID)
		for _, pchan := range ob.Pose {
			checkStack(pchan.Constraints, model.StackConstraint, "bone "+ob.ID+"/"+pchan.Name)
		}
		if len(ob.Pose) > 0 && ob.Type != model.ObjectArmature {
			add(DoctorIssueLevelWarn, "pose_without_armature", ob.ID, "object %q has pose channels but is a %s", ob.ID, ob.Type)
		}
		for _, ma := range ob.Materials {
			if _, ok := db.FindMaterial(ma); !ok {
				add(DoctorIssueLevelError, "dangling_material", ob.ID, "object %q uses missing material %q", ob.ID, ma)
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Level != issues[j].Level {
			return issues[i].Level == DoctorIssueLevelError
		}
		return issues[i].EntityID < issues[j].EntityID
	})
	if issues == nil {
		issues = []DoctorIssue{}
	}
	return DoctorReport{Issues: issues}
}

// allCollections lists master collections followed by the regular ones.
func (db *DB) allCollections() []*model.Collection {
	out := make([]*model.Collection, 0, len(db.Scenes)+len(db.Collections))
	for i := range db.Scenes {
		out = append(out, &db.Scenes[i].MasterCollection)
	}
	for i := range db.Collections {
		out = append(out, &db.Collections[i])
	}
	return out
}
