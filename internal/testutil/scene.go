// Package testutil builds small scene graphs for tests.
package testutil

import (
	"outliner-cli/internal/model"
	"outliner-cli/internal/store"
)

func StrPtr(s string) *string { return &s }

// Scene returns a fresh scene graph:
//
//	Scene "Main" (sc-main), master coll-master-main
//	  coll-a: ob-cube (mods subsurf, bevel, array; con track), ob-child (parent ob-cube), ob-rig
//	    coll-a1: ob-sphere
//	  coll-b: ob-gp (gp modifier thick, effect blur), ob-lib (linked)
//	    coll-lib (linked)
//	  ob-cam (in master)
//	Scene "Alt" (sc-alt), master coll-master-alt, empty
//
// ob-rig is an armature with bones "spine" (con ik) and "head".
func Scene() *store.DB {
	return &store.DB{
		Version:       1,
		ActiveSceneID: "sc-main",
		Scenes: []model.Scene{
			{
				ID:   "sc-main",
				Name: "Main",
				MasterCollection: model.Collection{
					ID:       "coll-master-main",
					Name:     "Scene Collection",
					IsMaster: true,
					Objects:  []string{"ob-cam"},
					Children: []string{"coll-a", "coll-b"},
				},
				ViewLayers: []model.ViewLayer{{Name: "ViewLayer"}},
			},
			{
				ID:   "sc-alt",
				Name: "Alt",
				MasterCollection: model.Collection{
					ID:       "coll-master-alt",
					Name:     "Scene Collection",
					IsMaster: true,
				},
				ViewLayers: []model.ViewLayer{{Name: "ViewLayer"}},
			},
		},
		Collections: []model.Collection{
			{ID: "coll-a", Name: "A", Objects: []string{"ob-cube", "ob-child", "ob-rig"}, Children: []string{"coll-a1"}},
			{ID: "coll-a1", Name: "A1", Objects: []string{"ob-sphere"}},
			{ID: "coll-b", Name: "B", Objects: []string{"ob-gp", "ob-lib"}, Children: []string{"coll-lib"}},
			{ID: "coll-lib", Name: "Library", Linked: true},
		},
		Objects: []model.Object{
			{ID: "ob-cam", Name: "Camera", Type: model.ObjectCamera},
			{
				ID:          "ob-cube",
				Name:        "Cube",
				Type:        model.ObjectMesh,
				Location:    [3]float64{1, 0, 0},
				Modifiers:   []string{"mod-subsurf", "mod-bevel", "mod-array"},
				Constraints: []string{"con-track"},
				Materials:   []string{"mat-red"},
			},
			{ID: "ob-child", Name: "Child", Type: model.ObjectMesh, ParentID: StrPtr("ob-cube"), Location: [3]float64{0, 2, 0}},
			{
				ID:   "ob-rig",
				Name: "Rig",
				Type: model.ObjectArmature,
				Pose: []model.PoseChannel{
					{Name: "spine", Constraints: []string{"con-ik"}},
					{Name: "head"},
				},
			},
			{ID: "ob-sphere", Name: "Sphere", Type: model.ObjectMesh},
			{ID: "ob-gp", Name: "Stroke", Type: model.ObjectGPencil, Modifiers: []string{"mod-gp-thick"}, Effects: []string{"fx-blur"}},
			{ID: "ob-lib", Name: "LibObj", Type: model.ObjectMesh, Linked: true},
		},
		StackItems: []model.StackItem{
			{ID: "mod-subsurf", Kind: model.StackModifier, Name: "Subdivision", Type: "subsurf", Settings: map[string]float64{"levels": 2}},
			{ID: "mod-bevel", Kind: model.StackModifier, Name: "Bevel", Type: "bevel", Settings: map[string]float64{"width": 0.1}},
			{ID: "mod-array", Kind: model.StackModifier, Name: "Array", Type: "array", Settings: map[string]float64{"count": 3}},
			{ID: "mod-gp-thick", Kind: model.StackModifier, Name: "Thickness", Type: "gp_thick", GPencil: true},
			{ID: "con-track", Kind: model.StackConstraint, Name: "Track To", Type: "track_to"},
			{ID: "con-ik", Kind: model.StackConstraint, Name: "IK", Type: "ik", Settings: map[string]float64{"chain": 2}},
			{ID: "fx-blur", Kind: model.StackEffect, Name: "Blur", Type: "blur"},
		},
		Materials: []model.Material{
			{ID: "mat-red", Name: "Red"},
			{ID: "mat-gp", Name: "Stroke", GPStyle: true},
			{ID: "mat-lib", Name: "LibMat", Linked: true},
		},
	}
}
