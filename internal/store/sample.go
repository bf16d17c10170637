package store

import "outliner-cli/internal/model"

// SampleDB is the scene written by `outliner init`: a small set of collections, objects
// with stacks and a material, enough to try every drop kind.
func SampleDB() *DB {
	table := "ob-table"
	return &DB{
		Version:       1,
		ActiveSceneID: "sc-main",
		Scenes: []model.Scene{
			{
				ID:   "sc-main",
				Name: "Scene",
				MasterCollection: model.Collection{
					ID:       "coll-scene",
					Name:     "Scene Collection",
					IsMaster: true,
					Objects:  []string{"ob-camera"},
					Children: []string{"coll-props", "coll-lights"},
				},
				ViewLayers: []model.ViewLayer{{Name: "ViewLayer"}},
			},
		},
		Collections: []model.Collection{
			{ID: "coll-props", Name: "Props", Objects: []string{"ob-table", "ob-cup", "ob-rig"}},
			{ID: "coll-lights", Name: "Lights", Objects: []string{"ob-key"}},
		},
		Objects: []model.Object{
			{ID: "ob-camera", Name: "Camera", Type: model.ObjectCamera, Location: [3]float64{7, -6, 5}},
			{
				ID:        "ob-table",
				Name:      "Table",
				Type:      model.ObjectMesh,
				Modifiers: []string{"mod-bevel", "mod-solidify"},
				Materials: []string{"mat-wood"},
			},
			{ID: "ob-cup", Name: "Cup", Type: model.ObjectMesh, ParentID: &table, Location: [3]float64{0, 0, 1}},
			{
				ID:   "ob-rig",
				Name: "Rig",
				Type: model.ObjectArmature,
				Pose: []model.PoseChannel{
					{Name: "root"},
					{Name: "arm", Constraints: []string{"con-ik"}},
				},
			},
			{ID: "ob-key", Name: "Key Light", Type: model.ObjectLight, Location: [3]float64{4, 1, 6}, Constraints: []string{"con-track"}},
		},
		StackItems: []model.StackItem{
			{ID: "mod-bevel", Kind: model.StackModifier, Name: "Bevel", Type: "bevel", Settings: map[string]float64{"width": 0.02}},
			{ID: "mod-solidify", Kind: model.StackModifier, Name: "Solidify", Type: "solidify", Settings: map[string]float64{"thickness": 0.05}},
			{ID: "con-track", Kind: model.StackConstraint, Name: "Track To", Type: "track_to"},
			{ID: "con-ik", Kind: model.StackConstraint, Name: "IK", Type: "ik", Settings: map[string]float64{"chain": 2}},
		},
		Materials: []model.Material{
			{ID: "mat-wood", Name: "Wood"},
			{ID: "mat-metal", Name: "Metal"},
		},
	}
}

// EmptyDB is a scene with nothing but its master collection.
func EmptyDB() *DB {
	return &DB{
		Version:       1,
		ActiveSceneID: "sc-main",
		Scenes: []model.Scene{
			{
				ID:   "sc-main",
				Name: "Scene",
				MasterCollection: model.Collection{
					ID:       "coll-scene",
					Name:     "Scene Collection",
					IsMaster: true,
				},
				ViewLayers: []model.ViewLayer{{Name: "ViewLayer"}},
			},
		},
		Collections: []model.Collection{},
		Objects:     []model.Object{},
		StackItems:  []model.StackItem{},
		Materials:   []model.Material{},
	}
}
