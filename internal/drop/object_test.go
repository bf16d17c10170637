package drop

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner-cli/internal/drag"
	"outliner-cli/internal/notify"
	"outliner-cli/internal/outline"
)

func TestRegistry_ProbeOrder(t *testing.T) {
	assert.Equal(t, []string{
		KindParentDrop,
		KindParentClear,
		KindSceneDrop,
		KindMaterialDrop,
		KindUIStackDrop,
		KindCollectionDrop,
	}, DefaultRegistry().Names())

	d, ok := DefaultRegistry().Find(KindCollectionDrop)
	require.True(t, ok)
	assert.Equal(t, KindCollectionDrop, d.Name())
}

// Dropping an unparented object Into another object's name column parents it and marks
// relations stale exactly once.
func TestParentDrop_SetsParent(t *testing.T) {
	f := newFixture(t, outline.DefaultView())

	out, kind := f.probe(t, obj("ob-sphere"), f.name(t, obj("ob-cube")), Mods{})
	require.Equal(t, KindParentDrop, kind)
	assert.Equal(t, outline.InsertInto, out.Insert)

	res := f.drop(t, obj("ob-sphere"), f.name(t, obj("ob-cube")), Mods{})
	require.Equal(t, StatusFinished, res.Status)
	assert.True(t, res.Changed)

	sphere := object(t, f.env.DB, "ob-sphere")
	require.NotNil(t, sphere.ParentID)
	assert.Equal(t, "ob-cube", *sphere.ParentID)
	assert.Equal(t, 1, f.sink.RelationsTags)
	assert.True(t, f.sink.Has(notify.CategoryObject, notify.TopicParent))
	assert.True(t, f.sink.Has(notify.CategoryObject, notify.TopicTransform))
}

func TestParentDrop_SkipsLinkedObjects(t *testing.T) {
	v := outline.DefaultView()
	v.Selected = map[string]bool{obj("ob-sphere").Key(): true, obj("ob-lib").Key(): true}
	f := newFixture(t, v)

	res := f.drop(t, obj("ob-sphere"), f.name(t, obj("ob-cam")), Mods{})
	require.Equal(t, KindParentDrop, res.Kind)
	require.Len(t, res.Items, 2)
	assert.True(t, res.Items[0].Applied)
	assert.Equal(t, "read-only", res.Items[1].Reason)
	assert.Contains(t, res.Reports, Report{Level: LevelInfo, Message: "Can't edit library linked object(s)"})

	assert.Nil(t, object(t, f.env.DB, "ob-lib").ParentID)
	assert.Equal(t, "ob-cam", *object(t, f.env.DB, "ob-sphere").ParentID)
	assert.Equal(t, 1, f.sink.RelationsTags)
}

func TestParentDrop_Rejections(t *testing.T) {
	f := newFixture(t, outline.DefaultView())
	tr := f.env.Tree

	tests := []struct {
		name string
		from outline.Elem
		to   outline.Point
	}{
		{name: "onto own descendant", from: obj("ob-cube"), to: f.name(t, obj("ob-child"))},
		{name: "onto current parent", from: obj("ob-child"), to: f.name(t, obj("ob-cube"))},
		{name: "onto itself", from: obj("ob-cube"), to: f.name(t, obj("ob-cube"))},
		{name: "outside the name column", from: obj("ob-sphere"), to: outline.Point{X: f.rect(t, obj("ob-cube")).XStart + 5, Y: f.name(t, obj("ob-cube")).Y}},
		{name: "onto a collection", from: obj("ob-sphere"), to: f.name(t, coll("coll-b"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _ := tr.Find(tt.from)
			s := &drag.Session{Elem: tt.from, IDs: []drag.DragID{{Elem: tt.from}}, DragNode: id}
			out := ParentDrop{}.Validate(f.env, s, Event{Pos: tt.to}, outline.NewOverlay())
			assert.False(t, out.OK)
		})
	}
}

func TestParentDrop_CycleThroughSeveralLevels(t *testing.T) {
	f := newFixture(t, outline.DefaultView())
	// ob-sphere -> ob-child -> ob-cube
	res := f.drop(t, obj("ob-sphere"), f.name(t, obj("ob-child")), Mods{})
	require.True(t, res.Changed)

	f.env.Tree = outline.Build(f.env.DB, outline.DefaultView())
	s := &drag.Session{Elem: obj("ob-cube"), IDs: []drag.DragID{{Elem: obj("ob-cube")}}}
	out := ParentDrop{}.Validate(f.env, s, Event{Pos: f.name(t, obj("ob-sphere"))}, outline.NewOverlay())
	assert.False(t, out.OK, "grandchild can't become the parent")
	assert.Nil(t, object(t, f.env.DB, "ob-cube").ParentID)
}

func TestParentDrop_AfterMovesIntoTargetCollection(t *testing.T) {
	f := newFixture(t, outline.DefaultView())

	out, kind := f.probe(t, obj("ob-cam"), f.bottom(t, obj("ob-rig")), Mods{})
	require.Equal(t, KindParentDrop, kind)
	assert.Equal(t, outline.InsertAfter, out.Insert)
	assert.Equal(t, "Reorder object", out.Tooltip)

	res := f.drop(t, obj("ob-cam"), f.bottom(t, obj("ob-rig")), Mods{})
	require.True(t, res.Changed)

	assert.Equal(t, []string{"ob-cube", "ob-child", "ob-rig", "ob-cam"}, collection(t, f.env.DB, "coll-a").Objects)
	assert.NotContains(t, collection(t, f.env.DB, "coll-master-main").Objects, "ob-cam")
	assert.Nil(t, object(t, f.env.DB, "ob-cam").ParentID)
	assert.True(t, f.sink.Has(notify.CategoryScene, notify.TopicLayer))
}

func TestParentDrop_SortedViewForcesInto(t *testing.T) {
	v := outline.DefaultView()
	v.Sort = outline.SortAlpha
	f := newFixture(t, v)

	out, kind := f.probe(t, obj("ob-cam"), f.bottom(t, obj("ob-rig")), Mods{})
	require.Equal(t, KindParentDrop, kind)
	assert.Equal(t, outline.InsertInto, out.Insert)
}

func TestParentClear(t *testing.T) {
	f := newFixture(t, outline.DefaultView())
	world := f.env.DB.WorldLocation("ob-child")

	_, kind := f.probe(t, obj("ob-child"), outline.Point{X: 100, Y: 5000}, Mods{})
	require.Equal(t, KindParentClear, kind)

	res := f.drop(t, obj("ob-child"), outline.Point{X: 100, Y: 5000}, Mods{Alt: true})
	require.True(t, res.Changed)
	ob := object(t, f.env.DB, "ob-child")
	assert.Nil(t, ob.ParentID)
	assert.Equal(t, world, ob.Location)
	assert.Equal(t, 1, f.sink.RelationsTags)
}

func TestParentClear_HoveredRows(t *testing.T) {
	f := newFixture(t, outline.DefaultView())
	s := &drag.Session{Elem: obj("ob-child"), IDs: []drag.DragID{{Elem: obj("ob-child")}}}
	modBase := outline.Elem{Kind: outline.ElemModifierBase, Owner: "ob-cube"}
	bevel := mod("ob-cube", "mod-bevel")

	tests := []struct {
		name string
		at   outline.Point
		mods Mods
		want bool
	}{
		{name: "object row", at: f.name(t, obj("ob-sphere")), want: false},
		{name: "modifier base", at: f.name(t, modBase), want: true},
		{name: "modifier item", at: f.name(t, bevel), want: false},
		{name: "collection", at: f.name(t, coll("coll-b")), want: false},
		{name: "collection with shift", at: f.name(t, coll("coll-b")), mods: Mods{Shift: true}, want: true},
		{name: "material", at: f.name(t, outline.Elem{Kind: outline.ElemMaterial, ID: "mat-red", Owner: "ob-cube"}), want: true},
		{name: "nothing", at: outline.Point{X: 100, Y: 5000}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParentClear{}.Validate(f.env, s, Event{Pos: tt.at, Mods: tt.mods}, outline.NewOverlay())
			assert.Equal(t, tt.want, out.OK)
		})
	}

	unparented := &drag.Session{Elem: obj("ob-cube"), IDs: []drag.DragID{{Elem: obj("ob-cube")}}}
	out := ParentClear{}.Validate(f.env, unparented, Event{Pos: outline.Point{Y: 5000}}, outline.NewOverlay())
	assert.False(t, out.OK, "object without parent")
}

func TestSceneDrop(t *testing.T) {
	v := outline.DefaultView()
	v.Mode = outline.ScenesMode
	f := newFixture(t, v)

	_, kind := f.probe(t, obj("ob-cube"), f.name(t, scene("sc-alt")), Mods{})
	require.Equal(t, KindSceneDrop, kind)

	res := f.drop(t, obj("ob-cube"), f.name(t, scene("sc-alt")), Mods{})
	require.True(t, res.Changed)
	alt, _ := f.env.DB.FindScene("sc-alt")
	assert.Equal(t, []string{"ob-cube"}, alt.MasterCollection.Objects)
	assert.Contains(t, alt.Selected, "ob-cube")
	assert.Equal(t, notify.RecalcSelect, f.sink.IDTags["sc-alt"])
	assert.True(t, f.sink.Has(notify.CategoryScene, notify.TopicObjectSelect))

	// Already in the scene.
	f.env.Tree = outline.Build(f.env.DB, v)
	s := &drag.Session{Elem: obj("ob-cube"), IDs: []drag.DragID{{Elem: obj("ob-cube")}}}
	out := SceneDrop{}.Validate(f.env, s, Event{Pos: f.name(t, scene("sc-main"))}, outline.NewOverlay())
	assert.False(t, out.OK)
}

func TestMaterialDrop(t *testing.T) {
	f := newFixture(t, outline.DefaultView())
	red := outline.Elem{Kind: outline.ElemMaterial, ID: "mat-red", Owner: "ob-cube"}

	res := f.drop(t, red, f.name(t, obj("ob-sphere")), Mods{})
	require.Equal(t, KindMaterialDrop, res.Kind)
	assert.Equal(t, []string{"mat-red"}, object(t, f.env.DB, "ob-sphere").Materials)
	assert.True(t, f.sink.Has(notify.CategoryMaterial, notify.TopicShadingLinks))
	assert.True(t, f.sink.Has(notify.CategorySpace, notify.TopicView3D))

	gp := &drag.Session{Elem: outline.Elem{Kind: outline.ElemMaterial, ID: "mat-gp"}}
	assert.False(t, MaterialDrop{}.Validate(f.env, gp, Event{Pos: f.name(t, obj("ob-sphere"))}, outline.NewOverlay()).OK,
		"grease pencil material on a mesh")
	assert.True(t, MaterialDrop{}.Validate(f.env, gp, Event{Pos: f.name(t, obj("ob-gp"))}, outline.NewOverlay()).OK)

	redAgain := &drag.Session{Elem: red}
	assert.False(t, MaterialDrop{}.Validate(f.env, redAgain, Event{Pos: f.name(t, obj("ob-lib"))}, outline.NewOverlay()).OK,
		"linked object")
	assert.False(t, slices.Contains(object(t, f.env.DB, "ob-lib").Materials, "mat-red"))
}
