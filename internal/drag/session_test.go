package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner-cli/internal/model"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/testutil"
)

func pointAt(t *testing.T, tr *outline.Tree, e outline.Elem) outline.Point {
	t.Helper()
	id, ok := tr.Find(e)
	require.True(t, ok, "row %s not in tree", e)
	r := tr.Node(id).Rect
	return outline.Point{X: r.XStart + 40, Y: (r.Top + r.Bottom) / 2}
}

func obj(id string) outline.Elem  { return outline.Elem{Kind: outline.ElemObject, ID: id} }
func coll(id string) outline.Elem { return outline.Elem{Kind: outline.ElemCollection, ID: id} }

func TestStart_UnselectedObjectReplacesSelection(t *testing.T) {
	db := testutil.Scene()
	v := outline.DefaultView()
	v.Selected = map[string]bool{obj("ob-cam").Key(): true}
	tr := outline.Build(db, v)

	s := Start(tr, db, pointAt(t, tr, obj("ob-cube")))
	require.NotNil(t, s)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, []DragID{{Elem: obj("ob-cube"), FromParent: "coll-a"}}, s.IDs)
	assert.Equal(t, map[string]bool{obj("ob-cube").Key(): true}, tr.SelectionKeys())
	assert.Equal(t, outline.NoNode, s.Target)
}

func TestStart_SelectedObjectsDragTogether(t *testing.T) {
	db := testutil.Scene()
	v := outline.DefaultView()
	v.Selected = map[string]bool{
		obj("ob-cube").Key():   true,
		obj("ob-sphere").Key(): true,
		coll("coll-b").Key():   true,
	}
	tr := outline.Build(db, v)

	s := Start(tr, db, pointAt(t, tr, obj("ob-cube")))
	require.NotNil(t, s)
	assert.Equal(t, []DragID{
		{Elem: obj("ob-sphere"), FromParent: "coll-a1"},
		{Elem: obj("ob-cube"), FromParent: "coll-a"},
	}, s.Objects())
	assert.Empty(t, s.Collections(), "collections are not dragged along with objects")
}

func TestStart_NestedCollectionsStayWithAncestor(t *testing.T) {
	db := testutil.Scene()
	v := outline.DefaultView()
	v.Selected = map[string]bool{coll("coll-a").Key(): true, coll("coll-a1").Key(): true}
	tr := outline.Build(db, v)

	s := Start(tr, db, pointAt(t, tr, coll("coll-a1")))
	require.NotNil(t, s)
	assert.Equal(t, []DragID{{Elem: coll("coll-a"), FromParent: "coll-master-main"}}, s.IDs)
}

func TestStart_StackItemCarriesOwnerAndBone(t *testing.T) {
	db := testutil.Scene()
	tr := outline.Build(db, outline.DefaultView())

	ik := outline.Elem{Kind: outline.ElemConstraint, ID: "con-ik", Owner: "ob-rig", Bone: "spine"}
	s := Start(tr, db, pointAt(t, tr, ik))
	require.NotNil(t, s)
	assert.Equal(t, "ob-rig", s.OwnerObject)
	assert.Equal(t, "spine", s.OwnerBone)
	assert.Equal(t, 0, s.DragIndex)
	assert.True(t, s.IsStack())
	kind, ok := s.StackKind()
	require.True(t, ok)
	assert.Equal(t, model.StackConstraint, kind)

	bevel := outline.Elem{Kind: outline.ElemModifier, ID: "mod-bevel", Owner: "ob-cube"}
	s = Start(tr, db, pointAt(t, tr, bevel))
	require.NotNil(t, s)
	assert.Equal(t, 1, s.DragIndex)
	assert.Empty(t, s.OwnerBone)
}

func TestStart_Rejections(t *testing.T) {
	db := testutil.Scene()
	tr := outline.Build(db, outline.DefaultView())

	cube := pointAt(t, tr, obj("ob-cube"))
	id, _ := tr.Find(obj("ob-cube"))
	toggle := outline.Point{X: tr.Node(id).Rect.XStart + 5, Y: cube.Y}

	tests := []struct {
		name string
		p    outline.Point
	}{
		{name: "empty space", p: outline.Point{X: 100, Y: 5000}},
		{name: "close toggle", p: toggle},
		{name: "master collection", p: pointAt(t, tr, coll("coll-master-main"))},
		{name: "pose base", p: pointAt(t, tr, outline.Elem{Kind: outline.ElemPoseBase, Owner: "ob-rig"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := Start(tr, db, tt.p); s != nil {
				t.Fatalf("expected no session; got %+v", s)
			}
		})
	}
}

func TestStart_MasterWithoutFlagNotDraggable(t *testing.T) {
	db := testutil.Scene()
	db.Scenes[0].MasterCollection.IsMaster = false
	tr := outline.Build(db, outline.DefaultView())

	if s := Start(tr, db, pointAt(t, tr, coll("coll-master-main"))); s != nil {
		t.Fatalf("scene master must not start a drag without its flag; got %+v", s)
	}
}
