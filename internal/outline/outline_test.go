package outline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outliner-cli/internal/store"
	"outliner-cli/internal/testutil"
)

func row(t *testing.T, tr *Tree, e Elem) NodeID {
	t.Helper()
	id, ok := tr.Find(e)
	require.True(t, ok, "row %s not in tree", e)
	return id
}

func obj(id string) Elem { return Elem{Kind: ElemObject, ID: id} }
func coll(id string) Elem { return Elem{Kind: ElemCollection, ID: id} }

func TestBuild_ViewLayerLayout(t *testing.T) {
	tr := Build(testutil.Scene(), DefaultView())

	require.Len(t, tr.Roots(), 1)
	root := tr.Node(tr.Roots()[0])
	assert.Equal(t, coll("coll-master-main"), root.Elem)
	assert.Equal(t, 28, len(tr.Visible()))

	// Rows are stacked top-down, RowHeight apart, indented by depth.
	for i, id := range tr.Visible() {
		n := tr.Node(id)
		assert.Equal(t, float64(i)*20, n.Rect.Top, "row %d top", i)
		assert.Equal(t, n.Rect.Top+20, n.Rect.Bottom)
		assert.Equal(t, float64(n.Depth)*20, n.Rect.XStart)
		assert.Equal(t, 300.0, n.Rect.XEnd)
	}

	// ob-child shares coll-a with its parent and is nested below it.
	child := row(t, tr, obj("ob-child"))
	cube := row(t, tr, obj("ob-cube"))
	assert.Equal(t, cube, tr.ParentOf(child))

	// Sibling indexes follow the stack order.
	bevel := row(t, tr, Elem{Kind: ElemModifier, ID: "mod-bevel", Owner: "ob-cube"})
	assert.Equal(t, 1, tr.Node(bevel).Index)
	assert.Equal(t, row(t, tr, Elem{Kind: ElemModifier, ID: "mod-subsurf", Owner: "ob-cube"}), tr.PrevSibling(bevel))
	array := row(t, tr, Elem{Kind: ElemModifier, ID: "mod-array", Owner: "ob-cube"})
	assert.Equal(t, NoNode, tr.NextSibling(array))
}

func TestBuild_ClosedRowsHideSubtree(t *testing.T) {
	v := DefaultView()
	v.Closed = map[string]bool{coll("coll-a").Key(): true}
	tr := Build(testutil.Scene(), v)

	assert.Equal(t, 11, len(tr.Visible()))
	b := tr.Node(row(t, tr, coll("coll-b")))
	assert.Equal(t, 40.0, b.Rect.Top)

	sphere := tr.Node(row(t, tr, obj("ob-sphere")))
	assert.False(t, sphere.Visible)
}

func TestBuild_AlphaSortOrdersObjects(t *testing.T) {
	v := DefaultView()
	v.Sort = SortAlpha
	tr := Build(testutil.Scene(), v)

	b := tr.Node(row(t, tr, coll("coll-b")))
	var got []string
	for _, id := range b.Children {
		if e := tr.Elem(id); e.Kind == ElemObject {
			got = append(got, e.ID)
		}
	}
	assert.Equal(t, []string{"ob-lib", "ob-gp"}, got)
}

func TestBuild_ScenesMode(t *testing.T) {
	v := DefaultView()
	v.Mode = ScenesMode
	tr := Build(testutil.Scene(), v)

	require.Len(t, tr.Roots(), 2)
	main := tr.Roots()[0]
	assert.Equal(t, Elem{Kind: ElemScene, ID: "sc-main"}, tr.Elem(main))

	collID, at, ok := tr.CollectionAncestor(main)
	require.True(t, ok)
	assert.Equal(t, "coll-master-main", collID)
	assert.Equal(t, main, at)

	cube := row(t, tr, obj("ob-cube"))
	sc, ok := tr.SceneAncestor(cube)
	require.True(t, ok)
	assert.Equal(t, main, sc)
}

func TestFindNodeAt(t *testing.T) {
	tr := Build(testutil.Scene(), DefaultView())

	id, ok := tr.FindNodeAt(65)
	require.True(t, ok)
	assert.Equal(t, obj("ob-sphere"), tr.Elem(id))

	id, ok = tr.FindNodeAt(80) // bottom edge belongs to the next row
	require.True(t, ok)
	assert.Equal(t, obj("ob-cube"), tr.Elem(id))

	_, ok = tr.FindNodeAt(-1)
	assert.False(t, ok)
	_, ok = tr.FindNodeAt(28 * 20)
	assert.False(t, ok)
}

func TestFindInsertionPoint(t *testing.T) {
	tr := Build(testutil.Scene(), DefaultView())
	sphere := row(t, tr, obj("ob-sphere")) // y 60..80, no children
	collA := row(t, tr, coll("coll-a"))    // y 20..40, open
	collA1 := row(t, tr, coll("coll-a1"))
	root := tr.Roots()[0]

	tests := []struct {
		name   string
		y      float64
		want   NodeID
		insert InsertType
	}{
		{name: "top quarter of childless row", y: 62, want: sphere, insert: InsertBefore},
		{name: "middle band", y: 70, want: sphere, insert: InsertInto},
		{name: "bottom quarter", y: 76, want: sphere, insert: InsertAfter},
		{name: "top quarter of open row targets first child", y: 21, want: collA1, insert: InsertBefore},
		{name: "middle of open row", y: 30, want: collA, insert: InsertInto},
		{name: "above first row", y: -5, want: root, insert: InsertBefore},
		{name: "below last row", y: 1000, want: root, insert: InsertAfter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, insert, ok := tr.FindInsertionPoint(Point{X: 100, Y: tt.y})
			require.True(t, ok)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, tt.insert, insert)
		})
	}
}

// Rows A, B, C of height H; a pointer 0.1H below B's top resolves to (B, Before).
func TestFindInsertionPoint_TopQuarterOfClosedRow(t *testing.T) {
	v := DefaultView()
	v.Closed = map[string]bool{
		coll("coll-a").Key(): true,
		coll("coll-b").Key(): true,
	}
	tr := Build(testutil.Scene(), v)
	b := row(t, tr, coll("coll-b"))
	n := tr.Node(b)

	id, insert, ok := tr.FindInsertionPoint(Point{Y: n.Rect.Top + 0.1*v.RowHeight})
	require.True(t, ok)
	if id != b || insert != InsertBefore {
		t.Fatalf("expected (%d, before); got (%d, %s)", b, id, insert)
	}
}

func TestFindInsertionPoint_Deterministic(t *testing.T) {
	db := testutil.Scene()
	a := Build(db, DefaultView())
	b := Build(db, DefaultView())
	for y := -10.0; y < 600; y += 3.5 {
		id1, in1, ok1 := a.FindInsertionPoint(Point{X: 50, Y: y})
		id2, in2, ok2 := a.FindInsertionPoint(Point{X: 50, Y: y})
		id3, in3, ok3 := b.FindInsertionPoint(Point{X: 50, Y: y})
		if id1 != id2 || in1 != in2 || ok1 != ok2 || id1 != id3 || in1 != in3 || ok1 != ok3 {
			t.Fatalf("y=%v: results differ: (%d %s %v) (%d %s %v) (%d %s %v)", y, id1, in1, ok1, id2, in2, ok2, id3, in3, ok3)
		}
	}
}

func TestFindInsertionPoint_EmptyTree(t *testing.T) {
	tr := Build(&store.DB{}, DefaultView())
	_, _, ok := tr.FindInsertionPoint(Point{Y: 0})
	assert.False(t, ok)
	_, ok = tr.FindDropzone(Point{X: 50, Y: 0}, true)
	assert.False(t, ok)
}

func TestFindDropzone(t *testing.T) {
	tr := Build(testutil.Scene(), DefaultView())
	cube := row(t, tr, obj("ob-cube")) // depth 2: XStart 40, y 80..100

	id, ok := tr.FindDropzone(Point{X: 61, Y: 85}, true)
	require.True(t, ok)
	assert.Equal(t, cube, id)

	_, ok = tr.FindDropzone(Point{X: 50, Y: 85}, true)
	assert.False(t, ok, "pointer over the icon column is not a dropzone")

	_, ok = tr.FindDropzone(Point{X: 61, Y: 85}, false)
	assert.False(t, ok, "only roots are searched without children")

	id, ok = tr.FindDropzone(Point{X: 25, Y: 5}, false)
	require.True(t, ok)
	assert.Equal(t, tr.Roots()[0], id)

	assert.True(t, tr.InCloseToggle(cube, 45))
	assert.False(t, tr.InCloseToggle(cube, 65))
}

func TestAncestors(t *testing.T) {
	tr := Build(testutil.Scene(), DefaultView())
	ik := row(t, tr, Elem{Kind: ElemConstraint, ID: "con-ik", Owner: "ob-rig", Bone: "spine"})

	ob, ok := tr.ObjectAncestor(ik)
	require.True(t, ok)
	assert.Equal(t, obj("ob-rig"), tr.Elem(ob))

	bone, ok := tr.BoneAncestor(ik)
	require.True(t, ok)
	assert.Equal(t, "spine", tr.Elem(bone).Bone)

	collID, _, ok := tr.CollectionAncestor(ik)
	require.True(t, ok)
	assert.Equal(t, "coll-a", collID)

	_, ok = tr.SceneAncestor(ik)
	assert.False(t, ok, "view layer mode has no scene rows")

	// Inclusive: an object row is its own object ancestor.
	self, ok := tr.ObjectAncestor(ob)
	require.True(t, ok)
	assert.Equal(t, ob, self)

	_, ok = tr.NearestAncestor(NoNode, func(*Node) bool { return true })
	assert.False(t, ok)
}

func TestSelection(t *testing.T) {
	v := DefaultView()
	v.Selected = map[string]bool{obj("ob-cube").Key(): true, obj("ob-cam").Key(): true}
	tr := Build(testutil.Scene(), v)

	sel := tr.Selected()
	require.Len(t, sel, 2)
	assert.Equal(t, obj("ob-cube"), tr.Elem(sel[0]))
	assert.Equal(t, obj("ob-cam"), tr.Elem(sel[1]))

	sphere := row(t, tr, obj("ob-sphere"))
	tr.SelectOnly(sphere)
	assert.Equal(t, []NodeID{sphere}, tr.Selected())
	assert.Equal(t, map[string]bool{obj("ob-sphere").Key(): true}, tr.SelectionKeys())
}

func TestOverlay_Changed(t *testing.T) {
	prev := NewOverlay()
	prev.MarkInsert(3, InsertBefore)
	prev.MarkTarget(5)

	cur := NewOverlay()
	cur.MarkInsert(3, InsertBefore)
	cur.MarkInsert(7, InsertInto)

	assert.False(t, cur.Equal(prev))
	assert.Equal(t, []NodeID{5, 7}, cur.Changed(prev))

	same := cur.Clone()
	assert.True(t, same.Equal(cur))
	assert.Empty(t, same.Changed(cur))

	cur.Clear()
	assert.Empty(t, cur)
}

func TestElem_JSONUsesKindNames(t *testing.T) {
	b, err := json.Marshal(Elem{Kind: ElemModifier, ID: "mod-bevel", Owner: "ob-cube"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"modifier","id":"mod-bevel","owner":"ob-cube"}`, string(b))

	var e Elem
	require.NoError(t, json.Unmarshal(b, &e))
	assert.Equal(t, ElemModifier, e.Kind)
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"bone"}`), &e))

	var ins InsertType
	require.NoError(t, ins.UnmarshalText([]byte("after")))
	assert.Equal(t, InsertAfter, ins)
}
