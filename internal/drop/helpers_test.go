package drop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"outliner-cli/internal/model"
	"outliner-cli/internal/notify"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
	"outliner-cli/internal/testutil"
)

type fixture struct {
	env  *Env
	sink *notify.Recorder
	mgr  *Manager
}

func newFixture(t *testing.T, v outline.View) *fixture {
	t.Helper()
	return newFixtureDB(t, testutil.Scene(), v)
}

func newFixtureDB(t *testing.T, db *store.DB, v outline.View) *fixture {
	t.Helper()
	sink := &notify.Recorder{}
	env := &Env{
		DB:     db,
		Tree:   outline.Build(db, v),
		Sink:   sink,
		Logger: testutil.NewTestLogger(t),
	}
	return &fixture{env: env, sink: sink, mgr: NewManager(env, nil)}
}

func (f *fixture) rect(t *testing.T, e outline.Elem) outline.Rect {
	t.Helper()
	id, ok := f.env.Tree.Find(e)
	require.True(t, ok, "row %s not in tree", e)
	return f.env.Tree.Node(id).Rect
}

// name is a point over the row's name, vertically centered (the Into band).
func (f *fixture) name(t *testing.T, e outline.Elem) outline.Point {
	r := f.rect(t, e)
	return outline.Point{X: r.XStart + 2*f.env.Tree.View().UnitX + 10, Y: (r.Top + r.Bottom) / 2}
}

func (f *fixture) top(t *testing.T, e outline.Elem) outline.Point {
	p := f.name(t, e)
	p.Y = f.rect(t, e).Top + 1
	return p
}

func (f *fixture) bottom(t *testing.T, e outline.Elem) outline.Point {
	p := f.name(t, e)
	p.Y = f.rect(t, e).Bottom - 1
	return p
}

// drop runs a whole gesture from one row to a point and returns the result.
func (f *fixture) drop(t *testing.T, from outline.Elem, to outline.Point, mods Mods) Result {
	t.Helper()
	require.True(t, f.mgr.Begin(f.name(t, from)), "nothing draggable at %s", from)
	return f.mgr.Release(context.Background(), Event{Pos: to, Mods: mods})
}

// probe starts a drag and reports which kind would take it at to.
func (f *fixture) probe(t *testing.T, from outline.Elem, to outline.Point, mods Mods) (Outcome, string) {
	t.Helper()
	require.True(t, f.mgr.Begin(f.name(t, from)), "nothing draggable at %s", from)
	defer f.mgr.Cancel()
	out, kind, _ := f.mgr.Move(Event{Pos: to, Mods: mods})
	return out, kind
}

func obj(id string) outline.Elem  { return outline.Elem{Kind: outline.ElemObject, ID: id} }
func coll(id string) outline.Elem { return outline.Elem{Kind: outline.ElemCollection, ID: id} }
func scene(id string) outline.Elem {
	return outline.Elem{Kind: outline.ElemScene, ID: id}
}
func mod(owner, id string) outline.Elem {
	return outline.Elem{Kind: outline.ElemModifier, ID: id, Owner: owner}
}

func object(t *testing.T, db *store.DB, id string) *model.Object {
	t.Helper()
	ob, ok := db.FindObject(id)
	require.True(t, ok, "object %s missing", id)
	return ob
}

func collection(t *testing.T, db *store.DB, id string) *model.Collection {
	t.Helper()
	c, ok := db.FindCollection(id)
	require.True(t, ok, "collection %s missing", id)
	return c
}
