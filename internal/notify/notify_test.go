package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch_DedupesAndFlushesOnce(t *testing.T) {
	b := NewBatch()
	b.Add(CategoryObject, TopicParent, "ob-cube")
	b.Add(CategoryObject, TopicParent, "ob-cube")
	b.Add(CategoryScene, TopicLayer, "")
	b.TagRelations()
	b.TagRelations()
	b.TagID("ob-cube", RecalcTransform)
	b.TagID("ob-cube", RecalcCopyOnWrite)
	b.TagID("", RecalcTransform)
	b.TagID("ob-cam", 0)

	var rec Recorder
	b.Flush(&rec)

	assert.Len(t, rec.Notes, 2)
	assert.Equal(t, 1, rec.RelationsTags)
	assert.Equal(t, map[string]Recalc{"ob-cube": RecalcTransform | RecalcCopyOnWrite}, rec.IDTags)
	assert.True(t, rec.Has(CategoryObject, TopicParent))
	assert.False(t, rec.Has(CategoryObject, TopicModifier))

	// Flushing resets the batch.
	assert.True(t, b.Empty())
	b.Flush(&rec)
	assert.Len(t, rec.Notes, 2)
}

func TestBatch_FlushNilSink(t *testing.T) {
	b := NewBatch()
	b.Add(CategoryMaterial, TopicShadingLinks, "mat-red")
	b.Flush(nil)
	assert.True(t, b.Empty())
}

func TestMulti_FansOut(t *testing.T) {
	var a, c Recorder
	m := Multi{&a, &c, LogSink{}}
	m.Notify(Note{Category: CategorySpace, Topic: TopicView3D})
	m.TagRelations()
	m.TagID("ob-cube", RecalcSelect)

	for _, r := range []*Recorder{&a, &c} {
		assert.Len(t, r.Notes, 1)
		assert.Equal(t, 1, r.RelationsTags)
		assert.Equal(t, RecalcSelect, r.IDTags["ob-cube"])
	}
}

func TestRecalc_String(t *testing.T) {
	assert.Equal(t, "none", Recalc(0).String())
	assert.Equal(t, "transform|copy_on_write", (RecalcTransform | RecalcCopyOnWrite).String())
}
