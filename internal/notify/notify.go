// Package notify carries change notifications and dependency invalidation out of the drop
// executors. Executors collect into a Batch and flush once, so listeners see at most one
// notification per (category, topic, entity) and one relations invalidation per drop.
package notify

import (
	"context"
	"log/slog"
	"strings"
)

type Category string

const (
	CategoryObject   Category = "object"
	CategoryScene    Category = "scene"
	CategoryMaterial Category = "material"
	CategorySpace    Category = "space"
)

type Topic string

const (
	TopicTransform    Topic = "transform"
	TopicParent       Topic = "parent"
	TopicLayer        Topic = "layer"
	TopicObjectSelect Topic = "object_select"
	TopicModifier     Topic = "modifier"
	TopicConstraint   Topic = "constraint"
	TopicEffect       Topic = "shaderfx"
	TopicShadingLinks Topic = "shading_links"
	TopicView3D       Topic = "view3d"
)

type Note struct {
	Category Category `json:"category"`
	Topic    Topic    `json:"topic"`
	EntityID string   `json:"entityId,omitempty"`
}

// Recalc flags mark which parts of an entity need re-evaluation.
type Recalc uint8

const (
	RecalcTransform Recalc = 1 << iota
	RecalcGeometry
	RecalcAnimation
	RecalcCopyOnWrite
	RecalcSelect
)

func (r Recalc) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	names := []struct {
		f Recalc
		n string
	}{
		{RecalcTransform, "transform"},
		{RecalcGeometry, "geometry"},
		{RecalcAnimation, "animation"},
		{RecalcCopyOnWrite, "copy_on_write"},
		{RecalcSelect, "select"},
	}
	for _, x := range names {
		if r&x.f != 0 {
			parts = append(parts, x.n)
		}
	}
	return strings.Join(parts, "|")
}

// Sink receives flushed notifications.
type Sink interface {
	Notify(n Note)
	// TagRelations marks the scene's relation graph stale.
	TagRelations()
	TagID(id string, r Recalc)
}

// Batch accumulates notifications during one apply.
type Batch struct {
	notes     []Note
	seen      map[Note]bool
	relations bool
	ids       map[string]Recalc
	idOrder   []string
}

func NewBatch() *Batch {
	return &Batch{seen: map[Note]bool{}, ids: map[string]Recalc{}}
}

func (b *Batch) Add(cat Category, topic Topic, entityID string) {
	n := Note{Category: cat, Topic: topic, EntityID: entityID}
	if b.seen[n] {
		return
	}
	b.seen[n] = true
	b.notes = append(b.notes, n)
}

func (b *Batch) TagRelations() { b.relations = true }

func (b *Batch) TagID(id string, r Recalc) {
	if id == "" || r == 0 {
		return
	}
	if _, ok := b.ids[id]; !ok {
		b.idOrder = append(b.idOrder, id)
	}
	b.ids[id] |= r
}

func (b *Batch) Empty() bool {
	return len(b.notes) == 0 && !b.relations && len(b.ids) == 0
}

// Flush delivers everything to s and resets the batch.
func (b *Batch) Flush(s Sink) {
	if s != nil {
		if b.relations {
			s.TagRelations()
		}
		for _, id := range b.idOrder {
			s.TagID(id, b.ids[id])
		}
		for _, n := range b.notes {
			s.Notify(n)
		}
	}
	*b = *NewBatch()
}

// Recorder is a Sink that keeps everything it receives.
type Recorder struct {
	Notes         []Note            `json:"notes"`
	RelationsTags int               `json:"relationsTags"`
	IDTags        map[string]Recalc `json:"idTags,omitempty"`
}

func (r *Recorder) Notify(n Note) { r.Notes = append(r.Notes, n) }
func (r *Recorder) TagRelations() { r.RelationsTags++ }
func (r *Recorder) TagID(id string, f Recalc) {
	if r.IDTags == nil {
		r.IDTags = map[string]Recalc{}
	}
	r.IDTags[id] |= f
}

func (r *Recorder) Has(cat Category, topic Topic) bool {
	for _, n := range r.Notes {
		if n.Category == cat && n.Topic == topic {
			return true
		}
	}
	return false
}

// LogSink writes notifications to a structured logger at debug level.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

func (l LogSink) Notify(n Note) {
	l.logger().Debug("notify", "category", n.Category, "topic", n.Topic, "entity", n.EntityID)
}

func (l LogSink) TagRelations() {
	l.logger().Debug("relations stale")
}

func (l LogSink) TagID(id string, r Recalc) {
	l.logger().LogAttrs(context.Background(), slog.LevelDebug, "recalc", slog.String("id", id), slog.String("flags", r.String()))
}

// Multi fans out to several sinks.
type Multi []Sink

func (m Multi) Notify(n Note) {
	for _, s := range m {
		s.Notify(n)
	}
}

func (m Multi) TagRelations() {
	for _, s := range m {
		s.TagRelations()
	}
}

func (m Multi) TagID(id string, r Recalc) {
	for _, s := range m {
		s.TagID(id, r)
	}
}
