// Package drop resolves where a drag would land and carries out the drop.
//
// Each drop kind is a Dropper: Validate runs on every pointer move and decides whether the
// kind applies (recording the target on the session), Apply performs the scene edit when
// the gesture ends. Kinds are probed in registry order and the first that validates wins.
package drop

import (
	"errors"
	"log/slog"

	"outliner-cli/internal/drag"
	"outliner-cli/internal/mutate"
	"outliner-cli/internal/notify"
	"outliner-cli/internal/outline"
	"outliner-cli/internal/store"
)

// Mods are the modifier keys held during the gesture.
type Mods struct {
	Shift bool `json:"shift,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Alt   bool `json:"alt,omitempty"`
}

type Event struct {
	Pos  outline.Point `json:"pos"`
	Mods Mods          `json:"mods"`
}

// Env is what droppers read and write: the scene graph, the tree built from it, and where
// change notifications go.
type Env struct {
	DB     *store.DB
	Tree   *outline.Tree
	Sink   notify.Sink
	Logger *slog.Logger
}

func (e *Env) logger() *slog.Logger {
	if e == nil || e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e *Env) view() outline.View {
	if e == nil || e.Tree == nil {
		return outline.DefaultView()
	}
	return e.Tree.View()
}

// Outcome is the verdict of one validation pass. Rejections are not errors.
type Outcome struct {
	OK      bool               `json:"ok"`
	Insert  outline.InsertType `json:"insert"`
	Tooltip string             `json:"tooltip,omitempty"`
	Target  outline.NodeID     `json:"target"`
	Action  drag.Action        `json:"action,omitempty"`
}

func reject() Outcome { return Outcome{Target: outline.NoNode} }

type Status string

const (
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

type Report struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// ItemResult is the fate of one dragged entity. Each item's edit is all-or-nothing.
type ItemResult struct {
	Elem    outline.Elem `json:"elem"`
	Applied bool         `json:"applied"`
	Reason  string       `json:"reason,omitempty"`
	// NewID is set when the drop created an entity (stack item copies).
	NewID string `json:"newId,omitempty"`
}

type Result struct {
	Kind    string       `json:"kind"`
	Status  Status       `json:"status"`
	Changed bool         `json:"changed"`
	Items   []ItemResult `json:"items,omitempty"`
	Reports []Report     `json:"reports,omitempty"`
	// Expand lists row keys (outline.Elem.Key) the host should open after the drop.
	Expand []string `json:"expand,omitempty"`
}

func cancelled(kind, reason string) Result {
	r := Result{Kind: kind, Status: StatusCancelled}
	if reason != "" {
		r.Reports = append(r.Reports, Report{Level: LevelWarning, Message: reason})
	}
	return r
}

func (r *Result) applied(e outline.Elem, res mutate.Result) {
	r.Items = append(r.Items, ItemResult{Elem: e, Applied: res.Changed, Reason: unchangedReason(res)})
	r.Changed = r.Changed || res.Changed
}

func (r *Result) skip(e outline.Elem, reason string) {
	r.Items = append(r.Items, ItemResult{Elem: e, Reason: reason})
}

func (r *Result) report(level Level, msg string) {
	for _, rep := range r.Reports {
		if rep.Message == msg {
			return
		}
	}
	r.Reports = append(r.Reports, Report{Level: level, Message: msg})
}

func unchangedReason(res mutate.Result) string {
	if res.Changed {
		return ""
	}
	return "unchanged"
}

// Applied counts items whose edit went through.
func (r Result) Applied() int {
	n := 0
	for _, it := range r.Items {
		if it.Applied {
			n++
		}
	}
	return n
}

// Dropper is one drop kind.
type Dropper interface {
	Name() string
	// Validate decides whether the kind applies at ev. On success it records the target,
	// insertion type and action on s and marks hl.
	Validate(env *Env, s *drag.Session, ev Event, hl outline.Overlay) Outcome
	// Apply performs the drop resolved by the last successful Validate.
	Apply(env *Env, s *drag.Session, ev Event) Result
}

const (
	KindParentDrop     = "outliner.parent_drop"
	KindParentClear    = "outliner.parent_clear"
	KindSceneDrop      = "outliner.scene_drop"
	KindMaterialDrop   = "outliner.material_drop"
	KindUIStackDrop    = "outliner.uistack_drop"
	KindCollectionDrop = "outliner.collection_drop"
)

// Registry holds droppers in probe order.
type Registry struct {
	droppers []Dropper
}

func NewRegistry(ds ...Dropper) *Registry {
	return &Registry{droppers: ds}
}

// DefaultRegistry registers every outliner drop kind in probe order.
func DefaultRegistry() *Registry {
	return NewRegistry(
		ParentDrop{},
		ParentClear{},
		SceneDrop{},
		MaterialDrop{},
		StackDrop{},
		CollectionDrop{},
	)
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.droppers))
	for _, d := range r.droppers {
		out = append(out, d.Name())
	}
	return out
}

func (r *Registry) Find(name string) (Dropper, bool) {
	for _, d := range r.droppers {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// Resolve probes each dropper in order and returns the first that validates. hl is cleared
// before every probe so only the winner's highlight survives.
func (r *Registry) Resolve(env *Env, s *drag.Session, ev Event, hl outline.Overlay) (Dropper, Outcome, bool) {
	if s == nil {
		hl.Clear()
		return nil, reject(), false
	}
	for _, d := range r.droppers {
		hl.Clear()
		s.ResetTarget()
		out := d.Validate(env, s, ev, hl)
		if out.OK {
			return d, out, true
		}
	}
	hl.Clear()
	s.ResetTarget()
	return nil, reject(), false
}

// skipReason turns a mutation error into the reason recorded on the item.
func skipReason(err error) string {
	var ro mutate.ReadOnlyError
	var cyc mutate.CycleError
	var nf mutate.NotFoundError
	switch {
	case errors.As(err, &ro):
		return "read-only"
	case errors.As(err, &cyc):
		return "cycle"
	case errors.As(err, &nf):
		return "not found"
	case errors.Is(err, mutate.ErrNotInContainer):
		return "not in container"
	default:
		return err.Error()
	}
}

// flush delivers the batch to the env's sink.
func flush(env *Env, b *notify.Batch) {
	if env == nil || env.Sink == nil || b.Empty() {
		return
	}
	b.Flush(env.Sink)
}

const linkedObjectsReport = "Can't edit library linked object(s)"
