package model

import "time"

type ObjectType string

const (
	ObjectMesh     ObjectType = "mesh"
	ObjectEmpty    ObjectType = "empty"
	ObjectArmature ObjectType = "armature"
	ObjectCamera   ObjectType = "camera"
	ObjectLight    ObjectType = "light"
	ObjectGPencil  ObjectType = "gpencil"
)

type StackKind string

const (
	StackModifier   StackKind = "modifier"
	StackConstraint StackKind = "constraint"
	StackEffect     StackKind = "effect"
)

type Object struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Type     ObjectType `json:"type" yaml:"type"`
	ParentID *string    `json:"parentId,omitempty" yaml:"parentId,omitempty"`

	// Location is relative to the parent (world space when unparented).
	Location [3]float64 `json:"location" yaml:"location"`

	// Linked marks data sourced from an external library; it is read-only here.
	Linked bool `json:"linked,omitempty" yaml:"linked,omitempty"`

	// Stack lists hold StackItem IDs. Several owners may reference the same ID (linked stacks).
	Modifiers   []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Effects     []string `json:"effects,omitempty" yaml:"effects,omitempty"`

	Pose      []PoseChannel `json:"pose,omitempty" yaml:"pose,omitempty"`
	Materials []string      `json:"materials,omitempty" yaml:"materials,omitempty"`
}

// PoseChannel is an armature bone as seen by the pose.
type PoseChannel struct {
	Name        string   `json:"name" yaml:"name"`
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

type StackItem struct {
	ID       string             `json:"id" yaml:"id"`
	Kind     StackKind          `json:"kind" yaml:"kind"`
	Name     string             `json:"name" yaml:"name"`
	Type     string             `json:"type" yaml:"type"`
	Settings map[string]float64 `json:"settings,omitempty" yaml:"settings,omitempty"`

	// GPencil marks grease pencil modifiers; they only live on grease pencil objects.
	GPencil bool `json:"gpencil,omitempty" yaml:"gpencil,omitempty"`
}

type Collection struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Linked   bool     `json:"linked,omitempty" yaml:"linked,omitempty"`
	Override bool     `json:"override,omitempty" yaml:"override,omitempty"`
	IsMaster bool     `json:"isMaster,omitempty" yaml:"isMaster,omitempty"`
	Objects  []string `json:"objects,omitempty" yaml:"objects,omitempty"`
	Children []string `json:"children,omitempty" yaml:"children,omitempty"`
}

type ViewLayer struct {
	Name string `json:"name" yaml:"name"`
	// Excluded collections (and everything only reachable through them) have no base in this layer.
	Excluded []string `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

type Scene struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Linked bool   `json:"linked,omitempty" yaml:"linked,omitempty"`

	// MasterCollection is owned by the scene and never appears in DB.Collections.
	MasterCollection Collection  `json:"masterCollection" yaml:"masterCollection"`
	ViewLayers       []ViewLayer `json:"viewLayers,omitempty" yaml:"viewLayers,omitempty"`

	// Selected holds the object IDs whose bases are selected.
	Selected []string `json:"selected,omitempty" yaml:"selected,omitempty"`
}

type Material struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Linked bool   `json:"linked,omitempty" yaml:"linked,omitempty"`
	// GPStyle materials can only be assigned to grease pencil objects.
	GPStyle bool `json:"gpStyle,omitempty" yaml:"gpStyle,omitempty"`
}

// Event is one applied drop as recorded in the journal.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	TS        time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	EntityIDs []string  `json:"entityIds"`
	Payload   any       `json:"payload"`
}
