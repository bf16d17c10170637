package outline

// NearestAncestor returns the closest row, starting at id itself, satisfying pred.
// The walk follows arena parent links and takes at most Len() steps.
func (t *Tree) NearestAncestor(id NodeID, pred func(n *Node) bool) (NodeID, bool) {
	if t == nil {
		return NoNode, false
	}
	for steps := 0; steps <= len(t.nodes); steps++ {
		n := t.Node(id)
		if n == nil {
			return NoNode, false
		}
		if pred(n) {
			return id, true
		}
		id = n.Parent
	}
	return NoNode, false
}

func (t *Tree) ParentOf(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNode
}

func (t *Tree) IsCollectionRow(id NodeID) bool {
	n := t.Node(id)
	return n != nil && n.Elem.Kind == ElemCollection
}

func kindIs(k ElemKind) func(n *Node) bool {
	return func(n *Node) bool { return n.Elem.Kind == k }
}

// CollectionAncestor resolves the collection a row lives in: the nearest collection row,
// or the master collection of the nearest scene row.
func (t *Tree) CollectionAncestor(id NodeID) (string, NodeID, bool) {
	at, ok := t.NearestAncestor(id, func(n *Node) bool {
		return n.Elem.Kind == ElemCollection || n.Elem.Kind == ElemScene
	})
	if !ok {
		return "", NoNode, false
	}
	e := t.nodes[at].Elem
	if e.Kind == ElemScene {
		master, ok := t.masters[e.ID]
		return master, at, ok
	}
	return e.ID, at, true
}

func (t *Tree) ObjectAncestor(id NodeID) (NodeID, bool) {
	return t.NearestAncestor(id, kindIs(ElemObject))
}

func (t *Tree) BoneAncestor(id NodeID) (NodeID, bool) {
	return t.NearestAncestor(id, kindIs(ElemPoseChannel))
}

func (t *Tree) SceneAncestor(id NodeID) (NodeID, bool) {
	return t.NearestAncestor(id, kindIs(ElemScene))
}

// MasterOf returns the master collection of a scene shown in the tree.
func (t *Tree) MasterOf(sceneID string) (string, bool) {
	m, ok := t.masters[sceneID]
	return m, ok
}
