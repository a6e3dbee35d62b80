package model

// Equality is structural: nil and empty collections compare equal and
// optional strings compare by value.

// Equal reports whether two nodes carry the same data.
func (n Node) Equal(other Node) bool {
	if n.ID != other.ID || n.Text != other.Text {
		return false
	}
	if !optionalEqual(n.ParentID, other.ParentID) || !optionalEqual(n.Color, other.Color) {
		return false
	}
	return stringsEqual(n.ChildrenIDs, other.ChildrenIDs)
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := Node{
		ID:   n.ID,
		Text: n.Text,
	}
	if n.ParentID != nil {
		out.ParentID = StringPtr(*n.ParentID)
	}
	if n.Color != nil {
		out.Color = StringPtr(*n.Color)
	}
	out.ChildrenIDs = append([]string{}, n.ChildrenIDs...)
	return out
}

// Equal reports whether two snapshots describe the same tree.
func (s DocumentState) Equal(other DocumentState) bool {
	if s.RootID != other.RootID || s.CursorID != other.CursorID {
		return false
	}
	return nodesEqual(s.Nodes, other.Nodes)
}

// Clone returns a deep copy of the snapshot.
func (s DocumentState) Clone() DocumentState {
	return DocumentState{
		RootID:   s.RootID,
		CursorID: s.CursorID,
		Nodes:    cloneNodes(s.Nodes),
	}
}

// Equal reports whether two documents have the same tree and history.
func (d Document) Equal(other Document) bool {
	if d.ID != other.ID {
		return false
	}
	if !d.State().Equal(other.State()) {
		return false
	}
	return statesEqual(d.UndoStack, other.UndoStack) && statesEqual(d.RedoStack, other.RedoStack)
}

// Clone returns a deep copy of the document, history included.
func (d Document) Clone() Document {
	return Document{
		ID:        d.ID,
		RootID:    d.RootID,
		CursorID:  d.CursorID,
		Nodes:     cloneNodes(d.Nodes),
		UndoStack: cloneStates(d.UndoStack),
		RedoStack: cloneStates(d.RedoStack),
	}
}

// Equal reports whether two workspaces are structurally identical.
func (w Workspace) Equal(other Workspace) bool {
	if w.ActiveDocID != other.ActiveDocID {
		return false
	}
	if len(w.Tabs) != len(other.Tabs) {
		return false
	}
	for i := range w.Tabs {
		if w.Tabs[i] != other.Tabs[i] {
			return false
		}
	}
	if len(w.Documents) != len(other.Documents) {
		return false
	}
	for id, doc := range w.Documents {
		theirs, ok := other.Documents[id]
		if !ok || !doc.Equal(theirs) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the workspace.
func (w Workspace) Clone() Workspace {
	out := Workspace{
		Tabs:        append([]TabRef{}, w.Tabs...),
		ActiveDocID: w.ActiveDocID,
		Documents:   make(map[string]Document, len(w.Documents)),
	}
	for id, doc := range w.Documents {
		out.Documents[id] = doc.Clone()
	}
	return out
}

func optionalEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func nodesEqual(a, b map[string]Node) bool {
	if len(a) != len(b) {
		return false
	}
	for id, node := range a {
		theirs, ok := b[id]
		if !ok || !node.Equal(theirs) {
			return false
		}
	}
	return true
}

func statesEqual(a, b []DocumentState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func cloneNodes(nodes map[string]Node) map[string]Node {
	out := make(map[string]Node, len(nodes))
	for id, node := range nodes {
		out[id] = node.Clone()
	}
	return out
}

func cloneStates(states []DocumentState) []DocumentState {
	out := make([]DocumentState, len(states))
	for i, state := range states {
		out[i] = state.Clone()
	}
	return out
}
