package editor

import "outliner/src/model"

// Tree operations work in place on a snapshot. They leave the snapshot
// untouched when the operation does not apply (no parent, no sibling...).

func cursorNode(st *model.DocumentState) (model.Node, bool) {
	node, ok := st.Nodes[st.CursorID]
	return node, ok
}

func parentOf(st *model.DocumentState, node model.Node) (model.Node, int, bool) {
	if node.ParentID == nil {
		return model.Node{}, -1, false
	}
	parent, ok := st.Nodes[*node.ParentID]
	if !ok {
		return model.Node{}, -1, false
	}
	idx := indexOf(parent.ChildrenIDs, node.ID)
	if idx == -1 {
		return model.Node{}, -1, false
	}
	return parent, idx, true
}

func moveCursor(st *model.DocumentState, dir Direction) {
	cursor, ok := cursorNode(st)
	if !ok {
		return
	}
	switch dir {
	case Parent:
		if cursor.ParentID != nil {
			st.CursorID = *cursor.ParentID
		}
		return
	case FirstChild:
		if len(cursor.ChildrenIDs) > 0 {
			st.CursorID = cursor.ChildrenIDs[0]
		}
		return
	}
	parent, idx, ok := parentOf(st, cursor)
	if !ok {
		return
	}
	target := idx + 1
	if dir == PrevSibling {
		target = idx - 1
	}
	if target >= 0 && target < len(parent.ChildrenIDs) {
		st.CursorID = parent.ChildrenIDs[target]
	}
}

func swapSibling(st *model.DocumentState, up bool) {
	cursor, ok := cursorNode(st)
	if !ok {
		return
	}
	parent, idx, ok := parentOf(st, cursor)
	if !ok {
		return
	}
	other := idx + 1
	if up {
		other = idx - 1
	}
	if other < 0 || other >= len(parent.ChildrenIDs) {
		return
	}
	parent.ChildrenIDs[idx], parent.ChildrenIDs[other] = parent.ChildrenIDs[other], parent.ChildrenIDs[idx]
	st.Nodes[parent.ID] = parent
}

// indent moves the cursor node under its previous sibling, as last child.
func indent(st *model.DocumentState) {
	cursor, ok := cursorNode(st)
	if !ok {
		return
	}
	parent, idx, ok := parentOf(st, cursor)
	if !ok || idx == 0 {
		return
	}
	prev, ok := st.Nodes[parent.ChildrenIDs[idx-1]]
	if !ok {
		return
	}
	parent.ChildrenIDs = removeAt(parent.ChildrenIDs, idx)
	prev.ChildrenIDs = append(prev.ChildrenIDs, cursor.ID)
	cursor.ParentID = model.StringPtr(prev.ID)
	st.Nodes[parent.ID] = parent
	st.Nodes[prev.ID] = prev
	st.Nodes[cursor.ID] = cursor
}

// outdent moves the cursor node under its grandparent, right after its old
// parent.
func outdent(st *model.DocumentState) {
	cursor, ok := cursorNode(st)
	if !ok {
		return
	}
	parent, idx, ok := parentOf(st, cursor)
	if !ok {
		return
	}
	grand, parentIdx, ok := parentOf(st, parent)
	if !ok {
		return
	}
	parent.ChildrenIDs = removeAt(parent.ChildrenIDs, idx)
	grand.ChildrenIDs = insertAt(grand.ChildrenIDs, parentIdx+1, cursor.ID)
	cursor.ParentID = model.StringPtr(grand.ID)
	st.Nodes[parent.ID] = parent
	st.Nodes[grand.ID] = grand
	st.Nodes[cursor.ID] = cursor
}

// addChild appends a new empty node under the cursor and moves the cursor to it.
func addChild(st *model.DocumentState, newID string) bool {
	cursor, ok := cursorNode(st)
	if !ok {
		return false
	}
	st.Nodes[newID] = model.Node{ID: newID, ParentID: model.StringPtr(cursor.ID), ChildrenIDs: []string{}}
	cursor.ChildrenIDs = append(cursor.ChildrenIDs, newID)
	st.Nodes[cursor.ID] = cursor
	st.CursorID = newID
	return true
}

// addSibling inserts a new empty node after the cursor. On the root it adds a
// child instead.
func addSibling(st *model.DocumentState, newID string) bool {
	cursor, ok := cursorNode(st)
	if !ok {
		return false
	}
	if cursor.ParentID == nil {
		return addChild(st, newID)
	}
	parent, idx, ok := parentOf(st, cursor)
	if !ok {
		return false
	}
	st.Nodes[newID] = model.Node{ID: newID, ParentID: model.StringPtr(parent.ID), ChildrenIDs: []string{}}
	parent.ChildrenIDs = insertAt(parent.ChildrenIDs, idx+1, newID)
	st.Nodes[parent.ID] = parent
	st.CursorID = newID
	return true
}

// deleteCursor removes the cursor node and promotes its children into its
// slot. The cursor moves to the first promoted child, else the sibling now at
// the same index, else the previous sibling, else the parent.
func deleteCursor(st *model.DocumentState) {
	if st.CursorID == st.RootID {
		return
	}
	deleting, ok := cursorNode(st)
	if !ok {
		return
	}
	parent, idx, ok := parentOf(st, deleting)
	if !ok {
		return
	}
	promoted := deleting.ChildrenIDs
	children := make([]string, 0, len(parent.ChildrenIDs)-1+len(promoted))
	children = append(children, parent.ChildrenIDs[:idx]...)
	children = append(children, promoted...)
	children = append(children, parent.ChildrenIDs[idx+1:]...)
	parent.ChildrenIDs = children

	delete(st.Nodes, deleting.ID)
	st.Nodes[parent.ID] = parent
	for _, id := range promoted {
		child, ok := st.Nodes[id]
		if !ok {
			continue
		}
		child.ParentID = model.StringPtr(parent.ID)
		st.Nodes[id] = child
	}

	next := parent.ID
	switch {
	case len(promoted) > 0:
		next = promoted[0]
	case idx < len(children):
		next = children[idx]
	case idx > 0:
		next = children[idx-1]
	}
	st.CursorID = next
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}

func removeAt(items []string, idx int) []string {
	out := make([]string, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

func insertAt(items []string, idx int, value string) []string {
	out := make([]string, 0, len(items)+1)
	out = append(out, items[:idx]...)
	out = append(out, value)
	return append(out, items[idx:]...)
}
